package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avialearn/go-exam-backend/internal/auth"
	"github.com/avialearn/go-exam-backend/internal/domain"
)

func newAccountDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:accsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newAccountSvc(db *gorm.DB) *AccountService {
	return &AccountService{
		DB:         db,
		Tokens:     &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour},
		BcryptCost: 4, // keep hashing fast in tests
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	db := newAccountDB(t)
	svc := newAccountSvc(db)

	u, err := svc.Register(context.Background(), "  Pilot@Example.COM ", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "pilot@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", u.Email)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("role = %q, want %q", u.Role, domain.RoleUser)
	}
	if u.PasswordHash == "longenough" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newAccountDB(t)
	svc := newAccountSvc(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "pilot@example.com", "longenough"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Same address in different casing is still taken.
	_, err := svc.Register(ctx, "PILOT@example.com", "longenough")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_WeakInput(t *testing.T) {
	db := newAccountDB(t)
	svc := newAccountSvc(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "longenough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(ctx, "pilot@example.com", "short"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("short password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	db := newAccountDB(t)
	svc := newAccountSvc(db)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "pilot@example.com", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, u, err := svc.Login(ctx, "pilot@example.com", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != reg.ID {
		t.Fatalf("login user = %d, want %d", u.ID, reg.ID)
	}

	// The issued token resolves straight back to the numeric ID.
	claim, err := svc.Tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claim.Kind != auth.ClaimWithID || claim.UserID != reg.ID {
		t.Fatalf("claim = %+v, want WithID(%d)", claim, reg.ID)
	}
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	db := newAccountDB(t)
	svc := newAccountSvc(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "pilot@example.com", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, errWrongPw := svc.Login(ctx, "pilot@example.com", "wrong-password")
	_, _, errNoUser := svc.Login(ctx, "ghost@example.com", "whatever")

	if !errors.Is(errWrongPw, ErrInvalidCredentials) || !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials, got %v / %v", errWrongPw, errNoUser)
	}
}

func TestProfile(t *testing.T) {
	db := newAccountDB(t)
	svc := newAccountSvc(db)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "pilot@example.com", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Profile(ctx, reg.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if u.Email != "pilot@example.com" {
		t.Fatalf("email = %q", u.Email)
	}

	if _, err := svc.Profile(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
