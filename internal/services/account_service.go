// Package services – AccountService
//
// This file implements registration, login, and profile lookup. Passwords
// are stored as bcrypt hashes only; login verification is constant-time via
// bcrypt's comparison. Successful logins mint a signed token carrying the
// numeric user ID, which is what lets later requests resolve identity
// without a store read.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/avialearn/go-exam-backend/internal/auth"
	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
)

// AccountService implements registration and authentication.
type AccountService struct {
	// DB is the database handle for user persistence.
	DB *gorm.DB
	// Tokens mints session tokens on successful login.
	Tokens *auth.Manager
	// BcryptCost overrides the hashing cost; 0 means bcrypt.DefaultCost.
	// Tests lower it to keep hashing fast.
	BcryptCost int
}

func (s *AccountService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// Register creates a user account with the standard role. Emails are
// normalized to lowercase before storage so lookups stay exact-match.
// A taken email yields ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if len(password) < 8 {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, email, string(hash), domain.RoleUser)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return u, nil
}

// Login verifies the credentials and returns a signed session token plus the
// user record. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials; callers must not be able to tell them apart.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return "", nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	return token, u, nil
}

// Profile returns the account record for a resolved user ID.
func (s *AccountService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
