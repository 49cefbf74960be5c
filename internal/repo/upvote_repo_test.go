package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

func newUpvoteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:upvoterepo_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Thread{}, &domain.ThreadMessage{},
		&domain.ThreadUpvote{}, &domain.MessageUpvote{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestInsertUpvote_DuplicateKey(t *testing.T) {
	db := newUpvoteDB(t)
	ctx := context.Background()

	th := &domain.Thread{UserID: 1, Title: "t", Body: "b"}
	if err := db.Create(th).Error; err != nil {
		t.Fatalf("seed thread: %v", err)
	}

	if err := InsertUpvote(ctx, db, domain.TargetThread, th.ID, 5); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := InsertUpvote(ctx, db, domain.TargetThread, th.ID, 5)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on unique key, got %v", err)
	}
	// A different user is a different key.
	if err := InsertUpvote(ctx, db, domain.TargetThread, th.ID, 6); err != nil {
		t.Fatalf("other user insert: %v", err)
	}
}

func TestDeleteUpvote_ReportsRowsAffected(t *testing.T) {
	db := newUpvoteDB(t)
	ctx := context.Background()

	th := &domain.Thread{UserID: 1, Title: "t", Body: "b"}
	if err := db.Create(th).Error; err != nil {
		t.Fatalf("seed thread: %v", err)
	}
	if err := InsertUpvote(ctx, db, domain.TargetThread, th.ID, 5); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := DeleteUpvote(ctx, db, domain.TargetThread, th.ID, 5)
	if err != nil || n != 1 {
		t.Fatalf("delete existing: n=%d err=%v, want 1/nil", n, err)
	}
	// Deleting again affects nothing; the caller uses this to skip the
	// counter decrement.
	n, err = DeleteUpvote(ctx, db, domain.TargetThread, th.ID, 5)
	if err != nil || n != 0 {
		t.Fatalf("delete missing: n=%d err=%v, want 0/nil", n, err)
	}
}

func TestAdjustUpvoteCount(t *testing.T) {
	db := newUpvoteDB(t)
	ctx := context.Background()

	th := &domain.Thread{UserID: 1, Title: "t", Body: "b"}
	if err := db.Create(th).Error; err != nil {
		t.Fatalf("seed thread: %v", err)
	}

	if err := AdjustUpvoteCount(ctx, db, domain.TargetThread, th.ID, +1); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := AdjustUpvoteCount(ctx, db, domain.TargetThread, th.ID, +1); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := AdjustUpvoteCount(ctx, db, domain.TargetThread, th.ID, -1); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	var reloaded domain.Thread
	if err := db.First(&reloaded, th.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.UpvoteCount != 1 {
		t.Fatalf("upvote_count = %d, want 1", reloaded.UpvoteCount)
	}
}

func TestVotableExists_SoftDeleted(t *testing.T) {
	db := newUpvoteDB(t)
	ctx := context.Background()

	th := &domain.Thread{UserID: 1, Title: "t", Body: "b"}
	if err := db.Create(th).Error; err != nil {
		t.Fatalf("seed thread: %v", err)
	}

	exists, err := VotableExists(ctx, db, domain.TargetThread, th.ID)
	if err != nil || !exists {
		t.Fatalf("expected live thread to exist, got %v/%v", exists, err)
	}

	if err := db.Delete(&domain.Thread{}, th.ID).Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	exists, err = VotableExists(ctx, db, domain.TargetThread, th.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("soft-deleted thread must not be votable")
	}
}

func TestCountUpvotes_MatchesRows(t *testing.T) {
	db := newUpvoteDB(t)
	ctx := context.Background()

	th := &domain.Thread{UserID: 1, Title: "t", Body: "b"}
	if err := db.Create(th).Error; err != nil {
		t.Fatalf("seed thread: %v", err)
	}
	for _, uid := range []uint{5, 6, 7} {
		if err := InsertUpvote(ctx, db, domain.TargetThread, th.ID, uid); err != nil {
			t.Fatalf("insert %d: %v", uid, err)
		}
	}

	n, err := CountUpvotes(ctx, db, domain.TargetThread, th.ID)
	if err != nil || n != 3 {
		t.Fatalf("count = %d err = %v, want 3/nil", n, err)
	}
	has, err := HasUpvote(ctx, db, domain.TargetThread, th.ID, 6)
	if err != nil || !has {
		t.Fatalf("HasUpvote(6) = %v/%v, want true", has, err)
	}
	has, err = HasUpvote(ctx, db, domain.TargetThread, th.ID, 99)
	if err != nil || has {
		t.Fatalf("HasUpvote(99) = %v/%v, want false", has, err)
	}
}
