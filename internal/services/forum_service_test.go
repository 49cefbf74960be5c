package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// stubSubs is a canned SubscriptionChecker.
type stubSubs struct {
	valid bool
	err   error
}

func (s stubSubs) HasValidSubscription(ctx context.Context, userID uint) (bool, error) {
	return s.valid, s.err
}

func newForumDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:forumsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Thread{}, &domain.ThreadMessage{}, &domain.Report{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newForumSvc(db *gorm.DB, subs SubscriptionChecker) *ForumService {
	return NewForumService(db, subs)
}

func TestCreateThread_RequiresSubscription(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: false})

	_, err := svc.CreateThread(context.Background(), 1, "title", "body")
	if !errors.Is(err, ErrSubscriptionRequired) {
		t.Fatalf("expected ErrSubscriptionRequired, got %v", err)
	}
}

func TestCreateThread_SubscriptionCheckFailure(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{err: ErrSubscriptionCheckFailed})

	_, err := svc.CreateThread(context.Background(), 1, "title", "body")
	if !errors.Is(err, ErrSubscriptionCheckFailed) {
		t.Fatalf("a failed check must surface as ErrSubscriptionCheckFailed, got %v", err)
	}
}

func TestCreateThread_Success(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})

	th, err := svc.CreateThread(context.Background(), 7, "  B737 hydraulics  ", "question body")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if th.Title != "B737 hydraulics" {
		t.Fatalf("title not trimmed: %q", th.Title)
	}
	if th.UserID != 7 {
		t.Fatalf("author = %d, want 7", th.UserID)
	}
}

func TestCreateThread_Validation(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})
	ctx := context.Background()

	if _, err := svc.CreateThread(ctx, 1, "   ", "body"); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("blank title: expected ErrEmptyContent, got %v", err)
	}
	if _, err := svc.CreateThread(ctx, 1, "t", "   "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("blank body: expected ErrEmptyContent, got %v", err)
	}
	if _, err := svc.CreateThread(ctx, 1, strings.Repeat("x", 300), "body"); !errors.Is(err, ErrTooLong) {
		t.Fatalf("long title: expected ErrTooLong, got %v", err)
	}
}

func TestReply_AdjustsReplyCount(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})
	ctx := context.Background()

	th, err := svc.CreateThread(ctx, 1, "t", "b")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	if _, err := svc.Reply(ctx, 2, th.ID, "first"); err != nil {
		t.Fatalf("reply 1: %v", err)
	}
	m2, err := svc.Reply(ctx, 3, th.ID, "second")
	if err != nil {
		t.Fatalf("reply 2: %v", err)
	}

	var reloaded domain.Thread
	if err := db.First(&reloaded, th.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ReplyCount != 2 {
		t.Fatalf("reply_count = %d, want 2", reloaded.ReplyCount)
	}

	// Deleting a reply brings the counter back down in the same transaction.
	if err := svc.DeleteMessage(ctx, 3, m2.ID); err != nil {
		t.Fatalf("delete reply: %v", err)
	}
	if err := db.First(&reloaded, th.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ReplyCount != 1 {
		t.Fatalf("reply_count after delete = %d, want 1", reloaded.ReplyCount)
	}
}

func TestReply_MissingThread(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})

	_, err := svc.Reply(context.Background(), 1, 999, "body")
	if !errors.Is(err, ErrThreadNotFound) {
		t.Fatalf("expected ErrThreadNotFound, got %v", err)
	}
}

func TestUpdateThread_AuthorOnly(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})
	ctx := context.Background()

	th, err := svc.CreateThread(ctx, 1, "t", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.UpdateThread(ctx, 2, th.ID, "new", "new body"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for non-author, got %v", err)
	}
	if err := svc.UpdateThread(ctx, 1, th.ID, "new", "new body"); err != nil {
		t.Fatalf("author update: %v", err)
	}

	var reloaded domain.Thread
	if err := db.First(&reloaded, th.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "new" {
		t.Fatalf("title = %q, want %q", reloaded.Title, "new")
	}
}

func TestDeleteThread_AuthorOnly(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})
	ctx := context.Background()

	th, err := svc.CreateThread(ctx, 1, "t", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteThread(ctx, 2, th.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.DeleteThread(ctx, 1, th.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Soft-deleted threads vanish from normal reads.
	if _, _, _, err := svc.GetThread(ctx, th.ID, 1, 20); !errors.Is(err, ErrThreadNotFound) {
		t.Fatalf("expected ErrThreadNotFound after delete, got %v", err)
	}
}

func TestListThreads_PaginatedNewestFirst(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.CreateThread(ctx, 1, fmt.Sprintf("thread %d", i), "b"); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	items, total, err := svc.ListThreads(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(items) != 2 {
		t.Fatalf("page size = %d, want 2", len(items))
	}
	if items[0].ID < items[1].ID {
		t.Fatalf("expected newest first ordering")
	}
}

func TestReport_DuplicateConflict(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})
	ctx := context.Background()

	th, err := svc.CreateThread(ctx, 1, "t", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Report(ctx, 2, domain.TargetThread, th.ID, "spam"); err != nil {
		t.Fatalf("first report: %v", err)
	}
	if _, err := svc.Report(ctx, 2, domain.TargetThread, th.ID, "spam again"); !errors.Is(err, ErrDuplicateReport) {
		t.Fatalf("expected ErrDuplicateReport, got %v", err)
	}
	// A different user may report the same target.
	if _, err := svc.Report(ctx, 3, domain.TargetThread, th.ID, "also spam"); err != nil {
		t.Fatalf("second user report: %v", err)
	}
}

func TestReport_MissingTarget(t *testing.T) {
	db := newForumDB(t)
	svc := newForumSvc(db, stubSubs{valid: true})

	_, err := svc.Report(context.Background(), 1, domain.TargetMessage, 999, "spam")
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}
