// Package services – ForumService
//
// This file implements the community forum use-cases: threads, replies,
// edits/deletes, and abuse reports. It gathers the facts the authorization
// policy needs (resolved identity, ownership, subscription validity), asks
// the pure policy functions for a decision, and then performs persistence.
//
// Gating summary: creating threads and replying require an active
// subscription; reporting requires only authentication; editing and deleting
// require authorship. Browsing is open and handled by the read methods
// without any gate.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
	"github.com/avialearn/go-exam-backend/internal/utils"
)

// SubscriptionChecker is the single fact the forum needs from the
// subscription domain. Satisfied by *SubscriptionService.
type SubscriptionChecker interface {
	// HasValidSubscription reports whether the user may create content.
	// Store failures must surface as ErrSubscriptionCheckFailed.
	HasValidSubscription(ctx context.Context, userID uint) (bool, error)
}

// ForumService coordinates forum persistence and access control.
type ForumService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Subs answers subscription-validity questions for gating.
	Subs SubscriptionChecker

	// MaxTitleRunes caps thread titles; 0 disables the check.
	MaxTitleRunes int
	// MaxBodyRunes caps thread and reply bodies; 0 disables the check.
	MaxBodyRunes int
}

// NewForumService constructs a ForumService with the default length limits.
func NewForumService(db *gorm.DB, subs SubscriptionChecker) *ForumService {
	return &ForumService{
		DB:            db,
		Subs:          subs,
		MaxTitleRunes: 255,
		MaxBodyRunes:  10000,
	}
}

// checkCreateGate verifies the subscription-backed creation policy for
// userID. userID is always non-zero here; unauthenticated requests are
// rejected by the transport layer before any service call.
func (s *ForumService) checkCreateGate(ctx context.Context, userID uint) error {
	hasSub, err := s.Subs.HasValidSubscription(ctx, userID)
	if err != nil {
		return err // ErrSubscriptionCheckFailed; deny and report retryable
	}
	if !CanCreateThread(true, hasSub) {
		return ErrSubscriptionRequired
	}
	return nil
}

func (s *ForumService) validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyContent
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return "", ErrTooLong
	}
	return body, nil
}

// CreateThread opens a new topic on behalf of userID. Requires an active
// subscription.
func (s *ForumService) CreateThread(ctx context.Context, userID uint, title, body string) (*domain.Thread, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "CreateThread",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyContent
	}
	if s.MaxTitleRunes > 0 && utf8.RuneCountInString(title) > s.MaxTitleRunes {
		return nil, ErrTooLong
	}
	body, err := s.validateBody(body)
	if err != nil {
		return nil, err
	}

	if err := s.checkCreateGate(ctx, userID); err != nil {
		return nil, err
	}
	return repo.CreateThread(ctx, s.DB, userID, title, body)
}

// Reply appends a message to a thread on behalf of userID. Requires an
// active subscription; the reply row and the thread's reply_count commit
// together.
func (s *ForumService) Reply(ctx context.Context, userID, threadID uint, body string) (*domain.ThreadMessage, error) {
	tr := otel.Tracer("services/ForumService")
	ctx, span := tr.Start(ctx, "Reply",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("thread.id", int64(threadID)),
		),
	)
	defer span.End()

	body, err := s.validateBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.checkCreateGate(ctx, userID); err != nil {
		return nil, err
	}

	var msg *domain.ThreadMessage
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetThread(ctx, tx, threadID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrThreadNotFound
			}
			return err
		}
		m, err := repo.CreateThreadMessage(ctx, tx, threadID, userID, body)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetThread returns a thread with one page of its replies and the total
// reply count.
func (s *ForumService) GetThread(ctx context.Context, threadID uint, page, pageSize int) (*domain.Thread, []domain.ThreadMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	t, err := repo.GetThread(ctx, s.DB, threadID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, 0, ErrThreadNotFound
		}
		return nil, nil, 0, err
	}

	total, err := repo.CountThreadMessages(ctx, s.DB, threadID)
	if err != nil {
		return nil, nil, 0, err
	}
	msgs, err := repo.ListThreadMessagesPage(ctx, s.DB, threadID, utils.PageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, nil, 0, err
	}
	return t, msgs, total, nil
}

// ListThreads returns a page of threads (newest first) and the total count.
func (s *ForumService) ListThreads(ctx context.Context, page, pageSize int) ([]domain.Thread, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountThreads(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Thread{}, 0, nil
	}
	items, err := repo.ListThreadsPage(ctx, s.DB, utils.PageOffset(page, pageSize), pageSize)
	return items, total, err
}

// UpdateThread edits a thread's title and body. Author-only.
func (s *ForumService) UpdateThread(ctx context.Context, userID, threadID uint, title, body string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyContent
	}
	body, err := s.validateBody(body)
	if err != nil {
		return err
	}

	t, err := repo.GetThread(ctx, s.DB, threadID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrThreadNotFound
		}
		return err
	}
	if !CanEditOrDelete(userID, t.UserID) {
		return ErrNotOwner
	}
	return repo.UpdateThread(ctx, s.DB, threadID, userID, title, body)
}

// DeleteThread soft-deletes a thread. Author-only.
func (s *ForumService) DeleteThread(ctx context.Context, userID, threadID uint) error {
	t, err := repo.GetThread(ctx, s.DB, threadID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrThreadNotFound
		}
		return err
	}
	if !CanEditOrDelete(userID, t.UserID) {
		return ErrNotOwner
	}
	return repo.DeleteThread(ctx, s.DB, threadID, userID)
}

// UpdateMessage edits a reply body. Author-only.
func (s *ForumService) UpdateMessage(ctx context.Context, userID, messageID uint, body string) error {
	body, err := s.validateBody(body)
	if err != nil {
		return err
	}

	m, err := repo.GetThreadMessage(ctx, s.DB, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if !CanEditOrDelete(userID, m.UserID) {
		return ErrNotOwner
	}
	return repo.UpdateThreadMessage(ctx, s.DB, messageID, userID, body)
}

// DeleteMessage soft-deletes a reply and adjusts the thread's reply_count in
// the same transaction. Author-only.
func (s *ForumService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	m, err := repo.GetThreadMessage(ctx, s.DB, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if !CanEditOrDelete(userID, m.UserID) {
		return ErrNotOwner
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.DeleteThreadMessage(ctx, tx, messageID, userID)
	})
}

// Report flags a thread or reply for moderation. Any authenticated user may
// report; a second report of the same entity by the same user yields
// ErrDuplicateReport.
func (s *ForumService) Report(ctx context.Context, userID uint, kind domain.VoteTarget, targetID uint, reason string) (*domain.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyContent
	}
	if !CanReport(userID != 0) {
		return nil, ErrUnauthenticated
	}

	exists, err := repo.VotableExists(ctx, s.DB, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEntityNotFound
	}

	r, err := repo.CreateReport(ctx, s.DB, kind, targetID, userID, reason)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateReport
		}
		return nil, err
	}
	return r, nil
}
