// Package services – ExamService
//
// This file implements the study flows: browsing the aircraft catalog, the
// practice tests under each aircraft, fetching a test's questions for a
// sitting, and scoring a finished attempt against the test's pass mark.
//
// Browsing is open to any authenticated user; taking tests requires an
// active subscription covering content access, checked the same way the
// forum gates creation.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
	"github.com/avialearn/go-exam-backend/internal/utils"
)

// ExamService implements catalog browsing and attempt scoring.
type ExamService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Subs gates test sittings on subscription validity.
	Subs SubscriptionChecker
	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

func (s *ExamService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ListAircraft returns the full aircraft catalog.
func (s *ExamService) ListAircraft(ctx context.Context) ([]domain.Aircraft, error) {
	return repo.ListAircraft(ctx, s.DB)
}

// ListTests returns the practice tests defined for one aircraft.
func (s *ExamService) ListTests(ctx context.Context, aircraftID uint) ([]domain.PracticeTest, error) {
	if _, err := repo.GetAircraft(ctx, s.DB, aircraftID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return repo.ListTestsByAircraft(ctx, s.DB, aircraftID)
}

// StartTest returns a test definition together with its questions, ready for
// a sitting. The correct answers never serialize (the Answer field is
// json-hidden), so handing the slice to the HTTP layer is safe. Requires an
// active subscription.
func (s *ExamService) StartTest(ctx context.Context, userID, testID uint) (*domain.PracticeTest, []domain.Question, error) {
	tr := otel.Tracer("services/ExamService")
	ctx, span := tr.Start(ctx, "StartTest",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("test.id", int64(testID)),
		),
	)
	defer span.End()

	hasSub, err := s.Subs.HasValidSubscription(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !hasSub {
		return nil, nil, ErrSubscriptionRequired
	}

	t, err := repo.GetPracticeTest(ctx, s.DB, testID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrTestNotFound
		}
		return nil, nil, err
	}
	qs, err := repo.ListQuestions(ctx, s.DB, testID)
	if err != nil {
		return nil, nil, err
	}
	return t, qs, nil
}

// AttemptResult is the scored outcome of one submission.
type AttemptResult struct {
	AttemptID      uint `json:"attempt_id"`
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	CorrectCount   int  `json:"correct_count"`
	Passed         bool `json:"passed"`
}

// SubmitAttempt scores the given answers against the test's question set and
// records the attempt. Answers maps question ID to the chosen option index;
// unanswered questions count as wrong. The submission must cover no more
// answers than the test has questions for; stray question IDs yield
// ErrAnswerCountMismatch. Requires an active subscription.
func (s *ExamService) SubmitAttempt(ctx context.Context, userID, testID uint, answers map[uint]int, startedAt time.Time) (*AttemptResult, error) {
	tr := otel.Tracer("services/ExamService")
	ctx, span := tr.Start(ctx, "SubmitAttempt",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("test.id", int64(testID)),
		),
	)
	defer span.End()

	hasSub, err := s.Subs.HasValidSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasSub {
		return nil, ErrSubscriptionRequired
	}

	t, err := repo.GetPracticeTest(ctx, s.DB, testID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	qs, err := repo.ListQuestions(ctx, s.DB, testID)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrTestNotFound
	}

	known := make(map[uint]int, len(qs))
	for _, q := range qs {
		known[q.ID] = q.Answer
	}
	for qid := range answers {
		if _, ok := known[qid]; !ok {
			return nil, ErrAnswerCountMismatch
		}
	}

	correct := 0
	for qid, want := range known {
		if got, ok := answers[qid]; ok && got == want {
			correct++
		}
	}
	score := correct * 100 / len(qs)
	passed := score >= t.PassPercent

	now := s.now()
	if startedAt.IsZero() {
		startedAt = now
	}
	attempt := &domain.TestAttempt{
		UserID:         userID,
		TestID:         testID,
		Score:          score,
		TotalQuestions: len(qs),
		CorrectCount:   correct,
		Passed:         passed,
		StartedAt:      startedAt.UTC(),
		FinishedAt:     now,
	}
	if err := repo.CreateAttempt(ctx, s.DB, attempt); err != nil {
		return nil, err
	}

	return &AttemptResult{
		AttemptID:      attempt.ID,
		Score:          score,
		TotalQuestions: len(qs),
		CorrectCount:   correct,
		Passed:         passed,
	}, nil
}

// ListAttempts returns a page of the user's attempt history, newest first,
// plus the total count.
func (s *ExamService) ListAttempts(ctx context.Context, userID uint, page, pageSize int) ([]domain.TestAttempt, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountAttempts(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.TestAttempt{}, 0, nil
	}
	items, err := repo.ListAttemptsPage(ctx, s.DB, userID, utils.PageOffset(page, pageSize), pageSize)
	return items, total, err
}
