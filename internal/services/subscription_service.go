// Package services – SubscriptionService
//
// This file implements subscription state: the validity check that gates
// content creation in the forum, plus purchase/cancel/current operations.
//
// The validity check fails closed: a store error denies access, but is
// wrapped in ErrSubscriptionCheckFailed so the HTTP layer reports it as a
// retryable server error instead of a legitimate "no subscription" denial.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
)

// SubscriptionService implements the use-cases around subscription state.
type SubscriptionService struct {
	// DB is the database handle used for all subscription operations.
	DB *gorm.DB
	// Now returns the current time; overridable in tests. Defaults to
	// time.Now (UTC) when nil.
	Now func() time.Time
}

func (s *SubscriptionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// HasValidSubscription reports whether userID holds at least one currently
// valid subscription: status active AND end date strictly in the future.
// Any active plan satisfies community gating; the plan's module is
// intentionally not consulted.
//
// On store error the result is (false, ErrSubscriptionCheckFailed): access
// is denied, and the caller can distinguish the transient failure from a
// legitimate denial.
func (s *SubscriptionService) HasValidSubscription(ctx context.Context, userID uint) (bool, error) {
	tr := otel.Tracer("services/SubscriptionService")
	ctx, span := tr.Start(ctx, "HasValidSubscription",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	ok, err := repo.HasActiveSubscription(ctx, s.DB, userID, s.now())
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSubscriptionCheckFailed, err)
	}
	return ok, nil
}

// Subscribe purchases planID for userID, creating an active subscription
// whose window matches the plan duration. Inactive or missing plans yield
// ErrPlanNotFound.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, planID uint) (*domain.Subscription, error) {
	tr := otel.Tracer("services/SubscriptionService")
	ctx, span := tr.Start(ctx, "Subscribe",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("plan.id", int64(planID)),
		),
	)
	defer span.End()

	plan, err := repo.GetPlan(ctx, s.DB, planID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.Active {
		return nil, ErrPlanNotFound
	}

	duration := time.Duration(plan.DurationDays) * 24 * time.Hour
	return repo.CreateSubscription(ctx, s.DB, userID, planID, duration)
}

// Current returns the user's active subscription with the latest end date,
// or (nil, nil) when none is currently valid.
func (s *SubscriptionService) Current(ctx context.Context, userID uint) (*domain.Subscription, error) {
	sub, err := repo.CurrentSubscription(ctx, s.DB, userID, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// Plans lists the purchasable (active) plans.
func (s *SubscriptionService) Plans(ctx context.Context) ([]domain.Plan, error) {
	return repo.ListActivePlans(ctx, s.DB)
}

// Cancel marks the user's subscription cancelled. Ownership is enforced; a
// missing or foreign subscription yields ErrEntityNotFound.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID uint) error {
	err := repo.CancelSubscription(ctx, s.DB, subscriptionID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrEntityNotFound
	}
	return err
}
