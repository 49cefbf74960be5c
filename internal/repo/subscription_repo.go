// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Subscription model.
//
// Error semantics follow the package convention: ErrNotFound for missing
// rows, raw gorm errors otherwise. The existence check deliberately returns
// the raw store error so the service layer can distinguish "no subscription"
// from "the check itself failed" and fail closed.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// CreateSubscription inserts an active subscription for userID on planID
// with the validity window [now, now+duration).
func CreateSubscription(ctx context.Context, db *gorm.DB, userID, planID uint, duration time.Duration) (*domain.Subscription, error) {
	now := time.Now().UTC()
	s := &domain.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    domain.StatusActive,
		StartDate: now,
		EndDate:   now.Add(duration),
		CreatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// HasActiveSubscription reports whether at least one subscription row for
// userID is currently valid: status active AND end_date strictly after now.
// Any plan satisfies the check; module matching is intentionally not applied.
func HasActiveSubscription(ctx context.Context, db *gorm.DB, userID uint, now time.Time) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ? AND status = ? AND end_date > ?", userID, domain.StatusActive, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CurrentSubscription returns the active subscription with the latest end
// date for userID, or ErrNotFound when none is currently valid.
func CurrentSubscription(ctx context.Context, db *gorm.DB, userID uint, now time.Time) (*domain.Subscription, error) {
	var s domain.Subscription
	err := db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND end_date > ?", userID, domain.StatusActive, now).
		Order("end_date DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CancelSubscription flips an active subscription to cancelled, enforcing
// user ownership. Returns ErrNotFound when no matching active row exists.
func CancelSubscription(ctx context.Context, db *gorm.DB, id, userID uint) error {
	res := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, domain.StatusActive).
		Update("status", domain.StatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
