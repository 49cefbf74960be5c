// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// admin-managed catalog: aircraft and subscription plans.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// CreateAircraft inserts a catalog entry. Duplicate names return ErrDuplicate.
func CreateAircraft(ctx context.Context, db *gorm.DB, name, manufacturer, category string) (*domain.Aircraft, error) {
	a := &domain.Aircraft{
		Name:         name,
		Manufacturer: manufacturer,
		Category:     category,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

// GetAircraft fetches a catalog entry by ID, or ErrNotFound.
func GetAircraft(ctx context.Context, db *gorm.DB, id uint) (*domain.Aircraft, error) {
	var a domain.Aircraft
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAircraft returns all catalog entries ordered by name.
func ListAircraft(ctx context.Context, db *gorm.DB) ([]domain.Aircraft, error) {
	var out []domain.Aircraft
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// UpdateAircraft updates a catalog entry. Returns ErrNotFound when missing.
func UpdateAircraft(ctx context.Context, db *gorm.DB, id uint, name, manufacturer, category string) error {
	res := db.WithContext(ctx).
		Model(&domain.Aircraft{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "manufacturer": manufacturer, "category": category})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAircraft soft-deletes a catalog entry (tests cascade at the DB
// level). Returns ErrNotFound when missing.
func DeleteAircraft(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Aircraft{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreatePlan inserts a subscription plan.
func CreatePlan(ctx context.Context, db *gorm.DB, name, module string, priceCents, durationDays int) (*domain.Plan, error) {
	p := &domain.Plan{
		Name:         name,
		Module:       module,
		PriceCents:   priceCents,
		DurationDays: durationDays,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPlan fetches a plan by ID, or ErrNotFound.
func GetPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.Plan, error) {
	var p domain.Plan
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActivePlans returns purchasable plans ordered by module then price.
func ListActivePlans(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var out []domain.Plan
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("module ASC, price_cents ASC").
		Find(&out).Error
	return out, err
}

// UpdatePlan updates mutable plan fields. Returns ErrNotFound when missing.
func UpdatePlan(ctx context.Context, db *gorm.DB, id uint, name string, priceCents, durationDays int, active bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":          name,
			"price_cents":   priceCents,
			"duration_days": durationDays,
			"active":        active,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
