// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Report
// model (abuse flags on threads and replies).
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// CreateReport inserts an open report for (kind, targetID) by userID.
// A second report for the same target by the same user returns ErrDuplicate.
func CreateReport(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, targetID, userID uint, reason string) (*domain.Report, error) {
	r := &domain.Report{
		TargetKind: kind,
		TargetID:   targetID,
		UserID:     userID,
		Reason:     reason,
		Status:     domain.ReportOpen,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r, nil
}

// CountReports returns the number of reports with the given status
// ("" counts all).
func CountReports(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListReportsPage returns a page of reports, newest first, optionally
// filtered by status.
func ListReportsPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Report, error) {
	q := db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Report
	err := q.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ResolveReport marks an open report resolved. Returns ErrNotFound when the
// report is missing or already resolved.
func ResolveReport(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ? AND status = ?", id, domain.ReportOpen).
		Update("status", domain.ReportResolved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
