// Package services – AdminService
//
// This file implements the administrative surface: the aircraft catalog,
// practice-test and question authoring, plan management, and the moderation
// report queue. Role enforcement lives in the admin middleware; these
// methods assume the caller has already been verified as an admin.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
	"github.com/avialearn/go-exam-backend/internal/utils"
)

// AdminService implements catalog authoring and moderation.
type AdminService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// titleCaser normalizes catalog display names ("boeing 737" -> "Boeing 737").
var titleCaser = cases.Title(language.English)

// CreateAircraft adds a catalog entry. The name is title-cased for display;
// duplicates (case-normalized) yield repo.ErrDuplicate wrapped as a conflict.
func (s *AdminService) CreateAircraft(ctx context.Context, name, manufacturer, category string) (*domain.Aircraft, error) {
	name = titleCaser.String(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrEmptyContent
	}
	a, err := repo.CreateAircraft(ctx, s.DB, name, strings.TrimSpace(manufacturer), strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAircraft edits a catalog entry.
func (s *AdminService) UpdateAircraft(ctx context.Context, id uint, name, manufacturer, category string) error {
	name = titleCaser.String(strings.TrimSpace(name))
	if name == "" {
		return ErrEmptyContent
	}
	err := repo.UpdateAircraft(ctx, s.DB, id, name, strings.TrimSpace(manufacturer), strings.TrimSpace(category))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAircraftNotFound
	}
	return err
}

// DeleteAircraft removes a catalog entry; its tests cascade away.
func (s *AdminService) DeleteAircraft(ctx context.Context, id uint) error {
	err := repo.DeleteAircraft(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAircraftNotFound
	}
	return err
}

// CreateTest defines a practice test under an aircraft.
func (s *AdminService) CreateTest(ctx context.Context, aircraftID uint, title, module string, mock bool, durationMinutes, passPercent int) (*domain.PracticeTest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyContent
	}
	if passPercent <= 0 || passPercent > 100 {
		passPercent = 75
	}
	if _, err := repo.GetAircraft(ctx, s.DB, aircraftID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return repo.CreatePracticeTest(ctx, s.DB, aircraftID, title, strings.ToUpper(strings.TrimSpace(module)), mock, durationMinutes, passPercent)
}

// UpdateTest edits a test definition.
func (s *AdminService) UpdateTest(ctx context.Context, id uint, title string, mock bool, durationMinutes, passPercent int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyContent
	}
	err := repo.UpdatePracticeTest(ctx, s.DB, id, title, mock, durationMinutes, passPercent)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTestNotFound
	}
	return err
}

// DeleteTest removes a test and, via FK cascade, its questions.
func (s *AdminService) DeleteTest(ctx context.Context, id uint) error {
	err := repo.DeletePracticeTest(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTestNotFound
	}
	return err
}

// AddQuestion appends a multiple-choice item to a test. Options must contain
// at least two choices and answer must index into them.
func (s *AdminService) AddQuestion(ctx context.Context, testID uint, prompt string, options []string, answer int, explanation string) (*domain.Question, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" || len(options) < 2 {
		return nil, ErrEmptyContent
	}
	if answer < 0 || answer >= len(options) {
		return nil, ErrAnswerCountMismatch
	}
	if _, err := repo.GetPracticeTest(ctx, s.DB, testID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}

	encoded, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return repo.CreateQuestion(ctx, s.DB, testID, prompt, string(encoded), answer, strings.TrimSpace(explanation))
}

// CreatePlan defines a purchasable subscription plan.
func (s *AdminService) CreatePlan(ctx context.Context, name, module string, priceCents, durationDays int) (*domain.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" || priceCents < 0 || durationDays <= 0 {
		return nil, ErrEmptyContent
	}
	return repo.CreatePlan(ctx, s.DB, name, strings.ToUpper(strings.TrimSpace(module)), priceCents, durationDays)
}

// UpdatePlan edits a plan; setting active to false retires it from the
// public listing without touching existing subscriptions.
func (s *AdminService) UpdatePlan(ctx context.Context, id uint, name string, priceCents, durationDays int, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" || priceCents < 0 || durationDays <= 0 {
		return ErrEmptyContent
	}
	err := repo.UpdatePlan(ctx, s.DB, id, name, priceCents, durationDays, active)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// ListReports returns a page of moderation reports plus the total count.
// status filters by "open"/"resolved"; empty means all.
func (s *AdminService) ListReports(ctx context.Context, status string, page, pageSize int) ([]domain.Report, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountReports(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Report{}, 0, nil
	}
	items, err := repo.ListReportsPage(ctx, s.DB, status, utils.PageOffset(page, pageSize), pageSize)
	return items, total, err
}

// ResolveReport closes an open report. Missing or already-resolved reports
// yield ErrReportNotFound.
func (s *AdminService) ResolveReport(ctx context.Context, id uint) error {
	err := repo.ResolveReport(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrReportNotFound
	}
	return err
}
