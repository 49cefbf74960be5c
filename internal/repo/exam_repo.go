// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for practice
// tests, their questions, and recorded attempts.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// CreatePracticeTest inserts a test definition under an aircraft.
func CreatePracticeTest(ctx context.Context, db *gorm.DB, aircraftID uint, title, module string, mock bool, durationMinutes, passPercent int) (*domain.PracticeTest, error) {
	t := &domain.PracticeTest{
		AircraftID:      aircraftID,
		Title:           title,
		Module:          module,
		Mock:            mock,
		DurationMinutes: durationMinutes,
		PassPercent:     passPercent,
		CreatedAt:       time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetPracticeTest fetches a test by ID, or ErrNotFound.
func GetPracticeTest(ctx context.Context, db *gorm.DB, id uint) (*domain.PracticeTest, error) {
	var t domain.PracticeTest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTestsByAircraft returns all tests for one aircraft ordered by title.
func ListTestsByAircraft(ctx context.Context, db *gorm.DB, aircraftID uint) ([]domain.PracticeTest, error) {
	var out []domain.PracticeTest
	err := db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Order("title ASC").
		Find(&out).Error
	return out, err
}

// UpdatePracticeTest updates mutable test fields. Returns ErrNotFound when missing.
func UpdatePracticeTest(ctx context.Context, db *gorm.DB, id uint, title string, mock bool, durationMinutes, passPercent int) error {
	res := db.WithContext(ctx).
		Model(&domain.PracticeTest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":            title,
			"mock":             mock,
			"duration_minutes": durationMinutes,
			"pass_percent":     passPercent,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePracticeTest soft-deletes a test. Returns ErrNotFound when missing.
func DeletePracticeTest(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PracticeTest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateQuestion appends a question to a test. Options is a JSON-encoded
// array of choices; answer is the index of the correct one.
func CreateQuestion(ctx context.Context, db *gorm.DB, testID uint, prompt, options string, answer int, explanation string) (*domain.Question, error) {
	q := &domain.Question{
		TestID:      testID,
		Prompt:      prompt,
		Options:     options,
		Answer:      answer,
		Explanation: explanation,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuestions returns a test's questions in insertion order.
func ListQuestions(ctx context.Context, db *gorm.DB, testID uint) ([]domain.Question, error) {
	var out []domain.Question
	err := db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// CreateAttempt records a scored submission.
func CreateAttempt(ctx context.Context, db *gorm.DB, a *domain.TestAttempt) error {
	return db.WithContext(ctx).Create(a).Error
}

// CountAttempts returns the total attempts recorded for a user.
func CountAttempts(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.TestAttempt{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListAttemptsPage returns a user's attempts, newest first.
func ListAttemptsPage(ctx context.Context, db *gorm.DB, userID uint, offset, limit int) ([]domain.TestAttempt, error) {
	var out []domain.TestAttempt
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
