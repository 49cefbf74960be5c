// Package domain defines the core persistence models for the application.
// This file holds the exam-content aggregate: aircraft, practice tests,
// questions, and recorded attempts.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Aircraft is an admin-managed catalog entry that practice tests hang off.
type Aircraft struct {
	ID           uint           `json:"id"           gorm:"primaryKey"`
	Name         string         `json:"name"         gorm:"type:varchar(128);not null;uniqueIndex"`
	Manufacturer string         `json:"manufacturer" gorm:"type:varchar(128);not null"`
	Category     string         `json:"category"     gorm:"type:varchar(64);not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Aircraft.
func (Aircraft) TableName() string { return "aircraft" }

// PracticeTest is a set of questions for one aircraft and study module.
// Mock tests mirror the timing and pass mark of the real exam.
type PracticeTest struct {
	ID              uint           `json:"id"               gorm:"primaryKey"`
	AircraftID      uint           `json:"aircraft_id"      gorm:"not null;index"`
	Title           string         `json:"title"            gorm:"type:varchar(255);not null"`
	Module          string         `json:"module"           gorm:"type:varchar(64);not null;index"`
	Mock            bool           `json:"mock"             gorm:"not null;default:false"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	PassPercent     int            `json:"pass_percent"     gorm:"not null;default:75"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"                gorm:"index"`

	// Aircraft is the catalog entry this test belongs to. Tests are
	// cascade-deleted if the aircraft is removed.
	Aircraft Aircraft `json:"-" gorm:"foreignKey:AircraftID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for PracticeTest.
func (PracticeTest) TableName() string { return "practice_tests" }

// Question is a single multiple-choice item within a practice test.
// Options are stored JSON-encoded; Answer is the index of the correct option.
type Question struct {
	ID          uint           `json:"id"          gorm:"primaryKey"`
	TestID      uint           `json:"test_id"     gorm:"not null;index"`
	Prompt      string         `json:"prompt"      gorm:"type:text;not null"`
	Options     string         `json:"options"     gorm:"type:text;not null"` // JSON array of choices
	Answer      int            `json:"-"           gorm:"not null"`
	Explanation string         `json:"explanation" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	Test PracticeTest `json:"-" gorm:"foreignKey:TestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// TestAttempt records one scored submission of a practice test by a user.
type TestAttempt struct {
	ID             uint           `json:"id"              gorm:"primaryKey"`
	UserID         uint           `json:"user_id"         gorm:"not null;index:idx_user_attempts"`
	TestID         uint           `json:"test_id"         gorm:"not null;index"`
	Score          int            `json:"score"           gorm:"not null"` // percentage 0..100
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	CorrectCount   int            `json:"correct_count"   gorm:"not null"`
	Passed         bool           `json:"passed"          gorm:"not null"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"               gorm:"index"`

	Test PracticeTest `json:"-" gorm:"foreignKey:TestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TestAttempt.
func (TestAttempt) TableName() string { return "test_attempts" }
