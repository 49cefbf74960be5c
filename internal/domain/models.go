// Package domain defines the persistence models for users, subscription
// plans, exam content, and the community forum. These types are mapped with
// GORM and form the core data layer of the exam-prep application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user account can hold. Role is mutated only through privileged
// administrative action and is treated as read-only everywhere else.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription lifecycle states. Access is granted only while a subscription
// is StatusActive and its EndDate lies in the future.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// User represents a registered account. Email is a secondary unique key used
// as a fallback identity-resolution path for sessions that carry no numeric
// subject.
//
// Fields:
//   - ID: auto-increment primary key; the canonical user identity.
//   - Email: unique login identifier.
//   - PasswordHash: bcrypt hash; never serialized.
//   - Role: "user" or "admin" (enforced by DB constraint).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID           uint           `json:"id"         gorm:"primaryKey"`
	Email        string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(255);not null"`
	Role         string         `json:"role"       gorm:"type:varchar(16);not null;default:'user';check:role IN ('user','admin')"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Plan represents a purchasable subscription plan. Plans are scoped to a
// study module (e.g. "atpl", "ppl"), but community gating intentionally
// accepts any active plan regardless of module.
type Plan struct {
	ID           uint           `json:"id"            gorm:"primaryKey"`
	Name         string         `json:"name"          gorm:"type:varchar(128);not null"`
	Module       string         `json:"module"        gorm:"type:varchar(64);not null;index"`
	PriceCents   int            `json:"price_cents"   gorm:"not null"`
	DurationDays int            `json:"duration_days" gorm:"not null"`
	Active       bool           `json:"active"        gorm:"not null;default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Plan.
func (Plan) TableName() string { return "plans" }

// Subscription links a user to a plan for a validity window. Multiple rows
// per user may exist historically; gating only asks whether at least one row
// is currently valid (status active, end date in the future).
//
// Fields:
//   - UserID: owner; indexed for the validity existence check.
//   - PlanID: purchased plan; FK association.
//   - Status: active | cancelled | expired.
//   - StartDate / EndDate: validity window [StartDate, EndDate).
type Subscription struct {
	ID        uint           `json:"id"         gorm:"primaryKey"`
	UserID    uint           `json:"user_id"    gorm:"not null;index:idx_user_subs"`
	PlanID    uint           `json:"plan_id"    gorm:"not null"`
	Status    string         `json:"status"     gorm:"type:varchar(16);not null;check:status IN ('active','cancelled','expired')"`
	StartDate time.Time      `json:"start_date" gorm:"not null"`
	EndDate   time.Time      `json:"end_date"   gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	// Plan is the purchased plan. Subscriptions are cascade-deleted if the
	// plan row is removed.
	Plan Plan `json:"-" gorm:"foreignKey:PlanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }
