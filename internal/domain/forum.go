// Package domain defines the core persistence models for the application.
// This file holds the community-forum aggregate: threads, replies, upvote
// junction rows, and abuse reports.
//
// Counter invariant: Thread.UpvoteCount and ThreadMessage.UpvoteCount are
// denormalized and must always equal the live count of upvote rows for the
// entity. The vote service is the sole writer of both sides and keeps them
// in sync inside a single transaction.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// VoteTarget selects which votable entity kind an upvote or report refers to.
type VoteTarget string

// Votable entity kinds.
const (
	TargetThread  VoteTarget = "thread"
	TargetMessage VoteTarget = "message"
)

// Valid reports whether t names a known votable entity kind.
func (t VoteTarget) Valid() bool {
	return t == TargetThread || t == TargetMessage
}

// Thread is a top-level forum topic. UserID marks the author and is the sole
// basis for edit/delete authorization.
type Thread struct {
	ID          uint           `json:"id"           gorm:"primaryKey"`
	UserID      uint           `json:"user_id"      gorm:"not null;index:idx_user_threads"`
	Title       string         `json:"title"        gorm:"type:varchar(255);not null"`
	Body        string         `json:"body"         gorm:"type:text;not null"`
	UpvoteCount int            `json:"upvote_count" gorm:"not null;default:0"`
	ReplyCount  int            `json:"reply_count"  gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Thread.
func (Thread) TableName() string { return "threads" }

// ThreadMessage is a reply within a thread.
type ThreadMessage struct {
	ID          uint           `json:"id"           gorm:"primaryKey"`
	ThreadID    uint           `json:"thread_id"    gorm:"not null;index:idx_thread_msgs"`
	UserID      uint           `json:"user_id"      gorm:"not null;index"`
	Body        string         `json:"body"         gorm:"type:text;not null"`
	UpvoteCount int            `json:"upvote_count" gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	// Thread is the parent topic. Replies are cascade-deleted if their
	// thread is removed.
	Thread Thread `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ThreadMessage.
func (ThreadMessage) TableName() string { return "thread_messages" }

// ThreadUpvote marks that a user currently upvotes a thread. The unique
// (thread_id, user_id) key is what turns a concurrent double-insert race into
// a detectable constraint violation rather than a double count.
type ThreadUpvote struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	ThreadID  uint      `json:"thread_id" gorm:"not null;index;uniqueIndex:ux_thread_upvote"`
	UserID    uint      `json:"user_id"   gorm:"not null;index;uniqueIndex:ux_thread_upvote"`
	CreatedAt time.Time `json:"created_at"`

	Thread Thread `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ThreadUpvote.
func (ThreadUpvote) TableName() string { return "thread_upvotes" }

// MessageUpvote marks that a user currently upvotes a reply. Same keying
// rules as ThreadUpvote.
type MessageUpvote struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	MessageID uint      `json:"message_id" gorm:"not null;index;uniqueIndex:ux_message_upvote"`
	UserID    uint      `json:"user_id"    gorm:"not null;index;uniqueIndex:ux_message_upvote"`
	CreatedAt time.Time `json:"created_at"`

	Message ThreadMessage `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MessageUpvote.
func (MessageUpvote) TableName() string { return "message_upvotes" }

// Report statuses.
const (
	ReportOpen     = "open"
	ReportResolved = "resolved"
)

// Report is an abuse flag raised by a user against a thread or reply.
// A user may report a given entity at most once (unique index).
type Report struct {
	ID         uint           `json:"id"          gorm:"primaryKey"`
	TargetKind VoteTarget     `json:"target_kind" gorm:"type:varchar(16);not null;uniqueIndex:ux_report_target_user,priority:1;check:target_kind IN ('thread','message')"`
	TargetID   uint           `json:"target_id"   gorm:"not null;uniqueIndex:ux_report_target_user,priority:2"`
	UserID     uint           `json:"user_id"     gorm:"not null;index;uniqueIndex:ux_report_target_user,priority:3"`
	Reason     string         `json:"reason"      gorm:"type:text;not null"`
	Status     string         `json:"status"      gorm:"type:varchar(16);not null;default:'open';check:status IN ('open','resolved')"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }
