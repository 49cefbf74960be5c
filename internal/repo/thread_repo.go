// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Thread and
// ThreadMessage models.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. Counter
// columns (reply_count) are adjusted only here so that row changes and
// counter changes share the caller's transaction.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// CreateThread inserts a new thread row owned by userID.
func CreateThread(ctx context.Context, db *gorm.DB, userID uint, title, body string) (*domain.Thread, error) {
	t := &domain.Thread{
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetThread fetches a single thread by ID, or ErrNotFound.
func GetThread(ctx context.Context, db *gorm.DB, id uint) (*domain.Thread, error) {
	var t domain.Thread
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// CountThreads returns the total number of live threads.
func CountThreads(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Thread{}).Count(&total).Error
	return total, err
}

// ListThreadsPage returns a paginated slice of threads ordered by creation
// time descending (most recent first).
func ListThreadsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Thread, error) {
	var out []domain.Thread
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateThread updates title and body of a thread, enforcing ownership.
// Returns ErrNotFound if the thread is missing or owned by someone else.
func UpdateThread(ctx context.Context, db *gorm.DB, id, userID uint, title, body string) error {
	res := db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"title": title, "body": body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteThread soft-deletes a thread, enforcing ownership. Returns
// ErrNotFound if the thread is missing or owned by someone else.
func DeleteThread(ctx context.Context, db *gorm.DB, id, userID uint) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Thread{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateThreadMessage inserts a reply row and increments the parent thread's
// reply_count by exactly 1. Run inside a transaction so the row and the
// counter commit together.
func CreateThreadMessage(ctx context.Context, db *gorm.DB, threadID, userID uint, body string) (*domain.ThreadMessage, error) {
	m := &domain.ThreadMessage{
		ThreadID:  threadID,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	err := db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ?", threadID).
		UpdateColumn("reply_count", gorm.Expr("reply_count + 1")).Error
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetThreadMessage fetches a reply by ID, or ErrNotFound.
func GetThreadMessage(ctx context.Context, db *gorm.DB, id uint) (*domain.ThreadMessage, error) {
	var m domain.ThreadMessage
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CountThreadMessages uses a raw COUNT so a missing table surfaces as an error.
func CountThreadMessages(ctx context.Context, db *gorm.DB, threadID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM thread_messages WHERE thread_id = ? AND deleted_at IS NULL", threadID).
		Scan(&total).Error
	return total, err
}

// ListThreadMessagesPage returns replies ordered deterministically
// (CreatedAt ASC, ID ASC) for stable pagination.
func ListThreadMessagesPage(ctx context.Context, db *gorm.DB, threadID uint, offset, limit int) ([]domain.ThreadMessage, error) {
	var out []domain.ThreadMessage
	err := db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateThreadMessage updates a reply body, enforcing ownership.
func UpdateThreadMessage(ctx context.Context, db *gorm.DB, id, userID uint, body string) error {
	res := db.WithContext(ctx).
		Model(&domain.ThreadMessage{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("body", body)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteThreadMessage soft-deletes a reply (enforcing ownership) and
// decrements the parent thread's reply_count by exactly 1. Run inside a
// transaction so the row and the counter commit together.
func DeleteThreadMessage(ctx context.Context, db *gorm.DB, id, userID uint) error {
	var m domain.ThreadMessage
	if err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&m).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ?", m.ThreadID).
		UpdateColumn("reply_count", gorm.Expr("reply_count - 1")).Error
}
