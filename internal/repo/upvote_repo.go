// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the persistence primitives for the
// upvote toggle: existence check, insert, delete, and counter adjustment for
// both votable entity kinds (threads and replies).
//
// These functions are deliberately small so the vote service can compose
// them inside one transaction; a row change and its counter change must
// never commit separately.
//
// Error semantics:
//   - InsertUpvote returns ErrDuplicate on a unique-key violation, which is
//     how a racing double insert for the same (entity, user) pair surfaces.
//   - VotableExists treats soft-deleted entities as absent.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avialearn/go-exam-backend/internal/domain"
)

// VotableExists reports whether the target entity exists and is not deleted.
func VotableExists(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, entityID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx)
	switch kind {
	case domain.TargetThread:
		q = q.Model(&domain.Thread{})
	default:
		q = q.Model(&domain.ThreadMessage{})
	}
	if err := q.Where("id = ?", entityID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasUpvote reports whether an upvote row exists for (entity, user).
func HasUpvote(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, entityID, userID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx)
	switch kind {
	case domain.TargetThread:
		q = q.Model(&domain.ThreadUpvote{}).Where("thread_id = ? AND user_id = ?", entityID, userID)
	default:
		q = q.Model(&domain.MessageUpvote{}).Where("message_id = ? AND user_id = ?", entityID, userID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertUpvote creates the upvote row for (entity, user). A concurrent
// insert for the same pair loses on the unique index and gets ErrDuplicate.
func InsertUpvote(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, entityID, userID uint) error {
	now := time.Now().UTC()
	var err error
	switch kind {
	case domain.TargetThread:
		err = db.WithContext(ctx).Create(&domain.ThreadUpvote{ThreadID: entityID, UserID: userID, CreatedAt: now}).Error
	default:
		err = db.WithContext(ctx).Create(&domain.MessageUpvote{MessageID: entityID, UserID: userID, CreatedAt: now}).Error
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteUpvote removes the upvote row for (entity, user) and returns the
// number of rows actually deleted (0 when the row was already gone).
func DeleteUpvote(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, entityID, userID uint) (int64, error) {
	var res *gorm.DB
	switch kind {
	case domain.TargetThread:
		res = db.WithContext(ctx).Where("thread_id = ? AND user_id = ?", entityID, userID).Delete(&domain.ThreadUpvote{})
	default:
		res = db.WithContext(ctx).Where("message_id = ? AND user_id = ?", entityID, userID).Delete(&domain.MessageUpvote{})
	}
	return res.RowsAffected, res.Error
}

// AdjustUpvoteCount moves the denormalized counter on the entity row by
// delta (+1 or -1). Callers pair this with InsertUpvote/DeleteUpvote inside
// the same transaction.
func AdjustUpvoteCount(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, entityID uint, delta int) error {
	q := db.WithContext(ctx)
	switch kind {
	case domain.TargetThread:
		q = q.Model(&domain.Thread{})
	default:
		q = q.Model(&domain.ThreadMessage{})
	}
	return q.Where("id = ?", entityID).
		UpdateColumn("upvote_count", gorm.Expr("upvote_count + ?", delta)).Error
}

// CountUpvotes returns the live number of upvote rows for the entity. Used
// by tests and consistency checks against the denormalized counter.
func CountUpvotes(ctx context.Context, db *gorm.DB, kind domain.VoteTarget, entityID uint) (int64, error) {
	var count int64
	q := db.WithContext(ctx)
	switch kind {
	case domain.TargetThread:
		q = q.Model(&domain.ThreadUpvote{}).Where("thread_id = ?", entityID)
	default:
		q = q.Model(&domain.MessageUpvote{}).Where("message_id = ?", entityID)
	}
	err := q.Count(&count).Error
	return count, err
}
