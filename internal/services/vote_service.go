// Package services – VoteService
//
// This file implements the idempotent upvote toggle for threads and replies.
// Repeating the action flips a per-(entity, user) on/off state while keeping
// the entity's denormalized upvote_count equal to the live count of upvote
// rows. The row change and the counter change always commit together inside
// one transaction; a partial application must never be observable.
//
// Concurrency: two racing toggles for the same pair can both observe
// "absent" and both attempt the insert. The unique (entity, user) key
// rejects the loser, whose transaction rolls back (including its counter
// increment); the loss is then reported as the idempotent success the caller
// intended, never as a double count and never as a server error. No retry
// loop is needed for this.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avialearn/go-exam-backend/internal/domain"
	"github.com/avialearn/go-exam-backend/internal/repo"
)

// Toggle outcome values.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// ToggleResult reports the effect of one toggle call.
type ToggleResult struct {
	// Status is "added" or "removed".
	Status string `json:"status"`
	// Upvoted is the user's vote state for the entity after the call.
	Upvoted bool `json:"upvoted"`
}

// VoteService implements the upvote toggle and status lookup.
type VoteService struct {
	// DB is the database handle; toggles open their own transaction on it.
	DB *gorm.DB
}

// errVoteRace signals that a concurrent toggle won the insert for the same
// (entity, user) pair. Used to roll back the losing transaction cleanly.
var errVoteRace = errors.New("concurrent upvote insert")

// ToggleUpvote flips the vote state of userID on the given entity.
//
// Semantics:
//   - The entity must exist and not be deleted; otherwise ErrEntityNotFound.
//   - If an upvote row exists: delete it and decrement upvote_count by
//     exactly 1, atomically. Result {removed, false}.
//   - If absent: insert the row and increment upvote_count by exactly 1,
//     atomically. Result {added, true}.
//   - A duplicate-key rejection from a racing insert rolls the transaction
//     back and is translated into {added, true}: the competing committed
//     toggle already produced exactly the state this caller asked for.
func (s *VoteService) ToggleUpvote(ctx context.Context, kind domain.VoteTarget, entityID, userID uint) (ToggleResult, error) {
	tr := otel.Tracer("services/VoteService")
	ctx, span := tr.Start(ctx, "ToggleUpvote",
		trace.WithAttributes(
			attribute.String("vote.kind", string(kind)),
			attribute.Int64("entity.id", int64(entityID)),
			attribute.Int64("user.id", int64(userID)),
		),
	)
	defer span.End()

	exists, err := repo.VotableExists(ctx, s.DB, kind, entityID)
	if err != nil {
		return ToggleResult{}, err
	}
	if !exists {
		return ToggleResult{}, ErrEntityNotFound
	}

	var result ToggleResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		has, err := repo.HasUpvote(ctx, tx, kind, entityID, userID)
		if err != nil {
			return err
		}

		if has {
			deleted, err := repo.DeleteUpvote(ctx, tx, kind, entityID, userID)
			if err != nil {
				return err
			}
			if deleted == 0 {
				// A concurrent toggle removed the row between the check and
				// the delete. The counter was already adjusted by that
				// transaction; report the removed state without touching it.
				result = ToggleResult{Status: ToggleRemoved, Upvoted: false}
				return nil
			}
			if err := repo.AdjustUpvoteCount(ctx, tx, kind, entityID, -1); err != nil {
				return err
			}
			result = ToggleResult{Status: ToggleRemoved, Upvoted: false}
			return nil
		}

		if err := repo.InsertUpvote(ctx, tx, kind, entityID, userID); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				// Racing insert lost on the unique key. Abort so the
				// transaction (and any partial work) rolls back; the outer
				// handler folds this into an idempotent success.
				return errVoteRace
			}
			return err
		}
		if err := repo.AdjustUpvoteCount(ctx, tx, kind, entityID, +1); err != nil {
			return err
		}
		result = ToggleResult{Status: ToggleAdded, Upvoted: true}
		return nil
	})

	if errors.Is(err, errVoteRace) {
		return ToggleResult{Status: ToggleAdded, Upvoted: true}, nil
	}
	if err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// UpvoteStatus reports whether userID currently upvotes the entity. It never
// mutates state. The route layer maps unauthenticated callers to
// {upvoted: false} before reaching here, so userID is always resolved.
func (s *VoteService) UpvoteStatus(ctx context.Context, kind domain.VoteTarget, entityID, userID uint) (bool, error) {
	exists, err := repo.VotableExists(ctx, s.DB, kind, entityID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrEntityNotFound
	}
	return repo.HasUpvote(ctx, s.DB, kind, entityID, userID)
}
