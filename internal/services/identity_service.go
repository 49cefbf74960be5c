// Package services – IdentityService
//
// This file implements the session resolver: turning the identity material
// of a verified session (a SessionClaim) into the canonical numeric user ID.
// Tokens issued by current builds carry the numeric ID and resolve without
// touching the store; legacy tokens expose only an email and require exactly
// one lookup. Resolution is deterministic and never mutates state.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avialearn/go-exam-backend/internal/auth"
	"github.com/avialearn/go-exam-backend/internal/repo"
)

// IdentityService resolves session claims to persisted user identities.
type IdentityService struct {
	// DB is the database handle used for the email fallback lookup.
	DB *gorm.DB
}

// Resolve maps a session claim to a numeric user ID.
//
// Semantics:
//   - WithID: returned immediately; no store access (fast path).
//   - WithEmailOnly: one exact-match lookup; a miss yields ErrUserNotFound,
//     which callers treat as an authentication failure rather than a 404.
//   - Empty: ErrIdentityUnresolvable.
//
// A request with no session at all never reaches this method; the auth
// middleware rejects it with ErrUnauthenticated first.
func (s *IdentityService) Resolve(ctx context.Context, claim auth.SessionClaim) (uint, error) {
	switch claim.Kind {
	case auth.ClaimWithID:
		return claim.UserID, nil

	case auth.ClaimWithEmailOnly:
		tr := otel.Tracer("services/IdentityService")
		ctx, span := tr.Start(ctx, "ResolveByEmail",
			trace.WithAttributes(attribute.String("user.email", claim.Email)),
		)
		defer span.End()

		u, err := repo.GetUserByEmail(ctx, s.DB, claim.Email)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return 0, ErrUserNotFound
			}
			return 0, err
		}
		return u.ID, nil

	default:
		return 0, ErrIdentityUnresolvable
	}
}
