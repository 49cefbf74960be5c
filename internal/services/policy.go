// Package services – authorization policy
//
// This file holds the pure decision functions that gate every community and
// admin action. Each function takes already-resolved facts (authentication
// state, subscription validity, ownership, role) and returns allow/deny;
// none of them performs I/O. Gathering the facts — resolving the session,
// loading the entity, checking the subscription — is the caller's job, which
// keeps these rules trivially testable and impossible to short-circuit with
// a stale context.
//
// The asymmetry between subscription-gated actions (creating threads,
// replying) and free actions (upvoting, reporting) is a product decision:
// browsing and lightweight engagement stay open to any authenticated user,
// while content creation is reserved for subscribers.
package services

import "github.com/avialearn/go-exam-backend/internal/domain"

// CanCreateThread allows thread creation only for authenticated users with
// a currently valid subscription.
func CanCreateThread(isAuthenticated, hasActiveSubscription bool) bool {
	return isAuthenticated && hasActiveSubscription
}

// CanReply follows the same rule as thread creation.
func CanReply(isAuthenticated, hasActiveSubscription bool) bool {
	return isAuthenticated && hasActiveSubscription
}

// CanUpvote allows any authenticated user to toggle upvotes; no
// subscription is required.
func CanUpvote(isAuthenticated bool) bool {
	return isAuthenticated
}

// CanReport allows any authenticated user to report content; no
// subscription is required.
func CanReport(isAuthenticated bool) bool {
	return isAuthenticated
}

// CanEditOrDelete allows modification only by the entity's author. Admins
// are deliberately not special-cased at this layer; moderation flows go
// through the admin report queue instead.
func CanEditOrDelete(resolvedUserID, entityOwnerID uint) bool {
	return resolvedUserID != 0 && resolvedUserID == entityOwnerID
}

// IsAdminRoute allows access to administrative routes only for the admin role.
func IsAdminRoute(role string) bool {
	return role == domain.RoleAdmin
}
