// Package services defines the business logic for identity resolution,
// authorization, subscriptions, the forum, and exam content. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Identity and authentication errors.
var (
	// ErrUnauthenticated indicates that no usable session accompanied the
	// request. Surfaced as a 401; never retried automatically.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUserNotFound is returned when the email fallback lookup of identity
	// resolution finds no matching user. It is an authentication failure,
	// not a missing-resource condition.
	ErrUserNotFound = errors.New("no user matches session identity")

	// ErrIdentityUnresolvable is returned when a session is present but
	// carries neither a numeric ID nor an email.
	ErrIdentityUnresolvable = errors.New("session carries no usable identity")

	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with a wrong email/password
	// combination.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Subscription errors.
var (
	// ErrSubscriptionRequired indicates a content-creation action attempted
	// without a currently valid subscription.
	ErrSubscriptionRequired = errors.New("active subscription required")

	// ErrSubscriptionCheckFailed wraps a store failure during the validity
	// check. The action is denied (fail closed) but the condition is
	// reported distinctly so callers can retry.
	ErrSubscriptionCheckFailed = errors.New("subscription check failed")

	// ErrPlanNotFound indicates the referenced plan does not exist or is
	// not purchasable.
	ErrPlanNotFound = errors.New("plan not found")
)

// Forum and voting errors.
var (
	// ErrThreadNotFound indicates the requested thread does not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrMessageNotFound indicates the requested reply does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEntityNotFound indicates a vote or report referenced a votable
	// entity that does not exist or was deleted.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrNotOwner indicates an edit/delete attempt by someone other than
	// the entity's author.
	ErrNotOwner = errors.New("not the owner of this content")

	// ErrDuplicateReport is returned when a user reports the same entity twice.
	ErrDuplicateReport = errors.New("report already exists")

	// ErrEmptyContent is returned when a thread or reply body is blank.
	ErrEmptyContent = errors.New("content is empty")

	// ErrTooLong is returned when a submitted body exceeds the configured
	// length limit.
	ErrTooLong = errors.New("content too long")
)

// Exam errors.
var (
	// ErrTestNotFound indicates the requested practice test does not exist.
	ErrTestNotFound = errors.New("test not found")

	// ErrAircraftNotFound indicates the referenced aircraft does not exist.
	ErrAircraftNotFound = errors.New("aircraft not found")

	// ErrAnswerCountMismatch is returned when a submission does not provide
	// exactly one answer per question.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")

	// ErrReportNotFound indicates the report to resolve does not exist or
	// was already resolved.
	ErrReportNotFound = errors.New("report not found")
)
