// Package auth provides session-token handling: JWT issuing/verification and
// the SessionClaim type that carries whatever identity a verified token
// exposes.
//
// Historically issued tokens are not uniform: current tokens carry the
// numeric user ID in the subject, while legacy tokens expose only the email
// address. SessionClaim models that ambiguity as a closed set of variants so
// the identity resolver can pattern-match exhaustively instead of probing
// optional fields.
package auth

// ClaimKind discriminates the SessionClaim variants.
type ClaimKind int

// SessionClaim variants, in decreasing order of usefulness.
const (
	// ClaimEmpty means the session carried neither a numeric ID nor an email.
	ClaimEmpty ClaimKind = iota
	// ClaimWithID means the session carried a numeric user ID.
	ClaimWithID
	// ClaimWithEmailOnly means the session carried only an email address.
	ClaimWithEmailOnly
)

// SessionClaim is the identity material extracted from one verified session.
// It is valid for a single request and is never persisted.
//
// Exactly one of UserID/Email is meaningful, selected by Kind. Construct
// values through WithID, WithEmailOnly, or Empty so the invariant holds.
type SessionClaim struct {
	Kind   ClaimKind
	UserID uint   // set when Kind == ClaimWithID
	Email  string // set when Kind == ClaimWithEmailOnly
}

// WithID returns a claim carrying a numeric user identity.
func WithID(id uint) SessionClaim {
	return SessionClaim{Kind: ClaimWithID, UserID: id}
}

// WithEmailOnly returns a claim that identifies the user only by email.
func WithEmailOnly(email string) SessionClaim {
	return SessionClaim{Kind: ClaimWithEmailOnly, Email: email}
}

// Empty returns a claim with no usable identity.
func Empty() SessionClaim {
	return SessionClaim{Kind: ClaimEmpty}
}
