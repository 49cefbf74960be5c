// Package auth provides session-token handling for the HTTP layer.
// This file implements the JWT manager: HS256 signing, verification, and
// translation of a verified token into a SessionClaim.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token-level errors returned by Manager.
var (
	// ErrInvalidToken covers malformed, expired, or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Manager issues and verifies HS256 session tokens.
//
// Issued tokens carry the numeric user ID as the subject plus the email as a
// secondary claim. Verification accepts older tokens that carry only an
// email: the resulting SessionClaim degrades to WithEmailOnly and the
// identity resolver falls back to an email lookup.
type Manager struct {
	// Secret is the HMAC signing key. Must be non-empty.
	Secret []byte
	// TTL is the token lifetime applied at issue time.
	TTL time.Duration
}

// Issue signs a token for the given user identity.
//
// Claims:
//   - sub:   decimal user ID
//   - email: login email (informational; used by legacy resolution)
//   - exp:   now + TTL
func (m *Manager) Issue(userID uint, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"exp":   time.Now().Add(m.TTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.Secret)
}

// Verify parses and validates tokenString and extracts a SessionClaim.
//
// Resolution order mirrors the identity contract:
//  1. A numeric-parseable subject yields WithID.
//  2. Otherwise a non-empty email claim yields WithEmailOnly.
//  3. Otherwise the claim is Empty (the token verified but carries no
//     usable identity; callers decide how to fail).
//
// Any signature, format, or expiry problem returns ErrInvalidToken.
func (m *Manager) Verify(tokenString string) (SessionClaim, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.Secret, nil
	})
	if err != nil || !tok.Valid {
		return Empty(), ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Empty(), ErrInvalidToken
	}

	if sub, ok := claims["sub"].(string); ok {
		if id, perr := strconv.ParseUint(strings.TrimSpace(sub), 10, 64); perr == nil {
			return WithID(uint(id)), nil
		}
	}
	if email, ok := claims["email"].(string); ok {
		if e := strings.TrimSpace(email); e != "" {
			return WithEmailOnly(e), nil
		}
	}
	return Empty(), nil
}
