package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newManager() *Manager {
	return &Manager{Secret: []byte("test-secret"), TTL: time.Hour}
}

// signClaims builds an HS256 token with arbitrary claims, for exercising the
// legacy/degenerate verification paths.
func signClaims(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := newManager()

	tok, err := m.Issue(42, "pilot@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claim, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claim.Kind != ClaimWithID || claim.UserID != 42 {
		t.Fatalf("claim = %+v, want WithID(42)", claim)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	m := newManager()
	other := &Manager{Secret: []byte("different"), TTL: time.Hour}

	tok, err := other.Issue(1, "x@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claim, err := m.Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if claim.Kind != ClaimEmpty {
		t.Fatalf("failed verification must yield an empty claim, got %+v", claim)
	}
}

func TestVerify_Expired(t *testing.T) {
	m := newManager()
	tok := signClaims(t, m.Secret, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	m := newManager()
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("input %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestVerify_LegacyEmailOnly(t *testing.T) {
	m := newManager()
	tok := signClaims(t, m.Secret, jwt.MapClaims{
		"email": "legacy@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claim, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claim.Kind != ClaimWithEmailOnly || claim.Email != "legacy@example.com" {
		t.Fatalf("claim = %+v, want WithEmailOnly", claim)
	}
}

func TestVerify_NonNumericSubFallsBackToEmail(t *testing.T) {
	m := newManager()
	tok := signClaims(t, m.Secret, jwt.MapClaims{
		"sub":   "not-a-number",
		"email": "fallback@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claim, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claim.Kind != ClaimWithEmailOnly || claim.Email != "fallback@example.com" {
		t.Fatalf("claim = %+v, want WithEmailOnly fallback", claim)
	}
}

func TestVerify_NoIdentityClaims(t *testing.T) {
	m := newManager()
	tok := signClaims(t, m.Secret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	// The token verifies but carries nothing usable: an empty claim with a
	// nil error. Callers decide how to reject it.
	claim, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claim.Kind != ClaimEmpty {
		t.Fatalf("claim = %+v, want Empty", claim)
	}
}

func TestVerify_RejectsNonHMAC(t *testing.T) {
	m := newManager()
	// alg=none style tokens must never pass.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Verify(s); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
