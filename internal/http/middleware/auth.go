// Session authentication middleware.
//
// This file verifies bearer tokens and resolves them to a numeric user ID
// before any handler runs:
//
//   - RequireAuth() rejects requests without a valid, resolvable session and
//     stores the resolved ID under the "userID" context key.
//   - OptionalAuth() resolves a session when one is present but lets
//     anonymous requests through; handlers see userID 0 for those.
//   - RequireAdmin() loads the resolved user and rejects non-admin roles.
//     It must be mounted after RequireAuth().
//
// The middleware writes the same ErrorResponse envelope as the handlers
// package (request_id / code / message) but constructs it inline to avoid an
// import cycle.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avialearn/go-exam-backend/internal/auth"
)

// userIDKey is the Gin context key holding the resolved numeric user ID.
const userIDKey = "userID"

// IdentityResolver maps a verified session claim to a numeric user ID.
// Implemented by services.IdentityService.
type IdentityResolver interface {
	Resolve(ctx context.Context, claim auth.SessionClaim) (uint, error)
}

// RoleLookup fetches the role string for a resolved user ID. Implemented via
// a small closure over the user repository in the router.
type RoleLookup func(ctx context.Context, userID uint) (string, error)

func authFail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       code,
		"message":    msg,
	})
}

// bearerToken extracts the token from the Authorization header, or "".
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// resolveSession verifies the bearer token and resolves it to a user ID.
// Returns (0, false) when the session is absent, invalid, or unresolvable.
func resolveSession(c *gin.Context, tokens *auth.Manager, ids IdentityResolver) (uint, bool) {
	raw := bearerToken(c)
	if raw == "" {
		return 0, false
	}
	claim, err := tokens.Verify(raw)
	if err != nil {
		return 0, false
	}
	uid, err := ids.Resolve(c.Request.Context(), claim)
	if err != nil {
		return 0, false
	}
	return uid, true
}

// RequireAuth returns middleware that rejects requests without a valid
// session. On success the resolved user ID is stored in the context and the
// request-scoped logger is enriched with it.
func RequireAuth(tokens *auth.Manager, ids IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := resolveSession(c, tokens, ids)
		if !ok {
			authFail(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		c.Set(userIDKey, uid)

		lg := LoggerFrom(c).With().Uint("user_id", uid).Logger()
		c.Set("logger", &lg)

		c.Next()
	}
}

// OptionalAuth returns middleware that resolves a session when present but
// never rejects. Anonymous requests proceed with no userID in context.
func OptionalAuth(tokens *auth.Manager, ids IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, ok := resolveSession(c, tokens, ids); ok {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// RequireAdmin returns middleware that permits only users whose stored role
// is admin. The role is read per request; a role change takes effect on the
// next call, not at token expiry.
func RequireAdmin(lookup RoleLookup, isAdmin func(role string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(userIDKey)
		uid, _ := v.(uint)
		if !exists || uid == 0 {
			authFail(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		role, err := lookup(c.Request.Context(), uid)
		if err != nil {
			authFail(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !isAdmin(role) {
			authFail(c, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		c.Next()
	}
}
