package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/session"
)

const (
	// ContextKeySession is the Gin context key for the authenticated session.
	ContextKeySession = "session"
	// SessionCookieName is the cookie fallback for browser clients.
	SessionCookieName = "praxis_session"
)

// RequireSession validates the opaque session token from the Authorization
// header (Bearer) or the session cookie.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}

		data, ok := store.Get(token)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionExpired)
			return
		}

		c.Set(ContextKeySession, data)
		c.Next()
	}
}

// RequireRole allows only sessions whose role is in the given set.
// Admins pass every role check.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := GetSession(c)
		if data == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}

		if data.Role == model.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if data.Role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
	}
}

// GetSession retrieves the session record set by RequireSession.
// Returns nil if the middleware did not run.
func GetSession(c *gin.Context) *session.Data {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return nil
	}
	data, ok := v.(*session.Data)
	if !ok {
		return nil
	}
	return data
}

// ExtractToken exposes token extraction for the logout handler.
func ExtractToken(c *gin.Context) string { return extractToken(c) }

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}
