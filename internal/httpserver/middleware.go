package httpserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"medistore/internal/domain"
)

const sessionKey = "session"

type sessionResolver interface {
	Current(ctx context.Context, token string) (*domain.Session, error)
}

// sessionMiddleware attaches the caller's session when the request carries a
// valid bearer token. Requests without one continue unauthenticated.
func sessionMiddleware(ids sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		sess, err := ids.Current(c.Request.Context(), token)
		if err == nil && sess.SignedIn() {
			c.Set(sessionKey, sess)
		}
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the
// access_token query parameter for websocket clients.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.Query("access_token")
}

func sessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}

func requireSession(c *gin.Context) {
	if !sessionFrom(c).SignedIn() {
		writeError(c, nil, "", domain.ErrAuthRequired)
		c.Abort()
		return
	}
	c.Next()
}

func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if !sess.SignedIn() {
			writeError(c, nil, "", domain.ErrAuthRequired)
			c.Abort()
			return
		}
		if sess.Role != role {
			writeError(c, nil, "", domain.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
