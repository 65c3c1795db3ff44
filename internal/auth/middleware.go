package auth

import (
	"context"
	"errors"

	dom "tasktracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionCookieName is the cookie carrying the session id.
const SessionCookieName = "session_id"

const contextKeyCaller = "caller"

// UserLookup resolves the user behind a session email.
type UserLookup interface {
	ByEmail(ctx context.Context, email string) (dom.User, error)
}

// CallerFromContext returns the user set by LoadSession, or nil.
func CallerFromContext(c *gin.Context) *dom.User {
	v, ok := c.Get(contextKeyCaller)
	if !ok {
		return nil
	}
	u, ok := v.(*dom.User)
	if !ok {
		return nil
	}
	return u
}

// SetCaller stores u as the authenticated caller for the rest of the request.
func SetCaller(c *gin.Context, u *dom.User) {
	c.Set(contextKeyCaller, u)
}

// SessionID returns the raw session cookie value, or "".
func SessionID(c *gin.Context) string {
	id, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return id
}

// LoadSession resolves the session cookie to a user and stores it in the
// context. Requests without a valid session continue anonymously.
func LoadSession(sessions *Store, users UserLookup, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := SessionID(c)
		if sessionID == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		email, err := sessions.Email(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				log.Error().Err(err).Msg("session lookup")
			}
			c.Next()
			return
		}
		u, err := users.ByEmail(ctx, email)
		if err != nil {
			log.Warn().Err(err).Str("email", email).Msg("session user lookup")
			c.Next()
			return
		}
		SetCaller(c, &u)
		c.Next()
	}
}
