package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-registration-api/internal/models"
	"github.com/noah-isme/training-registration-api/internal/service"
	appErrors "github.com/noah-isme/training-registration-api/pkg/errors"
	"github.com/noah-isme/training-registration-api/pkg/response"
)

const (
	// SessionCookieName is the browser-session cookie carrying the signed HR session.
	SessionCookieName = "hr_session"
	// ContextSessionKey is the gin context key storing the decoded session.
	ContextSessionKey = "hrSession"
)

// LoadHRSession attaches the session when a valid cookie is present but does not block.
func LoadHRSession(gate *service.AccessGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := readSession(c, gate); session != nil {
			c.Set(ContextSessionKey, session)
		}
		c.Next()
	}
}

// RequireHRSession rejects requests whose session does not hold the HR flag.
func RequireHRSession(gate *service.AccessGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := readSession(c, gate)
		if session == nil || !session.Authenticated() {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "hr session required"))
			c.Abort()
			return
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFromContext returns the decoded session, or an empty one.
func SessionFromContext(c *gin.Context) *models.Session {
	if value, ok := c.Get(ContextSessionKey); ok {
		if session, ok := value.(*models.Session); ok {
			return session
		}
	}
	return models.NewSession()
}

func readSession(c *gin.Context, gate *service.AccessGate) *models.Session {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	session, err := gate.ParseSession(token)
	if err != nil {
		return nil
	}
	return session
}
