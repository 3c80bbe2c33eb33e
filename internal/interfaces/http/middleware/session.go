package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// Session defaults
const (
	SessionIDKey         = "session_id"
	DefaultSessionHeader = "X-Session-ID"
	DefaultSessionCookie = "storefront_session"
)

// SessionConfig controls how the shopper session ID travels
type SessionConfig struct {
	HeaderName   string
	CookieName   string
	CookieMaxAge time.Duration
	CookieSecure bool
}

func (cfg SessionConfig) withDefaults() SessionConfig {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultSessionHeader
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = 30 * 24 * time.Hour
	}
	return cfg
}

// Session resolves the shopper session from the header, then the cookie.
// A missing or malformed ID starts a new session. The resolved ID is echoed
// in both the header and the cookie.
func Session(cfg SessionConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()
	maxAge := int(cfg.CookieMaxAge.Seconds())

	return func(c *gin.Context) {
		sessionID := validSessionID(c.GetHeader(cfg.HeaderName))
		if sessionID == "" {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				sessionID = validSessionID(cookie)
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		c.Set(SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Header(cfg.HeaderName, sessionID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.CookieSecure, true)

		c.Next()
	}
}

// GetSessionID returns the session ID resolved by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func validSessionID(raw string) string {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}
