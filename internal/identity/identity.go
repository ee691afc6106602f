// Package identity gives every visitor two anonymous cookie IDs: a
// long-lived profile ID standing in for browser-profile storage and a
// browser-session ID standing in for tab-session storage.
package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// Cookie names.
const (
	ProfileCookie = "profile_id"
	SessionCookie = "session_id"
)

const (
	profileKey = "identity.profile"
	sessionKey = "identity.session"

	profileMaxAge = 365 * 24 * 60 * 60
)

// Middleware ensures both cookies exist, issuing fresh ULIDs when missing
// or malformed, and stores the IDs on the context.
func Middleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)

		profileID := readID(c, ProfileCookie)
		if profileID == "" {
			profileID = ulid.Make().String()
			c.SetCookie(ProfileCookie, profileID, profileMaxAge, "/", "", secure, true)
		}

		sessionID := readID(c, SessionCookie)
		if sessionID == "" {
			sessionID = ulid.Make().String()
			// MaxAge 0 leaves out Max-Age, so the browser drops it with the session.
			c.SetCookie(SessionCookie, sessionID, 0, "/", "", secure, true)
		}

		c.Set(profileKey, profileID)
		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

func readID(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := ulid.ParseStrict(value); err != nil {
		return ""
	}
	return value
}

// ProfileID returns the visitor's profile ID set by Middleware.
func ProfileID(c *gin.Context) string {
	return c.GetString(profileKey)
}

// SessionID returns the visitor's session ID set by Middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
