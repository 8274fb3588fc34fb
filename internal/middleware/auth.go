package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"daybook/internal/models"
	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the signed session token.
const SessionCookie = "dbk_session"

const sessionKey = "currentSession"

// SessionGate is the part of the auth service the middleware needs.
type SessionGate interface {
	ValidateSession(ctx context.Context, token string) (*models.Session, error)
	IsOwner(id string) bool
}

// TokenFrom returns the session token from the cookie, falling back to a
// Bearer Authorization header for scripted clients.
func TokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return ""
}

// RequireSession lets the request through only with a live session and puts
// it in the context. Anything else is sent to /unauthorized.
func RequireSession(gate SessionGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := gate.ValidateSession(c.Request.Context(), TokenFrom(c))
		if err != nil {
			if errors.Is(err, service.ErrStorageUnavailable) {
				util.Redirect(c, "/server-error")
				return
			}
			util.Redirect(c, "/unauthorized")
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireOwner must run after RequireSession.
func RequireOwner(gate SessionGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !gate.IsOwner(sess.UserID) {
			util.Redirect(c, "/unauthorized")
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

// RequireAPIKey guards the notification triggers with the api_key query
// parameter. An unset key rejects everything.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.Query("api_key")
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			util.Text(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores token for maxAge seconds.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
