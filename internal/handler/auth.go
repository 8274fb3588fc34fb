package handler

import (
	"errors"
	"net/http"

	"daybook/internal/middleware"
	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, logout and the home page.
type AuthHandler struct {
	auth         *service.AuthService
	log          *zap.Logger
	cookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, log *zap.Logger, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, log: log, cookieSecure: cookieSecure}
}

// LoginPage skips the form when the browser already holds a live session.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if token := middleware.TokenFrom(c); token != "" {
		if _, err := h.auth.ValidateSession(c.Request.Context(), token); err == nil {
			util.Redirect(c, "/home")
			return
		}
	}
	util.Page(c, http.StatusOK, "login.html", "Daybook - Log in", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	login, err := h.auth.Authenticate(c.Request.Context(),
		c.PostForm("user_id"), c.PostForm("password"), c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredential) {
			util.Page(c, http.StatusUnauthorized, "login.html", "Daybook - Log in", gin.H{
				"flash": service.RandomInvalidMessage(),
			})
			return
		}
		fail(c, h.log, err)
		return
	}

	middleware.SetSessionCookie(c, login.Token, int(h.auth.TTL().Seconds()), h.cookieSecure)
	util.Redirect(c, "/home")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.TokenFrom(c); token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.log.Warn("logout", zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(c, h.cookieSecure)
	util.Redirect(c, "/")
}

func (h *AuthHandler) Home(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	util.Page(c, http.StatusOK, "home.html", "Daybook", gin.H{
		"user":  sess.UserID,
		"owner": h.auth.IsOwner(sess.UserID),
	})
}
