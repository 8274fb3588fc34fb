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

// AccountHandler lets the operator change the stored password.
type AccountHandler struct {
	auth         *service.AuthService
	log          *zap.Logger
	cookieSecure bool
}

func NewAccountHandler(auth *service.AuthService, log *zap.Logger, cookieSecure bool) *AccountHandler {
	return &AccountHandler{auth: auth, log: log, cookieSecure: cookieSecure}
}

func (h *AccountHandler) page(c *gin.Context, status int, flash string) {
	util.Page(c, status, "account.html", "Account", gin.H{
		"user":   middleware.CurrentSession(c).UserID,
		"dbMode": h.auth.StoresPasswords(),
		"flash":  flash,
	})
}

func (h *AccountHandler) AccountPage(c *gin.Context) {
	h.page(c, http.StatusOK, "")
}

// ChangePassword logs every session out on success, this one included.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	next := c.PostForm("new_password")
	if next != c.PostForm("confirm_password") {
		h.page(c, http.StatusBadRequest, "The new passwords do not match.")
		return
	}

	sess := middleware.CurrentSession(c)
	err := h.auth.ChangePassword(c.Request.Context(), sess.UserID, c.PostForm("old_password"), next)
	switch {
	case errors.Is(err, service.ErrWrongCredential):
		h.page(c, http.StatusForbidden, "The current password is wrong.")
		return
	case errors.Is(err, service.ErrInvalidInput):
		h.page(c, http.StatusBadRequest, "The new password must be at least 8 characters.")
		return
	case err != nil:
		fail(c, h.log, err)
		return
	}

	middleware.ClearSessionCookie(c, h.cookieSecure)
	util.Redirect(c, "/")
}
