package handler

import (
	"errors"
	"net/http"

	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fail routes a service error to the page for its kind.
func fail(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		log.Error("storage failure", zap.String("path", c.Request.URL.Path), zap.Error(err))
		util.Redirect(c, "/server-error")
	case errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrInvalidCredential),
		errors.Is(err, service.ErrWrongCredential):
		util.Redirect(c, "/unauthorized")
	case errors.Is(err, service.ErrCardCreditNotAllowed):
		util.Redirect(c, "/card-not-allow")
	case errors.Is(err, service.ErrNotFound):
		util.Text(c, http.StatusNotFound, "Not found")
	default:
		log.Warn("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
		util.Redirect(c, "/error")
	}
}

func Unauthorized(c *gin.Context) {
	util.Page(c, http.StatusUnauthorized, "unauthorized.html", "Access denied", nil)
}

func ServerError(c *gin.Context) {
	util.Page(c, http.StatusInternalServerError, "server_error.html", "Server error", nil)
}

func CardNotAllowed(c *gin.Context) {
	util.Page(c, http.StatusUnprocessableEntity, "card_not_allow.html", "Card credit not allowed", nil)
}

func OtherError(c *gin.Context) {
	util.Page(c, http.StatusBadRequest, "error.html", "Error", nil)
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
