package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Notifier triggers the outbound notifications.
type Notifier interface {
	SendTaskReminder(ctx context.Context) (string, error)
	SendLoginReminder(ctx context.Context) (string, error)
	ClearPushes(ctx context.Context) (string, error)
}

// NotifyHandler exposes the notifications as api_key guarded GET triggers.
type NotifyHandler struct {
	notifier Notifier
}

func NewNotifyHandler(n Notifier) *NotifyHandler {
	return &NotifyHandler{notifier: n}
}

func (h *NotifyHandler) TaskReminder(c *gin.Context) {
	respond(c, "Failed to send email", h.notifier.SendTaskReminder)
}

func (h *NotifyHandler) LoginReminder(c *gin.Context) {
	respond(c, "Failed to send push", h.notifier.SendLoginReminder)
}

func (h *NotifyHandler) ClearPush(c *gin.Context) {
	respond(c, "Failed to clear pushes", h.notifier.ClearPushes)
}

// respond writes the outcome as text. Failures were already logged by the
// dispatcher.
func respond(c *gin.Context, prefix string, fn func(context.Context) (string, error)) {
	msg, err := fn(c.Request.Context())
	if err != nil {
		c.String(http.StatusBadGateway, prefix+": "+err.Error())
		return
	}
	c.String(http.StatusOK, msg)
}
