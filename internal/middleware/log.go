package middleware

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"daybook/internal/models"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxAuditBody = 2000

// AuditMiddleware records every request made inside a session. Path and
// action are encrypted with encryptKey when one is configured.
func AuditMiddleware(db *gorm.DB, encryptKey string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form string
		if isURLEncoded(c) && c.Request.Body != nil {
			body, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody+1))
			rest, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), bytes.NewReader(rest)))
			if len(body) <= maxAuditBody {
				form = redactForm(string(body))
			}
		}

		c.Next()

		sess := CurrentSession(c)
		if sess == nil {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if form != "" {
			action += " " + form
		}

		encPath, err := util.EncryptString(encryptKey, path)
		if err != nil {
			log.Warn("audit: encrypt path", zap.Error(err))
			return
		}
		encAction, err := util.EncryptString(encryptKey, action)
		if err != nil {
			log.Warn("audit: encrypt action", zap.Error(err))
			return
		}

		entry := models.AuditLog{
			UserID:    sess.UserID,
			Method:    c.Request.Method,
			PathEnc:   encPath,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: truncate(c.Request.UserAgent(), 255),
		}
		if err := db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
			log.Warn("audit: write", zap.Error(err))
		}
	}
}

func isURLEncoded(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded")
}

func redactForm(raw string) string {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	for k := range values {
		if strings.Contains(k, "password") {
			values.Set(k, "***")
		}
	}
	return values.Encode()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
