package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page renders one of the HTML templates. data may be nil.
func Page(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	c.HTML(status, name, data)
}

// Redirect sends the browser to path with a GET, aborting the chain.
// POST handlers use it so a reload never resubmits the form.
func Redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
	c.Abort()
}

// Text writes a plain-text body and aborts the chain.
func Text(c *gin.Context, status int, msg string) {
	c.String(status, msg)
	c.Abort()
}
