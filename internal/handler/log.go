package handler

import (
	"net/http"
	"strconv"
	"time"

	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LogHandler shows the decrypted audit log.
type LogHandler struct {
	activity *service.ActivityService
	loc      *time.Location
	log      *zap.Logger
}

func NewLogHandler(activity *service.ActivityService, loc *time.Location, log *zap.Logger) *LogHandler {
	return &LogHandler{activity: activity, loc: loc, log: log}
}

// Activity lists requests with optional start/end (YYYY-MM-DD) and keyword filters.
func (h *LogHandler) Activity(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	q := service.ActivityQuery{
		Keyword:  c.Query("q"),
		Page:     page,
		PageSize: size,
	}

	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr != "" {
		t, err := time.ParseInLocation("2006-01-02", startStr, h.loc)
		if err != nil {
			util.Redirect(c, "/error")
			return
		}
		q.Start = t
	}
	if endStr != "" {
		t, err := time.ParseInLocation("2006-01-02", endStr, h.loc)
		if err != nil {
			util.Redirect(c, "/error")
			return
		}
		q.End = t.Add(24 * time.Hour)
	}

	result, err := h.activity.List(c.Request.Context(), q)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	data := gin.H{
		"page":  result,
		"start": startStr,
		"end":   endStr,
		"q":     q.Keyword,
	}
	if result.Page > 1 {
		data["prev"] = result.Page - 1
	}
	if result.Page*result.PageSize < result.Total {
		data["next"] = result.Page + 1
	}
	util.Page(c, http.StatusOK, "activity.html", "Activity", data)
}
