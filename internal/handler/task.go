package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"daybook/internal/service"
	"daybook/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskHandler serves the to-do pages.
type TaskHandler struct {
	tasks *service.TaskService
	log   *zap.Logger
}

func NewTaskHandler(tasks *service.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

func (h *TaskHandler) Pending(c *gin.Context) {
	tasks, err := h.tasks.ListPending(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	util.Page(c, http.StatusOK, "tasks_pending.html", "Pending tasks", gin.H{"tasks": tasks})
}

// CompletePending marks every checked task complete.
func (h *TaskHandler) CompletePending(c *gin.Context) {
	raw := c.PostFormArray("complete")
	ids := make([]uint, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			fail(c, h.log, fmt.Errorf("%w: task id %q", service.ErrInvalidInput, s))
			return
		}
		ids = append(ids, uint(id))
	}
	if _, err := h.tasks.MarkComplete(c.Request.Context(), ids); err != nil {
		fail(c, h.log, err)
		return
	}
	util.Redirect(c, "/tasks/pending")
}

func (h *TaskHandler) AddPage(c *gin.Context) {
	util.Page(c, http.StatusOK, "tasks_add.html", "Add a task", nil)
}

func (h *TaskHandler) Add(c *gin.Context) {
	if _, err := h.tasks.AddTask(c.Request.Context(), c.PostForm("task_name")); err != nil {
		fail(c, h.log, err)
		return
	}
	util.Redirect(c, "/tasks/add")
}

func (h *TaskHandler) Completed(c *gin.Context) {
	tasks, err := h.tasks.ListCompleted(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	util.Page(c, http.StatusOK, "tasks_completed.html", "Completed tasks", gin.H{"tasks": tasks})
}

func (h *TaskHandler) ClearCompleted(c *gin.Context) {
	if _, err := h.tasks.PurgeCompleted(c.Request.Context()); err != nil {
		fail(c, h.log, err)
		return
	}
	util.Redirect(c, "/tasks/completed")
}
