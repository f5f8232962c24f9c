package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tasktracker/internal/middleware"
	"tasktracker/internal/service"
	"tasktracker/internal/web"
)

type TaskHandler struct {
	tasks  service.TaskService
	logger zerolog.Logger
}

func NewTaskHandler(tasks service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// TaskForm is the create/edit form. DueDate is YYYY-MM-DD or empty.
type TaskForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"max=500"`
	Priority    string `form:"priority" binding:"max=20"`
	DueDate     string `form:"due_date"`
}

func (f TaskForm) input() service.TaskInput {
	return service.TaskInput{
		Title:       f.Title,
		Description: f.Description,
		Priority:    f.Priority,
		DueDate:     f.DueDate,
	}
}

// ToggleResponse is returned by the toggle endpoint.
type ToggleResponse struct {
	Status      string `json:"status" example:"success"`
	IsCompleted bool   `json:"is_completed"`
}

// DeleteResponse is returned by the delete endpoint.
type DeleteResponse struct {
	Status string `json:"status" example:"deleted"`
}

// List renders the current user's tasks
func (h *TaskHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	tasks, err := h.tasks.List(ctx, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		renderError(c, http.StatusInternalServerError, "Could not load tasks.")
		return
	}
	stats, err := h.tasks.Stats(ctx, user)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to load task stats")
		renderError(c, http.StatusInternalServerError, "Could not load tasks.")
		return
	}

	render(c, http.StatusOK, "tasks.html", gin.H{
		"Title": "Tasks",
		"Tasks": tasks,
		"Stats": stats,
		"Today": time.Now().UTC(),
	})
}

// Create adds a task from the form and goes back to the list
func (h *TaskHandler) Create(c *gin.Context) {
	var form TaskForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, "/tasks", web.FlashDanger, "A task needs a title.")
		return
	}

	_, err := h.tasks.Create(c.Request.Context(), middleware.CurrentUser(c), form.input())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			redirectWithFlash(c, "/tasks", web.FlashDanger, validationMessage(err))
			return
		}
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		renderError(c, http.StatusInternalServerError, "Could not save the task.")
		return
	}

	redirectWithFlash(c, "/tasks", web.FlashSuccess, "Task added.")
}

// Edit overwrites a task from the edit form
func (h *TaskHandler) Edit(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		renderError(c, http.StatusNotFound, "Task not found.")
		return
	}

	var form TaskForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, "/tasks", web.FlashDanger, "A task needs a title.")
		return
	}

	_, err := h.tasks.Edit(c.Request.Context(), middleware.CurrentUser(c), taskID, form.input())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			renderError(c, http.StatusNotFound, "Task not found.")
		case errors.Is(err, service.ErrForbidden):
			redirectWithFlash(c, "/tasks", web.FlashDanger, "Access denied.")
		case errors.Is(err, service.ErrValidation):
			redirectWithFlash(c, "/tasks", web.FlashDanger, validationMessage(err))
		default:
			h.logger.Error().
				Err(err).
				Uint("task_id", taskID).
				Msg("failed to edit task")
			renderError(c, http.StatusInternalServerError, "Could not update the task.")
		}
		return
	}

	redirectWithFlash(c, "/tasks", web.FlashSuccess, "Task updated.")
}

// Toggle godoc
// @Summary      Toggle task completion
// @Description  Flips is_completed of a task owned by the logged-in user.
// @Tags         Tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  ToggleResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /api/task/{id}/toggle [post]
func (h *TaskHandler) Toggle(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	task, err := h.tasks.Toggle(c.Request.Context(), middleware.CurrentUser(c), taskID)
	if err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{Status: "success", IsCompleted: task.IsCompleted})
}

// Delete godoc
// @Summary      Delete a task
// @Description  Removes a task owned by the logged-in user.
// @Tags         Tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  DeleteResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /api/task/{id}/delete [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), middleware.CurrentUser(c), taskID); err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Status: "deleted"})
}

func (h *TaskHandler) apiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthenticated"})
	default:
		h.logger.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("task api failure")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

// validationMessage strips the sentinel prefix from a wrapped ErrValidation.
func validationMessage(err error) string {
	if detail, ok := strings.CutPrefix(err.Error(), service.ErrValidation.Error()+": "); ok {
		return "Invalid input: " + detail + "."
	}
	return "Invalid input."
}
