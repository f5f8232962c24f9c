package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tasktracker/internal/middleware"
	"tasktracker/internal/service"
)

type PageHandler struct {
	tasks  service.TaskService
	logger zerolog.Logger
}

func NewPageHandler(tasks service.TaskService, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		tasks:  tasks,
		logger: logger,
	}
}

type GreetingForm struct {
	Name string `form:"name"`
}

// Home shows the dashboard. Anonymous visitors see zero counts.
func (h *PageHandler) Home(c *gin.Context) {
	var stats service.Stats
	if user := middleware.CurrentUser(c); user != nil {
		var err error
		stats, err = h.tasks.Stats(c.Request.Context(), user)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to load dashboard stats")
			renderError(c, http.StatusInternalServerError, "Could not load the dashboard.")
			return
		}
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Home",
		"Stats": stats,
	})
}

func (h *PageHandler) Profile(c *gin.Context) {
	stats, err := h.tasks.Stats(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to load profile stats")
		renderError(c, http.StatusInternalServerError, "Could not load the profile.")
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{
		"Title": "Profile",
		"Stats": stats,
	})
}

func (h *PageHandler) About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

// Form echoes back the submitted name.
func (h *PageHandler) Form(c *gin.Context) {
	var form GreetingForm
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&form); err != nil {
			h.logger.Debug().
				Err(err).
				Msg("failed to bind greeting form")
		}
	}

	render(c, http.StatusOK, "form.html", gin.H{
		"Title": "Form",
		"Name":  form.Name,
	})
}

// NotFound renders the 404 page for unknown routes.
func (h *PageHandler) NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Page not found.")
}
