package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/middleware"
	"tasktracker/internal/web"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// render adds the current user and the pending flash message to data before
// executing the named template. A "Flash" already present in data wins.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = web.PopFlash(c)
	}
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

func formFlash(message string) *web.Flash {
	return &web.Flash{Category: web.FlashDanger, Message: message}
}

func redirectWithFlash(c *gin.Context, location, category, message string) {
	web.SetFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// parseTaskID reads the :id path parameter. Only positive integers are
// valid task ids.
func parseTaskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
