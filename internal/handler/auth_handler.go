package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tasktracker/internal/middleware"
	"tasktracker/internal/service"
	"tasktracker/internal/web"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	auth   service.AuthService
	cookie CookieConfig
	logger zerolog.Logger
}

func NewAuthHandler(auth service.AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		cookie: cookie,
		logger: logger,
	}
}

type RegisterRequest struct {
	Username string `form:"username" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email,max=120"`
	Password string `form:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"Title":    "Register",
		"Username": "",
		"Email":    "",
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRegister(c, http.StatusBadRequest, req, "Username, a valid email and a password are required.")
		return
	}

	_, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			h.renderRegister(c, http.StatusConflict, req, "That username or email is already taken.")
		case errors.Is(err, service.ErrValidation):
			h.renderRegister(c, http.StatusBadRequest, req, "Username, a valid email and a password are required.")
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to register user")
			renderError(c, http.StatusInternalServerError, "Registration failed.")
		}
		return
	}

	redirectWithFlash(c, "/login", web.FlashSuccess, "Registration successful. You can log in now.")
}

func (h *AuthHandler) renderRegister(c *gin.Context, status int, req RegisterRequest, message string) {
	render(c, status, "register.html", gin.H{
		"Title":    "Register",
		"Username": req.Username,
		"Email":    req.Email,
		"Flash":    formFlash(message),
	})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/tasks")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"Title":    "Login",
		"Username": "",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/tasks")
		return
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, req, "Username and password are required.")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(c, http.StatusUnauthorized, req, "Invalid username or password.")
			return
		}
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		renderError(c, http.StatusInternalServerError, "Login failed.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", "", h.cookie.Secure, true)
	redirectWithFlash(c, "/tasks", web.FlashSuccess, "Welcome back, "+session.User.Username+".")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, req LoginRequest, message string) {
	render(c, status, "login.html", gin.H{
		"Title":    "Login",
		"Username": req.Username,
		"Flash":    formFlash(message),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	redirectWithFlash(c, "/", web.FlashInfo, "You have been logged out.")
}
