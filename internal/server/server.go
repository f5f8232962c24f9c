package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "tasktracker/docs"
	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/handler"
	"tasktracker/internal/middleware"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
	"tasktracker/internal/store"
	"tasktracker/internal/web"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	logger zerolog.Logger
}

// Init connects to the database, migrates the schema and builds the router.
func Init(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	db, err := store.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		_ = store.Close(db)
		return nil, err
	}
	logger.Info().Msg("database schema is up to date")

	return New(cfg, db, logger)
}

// New wires repositories, services and handlers on top of an open database.
func New(cfg *config.Config, db *gorm.DB, logger zerolog.Logger) (*Server, error) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.SetHTMLTemplate(tmpl)

	// Static assets and API docs do not need the session lookup.
	r.StaticFS("/static", web.Static())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	authService := service.NewAuth(
		logger.With().Str("service", "auth").Logger(),
		db,
		userRepo,
		auth.NewPasswordHasher(cfg.Password.Iterations),
		auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL),
	)
	taskService := service.NewTasks(
		logger.With().Str("service", "tasks").Logger(),
		db,
		taskRepo,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	pageHandler := handler.NewPageHandler(taskService, logger)

	r.Use(middleware.SessionAuth(authService, cfg.Session.CookieName, logger))

	// Public routes
	r.GET("/", pageHandler.Home)
	r.GET("/about", pageHandler.About)
	r.GET("/form", pageHandler.Form)
	r.POST("/form", pageHandler.Form)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)

	// Pages that require a logged-in user
	pages := r.Group("/")
	pages.Use(middleware.RequireUser())
	{
		pages.GET("/tasks", taskHandler.List)
		pages.POST("/tasks", taskHandler.Create)
		pages.POST("/task/:id/edit", taskHandler.Edit)
		pages.GET("/profile", pageHandler.Profile)
		pages.GET("/logout", authHandler.Logout)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(middleware.RequireAPIUser())
	{
		api.POST("/task/:id/toggle", taskHandler.Toggle)
		api.DELETE("/task/:id/delete", taskHandler.Delete)
	}

	r.NoRoute(pageHandler.NotFound)

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		logger: logger,
	}, nil
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:    net.JoinHostPort(s.Config.HTTP.Host, s.Config.HTTP.Port),
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", srv.Addr).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}
	s.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := store.Close(s.DB); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	s.logger.Info().Msg("server exited properly")
	return nil
}
