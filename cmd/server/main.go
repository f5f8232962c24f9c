package main

import (
	"fmt"
	"os"

	"tasktracker/internal/config"
	"tasktracker/internal/logger"
	"tasktracker/internal/server"
)

// @title           Task Tracker API
// @version         1.0
// @description     JSON endpoints of the personal task tracker.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie set by POST /login.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, os.Stdout)
	log.Info().
		Str("env", cfg.Env).
		Str("db_driver", cfg.Database.Driver).
		Msg("loaded config")

	s, err := server.Init(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server initialization failed")
	}

	if err := s.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
