package main

import (
	_ "jobtracker/docs"
	"jobtracker/internal/config"
	"jobtracker/internal/server"
)

// @title           Job Tracker Board API
// @version         1.0
// @description     Kanban boards for tasks and job applications.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logger := server.NewLogger(cfg)

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("server initialization failed")
	}

	s.Run()
}
