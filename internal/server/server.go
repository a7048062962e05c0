package server

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"farmvibe/internal/config"
	"farmvibe/internal/database"
	"farmvibe/internal/resolver"
)

type Server struct {
	port         int
	allowOrigins []string
	provider     string

	resolver *resolver.Resolver
	db       database.Service
	logger   *log.Logger
}

func New(cfg *config.Config, r *resolver.Resolver, db database.Service, logger *log.Logger) *Server {
	if db == nil {
		db = database.NewNoop()
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		port:         cfg.Port,
		allowOrigins: cfg.AllowOrigins,
		provider:     cfg.Generation.Provider,

		resolver: r,
		db:       db,
		logger:   logger,
	}
}

// NewHTTPServer wraps the routes in an http.Server listening on the
// configured port.
func (s *Server) NewHTTPServer() *http.Server {
	// Declare Server config
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}
