package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/blogly/config"
	"github.com/rpupo63/blogly/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, blog *services.BlogService) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, err := NewRouter(blog, WithConfig(c), WithLogger(log.Logger))
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 30)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config map[string]string
	logger zerolog.Logger
}

type RouterOption func(*router)

func WithConfig(c map[string]string) RouterOption {
	return func(r *router) {
		r.config = c
	}
}

func WithLogger(logger zerolog.Logger) RouterOption {
	return func(r *router) {
		r.logger = logger
	}
}

// NewRouter builds the chi router serving the HTML pages and the JSON API.
func NewRouter(blog *services.BlogService, opts ...RouterOption) (*chi.Mux, error) {
	router := router{logger: log.Logger}
	for _, opt := range opts {
		opt(&router)
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("error loading templates: %w", err)
	}

	handlers := initializeHandlers(blog, pages)
	notFound := NewResponder(router.logger, pages)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware(router.logger))

	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound.RenderNotFound(w)
	})

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}

	setupPageRoutes(chiRouter, handlers)
	setupAPIRoutes(chiRouter, handlers, acceptedOrigins)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
