package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewRouter wires the match routes.
func NewRouter(logger *slog.Logger, matches matchRegistry, defaultStrategy entity.Strategy) *chi.Mux {
	h := &handlers{
		logger:          logger.With("component", "rest"),
		matches:         matches,
		defaultStrategy: defaultStrategy,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", NewPingHandler().PingHandler)
	r.Post("/matches", h.create)
	r.Route("/matches/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Delete("/", h.remove)
		r.Post("/turn", h.turn)
		r.Post("/restart", h.restart)
	})

	return r
}

func New(logger *slog.Logger, port string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http-server"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start - blocks until the server stops. A graceful Shutdown is not an error.
func (that *Server) Start() error {
	that.logger.Info("listening", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
