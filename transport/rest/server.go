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
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/gridrooms/tictactoe-backend/internal/entity"
)

type gameReader interface {
	GetGameState(code string) (entity.RoomState, error)
}

type roomCounter interface {
	Count() int
}

// Server is the read-only HTTP surface next to the websocket gateway:
// health checks plus room snapshots for page loads, never mutation.
type Server struct {
	logger *slog.Logger
	games  gameReader
	rooms  roomCounter
}

func New(logger *slog.Logger, games gameReader, rooms roomCounter) *Server {
	return &Server{
		logger: logger,
		games:  games,
		rooms:  rooms,
	}
}

func (that *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	router.Use(httprate.LimitByIP(60, time.Minute))

	router.Get("/ping", that.handlePing)
	router.Get("/api/games/{code}", that.handleGetGame)
	router.Get("/api/stats", that.handleStats)

	return router
}

func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
