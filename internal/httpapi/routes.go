package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/rps-arena/internal/ws"
	"github.com/DoyleJ11/rps-arena/pkg/types"
)

// Arena is what the HTTP surface needs from the arena.
type Arena interface {
	ws.Arena
	Snapshot(ctx context.Context) (types.ArenaSnapshot, error)
}

func SetupRoutes(a Arena, outboxSize int, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/status", Status(a, log))
	r.Get("/ws", ws.Handler(a, outboxSize, log.Named("ws")))
	return r
}
