package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/rps-arena/internal/arena"
)

const snapshotTimeout = 2 * time.Second

// Status serves the arena snapshot as JSON.
func Status(a Arena, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
		defer cancel()

		snap, err := a.Snapshot(ctx)
		switch {
		case errors.Is(err, arena.ErrClosed):
			http.Error(w, "arena closed", http.StatusServiceUnavailable)
			return
		case err != nil:
			log.Warn("snapshot failed", zap.Error(err))
			http.Error(w, "snapshot unavailable", http.StatusGatewayTimeout)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(snap)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
