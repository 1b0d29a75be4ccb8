package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/rps-arena/internal/arena"
	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/pkg/types"
)

func newArena(t *testing.T) (*arena.Arena, http.Handler) {
	t.Helper()
	log := zaptest.NewLogger(t)
	a := arena.New(context.Background(), engine.DefaultRules(), log)
	t.Cleanup(a.Close)
	return a, SetupRoutes(a, 16, log)
}

func TestHealthz(t *testing.T) {
	_, h := newArena(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus_ReportsPlayersAndModes(t *testing.T) {
	a, h := newArena(t)
	ctx := context.Background()

	alice, err := a.Join(ctx, "alice", make(chan string, 16))
	require.NoError(t, err)
	_, err = a.Join(ctx, "", make(chan string, 16))
	require.NoError(t, err)
	a.Dispatch(alice, "/mode deathmatch")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap types.ArenaSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "deathmatch", snap.Mode)
	assert.Equal(t, 1, snap.DeathmatchPlayers)
	assert.False(t, snap.DeathmatchStarted)
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "alice", snap.Players[0].Name)
	assert.Equal(t, "deathmatch", snap.Players[0].Mode)
	assert.Equal(t, "Player2", snap.Players[1].Name)
	assert.Equal(t, 5, snap.Players[1].HP)
}

func TestStatus_ClosedArena(t *testing.T) {
	a, h := newArena(t)
	a.Close()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	_, h := newArena(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
