package registry

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/internal/hub"
)

// Registry indexes connected players by id. Like the hub it is owned by the
// arena loop; challenge state refers to players by id only, so a departed
// player is simply not found.
type Registry struct {
	players map[int]*engine.Player
	hub     *hub.Hub
	rules   engine.Rules
	log     *zap.Logger
}

func New(h *hub.Hub, rules engine.Rules, log *zap.Logger) *Registry {
	return &Registry{
		players: make(map[int]*engine.Player),
		hub:     h,
		rules:   rules,
		log:     log,
	}
}

// Register creates the player record, attaches its outbox to the hub and
// tells everyone else.
func (r *Registry) Register(id int, name string, outbox chan string) *engine.Player {
	p := engine.NewPlayer(id, name, r.rules)
	r.players[id] = p
	r.hub.Add(id, outbox)
	r.hub.Broadcast(fmt.Sprintf("%s joined the chat.\n", p.Name), id)
	r.log.Info("player registered", zap.Int("player_id", id), zap.String("name", p.Name))
	return p
}

// Unregister removes the player, closes its outbox and tells everyone else.
// Unknown ids are ignored.
func (r *Registry) Unregister(id int) {
	p, ok := r.players[id]
	if !ok {
		return
	}
	delete(r.players, id)
	r.hub.Remove(id)
	r.hub.Broadcast(fmt.Sprintf("%s left the chat.\n", p.Name), hub.Everyone)
	r.log.Info("player unregistered", zap.Int("player_id", id), zap.String("name", p.Name))
}

func (r *Registry) Lookup(id int) (*engine.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", engine.ErrPlayerNotFound, id)
	}
	return p, nil
}

// ForEach visits players in ascending id order.
func (r *Registry) ForEach(fn func(*engine.Player)) {
	ids := make([]int, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fn(r.players[id])
	}
}

func (r *Registry) Len() int { return len(r.players) }
