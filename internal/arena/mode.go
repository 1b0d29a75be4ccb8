package arena

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/internal/hub"
)

// setMode commits a player to a mode. The arena-wide mode follows the last
// successful call; per-mode counters never go down.
func (a *Arena) setMode(playerID int, mode engine.Mode) error {
	p, err := a.players.Lookup(playerID)
	if err != nil {
		return nil
	}

	if p.Busy() {
		return engine.Reject(engine.ErrModeInMatch)
	}
	// The dead sit out a running tournament. Once it ends they may pick a
	// mode again, and /mode lms restores them to full hp.
	if !p.Alive() && a.mode.started[engine.ModeLMS] {
		return engine.Reject(engine.ErrEliminated)
	}
	mode, err = engine.ParseMode(string(mode))
	if err != nil {
		return err
	}
	if p.Mode == mode && p.Alive() {
		return engine.Reject(fmt.Errorf("%w: %s", engine.ErrModeAlreadyJoined, mode))
	}

	p.Mode = mode
	a.mode.selected = mode
	a.mode.connected[mode]++
	count := a.mode.connected[mode]

	switch mode {
	case engine.ModeDeathmatch:
		if count >= a.rules.DeathmatchQuorum && !a.mode.started[mode] {
			a.mode.started[mode] = true
			a.hub.Broadcast(fmt.Sprintf("Deathmatch: At least %d players connected. Game starting!\n", a.rules.DeathmatchQuorum), hub.Everyone)
			a.log.Info("deathmatch started", zap.Int("players", count))
		}
	case engine.ModeLMS:
		p.HP = a.rules.InitialHP
		if count == a.rules.LMSRoster {
			a.mode.started[mode] = true
			a.hub.Broadcast("LMS: All players connected. Game starting!\n", hub.Everyone)
			a.log.Info("lms tournament started", zap.Int("players", count))
		}
	}

	a.hub.Broadcast(fmt.Sprintf("%s joined in mode: %s\n", p.Name, mode), p.ID)
	return nil
}

// tournamentRunning reports whether rounds currently cost hit points.
func (a *Arena) tournamentRunning() bool {
	return a.mode.selected == engine.ModeLMS && a.mode.started[engine.ModeLMS]
}

// checkTournamentEnd closes the LMS tournament once at most one LMS player is
// still alive.
func (a *Arena) checkTournamentEnd() {
	if !a.mode.started[engine.ModeLMS] {
		return
	}

	alive := 0
	var survivor *engine.Player
	a.players.ForEach(func(p *engine.Player) {
		if p.Mode == engine.ModeLMS && p.Alive() {
			alive++
			survivor = p
		}
	})

	switch alive {
	case 1:
		a.hub.Broadcast(fmt.Sprintf("Game Over! Winner: %s\n", survivor.Name), hub.Everyone)
		a.log.Info("lms tournament won", zap.Int("player_id", survivor.ID), zap.String("name", survivor.Name))
	case 0:
		a.hub.Broadcast("Game Over! No survivors.\n", hub.Everyone)
		a.log.Info("lms tournament ended without survivors")
	default:
		return
	}
	a.mode.started[engine.ModeLMS] = false
	a.broadcastStatus()
}
