package arena

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/internal/hub"
	"github.com/DoyleJ11/rps-arena/pkg/types"
)

func (a *Arena) renderStatus() string {
	var b strings.Builder
	b.WriteString(types.StatusStart + "\n")
	a.players.ForEach(func(p *engine.Player) {
		fmt.Fprintf(&b, "%s | Games: %d | Ratio: %.2f | HP: %d\n", p.Name, p.GamesPlayed, p.WinRatio(), p.HP)
	})
	b.WriteString(types.StatusEnd + "\n")
	return b.String()
}

// broadcastStatus sends the status block to everyone, including whoever
// triggered it.
func (a *Arena) broadcastStatus() {
	a.hub.Broadcast(a.renderStatus(), hub.Everyone)
}

func (a *Arena) snapshot() types.ArenaSnapshot {
	s := types.ArenaSnapshot{
		Mode:              string(a.mode.selected),
		DeathmatchPlayers: a.mode.connected[engine.ModeDeathmatch],
		DeathmatchStarted: a.mode.started[engine.ModeDeathmatch],
		LMSPlayers:        a.mode.connected[engine.ModeLMS],
		LMSStarted:        a.mode.started[engine.ModeLMS],
		ChallengesIssued:  a.lastChallengeID,
		Players:           make([]types.PlayerSnapshot, 0, a.players.Len()),
	}
	a.players.ForEach(func(p *engine.Player) {
		s.Players = append(s.Players, types.PlayerSnapshot{
			ID:          p.ID,
			Name:        p.Name,
			GamesPlayed: p.GamesPlayed,
			GamesWon:    p.GamesWon,
			WinRatio:    p.WinRatio(),
			HP:          p.HP,
			WinStreak:   p.WinStreak,
			Mode:        string(p.Mode),
			InMatch:     p.InMatch,
		})
	})
	return s
}
