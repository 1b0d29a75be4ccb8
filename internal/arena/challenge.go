package arena

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/rps-arena/internal/engine"
	"github.com/DoyleJ11/rps-arena/internal/hub"
)

/*
	idle --/challenge--> challenger: InMatch, Target, PendingMove, ChallengeID
	                     target:     InMatch, ChallengedBy, ChallengeID
	target --/move-->         scored, both idle
	timer fires, no reply --> challenger wins by forfeit, both idle
	                          (dead LMS target keeps InMatch, see Rules)
	The shared ChallengeID decides which of /move and the timer gets to score;
	the other finds the pair idle or carrying a newer id and does nothing.
*/

func (a *Arena) issueChallenge(challengerID, targetID int, move engine.Move) error {
	challenger, err := a.players.Lookup(challengerID)
	if err != nil {
		return nil
	}
	target, err := a.players.Lookup(targetID)

	switch {
	case err != nil:
		return engine.Reject(fmt.Errorf("%w with id %d", engine.ErrUnknownTarget, targetID))
	case !target.Alive():
		return engine.Reject(fmt.Errorf("%w: %s", engine.ErrTargetEliminated, target.Name))
	case target.ID == challenger.ID:
		return engine.Reject(engine.ErrSelfChallenge)
	case challenger.Busy():
		return engine.Reject(engine.ErrAlreadyMatched)
	case target.Busy():
		return engine.Reject(fmt.Errorf("%w: %s", engine.ErrTargetBusy, target.Name))
	case !challenger.Alive():
		return engine.Reject(engine.ErrEliminated)
	case !move.Valid():
		return engine.Reject(fmt.Errorf("%w, invalid move %q", engine.ErrBadCommand, move))
	}

	a.lastChallengeID++
	id := a.lastChallengeID

	challenger.InMatch = true
	challenger.Target = target.ID
	challenger.PendingMove = move
	challenger.ChallengeID = id

	target.InMatch = true
	target.ChallengedBy = challenger.ID
	target.Responded = false
	target.ChallengeID = id

	expired := ChallengeExpired{ChallengerID: challenger.ID, TargetID: target.ID, ChallengeID: id}
	a.timers.schedule(id, a.rules.ChallengeTimeout, func() { a.post(expired) })

	a.hub.SendTo(target.ID, fmt.Sprintf("Challenge: %s challenged you to a game. Timeout in %s\n",
		challenger.Name, formatTimeout(a.rules.ChallengeTimeout)))
	a.log.Debug("challenge issued",
		zap.Int("challenge_id", id),
		zap.Int("challenger_id", challenger.ID),
		zap.Int("target_id", target.ID))
	return nil
}

// submitMove answers a pending challenge. With nothing pending it is a no-op
// apart from the optional status rebroadcast.
func (a *Arena) submitMove(playerID int, move engine.Move) {
	p, err := a.players.Lookup(playerID)
	if err != nil {
		return
	}

	if p.ChallengedBy == 0 {
		if a.rules.StatusOnIdleMove {
			a.broadcastStatus()
		}
		return
	}

	id := p.ChallengeID
	challenger, err := a.players.Lookup(p.ChallengedBy)
	if err != nil || !challenger.InMatch || challenger.ChallengeID != id {
		a.log.Debug("dropping stale challenge", zap.Int("challenge_id", id), zap.Int("player_id", p.ID))
		a.timers.cancel(id)
		p.Release()
		return
	}

	p.Responded = true
	a.timers.cancel(id)

	challengerMove := challenger.PendingMove
	out := engine.Resolve(challengerMove, move)
	tournament := a.tournamentRunning()

	events := engine.ScoreRound(challenger, p, out, tournament, a.rules)
	a.announce(events, false)
	if tournament {
		a.checkTournamentEnd()
	}

	challenger.Release()
	p.Release()

	var verdict string
	switch out {
	case engine.ChallengerWins:
		verdict = challenger.Name + " wins!"
	case engine.TargetWins:
		verdict = p.Name + " wins!"
	default:
		verdict = "It's a draw!"
	}
	a.hub.Broadcast(fmt.Sprintf("Match Result: %s (%s) vs %s (%s) - %s\n",
		challenger.Name, challengerMove, p.Name, move, verdict), hub.Everyone)
	a.log.Info("challenge resolved",
		zap.Int("challenge_id", id),
		zap.Stringer("outcome", out),
		zap.Bool("tournament", tournament))

	a.broadcastStatus()
}

// challengeTimeout runs when a challenge timer fires. Only a challenge that is
// still live under the same id is scored; the challenger wins by forfeit.
func (a *Arena) challengeTimeout(challengerID, targetID, challengeID int) {
	a.timers.cancel(challengeID)

	challenger, err := a.players.Lookup(challengerID)
	if err != nil {
		return
	}
	target, err := a.players.Lookup(targetID)
	if err != nil {
		return
	}
	if !challenger.InMatch || !target.InMatch ||
		challenger.ChallengeID != challengeID || target.ChallengeID != challengeID ||
		target.ChallengedBy != challenger.ID || target.Responded {
		a.log.Debug("stale challenge timeout", zap.Int("challenge_id", challengeID))
		return
	}

	tournament := a.tournamentRunning()
	events := engine.ScoreRound(challenger, target, engine.ChallengerWins, tournament, a.rules)
	a.announce(events, true)
	if tournament {
		a.checkTournamentEnd()
	}

	challenger.Release()
	target.Release()
	if tournament && !target.Alive() && a.rules.KeepDeadForfeiterMatched {
		target.InMatch = true
	}

	a.hub.Broadcast(fmt.Sprintf("Match Result: %s wins by timeout (no response from %s)\n",
		challenger.Name, target.Name), hub.Everyone)
	a.log.Info("challenge timed out",
		zap.Int("challenge_id", challengeID),
		zap.Int("challenger_id", challenger.ID),
		zap.Int("target_id", target.ID),
		zap.Bool("tournament", tournament))

	a.broadcastStatus()
}

func (a *Arena) announce(events []engine.Event, forfeit bool) {
	for _, e := range events {
		switch e.Type {
		case engine.EvtHPLost:
			how := ""
			if forfeit {
				how = " by timeout"
			}
			a.hub.Broadcast(fmt.Sprintf("%s lost 1 HP%s! Remaining HP: %d\n", e.Name, how, e.HP), hub.Everyone)
		case engine.EvtKillingSpree:
			if e.Gained > 0 {
				a.hub.Broadcast(fmt.Sprintf("🔥 Killing Spree! %s gains +1 HP! 🔥\n", e.Name), hub.Everyone)
			} else {
				a.hub.Broadcast(fmt.Sprintf("🔥 Killing Spree! %s is already at full HP (%d)! 🔥\n", e.Name, e.HP), hub.Everyone)
			}
		case engine.EvtPlayerDied:
			a.hub.Broadcast(fmt.Sprintf("%s has died.\n", e.Name), hub.Everyone)
		}
	}
}

func formatTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
	return d.String()
}
