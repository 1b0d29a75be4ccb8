package engine

/*
	Round scoring, both manual and forfeit:
	  any mode          -> games_played++ for both
	  tournament off    -> winner games_won++
	  tournament on     -> loser hp-- (EvtHPLost), winner games_won++ and streak++,
	                       loser streak = 0, draw resets both streaks
	                       streak hits SpreeLength -> +1 hp up to the cap, streak = 0 (EvtKillingSpree)
	                       loser hp <= 0 -> EvtPlayerDied
*/

// ScoreRound applies one finished round to both players. tournament is true
// only while an LMS tournament is running.
func ScoreRound(challenger, target *Player, out Outcome, tournament bool, rules Rules) []Event {
	challenger.GamesPlayed++
	target.GamesPlayed++

	var winner, loser *Player
	switch out {
	case ChallengerWins:
		winner, loser = challenger, target
	case TargetWins:
		winner, loser = target, challenger
	}

	if !tournament {
		if winner != nil {
			winner.GamesWon++
		}
		return nil
	}

	if winner == nil {
		challenger.WinStreak = 0
		target.WinStreak = 0
		return nil
	}

	winner.GamesWon++
	winner.WinStreak++
	loser.WinStreak = 0
	loser.HP = max(loser.HP-1, 0)

	events := []Event{{Type: EvtHPLost, PlayerID: loser.ID, Name: loser.Name, HP: loser.HP}}

	if winner.WinStreak == rules.SpreeLength && winner.Alive() {
		before := winner.HP
		winner.HP = min(winner.HP+1, rules.InitialHP)
		winner.WinStreak = 0
		events = append(events, Event{Type: EvtKillingSpree, PlayerID: winner.ID, Name: winner.Name, HP: winner.HP, Gained: winner.HP - before})
	}

	if !loser.Alive() {
		events = append(events, Event{Type: EvtPlayerDied, PlayerID: loser.ID, Name: loser.Name})
	}
	return events
}
