package engine

import "strings"

// beats maps each move to the move it defeats.
var beats = map[Move]Move{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

func ParseMove(s string) (Move, bool) {
	m := Move(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", false
	}
	return m, true
}

// Resolve plays the challenger's committed move against the target's reply.
func Resolve(challenger, target Move) Outcome {
	switch {
	case challenger == target:
		return Draw
	case beats[challenger] == target:
		return ChallengerWins
	default:
		return TargetWins
	}
}
