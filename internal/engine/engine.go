package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrBadCommand = errors.New("bad command")
var ErrPlayerNotFound = errors.New("player not found")

var ErrUnknownMode = errors.New("unknown mode")
var ErrModeInMatch = errors.New("cannot switch modes while in a match")
var ErrModeAlreadyJoined = errors.New("already joined this mode")

var ErrUnknownTarget = errors.New("no such player")
var ErrTargetEliminated = errors.New("target is eliminated")
var ErrSelfChallenge = errors.New("cannot challenge yourself")
var ErrAlreadyMatched = errors.New("you are already in a match")
var ErrTargetBusy = errors.New("target is already in a match")
var ErrEliminated = errors.New("you are eliminated")

// UserError is a rejected command. It is reported only to the player that
// issued it and never changes state.
type UserError struct {
	Err error
}

func (e *UserError) Error() string { return e.Err.Error() }
func (e *UserError) Unwrap() error { return e.Err }

// Reject wraps err as a UserError.
func Reject(err error) error { return &UserError{Err: err} }

type Move string

const (
	Rock     Move = "R"
	Paper    Move = "P"
	Scissors Move = "S"
)

func (m Move) Valid() bool {
	_, ok := beats[m]
	return ok
}

type Mode string

const (
	ModeNone       Mode = ""
	ModeDeathmatch Mode = "deathmatch"
	ModeLMS        Mode = "lms"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDeathmatch:
		return ModeDeathmatch, nil
	case ModeLMS:
		return ModeLMS, nil
	default:
		return ModeNone, Reject(fmt.Errorf("%w %q (want deathmatch or lms)", ErrUnknownMode, s))
	}
}

type Outcome int

const (
	Draw Outcome = iota
	ChallengerWins
	TargetWins
)

func (o Outcome) String() string {
	switch o {
	case ChallengerWins:
		return "challenger"
	case TargetWins:
		return "target"
	default:
		return "draw"
	}
}

type Rules struct {
	InitialHP        int
	LMSRoster        int
	DeathmatchQuorum int
	SpreeLength      int
	ChallengeTimeout time.Duration

	// KeepDeadForfeiterMatched leaves a challenged player who dies from a
	// timeout forfeit in LMS flagged as in a match.
	KeepDeadForfeiterMatched bool
	// StatusOnIdleMove rebroadcasts the status block when /move arrives with
	// no pending challenge.
	StatusOnIdleMove bool
}

func DefaultRules() Rules {
	return Rules{
		InitialHP:                5,
		LMSRoster:                3,
		DeathmatchQuorum:         2,
		SpreeLength:              3,
		ChallengeTimeout:         10 * time.Second,
		KeepDeadForfeiterMatched: true,
		StatusOnIdleMove:         true,
	}
}

type EventType string

const (
	EvtHPLost       EventType = "HPLost"
	EvtKillingSpree EventType = "KillingSpree"
	EvtPlayerDied   EventType = "PlayerDied"
)

type Event struct {
	Type     EventType
	PlayerID int
	Name     string
	HP       int
	Gained   int // hp added by a killing spree, 0 when already at the cap
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
