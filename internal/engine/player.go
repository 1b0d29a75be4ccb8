package engine

import "fmt"

type Player struct {
	ID   int
	Name string

	GamesPlayed int
	GamesWon    int
	HP          int
	WinStreak   int
	Mode        Mode

	InMatch      bool
	Target       int  // set on the challenger side
	PendingMove  Move // challenger's committed move
	ChallengedBy int  // set on the challenged side
	Responded    bool
	ChallengeID  int
}

func NewPlayer(id int, name string, rules Rules) *Player {
	if name == "" {
		name = fmt.Sprintf("Player%d", id)
	}
	return &Player{ID: id, Name: name, HP: rules.InitialHP}
}

func (p *Player) Alive() bool { return p.HP > 0 }

// Busy reports whether the player is matched or owes a response.
func (p *Player) Busy() bool { return p.InMatch || p.ChallengedBy != 0 }

func (p *Player) WinRatio() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(p.GamesPlayed)
}

// Release returns the player to idle.
func (p *Player) Release() {
	p.InMatch = false
	p.Target = 0
	p.PendingMove = ""
	p.ChallengedBy = 0
	p.Responded = false
	p.ChallengeID = 0
}
