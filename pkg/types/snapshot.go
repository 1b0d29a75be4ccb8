package types

// ArenaSnapshot is the JSON view served by GET /status.
type ArenaSnapshot struct {
	Mode              string           `json:"mode,omitempty"`
	DeathmatchPlayers int              `json:"deathmatch_players"`
	DeathmatchStarted bool             `json:"deathmatch_started"`
	LMSPlayers        int              `json:"lms_players"`
	LMSStarted        bool             `json:"lms_started"`
	ChallengesIssued  int              `json:"challenges_issued"`
	Players           []PlayerSnapshot `json:"players"`
}

type PlayerSnapshot struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinRatio    float64 `json:"win_ratio"`
	HP          int     `json:"hp"`
	WinStreak   int     `json:"win_streak"`
	Mode        string  `json:"mode,omitempty"`
	InMatch     bool    `json:"in_match"`
}
