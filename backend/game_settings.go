package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type GameSettings struct {
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	XType   PlayerType `json:"-"`
	OType   PlayerType `json:"-"`
	OStarts bool       `json:"o_starts"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		Rows:    3,
		Cols:    3,
		XType:   PlayerHuman,
		OType:   PlayerAI,
		OStarts: false,
	}
}
