package model

import "github.com/benbeisheim/chess-backend/internal/engine"

type Player struct {
	ID    string
	Color PlayerColor
}

type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    PlayerColor `json:"color"`
	TimeLeft int         `json:"timeLeft"` // tenths of a second
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorWhite {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}

func playerColorOf(c engine.Color) PlayerColor {
	return PlayerColor(c.String())
}

// MatchFoundEvent is pushed to both players when matchmaking pairs them.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}
