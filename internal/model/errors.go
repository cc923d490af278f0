package model

import "errors"

var (
	ErrGameFull         = errors.New("game is full")
	ErrGameNotStarted   = errors.New("waiting for an opponent")
	ErrNotInGame        = errors.New("player not in game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrGameOver         = errors.New("game is over")
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidSquare    = errors.New("invalid square")
	ErrNotAuthorized    = errors.New("not authorized to join this game")
	ErrConnectionExists = errors.New("connection already exists")
	ErrAlreadyQueued    = errors.New("player already in queue")
)
