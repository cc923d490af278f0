package engine

import "errors"

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidFEN    = errors.New("invalid FEN")
)
