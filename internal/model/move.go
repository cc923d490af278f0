package model

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

// WSMove is a move request as clients send it, in algebraic squares.
type WSMove struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// toEngine validates the squares and promotion name of m. A pawn reaching the
// far rank without a promotion choice is promoted to a queen.
func (m WSMove) toEngine(position *engine.GameState) (engine.Move, error) {
	from, err := engine.ParseSquare(m.From)
	if err != nil {
		return engine.Move{}, fmt.Errorf("%w: from %q", ErrInvalidSquare, m.From)
	}
	to, err := engine.ParseSquare(m.To)
	if err != nil {
		return engine.Move{}, fmt.Errorf("%w: to %q", ErrInvalidSquare, m.To)
	}
	move := engine.Move{From: from, To: to}
	if m.Promotion != "" {
		kind, ok := m.Promotion.engineKind()
		if !ok {
			return engine.Move{}, fmt.Errorf("%w: unknown promotion %q", ErrIllegalMove, m.Promotion)
		}
		move.Promotion = kind
	} else if isPromotionSquare(position, from, to) {
		move.Promotion = engine.Queen
	}
	return move, nil
}

func isPromotionSquare(position *engine.GameState, from, to engine.Square) bool {
	p := position.Board.At(from)
	if p.Kind != engine.Pawn {
		return false
	}
	return (p.Color == engine.White && to.Row == 0) || (p.Color == engine.Black && to.Row == 7)
}

type CastleRookMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Ply is one half-move as recorded in the move history.
type Ply struct {
	Piece          ClientPiece     `json:"piece"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	CapturedPiece  *ClientPiece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
	UCI            string          `json:"uci"`
}

func newPly(r engine.MoveRecord, class engine.Classification) Ply {
	ply := Ply{
		Piece:    newClientPiece(r.Piece),
		From:     r.Move.From.String(),
		To:       r.Move.To.String(),
		Notation: r.Notation(class),
		UCI:      r.Move.UCI(),
	}
	if r.IsCapture() {
		captured := newClientPiece(r.Captured)
		ply.CapturedPiece = &captured
	}
	if r.Promotion != engine.NoKind {
		ply.Promotion = pieceTypeOf(r.Promotion)
	}
	if r.Castle != engine.NoCastle {
		row := r.Move.From.Row
		rookFrom, rookTo := engine.Square{Row: row, Col: 7}, engine.Square{Row: row, Col: 5}
		if r.Castle == engine.CastleQueenside {
			rookFrom, rookTo = engine.Square{Row: row, Col: 0}, engine.Square{Row: row, Col: 3}
		}
		ply.CastleRookMove = &CastleRookMove{From: rookFrom.String(), To: rookTo.String()}
	}
	return ply
}

// Move pairs white's ply with black's reply.
type Move struct {
	Number   int  `json:"number"`
	WhitePly Ply  `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}
