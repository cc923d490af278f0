package model

import "github.com/benbeisheim/chess-backend/internal/engine"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func pieceTypeOf(k engine.PieceKind) PieceType {
	return PieceType(k.String())
}

// engineKind converts a client piece name to the engine's kind.
func (p PieceType) engineKind() (engine.PieceKind, bool) {
	return engine.ParsePieceKind(string(p))
}

type ClientPiece struct {
	Type  PieceType `json:"type"`
	Color string    `json:"color"`
}

func newClientPiece(p engine.Piece) ClientPiece {
	return ClientPiece{Type: pieceTypeOf(p.Kind), Color: p.Color.String()}
}

// BoardView is the board as clients draw it: row 0 is rank 8, column 0 is
// the a-file, nil for empty squares.
type BoardView [][]*ClientPiece

func newBoardView(b *engine.Board) BoardView {
	view := make(BoardView, 8)
	for row := 0; row < 8; row++ {
		view[row] = make([]*ClientPiece, 8)
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p.Empty() {
				continue
			}
			cp := newClientPiece(p)
			view[row][col] = &cp
		}
	}
	return view
}
