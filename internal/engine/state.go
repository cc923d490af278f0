package engine

// SideRights tracks whether one color may still castle toward each rook.
type SideRights struct {
	Kingside  bool
	Queenside bool
}

type CastlingRights [2]SideRights

// GameState is the complete mutable state of one game. It is a plain value:
// copies are independent and two states compare equal with ==.
type GameState struct {
	Board      Board
	SideToMove Color
	Castling   CastlingRights
	EnPassant  Square
	Terminal   Terminal
}

// NewGame returns the standard starting position with white to move.
func NewGame() GameState {
	return GameState{
		Board:      newBoard(),
		SideToMove: White,
		Castling: CastlingRights{
			White: {Kingside: true, Queenside: true},
			Black: {Kingside: true, Queenside: true},
		},
		EnPassant: NoSquare,
		Terminal:  TerminalNone,
	}
}

// Rights returns the castling rights of c.
func (s *GameState) Rights(c Color) SideRights {
	return s.Castling[c]
}

func (s *GameState) HasEnPassant() bool {
	return s.EnPassant.Valid()
}
