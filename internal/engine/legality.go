package engine

// FilterLegal keeps the moves of color c that do not leave c's king
// attacked. Each candidate is played on a private copy of the board; s is
// never modified.
func FilterLegal(s *GameState, moves []Move, c Color) []Move {
	legal := make([]Move, 0, len(moves))
	for _, m := range moves {
		scratch := s.Board
		applyToBoard(&scratch, m, s.EnPassant)
		if !IsAttacked(&scratch, scratch.KingSquare(c), c.Opponent()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// applyToBoard performs the piece placement of m on b: the rook hop of a
// castle, the removal of an en passant victim and promotion substitution.
// It returns what the move captured and where. Rights, en passant and turn
// bookkeeping are left to the caller.
func applyToBoard(b *Board, m Move, enPassant Square) (captured Piece, capturedOn Square) {
	mover := b.At(m.From)
	captured, capturedOn = b.At(m.To), m.To

	switch {
	case mover.Kind == King && abs(m.To.Col-m.From.Col) == 2:
		side := castleSideFor(m.To.Col)
		b.relocate(m.From, m.To)
		b.relocate(Square{Row: m.From.Row, Col: side.rookCol}, Square{Row: m.From.Row, Col: side.rookToCol})
	case mover.Kind == Pawn && m.To == enPassant && m.From.Col != m.To.Col && captured.Empty():
		victim := Square{Row: m.From.Row, Col: m.To.Col}
		captured, capturedOn = b.At(victim), victim
		b.clear(victim)
		b.relocate(m.From, m.To)
	default:
		b.relocate(m.From, m.To)
		if m.Promotion != NoKind && mover.Kind == Pawn && m.To.Row == mover.Color.farRow() {
			b.set(m.To, Piece{Kind: m.Promotion, Color: mover.Color})
		}
	}
	if captured.Empty() {
		capturedOn = NoSquare
	}
	return captured, capturedOn
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
