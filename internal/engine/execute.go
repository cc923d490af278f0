package engine

// CastleKind records which castle, if any, a move performed.
type CastleKind int

const (
	NoCastle CastleKind = iota
	CastleKingside
	CastleQueenside
)

// MoveRecord describes an executed move for notation and bookkeeping.
type MoveRecord struct {
	Move       Move
	Piece      Piece
	Captured   Piece
	CapturedOn Square
	Castle     CastleKind
	EnPassant  bool
	Promotion  PieceKind
}

func (r MoveRecord) IsCapture() bool {
	return !r.Captured.Empty()
}

// Execute applies m, which must have come out of FilterLegal for s, and
// hands the turn to the opponent. Castling and en passant are recognised
// from the moving piece and the geometry of m.
func Execute(s *GameState, m Move) MoveRecord {
	mover := s.Board.At(m.From)
	c := mover.Color
	record := MoveRecord{Move: m, Piece: mover, CapturedOn: NoSquare}

	switch {
	case mover.Kind == King && abs(m.To.Col-m.From.Col) == 2:
		record.Castle = CastleQueenside
		if m.To.Col == kingsideCastle.kingToCol {
			record.Castle = CastleKingside
		}
	case mover.Kind == Pawn && m.To == s.EnPassant && m.From.Col != m.To.Col && s.Board.At(m.To).Empty():
		record.EnPassant = true
	}

	record.Captured, record.CapturedOn = applyToBoard(&s.Board, m, s.EnPassant)
	if m.Promotion != NoKind && mover.Kind == Pawn && m.To.Row == c.farRow() {
		record.Promotion = m.Promotion
	}

	switch mover.Kind {
	case King:
		s.Castling[c] = SideRights{}
	case Rook:
		s.revokeRookRights(c, m.From)
	}
	if record.IsCapture() && record.Captured.Kind == Rook {
		s.revokeRookRights(record.Captured.Color, record.CapturedOn)
	}

	s.EnPassant = NoSquare
	if mover.Kind == Pawn && abs(m.To.Row-m.From.Row) == 2 {
		s.EnPassant = Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
	}

	s.SideToMove = c.Opponent()
	return record
}

// revokeRookRights clears the right tied to a rook of color c leaving or
// being captured on sq, if sq is one of c's rook corners.
func (s *GameState) revokeRookRights(c Color, sq Square) {
	if sq.Row != c.homeRow() {
		return
	}
	switch sq.Col {
	case queensideCastle.rookCol:
		s.Castling[c].Queenside = false
	case kingsideCastle.rookCol:
		s.Castling[c].Kingside = false
	}
}
