package engine

// GeneratePseudoMoves lists the geometrically possible moves of the piece on
// sq, ignoring whether they leave its own king attacked. The side to move is
// not consulted; callers only ask for the pieces of the side to move.
func GeneratePseudoMoves(s *GameState, sq Square) []Move {
	if !sq.Valid() {
		return nil
	}
	piece := s.Board.At(sq)
	switch piece.Kind {
	case Pawn:
		return pawnMoves(s, sq, piece.Color)
	case Knight:
		return stepMoves(&s.Board, sq, piece.Color, knightDirs)
	case Bishop:
		return slideMoves(&s.Board, sq, piece.Color, bishopDirs)
	case Rook:
		return slideMoves(&s.Board, sq, piece.Color, rookDirs)
	case Queen:
		return slideMoves(&s.Board, sq, piece.Color, queenDirs)
	case King:
		return append(stepMoves(&s.Board, sq, piece.Color, kingDirs), castleMoves(s, sq, piece.Color)...)
	default:
		return nil
	}
}

func pawnMoves(s *GameState, from Square, c Color) []Move {
	var moves []Move
	dir := c.forward()

	one := from.offset(dir, 0)
	if one.Valid() && s.Board.At(one).Empty() {
		moves = appendPawnMove(moves, from, one, c)
		two := from.offset(2*dir, 0)
		if from.Row == c.pawnRow() && s.Board.At(two).Empty() {
			moves = append(moves, Move{From: from, To: two})
		}
	}
	for _, dCol := range [2]int{-1, 1} {
		to := from.offset(dir, dCol)
		if !to.Valid() {
			continue
		}
		target := s.Board.At(to)
		if (!target.Empty() && target.Color != c) || isEnPassantCapture(s, from, to, c) {
			moves = appendPawnMove(moves, from, to, c)
		}
	}
	return moves
}

// isEnPassantCapture reports whether a pawn of c moving from -> to lands on the
// en passant target with the skipping enemy pawn beside it.
func isEnPassantCapture(s *GameState, from, to Square, c Color) bool {
	if !s.HasEnPassant() || to != s.EnPassant || !s.Board.At(to).Empty() {
		return false
	}
	return s.Board.At(Square{Row: from.Row, Col: to.Col}) == Piece{Kind: Pawn, Color: c.Opponent()}
}

// appendPawnMove emits one move per promotion kind when to is on the far rank.
func appendPawnMove(moves []Move, from, to Square, c Color) []Move {
	if to.Row != c.farRow() {
		return append(moves, Move{From: from, To: to})
	}
	for _, k := range PromotionKinds {
		moves = append(moves, Move{From: from, To: to, Promotion: k})
	}
	return moves
}

func stepMoves(b *Board, from Square, c Color, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		to := from.offset(d.dRow, d.dCol)
		if !to.Valid() {
			continue
		}
		if target := b.At(to); target.Empty() || target.Color != c {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func slideMoves(b *Board, from Square, c Color, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		for to := from.offset(d.dRow, d.dCol); to.Valid(); to = to.offset(d.dRow, d.dCol) {
			target := b.At(to)
			if target.Empty() {
				moves = append(moves, Move{From: from, To: to})
				continue
			}
			if target.Color != c {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

// castleSide describes the fixed geometry of castling toward one rook.
type castleSide struct {
	rookCol     int
	kingToCol   int
	rookToCol   int
	emptyCols   []int
	crossedCols []int
}

var (
	kingsideCastle  = castleSide{rookCol: 7, kingToCol: 6, rookToCol: 5, emptyCols: []int{5, 6}, crossedCols: []int{5, 6}}
	queensideCastle = castleSide{rookCol: 0, kingToCol: 2, rookToCol: 3, emptyCols: []int{1, 2, 3}, crossedCols: []int{3, 2}}
)

// castleSideFor returns the geometry of a king move to toCol on its home row.
func castleSideFor(toCol int) castleSide {
	if toCol == kingsideCastle.kingToCol {
		return kingsideCastle
	}
	return queensideCastle
}

func castleMoves(s *GameState, from Square, c Color) []Move {
	row := c.homeRow()
	if from != (Square{Row: row, Col: 4}) {
		return nil
	}
	rights := s.Rights(c)
	var moves []Move
	if rights.Kingside && canCastle(s, c, kingsideCastle) {
		moves = append(moves, Move{From: from, To: Square{Row: row, Col: kingsideCastle.kingToCol}})
	}
	if rights.Queenside && canCastle(s, c, queensideCastle) {
		moves = append(moves, Move{From: from, To: Square{Row: row, Col: queensideCastle.kingToCol}})
	}
	return moves
}

func canCastle(s *GameState, c Color, side castleSide) bool {
	row := c.homeRow()
	if s.Board.At(Square{Row: row, Col: side.rookCol}) != (Piece{Kind: Rook, Color: c}) {
		return false
	}
	for _, col := range side.emptyCols {
		if !s.Board.At(Square{Row: row, Col: col}).Empty() {
			return false
		}
	}
	enemy := c.Opponent()
	if IsAttacked(&s.Board, Square{Row: row, Col: 4}, enemy) {
		return false
	}
	for _, col := range side.crossedCols {
		if IsAttacked(&s.Board, Square{Row: row, Col: col}, enemy) {
			return false
		}
	}
	return true
}
