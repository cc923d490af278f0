package engine

type direction struct {
	dRow int
	dCol int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	kingDirs   = queenDirs
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// IsAttacked reports whether any piece of color by attacks sq on b. Occupancy
// of sq itself is irrelevant.
func IsAttacked(b *Board, sq Square, by Color) bool {
	// a pawn of color by attacks from one row behind its direction of travel
	for _, dCol := range [2]int{-1, 1} {
		from := sq.offset(-by.forward(), dCol)
		if from.Valid() && b.At(from) == (Piece{Kind: Pawn, Color: by}) {
			return true
		}
	}
	for _, d := range knightDirs {
		from := sq.offset(d.dRow, d.dCol)
		if from.Valid() && b.At(from) == (Piece{Kind: Knight, Color: by}) {
			return true
		}
	}
	for _, d := range kingDirs {
		from := sq.offset(d.dRow, d.dCol)
		if from.Valid() && b.At(from) == (Piece{Kind: King, Color: by}) {
			return true
		}
	}
	if rayHits(b, sq, by, rookDirs, Rook) {
		return true
	}
	return rayHits(b, sq, by, bishopDirs, Bishop)
}

// rayHits walks outward from sq along dirs and reports whether the first
// occupied square in any direction holds a slider of color by that moves
// along that line (kind or queen).
func rayHits(b *Board, sq Square, by Color, dirs []direction, kind PieceKind) bool {
	for _, d := range dirs {
		for target := sq.offset(d.dRow, d.dCol); target.Valid(); target = target.offset(d.dRow, d.dCol) {
			p := b.At(target)
			if p.Empty() {
				continue
			}
			if p.Color == by && (p.Kind == kind || p.Kind == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether c's king is attacked on b.
func InCheck(b *Board, c Color) bool {
	return IsAttacked(b, b.KingSquare(c), c.Opponent())
}
