package engine

import "fmt"

// Board is the 8x8 piece layout indexed [row][col]. It is a value type:
// assigning a Board copies every square.
type Board [8][8]Piece

var backRank = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() Board {
	var b Board
	for col, kind := range backRank {
		b[0][col] = Piece{Kind: kind, Color: Black}
		b[1][col] = Piece{Kind: Pawn, Color: Black}
		b[6][col] = Piece{Kind: Pawn, Color: White}
		b[7][col] = Piece{Kind: kind, Color: White}
	}
	return b
}

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

func (b *Board) clear(sq Square) {
	b[sq.Row][sq.Col] = NoPiece
}

// relocate moves whatever stands on from to to, overwriting any occupant.
func (b *Board) relocate(from, to Square) {
	b.set(to, b.At(from))
	b.clear(from)
}

// KingSquare locates the king of color c. A board without that king was
// corrupted outside the engine and cannot be played on.
func (b *Board) KingSquare(c Color) Square {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b[row][col]; p.Kind == King && p.Color == c {
				return Square{Row: row, Col: col}
			}
		}
	}
	panic(fmt.Sprintf("engine: board has no %s king", c))
}

func (b *Board) countKings(c Color) int {
	n := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b[row][col]; p.Kind == King && p.Color == c {
				n++
			}
		}
	}
	return n
}
