package engine

import (
	"fmt"
	"strings"
)

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// forward is the row delta of a pawn advance for c.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) pawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

func (c Color) farRow() int {
	if c == White {
		return 0
	}
	return 7
}

type PieceKind int

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k PieceKind) String() string {
	if k < NoKind || k > King {
		return fmt.Sprintf("PieceKind(%d)", int(k))
	}
	return kindNames[k]
}

// Letter is the SAN/FEN letter of k, upper case. Pawns have none in SAN but
// use "P" in FEN.
func (k PieceKind) Letter() string {
	switch k {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// ParsePieceKind accepts full names ("queen") and letters ("q", "Q").
func ParsePieceKind(s string) (PieceKind, bool) {
	switch s {
	case "pawn", "p", "P":
		return Pawn, true
	case "knight", "n", "N":
		return Knight, true
	case "bishop", "b", "B":
		return Bishop, true
	case "rook", "r", "R":
		return Rook, true
	case "queen", "q", "Q":
		return Queen, true
	case "king", "k", "K":
		return King, true
	}
	return NoKind, false
}

// PromotionKinds lists the kinds a pawn may promote to, in generation order.
var PromotionKinds = [...]PieceKind{Queen, Rook, Bishop, Knight}

func isPromotionKind(k PieceKind) bool {
	for _, p := range PromotionKinds {
		if p == k {
			return true
		}
	}
	return false
}

// Piece is an immutable (kind, color) pair. The zero value is an empty square.
type Piece struct {
	Kind  PieceKind
	Color Color
}

var NoPiece = Piece{}

func (p Piece) Empty() bool {
	return p.Kind == NoKind
}

func (p Piece) String() string {
	if p.Empty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}

// Square addresses the board by row and column. Row 0 is rank 8 (black's back
// rank) and column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

var NoSquare = Square{Row: -1, Col: -1}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

func (s Square) File() string {
	return fmt.Sprintf("%c", 'a'+s.Col)
}

// ParseSquare converts algebraic coordinates such as "e4" to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	col := int(s[0]) - 'a'
	rank := int(s[1]) - '0'
	sq := Square{Row: 8 - rank, Col: col}
	if !sq.Valid() {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

// Move is a request to relocate the piece on From to To. Promotion is NoKind
// unless a pawn reaches the far rank. Castling and en passant are derived
// from the moving piece and the geometry.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// UCI renders m in long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += strings.ToLower(m.Promotion.Letter())
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

// ParseUCIMove is the inverse of Move.UCI.
func ParseUCIMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		k, ok := ParsePieceKind(s[4:])
		if !ok || !isPromotionKind(k) {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
		m.Promotion = k
	}
	return m, nil
}

type Terminal int

const (
	TerminalNone Terminal = iota
	Checkmate
	Stalemate
)

func (t Terminal) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "none"
}

type Classification int

const (
	ClassNone Classification = iota
	ClassCheck
	ClassCheckmate
	ClassStalemate
)

func (c Classification) String() string {
	switch c {
	case ClassCheck:
		return "check"
	case ClassCheckmate:
		return "checkmate"
	case ClassStalemate:
		return "stalemate"
	}
	return "none"
}

// Terminal maps a classification onto the final game state it implies.
func (c Classification) Terminal() Terminal {
	switch c {
	case ClassCheckmate:
		return Checkmate
	case ClassStalemate:
		return Stalemate
	}
	return TerminalNone
}
