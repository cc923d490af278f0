package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a GameState from Forsyth-Edwards Notation. Only the first
// four fields are used; move counters are accepted and ignored. The position
// must hold exactly one king per color, no pawns on the back ranks, and the
// side not to move must not be in check.
func ParseFEN(fen string) (GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return GameState{}, fmt.Errorf("%w: want at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}

	s := GameState{EnPassant: NoSquare}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return GameState{}, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			kind, ok := ParsePieceKind(string(ch))
			if !ok {
				return GameState{}, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if col >= 8 {
				return GameState{}, fmt.Errorf("%w: rank %d is too long", ErrInvalidFEN, 8-row)
			}
			color := Black
			if unicode.IsUpper(ch) {
				color = White
			}
			if kind == Pawn && (row == 0 || row == 7) {
				return GameState{}, fmt.Errorf("%w: pawn on back rank", ErrInvalidFEN)
			}
			s.Board[row][col] = Piece{Kind: kind, Color: color}
			col++
		}
		if col != 8 {
			return GameState{}, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-row, col)
		}
	}
	for _, c := range []Color{White, Black} {
		if n := s.Board.countKings(c); n != 1 {
			return GameState{}, fmt.Errorf("%w: %d %s kings", ErrInvalidFEN, n, c)
		}
	}

	switch fields[1] {
	case "w":
		s.SideToMove = White
	case "b":
		s.SideToMove = Black
	default:
		return GameState{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				s.Castling[White].Kingside = true
			case 'Q':
				s.Castling[White].Queenside = true
			case 'k':
				s.Castling[Black].Kingside = true
			case 'q':
				s.Castling[Black].Queenside = true
			default:
				return GameState{}, fmt.Errorf("%w: castling field %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return GameState{}, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		if sq.Row != 2 && sq.Row != 5 {
			return GameState{}, fmt.Errorf("%w: en passant square %s", ErrInvalidFEN, sq)
		}
		s.EnPassant = sq
	}

	if InCheck(&s.Board, s.SideToMove.Opponent()) {
		return GameState{}, fmt.Errorf("%w: %s is in check but not to move", ErrInvalidFEN, s.SideToMove.Opponent())
	}
	return s, nil
}

// FEN renders the position, side to move, castling rights and en passant
// target of s. Move counters are not tracked and are omitted.
func (s *GameState) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			p := s.Board[row][col]
			if p.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			letter := p.Kind.Letter()
			if p.Color == Black {
				letter = strings.ToLower(letter)
			}
			sb.WriteString(letter)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if s.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	rights := ""
	if s.Castling[White].Kingside {
		rights += "K"
	}
	if s.Castling[White].Queenside {
		rights += "Q"
	}
	if s.Castling[Black].Kingside {
		rights += "k"
	}
	if s.Castling[Black].Queenside {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	sb.WriteString(s.EnPassant.String())
	return sb.String()
}
