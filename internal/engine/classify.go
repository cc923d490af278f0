package engine

// Classify evaluates the position for the side about to move and records a
// terminal result on s. Once terminal, a state stays terminal.
//
//	in check | has a move | result
//	---------+------------+----------
//	yes      | yes        | check
//	yes      | no         | checkmate
//	no       | yes        | none
//	no       | no         | stalemate
func Classify(s *GameState) Classification {
	inCheck := InCheck(&s.Board, s.SideToMove)
	hasMove := hasAnyLegalMove(s)

	var class Classification
	switch {
	case inCheck && hasMove:
		class = ClassCheck
	case inCheck:
		class = ClassCheckmate
	case hasMove:
		class = ClassNone
	default:
		class = ClassStalemate
	}
	if s.Terminal == TerminalNone {
		s.Terminal = class.Terminal()
	}
	return class
}

func hasAnyLegalMove(s *GameState) bool {
	c := s.SideToMove
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := Square{Row: row, Col: col}
			if p := s.Board.At(sq); p.Empty() || p.Color != c {
				continue
			}
			if len(FilterLegal(s, GeneratePseudoMoves(s, sq), c)) > 0 {
				return true
			}
		}
	}
	return false
}
