package engine

// Status is a read-only snapshot for display.
type Status struct {
	SideToMove Color
	InCheck    bool
	Terminal   Terminal
}

// Result reports the outcome of TryMove. When Applied is false the state was
// left untouched and Record is the zero value.
type Result struct {
	Applied        bool
	Status         Status
	Classification Classification
	Record         MoveRecord
}

// LegalMoves returns the legal moves of the piece on sq. It is empty when sq
// is empty, off the board, or holds a piece of the side not to move.
func (s *GameState) LegalMoves(sq Square) []Move {
	if !sq.Valid() {
		return nil
	}
	p := s.Board.At(sq)
	if p.Empty() || p.Color != s.SideToMove {
		return nil
	}
	return FilterLegal(s, GeneratePseudoMoves(s, sq), p.Color)
}

// AllLegalMoves returns every legal move of the side to move.
func (s *GameState) AllLegalMoves() []Move {
	var moves []Move
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			moves = append(moves, s.LegalMoves(Square{Row: row, Col: col})...)
		}
	}
	return moves
}

// TryMove executes m if it is one of the legal moves from m.From and the game
// is not over, then classifies the position for the opponent.
func (s *GameState) TryMove(m Move) Result {
	if s.Terminal != TerminalNone || !containsMove(s.LegalMoves(m.From), m) {
		return Result{Applied: false, Status: s.Status()}
	}
	record := Execute(s, m)
	class := Classify(s)
	return Result{
		Applied:        true,
		Status:         s.statusFor(class),
		Classification: class,
		Record:         record,
	}
}

// Status computes the display snapshot of s.
func (s *GameState) Status() Status {
	return Status{
		SideToMove: s.SideToMove,
		InCheck:    InCheck(&s.Board, s.SideToMove),
		Terminal:   s.Terminal,
	}
}

func (s *GameState) statusFor(class Classification) Status {
	return Status{
		SideToMove: s.SideToMove,
		InCheck:    class == ClassCheck || class == ClassCheckmate,
		Terminal:   s.Terminal,
	}
}

func containsMove(moves []Move, m Move) bool {
	for _, legal := range moves {
		if legal == m {
			return true
		}
	}
	return false
}

// Perft counts the leaf nodes of the legal move tree of s to depth plies.
func Perft(s GameState, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := s.AllLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		child := s
		Execute(&child, m)
		nodes += Perft(child, depth-1)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func PerftDivide(s GameState, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range s.AllLegalMoves() {
		child := s
		Execute(&child, m)
		out[m] = Perft(child, depth-1)
	}
	return out
}
