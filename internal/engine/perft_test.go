package engine

import "testing"

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	position4FEN = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	position5FEN = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
)

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		want  []uint64
		short int
	}{
		{"start", StartFEN, []uint64{20, 400, 8902, 197281}, 3},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}, 2},
		{"position3", position3FEN, []uint64{14, 191, 2812, 43238}, 3},
		{"position4", position4FEN, []uint64{6, 264, 9467}, 2},
		{"position5", position5FEN, []uint64{44, 1486, 62379}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustFEN(t, tt.fen)
			for i, want := range tt.want {
				depth := i + 1
				if testing.Short() && depth > tt.short {
					t.Skipf("skipping depth %d in short mode", depth)
				}
				if got := Perft(s, depth); got != want {
					t.Fatalf("perft(%d): got %d, want %d", depth, got, want)
				}
			}
		})
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	s := mustFEN(t, kiwipeteFEN)
	div := PerftDivide(s, 2)
	if len(div) != 48 {
		t.Fatalf("divide: got %d root moves, want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d, want 2039", sum)
	}
}

func TestLegalMovesNeverLeaveKingAttacked(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, position3FEN, position4FEN, position5FEN} {
		s := mustFEN(t, fen)
		mover := s.SideToMove
		for _, m := range s.AllLegalMoves() {
			if m.Promotion != NoKind {
				if !isPromotionKind(m.Promotion) || m.To.Row != mover.farRow() {
					t.Fatalf("%s: bad promotion move %s", fen, m)
				}
			} else if s.Board.At(m.From).Kind == Pawn && m.To.Row == mover.farRow() {
				t.Fatalf("%s: pawn reaches the far rank without promotion: %s", fen, m)
			}
			child := s
			Execute(&child, m)
			if InCheck(&child.Board, mover) {
				t.Fatalf("%s: move %s leaves the mover in check", fen, m)
			}
		}
	}
}
