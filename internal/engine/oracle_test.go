package engine

import (
	"math/rand"
	"sort"
	"testing"

	chess "github.com/corentings/chess/v2"
)

// TestAgainstReferenceLibrary plays random games and compares the legal move
// set at every ply with github.com/corentings/chess.
func TestAgainstReferenceLibrary(t *testing.T) {
	starts := []string{StartFEN, kiwipeteFEN, position3FEN, position4FEN, position5FEN}
	games := 8
	if testing.Short() {
		games = 2
	}
	for _, fen := range starts {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			for seed := 0; seed < games; seed++ {
				playRandomGame(t, fen, int64(seed))
			}
		})
	}
}

func playRandomGame(t *testing.T, fen string, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	s := mustFEN(t, fen)
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("reference FEN(%q): %v", fen, err)
	}
	ref := chess.NewGame(opt)

	for ply := 0; ply < 150; ply++ {
		ours := make([]string, 0, 64)
		for _, m := range s.AllLegalMoves() {
			ours = append(ours, m.UCI())
		}
		sort.Strings(ours)

		refMoves := ref.ValidMoves()
		theirs := make([]string, 0, len(refMoves))
		for i := range refMoves {
			theirs = append(theirs, chess.UCINotation{}.Encode(ref.Position(), &refMoves[i]))
		}
		sort.Strings(theirs)

		if !equalStrings(ours, theirs) {
			t.Fatalf("seed %d ply %d at %s:\n ours   %v\n theirs %v", seed, ply, s.FEN(), ours, theirs)
		}
		if len(ours) == 0 {
			class := Classify(&s)
			if class != ClassCheckmate && class != ClassStalemate {
				t.Fatalf("seed %d: no moves but classified %v", seed, class)
			}
			return
		}

		pick := ours[rng.Intn(len(ours))]
		m, err := ParseUCIMove(pick)
		if err != nil {
			t.Fatalf("ParseUCIMove(%q): %v", pick, err)
		}
		refMove, err := chess.UCINotation{}.Decode(ref.Position(), pick)
		if err != nil {
			t.Fatalf("reference decode %q: %v", pick, err)
		}
		san := chess.AlgebraicNotation{}.Encode(ref.Position(), refMove)
		if err := ref.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
			t.Fatalf("reference push %q (%s): %v", san, pick, err)
		}
		if res := s.TryMove(m); !res.Applied {
			t.Fatalf("seed %d ply %d: legal move %s rejected", seed, ply, pick)
		}
	}
}
