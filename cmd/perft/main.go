// Command perft counts move-tree leaves from a position, optionally checking
// the counts against dragontoothmg.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/dylhunn/dragontoothmg"
)

func main() {
	fen := flag.String("fen", engine.StartFEN, "position to count from")
	depth := flag.Int("depth", 4, "search depth in plies")
	divide := flag.Bool("divide", false, "print the count below each root move")
	compare := flag.Bool("compare", false, "cross-check counts with dragontoothmg")
	flag.Parse()

	if err := run(*fen, *depth, *divide, *compare); err != nil {
		slog.Error("perft failed", "err", err)
		os.Exit(1)
	}
}

func run(fen string, depth int, divide, compare bool) error {
	if depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", depth)
	}
	state, err := engine.ParseFEN(fen)
	if err != nil {
		return err
	}

	start := time.Now()
	counts := make(map[string]uint64)
	var total uint64
	for m, n := range engine.PerftDivide(state, depth) {
		counts[m.UCI()] = n
		total += n
	}
	elapsed := time.Since(start)

	var reference map[string]uint64
	if compare {
		reference = referenceDivide(fen, depth)
	}

	if divide || compare {
		for _, uci := range sortedKeys(counts, reference) {
			line := fmt.Sprintf("%s: %d", uci, counts[uci])
			if compare && counts[uci] != reference[uci] {
				line += fmt.Sprintf("  (dragontoothmg %d)", reference[uci])
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
	fmt.Printf("perft(%d) = %d in %v\n", depth, total, elapsed.Round(time.Millisecond))

	if compare {
		var refTotal uint64
		for _, n := range reference {
			refTotal += n
		}
		if refTotal != total {
			return fmt.Errorf("count mismatch: engine %d, dragontoothmg %d", total, refTotal)
		}
		fmt.Println("dragontoothmg agrees")
	}
	return nil
}

func referenceDivide(fen string, depth int) map[string]uint64 {
	board := dragontoothmg.ParseFen(fen)
	out := make(map[string]uint64)
	for _, m := range board.GenerateLegalMoves() {
		unapply := board.Apply(m)
		out[m.String()] = referencePerft(&board, depth-1)
		unapply()
	}
	return out
}

func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		n += referencePerft(b, depth-1)
		unapply()
	}
	return n
}

func sortedKeys(maps ...map[string]uint64) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
