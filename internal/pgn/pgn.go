// Package pgn renders finished or running games as Portable Game Notation.
package pgn

import (
	"fmt"
	"sort"
	"strings"

	chess "github.com/corentings/chess/v2"
)

// Result is the PGN game termination marker.
type Result string

const (
	WhiteWins  Result = "1-0"
	BlackWins  Result = "0-1"
	Draw       Result = "1/2-1/2"
	InProgress Result = "*"
)

// roster is the Seven Tag Roster, always written first and in this order.
var roster = []struct {
	key string
	def string
}{
	{"Event", "?"},
	{"Site", "?"},
	{"Date", "????.??.??"},
	{"Round", "?"},
	{"White", "?"},
	{"Black", "?"},
	{"Result", ""},
}

type Options struct {
	Tags map[string]string
}

type Option func(*Options)

// WithTag adds a PGN tag pair such as Event, White or Black.
func WithTag(key, value string) Option {
	return func(o *Options) {
		if o.Tags == nil {
			o.Tags = make(map[string]string)
		}
		o.Tags[key] = value
	}
}

// Export replays moves, given in UCI form, from the standard starting
// position and returns the game as PGN with result as its termination.
func Export(moves []string, result Result, opts ...Option) (string, error) {
	options := Options{Tags: make(map[string]string)}
	for _, opt := range opts {
		opt(&options)
	}
	if result == "" {
		result = InProgress
	}

	sans, err := replay(moves)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeTags(&sb, options.Tags, result)
	for i, san := range sans {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
	}
	sb.WriteString(string(result))
	return sb.String(), nil
}

// replay validates moves against the rules and returns their SAN.
func replay(moves []string) ([]string, error) {
	game := chess.NewGame()
	sans := make([]string, 0, len(moves))
	for i, uci := range moves {
		move, err := chess.UCINotation{}.Decode(game.Position(), uci)
		if err != nil {
			return nil, fmt.Errorf("decode move %d %q: %w", i+1, uci, err)
		}
		san := chess.AlgebraicNotation{}.Encode(game.Position(), move)
		if err := game.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
			return nil, fmt.Errorf("replay move %d %q: %w", i+1, san, err)
		}
		// mating moves can come back from the encoder marked as plain check
		if len(game.ValidMoves()) == 0 && (strings.HasSuffix(san, "+") || game.Method() == chess.Checkmate) {
			san = strings.TrimSuffix(san, "+") + "#"
		}
		sans = append(sans, san)
	}
	return sans, nil
}

func writeTags(sb *strings.Builder, tags map[string]string, result Result) {
	seen := make(map[string]bool, len(roster))
	for _, tag := range roster {
		seen[tag.key] = true
		value, ok := tags[tag.key]
		if !ok || value == "" {
			value = tag.def
		}
		if tag.key == "Result" {
			value = string(result)
		}
		fmt.Fprintf(sb, "[%s %q]\n", tag.key, value)
	}

	var extra []string
	for key := range tags {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(sb, "[%s %q]\n", key, tags[key])
	}
	sb.WriteByte('\n')
}
