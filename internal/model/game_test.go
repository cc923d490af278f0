package model

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type fakeConn struct {
	mu   sync.Mutex
	msgs []ws.Message
	fail bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.msgs = append(c.msgs, v.(ws.Message))
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1", 10*time.Minute, nil)
	if c, err := g.AddPlayer("alice"); err != nil || c != PlayerColorWhite {
		t.Fatalf("AddPlayer(alice) = %q, %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != PlayerColorBlack {
		t.Fatalf("AddPlayer(bob) = %q, %v", c, err)
	}
	return g
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	players := map[PlayerColor]string{PlayerColorWhite: "alice", PlayerColorBlack: "bob"}
	for _, m := range moves {
		player := players[g.GetState().ToMove]
		if err := g.MakeMove(player, WSMove{From: m[0:2], To: m[2:4]}); err != nil {
			t.Fatalf("move %s by %s: %v", m, player, err)
		}
	}
}

func TestAddPlayer(t *testing.T) {
	g := newTestGame(t)

	if c, err := g.AddPlayer("alice"); err != nil || c != PlayerColorWhite {
		t.Fatalf("rejoin = %q, %v, want white", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("third player err = %v, want ErrGameFull", err)
	}
	if !g.whiteClock.IsRunning() || g.blackClock.IsRunning() {
		t.Fatalf("white's clock should run once both players are seated")
	}
}

func TestMakeMoveRejections(t *testing.T) {
	waiting := NewGame("w", time.Minute, nil)
	waiting.AddPlayer("alice")
	if err := waiting.MakeMove("alice", WSMove{From: "e2", To: "e4"}); !errors.Is(err, ErrGameNotStarted) {
		t.Fatalf("err = %v, want ErrGameNotStarted", err)
	}

	tests := []struct {
		name   string
		player string
		move   WSMove
		want   error
	}{
		{"stranger", "carol", WSMove{From: "e2", To: "e4"}, ErrNotInGame},
		{"wrong turn", "bob", WSMove{From: "e7", To: "e5"}, ErrNotYourTurn},
		{"illegal", "alice", WSMove{From: "e2", To: "e5"}, ErrIllegalMove},
		{"opponent piece", "alice", WSMove{From: "e7", To: "e5"}, ErrIllegalMove},
		{"bad square", "alice", WSMove{From: "e9", To: "e4"}, ErrInvalidSquare},
		{"bad promotion", "alice", WSMove{From: "e2", To: "e4", Promotion: "dragon"}, ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			before := g.GetState()
			if err := g.MakeMove(tt.player, tt.move); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if after := g.GetState(); after.FEN != before.FEN || len(after.MoveHistory) != 0 {
				t.Fatalf("rejected move changed the game: %s", after.FEN)
			}
		})
	}
}

func TestMoveHistoryAndCaptures(t *testing.T) {
	g := newTestGame(t)
	play(t, g, "e2e4", "d7d5", "e4d5")

	state := g.GetState()
	if len(state.MoveHistory) != 2 {
		t.Fatalf("history has %d moves, want 2", len(state.MoveHistory))
	}
	first := state.MoveHistory[0]
	if first.WhitePly.Notation != "e4" || first.BlackPly == nil || first.BlackPly.Notation != "d5" {
		t.Fatalf("unexpected first move %+v", first)
	}
	second := state.MoveHistory[1]
	if second.WhitePly.Notation != "exd5" || second.BlackPly != nil {
		t.Fatalf("unexpected second move %+v", second)
	}
	if second.WhitePly.CapturedPiece == nil || second.WhitePly.CapturedPiece.Type != Pawn {
		t.Fatalf("capture not recorded on ply: %+v", second.WhitePly)
	}
	if len(state.CapturedPieces.White) != 1 || state.CapturedPieces.White[0].Color != "black" {
		t.Fatalf("captured pieces = %+v", state.CapturedPieces)
	}
	if state.Sound != SoundCapture {
		t.Fatalf("sound = %q, want capture", state.Sound)
	}
	if state.LastMove == nil || *state.LastMove != (SimpleMove{From: "e4", To: "d5"}) {
		t.Fatalf("last move = %+v", state.LastMove)
	}
	if state.ToMove != PlayerColorBlack {
		t.Fatalf("to move = %q", state.ToMove)
	}
}

func TestEnPassantTargetInState(t *testing.T) {
	g := newTestGame(t)
	play(t, g, "e2e4")
	state := g.GetState()
	if state.EnPassantTarget == nil || *state.EnPassantTarget != "e3" {
		t.Fatalf("en passant target = %v, want e3", state.EnPassantTarget)
	}
	play(t, g, "g8f6")
	if state := g.GetState(); state.EnPassantTarget != nil {
		t.Fatalf("en passant target should expire, got %q", *state.EnPassantTarget)
	}
}

func TestCheckmateResolvesGame(t *testing.T) {
	g := newTestGame(t)
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolutionCheckmate {
		t.Fatalf("resolve = %v, want checkmate", state.Resolve)
	}
	if state.Winner == nil || *state.Winner != PlayerColorBlack {
		t.Fatalf("winner = %v, want black", state.Winner)
	}
	if !state.IsCheck || state.Sound != SoundGameEnd {
		t.Fatalf("isCheck = %v sound = %q", state.IsCheck, state.Sound)
	}
	if last := state.MoveHistory[1].BlackPly; last == nil || last.Notation != "Qh4#" {
		t.Fatalf("last ply = %+v", last)
	}
	if err := g.MakeMove("alice", WSMove{From: "a2", To: "a3"}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after mate err = %v, want ErrGameOver", err)
	}
	if moves, err := g.LegalMoves("a2"); err != nil || len(moves) != 0 {
		t.Fatalf("legal moves after mate = %v, %v", moves, err)
	}
	if g.whiteClock.IsRunning() || g.blackClock.IsRunning() {
		t.Fatalf("clocks should stop when the game ends")
	}

	out, err := g.PGN()
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	if !strings.Contains(out, "Qh4#") || !strings.HasSuffix(out, "0-1") {
		t.Fatalf("unexpected PGN:\n%s", out)
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	g := newTestGame(t)
	position, err := engine.ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	g.position = position

	moves, err := g.LegalMoves("a7")
	if err != nil || len(moves) != 1 || moves[0] != "a8" {
		t.Fatalf("LegalMoves(a7) = %v, %v, want [a8]", moves, err)
	}
	if err := g.MakeMove("alice", WSMove{From: "a7", To: "a8"}); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	state := g.GetState()
	if p := state.Board[0][0]; p == nil || p.Type != Queen {
		t.Fatalf("a8 = %+v, want queen", p)
	}
	if ply := state.MoveHistory[0].WhitePly; ply.Notation != "a8=Q" || ply.Promotion != Queen {
		t.Fatalf("ply = %+v", ply)
	}
	if state.Sound != SoundPromote {
		t.Fatalf("sound = %q, want promote", state.Sound)
	}
}

func TestUnderpromotion(t *testing.T) {
	g := newTestGame(t)
	position, _ := engine.ParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	g.position = position

	if err := g.MakeMove("alice", WSMove{From: "a7", To: "a8", Promotion: Knight}); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if p := g.GetState().Board[0][0]; p == nil || p.Type != Knight {
		t.Fatalf("a8 = %+v, want knight", p)
	}
}

func TestLegalMoves(t *testing.T) {
	g := newTestGame(t)

	moves, err := g.LegalMoves("g1")
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	sort.Strings(moves)
	if strings.Join(moves, ",") != "f3,h3" {
		t.Fatalf("g1 moves = %v, want [f3 h3]", moves)
	}
	if moves, _ := g.LegalMoves("e4"); len(moves) != 0 {
		t.Fatalf("empty square moves = %v", moves)
	}
	if _, err := g.LegalMoves("z9"); !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("err = %v, want ErrInvalidSquare", err)
	}
}

func TestResign(t *testing.T) {
	g := newTestGame(t)
	if err := g.Resign("carol"); !errors.Is(err, ErrNotInGame) {
		t.Fatalf("stranger resign err = %v", err)
	}
	if err := g.Resign("alice"); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	state := g.GetState()
	if *state.Resolve != ResolutionResignation || *state.Winner != PlayerColorBlack {
		t.Fatalf("resolve = %v winner = %v", *state.Resolve, *state.Winner)
	}
	if err := g.Resign("bob"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("second resign err = %v", err)
	}
	out, err := g.PGN()
	if err != nil || !strings.HasSuffix(out, "0-1") || !strings.Contains(out, `[Termination "resignation"]`) {
		t.Fatalf("PGN = %q, %v", out, err)
	}
}

func TestTimeout(t *testing.T) {
	t.Run("on move", func(t *testing.T) {
		g := newTestGame(t)
		g.whiteClock.now = func() time.Time { return time.Now().Add(time.Hour) }

		if err := g.MakeMove("alice", WSMove{From: "e2", To: "e4"}); !errors.Is(err, ErrGameOver) {
			t.Fatalf("err = %v, want ErrGameOver", err)
		}
		state := g.GetState()
		if *state.Resolve != ResolutionTimeout || *state.Winner != PlayerColorBlack {
			t.Fatalf("resolve = %v winner = %v", *state.Resolve, *state.Winner)
		}
		if state.Players.White.TimeLeft != 0 {
			t.Fatalf("white time left = %d", state.Players.White.TimeLeft)
		}
	})

	t.Run("on tick", func(t *testing.T) {
		g := newTestGame(t)
		if g.CheckClock() {
			t.Fatalf("fresh clock should not be expired")
		}
		play(t, g, "e2e4")
		g.blackClock.now = func() time.Time { return time.Now().Add(time.Hour) }
		if !g.CheckClock() {
			t.Fatalf("expected black to lose on time")
		}
		if state := g.GetState(); *state.Winner != PlayerColorWhite {
			t.Fatalf("winner = %v", *state.Winner)
		}
		if g.CheckClock() {
			t.Fatalf("a finished game cannot time out again")
		}
	})
}

func TestClocksAlternate(t *testing.T) {
	g := newTestGame(t)
	play(t, g, "e2e4")
	if g.whiteClock.IsRunning() || !g.blackClock.IsRunning() {
		t.Fatalf("black's clock should run after white moves")
	}
	play(t, g, "e7e5")
	if !g.whiteClock.IsRunning() || g.blackClock.IsRunning() {
		t.Fatalf("white's clock should run after black moves")
	}
}

func TestConnections(t *testing.T) {
	g := newTestGame(t)
	white, black := &fakeConn{}, &fakeConn{}

	if err := g.RegisterConnection("alice", white); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if white.count() != 1 || white.msgs[0].Type != ws.MessageTypeGameState {
		t.Fatalf("new connection should receive the state, got %+v", white.msgs)
	}
	if err := g.RegisterConnection("alice", &fakeConn{}); !errors.Is(err, ErrConnectionExists) {
		t.Fatalf("duplicate err = %v", err)
	}
	if err := g.RegisterConnection("carol", &fakeConn{}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("stranger err = %v", err)
	}
	if err := g.RegisterConnection("bob", black); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}

	play(t, g, "e2e4")
	if white.count() != 2 || black.count() != 2 {
		t.Fatalf("broadcast counts = %d, %d", white.count(), black.count())
	}

	// a stale connection must not evict the live one
	g.UnregisterConnection("alice", &fakeConn{})
	black.fail = true
	play(t, g, "e7e5")
	if white.count() != 3 {
		t.Fatalf("white should still receive updates, got %d", white.count())
	}
	if err := g.RegisterConnection("bob", &fakeConn{}); err != nil {
		t.Fatalf("failed connection should have been dropped: %v", err)
	}

	g.UnregisterConnection("alice", white)
	if err := g.Send("alice", ws.ErrorMessage(ErrIllegalMove)); err != nil {
		t.Fatalf("Send without connection: %v", err)
	}
	if white.count() != 3 {
		t.Fatalf("unregistered connection received %d messages", white.count())
	}
}
