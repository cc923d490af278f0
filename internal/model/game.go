package model

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/pgn"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
}

// The connections for a specific game. Writes to a connection are serialized
// by mu; websocket connections allow one writer at a time.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID string

	mu         sync.Mutex
	position   engine.GameState
	history    []Move
	uci        []string
	captured   CapturedPieces
	resolve    *Resolution
	winner     *PlayerColor
	sound      string
	lastMove   *SimpleMove
	whiteID    string
	blackID    string
	whiteClock *Clock
	blackClock *Clock
	createdAt  time.Time

	connections *GameConnections
	log         *slog.Logger
}

func NewGame(id string, clockTime time.Duration, log *slog.Logger) *Game {
	if log == nil {
		log = slog.Default()
	}
	return &Game{
		ID:       id,
		position: engine.NewGame(),
		history:  make([]Move, 0),
		uci:      make([]string, 0),
		captured: CapturedPieces{
			White: make([]ClientPiece, 0),
			Black: make([]ClientPiece, 0),
		},
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
		createdAt:   time.Now(),
		connections: NewGameConnections(),
		log:         log.With("game", id),
	}
}

// AddPlayer seats playerID, white first. Rejoining returns the seat the
// player already holds. White's clock starts once both seats are taken.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	switch {
	case g.whiteID == "":
		g.whiteID = playerID
		g.log.Info("player joined", "player", playerID, "color", PlayerColorWhite)
		return PlayerColorWhite, nil
	case g.blackID == "":
		g.blackID = playerID
		g.whiteClock.Start()
		g.log.Info("player joined", "player", playerID, "color", PlayerColorBlack)
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) colorOf(playerID string) (PlayerColor, bool) {
	switch {
	case playerID == "":
		return "", false
	case playerID == g.whiteID:
		return PlayerColorWhite, true
	case playerID == g.blackID:
		return PlayerColorBlack, true
	}
	return "", false
}

func (g *Game) IsFull() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.whiteID != "" && g.blackID != ""
}

// MakeMove plays move for playerID and broadcasts the new state. A mover
// whose flag has fallen loses on time instead.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	changed, err := g.makeMove(playerID, move)
	if changed {
		g.broadcast()
	}
	return err
}

func (g *Game) makeMove(playerID string, move WSMove) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolve != nil {
		return false, ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return false, ErrNotInGame
	}
	if g.blackID == "" {
		return false, ErrGameNotStarted
	}
	if color != g.toMove() {
		return false, ErrNotYourTurn
	}
	if g.clockOf(color).Expired() {
		g.finish(ResolutionTimeout, color.Opponent())
		return true, fmt.Errorf("%w: %s ran out of time", ErrGameOver, color)
	}

	m, err := move.toEngine(&g.position)
	if err != nil {
		return false, err
	}
	result := g.position.TryMove(m)
	if !result.Applied {
		return false, fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
	}
	g.record(result)

	g.clockOf(color).Stop()
	switch result.Classification {
	case engine.ClassCheckmate:
		g.finish(ResolutionCheckmate, color)
	case engine.ClassStalemate:
		g.finish(ResolutionStalemate, "")
	default:
		g.clockOf(color.Opponent()).Start()
	}
	g.log.Debug("move played", "player", playerID, "move", m.UCI(), "class", result.Classification)
	return true, nil
}

func (g *Game) record(result engine.Result) {
	r := result.Record
	ply := newPly(r, result.Classification)
	if r.Piece.Color == engine.White {
		g.history = append(g.history, Move{Number: len(g.history) + 1, WhitePly: ply})
	} else {
		g.history[len(g.history)-1].BlackPly = &ply
	}
	g.uci = append(g.uci, r.Move.UCI())

	if r.IsCapture() {
		taken := newClientPiece(r.Captured)
		if r.Piece.Color == engine.White {
			g.captured.White = append(g.captured.White, taken)
		} else {
			g.captured.Black = append(g.captured.Black, taken)
		}
	}
	g.lastMove = &SimpleMove{From: ply.From, To: ply.To}
	g.sound = soundFor(r, result.Classification)
}

func soundFor(r engine.MoveRecord, class engine.Classification) string {
	switch {
	case class == engine.ClassCheckmate || class == engine.ClassStalemate:
		return SoundGameEnd
	case class == engine.ClassCheck:
		return SoundCheck
	case r.Promotion != engine.NoKind:
		return SoundPromote
	case r.Castle != engine.NoCastle:
		return SoundCastle
	case r.IsCapture():
		return SoundCapture
	}
	return SoundMove
}

// finish resolves the game. An empty winner is a draw.
func (g *Game) finish(how Resolution, winner PlayerColor) {
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.resolve = &how
	if winner != "" {
		g.winner = &winner
	}
	g.sound = SoundGameEnd
	g.log.Info("game over", "resolution", how, "winner", winner)
}

func (g *Game) toMove() PlayerColor {
	return playerColorOf(g.position.SideToMove)
}

func (g *Game) clockOf(color PlayerColor) *Clock {
	if color == PlayerColorWhite {
		return g.whiteClock
	}
	return g.blackClock
}

// LegalMoves returns the destination squares of the piece on square, empty
// once the game is over or when the piece cannot move.
func (g *Game) LegalMoves(square string) ([]string, error) {
	sq, err := engine.ParseSquare(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, square)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	destinations := make([]string, 0)
	if g.resolve != nil {
		return destinations, nil
	}
	seen := make(map[engine.Square]bool)
	for _, m := range g.position.LegalMoves(sq) {
		// the four promotion choices share a destination
		if seen[m.To] {
			continue
		}
		seen[m.To] = true
		destinations = append(destinations, m.To.String())
	}
	return destinations, nil
}

func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	if g.resolve != nil {
		g.mu.Unlock()
		return ErrGameOver
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		g.mu.Unlock()
		return ErrNotInGame
	}
	g.finish(ResolutionResignation, color.Opponent())
	g.mu.Unlock()

	g.broadcast()
	return nil
}

// CheckClock ends the game on time when the side to move has run out,
// reporting whether it did.
func (g *Game) CheckClock() bool {
	g.mu.Lock()
	if g.resolve != nil || g.blackID == "" {
		g.mu.Unlock()
		return false
	}
	color := g.toMove()
	if !g.clockOf(color).Expired() {
		g.mu.Unlock()
		return false
	}
	g.finish(ResolutionTimeout, color.Opponent())
	g.mu.Unlock()

	g.broadcast()
	return true
}

func (g *Game) GetState() ClientState {
	g.mu.Lock()
	defer g.mu.Unlock()

	status := g.position.Status()
	state := ClientState{
		FEN:         g.position.FEN(),
		Board:       newBoardView(&g.position.Board),
		ToMove:      playerColorOf(status.SideToMove),
		IsCheck:     status.InCheck,
		Resolve:     g.resolve,
		Winner:      g.winner,
		MoveHistory: append([]Move(nil), g.history...),
		CapturedPieces: CapturedPieces{
			White: append([]ClientPiece{}, g.captured.White...),
			Black: append([]ClientPiece{}, g.captured.Black...),
		},
		LastMove: g.lastMove,
		Sound:    g.sound,
		Castling: CastlingView{
			WhiteKingside:  g.position.Castling[engine.White].Kingside,
			WhiteQueenside: g.position.Castling[engine.White].Queenside,
			BlackKingside:  g.position.Castling[engine.Black].Kingside,
			BlackQueenside: g.position.Castling[engine.Black].Queenside,
		},
		Players: Players{
			White: ClientPlayer{ID: g.whiteID, Color: PlayerColorWhite, TimeLeft: g.whiteClock.tenths()},
			Black: ClientPlayer{ID: g.blackID, Color: PlayerColorBlack, TimeLeft: g.blackClock.tenths()},
		},
	}
	if state.MoveHistory == nil {
		state.MoveHistory = make([]Move, 0)
	}
	if g.position.HasEnPassant() {
		target := g.position.EnPassant.String()
		state.EnPassantTarget = &target
	}
	return state
}

// PGN exports the moves played so far with the players as tags.
func (g *Game) PGN() (string, error) {
	g.mu.Lock()
	moves := append([]string(nil), g.uci...)
	result := pgn.InProgress
	switch {
	case g.winner != nil && *g.winner == PlayerColorWhite:
		result = pgn.WhiteWins
	case g.winner != nil:
		result = pgn.BlackWins
	case g.resolve != nil:
		result = pgn.Draw
	}
	opts := []pgn.Option{
		pgn.WithTag("Event", "Casual game"),
		pgn.WithTag("Site", g.ID),
		pgn.WithTag("Date", g.createdAt.Format("2006.01.02")),
		pgn.WithTag("White", g.whiteID),
		pgn.WithTag("Black", g.blackID),
	}
	if g.resolve != nil {
		opts = append(opts, pgn.WithTag("Termination", string(*g.resolve)))
	}
	g.mu.Unlock()

	return pgn.Export(moves, result, opts...)
}

// RegisterConnection attaches conn for playerID and sends it the current
// state. Players of the game may connect, and anyone may while a seat is
// still open.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, inGame := g.colorOf(playerID)
	open := g.whiteID == "" || g.blackID == ""
	g.mu.Unlock()

	if !inGame && !open {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrConnectionExists
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.log.Debug("connection registered", "player", playerID)

	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		return err
	}
	return g.Send(playerID, msg)
}

// UnregisterConnection detaches conn, leaving a newer connection of the same
// player in place.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.log.Debug("connection unregistered", "player", playerID)
	}
}

// Send writes msg to playerID's connection, if any.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return nil
	}
	return conn.WriteJSON(msg)
}

// broadcast pushes the current state to every connection, dropping the ones
// that fail.
func (g *Game) broadcast() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.GetState())
	if err != nil {
		g.log.Error("marshal game state", "err", err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			g.log.Warn("dropping connection", "player", playerID, "err", err)
			delete(g.connections.connections, playerID)
		}
	}
}
