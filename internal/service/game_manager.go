package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/google/uuid"
)

// GameManager owns every running game and the matchmaking queue.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	pendingMatches   map[string]model.MatchFoundEvent
	mu               sync.RWMutex

	clockTime time.Duration
	newGame   func(id string) *model.Game
	log       *slog.Logger
}

func NewGameManager(clockTime time.Duration, log *slog.Logger) *GameManager {
	if log == nil {
		log = slog.Default()
	}
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		pendingMatches:   make(map[string]model.MatchFoundEvent),
		clockTime:        clockTime,
		log:              log.With("package", "service"),
	}
	gm.newGame = func(id string) *model.Game {
		return model.NewGame(id, gm.clockTime, gm.log)
	}
	return gm
}

// Run pairs queued players and flags games whose clock ran out every
// interval until ctx is cancelled.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.processMatchmaking()
			gm.checkClocks()
		}
	}
}

// processMatchmaking seats every available pair in a new game. The player
// who waited longest plays white. A pair that cannot be seated goes back to
// the head of the queue for the next tick.
func (gm *GameManager) processMatchmaking() {
	for {
		first, second, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		game, colors, err := gm.seat(first, second)
		if err != nil {
			gm.log.Error("seat matched players", "white", first.ID, "black", second.ID, "err", err)
			gm.queue.Requeue(first, second)
			return
		}

		gm.mu.Lock()
		gm.games[game.ID] = game
		gm.notifyMatch(first.ID, model.MatchFoundEvent{GameID: game.ID, Color: colors[0]})
		gm.notifyMatch(second.ID, model.MatchFoundEvent{GameID: game.ID, Color: colors[1]})
		gm.mu.Unlock()
		gm.log.Info("match found", "game", game.ID, "white", first.ID, "black", second.ID)
	}
}

func (gm *GameManager) seat(first, second model.Player) (*model.Game, [2]model.PlayerColor, error) {
	var colors [2]model.PlayerColor
	game := gm.newGame(uuid.New().String())
	for i, p := range []model.Player{first, second} {
		color, err := game.AddPlayer(p.ID)
		if err != nil {
			return nil, colors, fmt.Errorf("seat %s: %w", p.ID, err)
		}
		colors[i] = color
	}
	return game, colors, nil
}

// notifyMatch delivers event to playerID's matchmaking channel, or keeps it
// until the player registers one. gm.mu must be held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		gm.pendingMatches[playerID] = event
		return
	}
	select {
	case ch <- event:
		delete(gm.matchingChannels, playerID)
		close(ch)
	default:
		gm.log.Warn("matchmaking channel full", "player", playerID)
		gm.pendingMatches[playerID] = event
	}
}

func (gm *GameManager) checkClocks() {
	gm.mu.RLock()
	games := make([]*model.Game, 0, len(gm.games))
	for _, game := range gm.games {
		games = append(games, game)
	}
	gm.mu.RUnlock()

	for _, game := range games {
		game.CheckClock()
	}
}

// RegisterMatchmakingChannel subscribes ch to playerID's next match. ch must
// have room for one event; it is closed after delivery. A channel registered
// earlier for the same player is closed without an event.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch

	if event, ok := gm.pendingMatches[playerID]; ok {
		delete(gm.pendingMatches, playerID)
		gm.notifyMatch(playerID, event)
	}
}

// UnregisterMatchmakingChannel drops ch if it is still playerID's channel.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	gm.log.Debug("player queued", "player", playerID, "queued", gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	gm.games[gameID] = gm.newGame(gameID)
	gm.log.Info("game created", "game", gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

// RemoveGame forgets a game. Connected clients keep their sockets until they
// disconnect.
func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
