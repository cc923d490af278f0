package service

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/google/uuid"
)

// GameService is the API the transport layer talks to.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.ClientState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.ClientState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(square)
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gs *GameService) PGN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.PGN()
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

// Send writes msg to playerID's connection in gameID.
func (gs *GameService) Send(gameID string, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
