package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var errUnknownMessage = errors.New("unknown message type")

type WebSocketController struct {
	gameService *service.GameService
	log         *slog.Logger
}

func NewWebSocketController(gameService *service.GameService, log *slog.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log,
	}
}

// HandleConnection serves one player's socket on a game until it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.With("game", gameID, "player", playerID)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Info("connection rejected", "err", err)
		c.WriteJSON(ws.ErrorMessage(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read error", "err", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.reply(log, gameID, playerID, ws.ErrorMessage(fmt.Errorf("malformed message: %w", err)))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debug("message rejected", "type", msg.Type, "err", err)
			wsc.reply(log, gameID, playerID, ws.ErrorMessage(err))
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move: %w", err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("malformed legal moves request: %w", err)
		}
		moves, err := wsc.gameService.LegalMoves(gameID, req.Square)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeLegalMoves, ws.LegalMovesResponse{Square: req.Square, Moves: moves})
		if err != nil {
			return err
		}
		return wsc.gameService.Send(gameID, playerID, reply)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)
	}
	return fmt.Errorf("%w: %s", errUnknownMessage, msg.Type)
}

func (wsc *WebSocketController) reply(log *slog.Logger, gameID, playerID string, msg ws.Message) {
	if err := wsc.gameService.Send(gameID, playerID, msg); err != nil {
		log.Warn("write error", "err", err)
	}
}

// HandleMatchmaking queues the player and pushes a matchFound message once
// they are paired. Closing the socket leaves the queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.With("player", playerID)

	events := make(chan model.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, events)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, events)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		c.WriteJSON(ws.ErrorMessage(err))
		return
	}

	// the client sends nothing; reading only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-events:
		if !ok {
			log.Debug("matchmaking superseded by another connection")
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
		if err != nil {
			log.Error("marshal match", "err", err)
			return
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Warn("write error", "err", err)
		}
	case <-closed:
		if wsc.gameService.LeaveMatchmaking(playerID) {
			log.Debug("left matchmaking")
		}
	}
}
