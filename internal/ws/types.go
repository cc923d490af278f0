package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeLegalMoves MessageType = "legalMoves"
	MessageTypeResign     MessageType = "resign"
	MessageTypeError      MessageType = "error"
	MessageTypeMatchFound MessageType = "matchFound"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// LegalMovesRequest asks for the destinations of the piece on Square.
type LegalMovesRequest struct {
	Square string `json:"square"`
}

type LegalMovesResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// ErrorMessage builds an error message; it cannot fail to marshal.
func ErrorMessage(err error) Message {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{Error: err.Error()})
	return msg
}
