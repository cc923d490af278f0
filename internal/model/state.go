package model

// Resolution says how a game ended. It is empty while the game runs.
type Resolution string

const (
	ResolutionCheckmate   Resolution = "checkmate"
	ResolutionStalemate   Resolution = "stalemate"
	ResolutionResignation Resolution = "resignation"
	ResolutionTimeout     Resolution = "timeout"
)

// Sounds tell the client which effect to play for the last move.
const (
	SoundMove    = "move"
	SoundCapture = "capture"
	SoundCastle  = "castle"
	SoundPromote = "promote"
	SoundCheck   = "check"
	SoundGameEnd = "gameEnd"
)

// CapturedPieces lists, per color, the pieces that color has taken.
type CapturedPieces struct {
	White []ClientPiece `json:"white"`
	Black []ClientPiece `json:"black"`
}

type CastlingView struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// ClientState is the snapshot pushed to clients after every change.
type ClientState struct {
	FEN             string         `json:"fen"`
	Board           BoardView      `json:"boardState"`
	ToMove          PlayerColor    `json:"toMove"`
	IsCheck         bool           `json:"isCheck"`
	Resolve         *Resolution    `json:"resolve"`
	Winner          *PlayerColor   `json:"winner"`
	EnPassantTarget *string        `json:"enPassantTarget"`
	Castling        CastlingView   `json:"castlingRights"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	LastMove        *SimpleMove    `json:"lastMove"`
	Sound           string         `json:"sound"`
	Players         Players        `json:"players"`
}
