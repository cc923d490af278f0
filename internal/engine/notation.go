package engine

import "strings"

// Notation renders r in short algebraic form: "Nf3", "exd6", "O-O",
// "e8=Q", with "+" or "#" appended according to class, the classification
// of the position after the move.
func (r MoveRecord) Notation(class Classification) string {
	var sb strings.Builder
	switch r.Castle {
	case CastleKingside:
		sb.WriteString("O-O")
	case CastleQueenside:
		sb.WriteString("O-O-O")
	default:
		if r.Piece.Kind != Pawn {
			sb.WriteString(r.Piece.Kind.Letter())
		} else if r.IsCapture() {
			sb.WriteString(r.Move.From.File())
		}
		if r.IsCapture() {
			sb.WriteString("x")
		}
		sb.WriteString(r.Move.To.String())
		if r.Promotion != NoKind {
			sb.WriteString("=" + r.Promotion.Letter())
		}
	}
	switch class {
	case ClassCheck:
		sb.WriteString("+")
	case ClassCheckmate:
		sb.WriteString("#")
	}
	return sb.String()
}
