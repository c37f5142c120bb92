package negotiate

import (
	"fmt"
	"strings"
)

func legalMoveList(pos Position) string {
	legal := pos.LegalMoves()
	tokens := make([]string, len(legal))
	for i, m := range legal {
		tokens[i] = m.String()
	}
	return strings.Join(tokens, " ")
}

// InitialPrompt builds the opening message of a negotiation: side to
// move, position, history, the opponent's last move, the complete
// legal-move list, and the final-line response protocol.
func InitialPrompt(pos Position) string {
	history := strings.Join(pos.HistoryUCI(), " ")
	if history == "" {
		history = "(none)"
	}
	lastMove := pos.LastMoveUCI()
	if lastMove == "" {
		lastMove = "start of game"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a chess engine playing as %s.\n", pos.SideToMove())
	fmt.Fprintf(&b, "The current board position in FEN notation is:\n%s\n", pos.FEN())
	fmt.Fprintf(&b, "History of moves in UCI notation: %s\n", history)
	fmt.Fprintf(&b, "Your opponent's last move: %s\n", lastMove)
	fmt.Fprintf(&b, "LEGAL MOVES available: %s\n", legalMoveList(pos))
	fmt.Fprintf(&b, "Select the best legal move for %s from the list above.\n", pos.SideToMove())
	b.WriteString("You may explain your reasoning first, but your reply must end " +
		"with exactly one move in UCI notation (e.g. 'g8f6') alone on its final line.")
	return b.String()
}

// CorrectionPrompt builds a retry message naming the rejected token
// and restating the legal-move list. Sent over the same session, so
// the model still sees the original position and its own reasoning.
func CorrectionPrompt(pos Position, rejected string) string {
	var b strings.Builder
	if rejected == "" {
		b.WriteString("Your reply did not end with a move in UCI notation.\n")
	} else {
		fmt.Fprintf(&b, "Your selected move '%s' is illegal or invalid.\n", rejected)
	}
	fmt.Fprintf(&b, "Choose a different move from these legal moves: %s\n", legalMoveList(pos))
	b.WriteString("Keep your reasoning if you wish, but end your reply with " +
		"exactly one legal move in UCI notation alone on its final line.")
	return b.String()
}
