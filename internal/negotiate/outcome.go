package negotiate

import (
	"github.com/notnil/chess"

	"chessllm/internal/rules"
)

// Position is the read-only view of the game the negotiation needs.
// Implemented by rules.Game; stubbed in tests.
type Position interface {
	FEN() string
	SideToMove() string
	LegalMoves() []*chess.Move
	HistoryUCI() []string
	LastMoveUCI() string
	ParseToken(token string) (*chess.Move, error)
}

// Verdict classifies a candidate token against the current legal set.
type Verdict int

const (
	VerdictLegal Verdict = iota
	VerdictIllegal
	VerdictMalformed
)

func (v Verdict) String() string {
	switch v {
	case VerdictLegal:
		return "legal"
	case VerdictIllegal:
		return "illegal"
	default:
		return "malformed"
	}
}

// Outcome is the result of validating one candidate. Move is set only
// for VerdictLegal and is always a handle from the legal set fetched
// in the same Validate call, never a re-derived value.
type Outcome struct {
	Verdict Verdict
	Token   string
	Move    *chess.Move
}

// Validate checks a token against a freshly fetched legal-move set.
// The set is re-fetched on every call: it cannot change between
// retries within one turn, but must never be assumed stable across
// turns.
func Validate(pos Position, token string) Outcome {
	if token == "" {
		return Outcome{Verdict: VerdictMalformed}
	}
	m, err := pos.ParseToken(token)
	if err != nil {
		return Outcome{Verdict: VerdictMalformed, Token: token}
	}
	if handle := rules.MatchLegal(m, pos.LegalMoves()); handle != nil {
		return Outcome{Verdict: VerdictLegal, Token: token, Move: handle}
	}
	return Outcome{Verdict: VerdictIllegal, Token: token}
}
