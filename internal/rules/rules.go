// Package rules wraps the notnil/chess library behind the narrow
// contract the rest of the server needs: legal-move enumeration, UCI
// token parsing, move application, SAN rendering and game-end
// predicates. Callers never touch the underlying game directly, so a
// move handle can only originate from the legal set of the position
// it will be applied to.
package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var squareByName = func() map[string]chess.Square {
	m := make(map[string]chess.Square, 64)
	for sq := 0; sq < 64; sq++ {
		m[chess.Square(sq).String()] = chess.Square(sq)
	}
	return m
}()

// Game owns a single chess game. It is not safe for concurrent use;
// the service layer serializes access.
type Game struct {
	g *chess.Game
}

func NewGame() *Game {
	return &Game{g: chess.NewGame()}
}

// NewGameFromFEN starts from an arbitrary position, used by tests.
func NewGameFromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	return &Game{g: chess.NewGame(opt)}, nil
}

// Reset discards all history and returns to the starting position.
func (g *Game) Reset() {
	g.g = chess.NewGame()
}

func (g *Game) FEN() string {
	return g.g.Position().String()
}

func (g *Game) SideToMove() string {
	if g.g.Position().Turn() == chess.White {
		return "White"
	}
	return "Black"
}

// BlackToMove reports whether it is Black's turn.
func (g *Game) BlackToMove() bool {
	return g.g.Position().Turn() == chess.Black
}

// LegalMoves enumerates the legal set for the current position. The
// returned handles are the only values accepted by Apply.
func (g *Game) LegalMoves() []*chess.Move {
	return g.g.ValidMoves()
}

// ParseToken decodes a UCI token against the current position. A
// decode failure means the token is malformed, not merely illegal.
func (g *Game) ParseToken(token string) (*chess.Move, error) {
	m, err := chess.UCINotation{}.Decode(g.g.Position(), token)
	if err != nil {
		return nil, fmt.Errorf("cannot parse move %q: %w", token, err)
	}
	return m, nil
}

// MatchLegal resolves a decoded move to the equivalent handle inside
// the given legal set, matching by squares and promotion piece rather
// than string equality. Returns nil if the move is not in the set.
func MatchLegal(m *chess.Move, legal []*chess.Move) *chess.Move {
	for _, lm := range legal {
		if lm.S1() == m.S1() && lm.S2() == m.S2() && lm.Promo() == m.Promo() {
			return lm
		}
	}
	return nil
}

// Apply plays a move obtained from LegalMoves.
func (g *Game) Apply(m *chess.Move) error {
	if err := g.g.Move(m); err != nil {
		return fmt.Errorf("apply move %s: %w", m.String(), err)
	}
	return nil
}

// SAN renders a move in algebraic notation for the current position.
// Must be called before the move is applied.
func (g *Game) SAN(m *chess.Move) string {
	return chess.AlgebraicNotation{}.Encode(g.g.Position(), m)
}

// HistoryUCI returns every applied move in UCI order.
func (g *Game) HistoryUCI() []string {
	moves := g.g.Moves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// HistorySAN renders the full move history in algebraic notation.
func (g *Game) HistorySAN() []string {
	moves := g.g.Moves()
	positions := g.g.Positions()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return out
}

// LastMoveUCI returns the most recent move, or "" at the start of the
// game.
func (g *Game) LastMoveUCI() string {
	moves := g.g.Moves()
	if len(moves) == 0 {
		return ""
	}
	return moves[len(moves)-1].String()
}

// IsPromotion reports whether a move between the named squares would
// promote: a pawn on the origin square heading to the final rank of
// its direction of travel. Unknown square names are simply not a
// promotion; token parsing catches them later.
func (g *Game) IsPromotion(from, to string) bool {
	fromSq, ok := squareByName[strings.ToLower(from)]
	if !ok {
		return false
	}
	toSq, ok := squareByName[strings.ToLower(to)]
	if !ok {
		return false
	}
	piece := g.g.Position().Board().Piece(fromSq)
	if piece == chess.NoPiece || piece.Type() != chess.Pawn {
		return false
	}
	if piece.Color() == chess.White {
		return toSq.Rank() == chess.Rank8
	}
	return toSq.Rank() == chess.Rank1
}

// GameOver reports whether the game has a decided outcome.
func (g *Game) GameOver() bool {
	return g.g.Outcome() != chess.NoOutcome
}

func (g *Game) IsCheckmate() bool {
	return g.g.Method() == chess.Checkmate
}

func (g *Game) IsStalemate() bool {
	return g.g.Method() == chess.Stalemate
}

func (g *Game) IsInsufficientMaterial() bool {
	return g.g.Method() == chess.InsufficientMaterial
}

func (g *Game) IsSeventyFiveMoveDraw() bool {
	return g.g.Method() == chess.SeventyFiveMoveRule
}

func (g *Game) IsFivefoldRepetition() bool {
	return g.g.Method() == chess.FivefoldRepetition
}

func (g *Game) IsCheck() bool {
	moves := g.g.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

// Winner names the winning side after checkmate, or "" otherwise.
func (g *Game) Winner() string {
	switch g.g.Outcome() {
	case chess.WhiteWon:
		return "White"
	case chess.BlackWon:
		return "Black"
	default:
		return ""
	}
}
