// Package service owns the process-wide game state. It is the only
// component allowed to mutate the board, and it serializes logical
// turns: a full user-move/engine-reply cycle runs under one lock, so
// transports never see a half-applied turn.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chessllm/internal/core"
	"chessllm/internal/negotiate"
	"chessllm/internal/rules"
	"chessllm/internal/storage"
)

// Negotiator obtains one move for the side to move. Implemented by
// negotiate.Engine; stubbed in tests.
type Negotiator interface {
	Negotiate(ctx context.Context, pos negotiate.Position, modelID string) negotiate.Result
}

// StateSnapshot is the serializable position exposed to transports.
type StateSnapshot struct {
	FEN      string   `json:"fen"`
	Turn     string   `json:"turn"`
	Moves    []string `json:"moves"`
	MovesSAN []string `json:"moves_san"`
	GameOver bool     `json:"game_over"`
	Status   string   `json:"status"`
}

// TurnOutcome is returned after a full turn cycle: the user's move
// plus, when applicable, the engine's reply.
type TurnOutcome struct {
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves"`
	MovesSAN   []string `json:"moves_san"`
	StatusText string   `json:"status_text"`
	GameOver   bool     `json:"game_over"`
	Rationale  string   `json:"rationale,omitempty"`
}

// Service is the single-game state manager and turn resolver.
type Service struct {
	mu            sync.Mutex
	game          *rules.Game
	negotiator    Negotiator
	store         *storage.Store // nil disables the audit log
	gameID        string         // current epoch id
	defaultModel  string
	engineIsBlack bool
}

// New creates the service with a fresh game at the starting position.
// store may be nil.
func New(neg Negotiator, store *storage.Store, defaultModel string) *Service {
	s := &Service{
		game:          rules.NewGame(),
		negotiator:    neg,
		store:         store,
		defaultModel:  defaultModel,
		engineIsBlack: true,
	}
	s.newEpoch()
	return s
}

// NewFromFEN creates the service at an arbitrary position. Used by
// tests that need to start mid-game.
func NewFromFEN(neg Negotiator, store *storage.Store, defaultModel, fen string) (*Service, error) {
	game, err := rules.NewGameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	s := &Service{
		game:          game,
		negotiator:    neg,
		store:         store,
		defaultModel:  defaultModel,
		engineIsBlack: true,
	}
	s.newEpoch()
	return s, nil
}

// GetState returns the current serialized position.
func (s *Service) GetState() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reset returns the board to the starting position. Idempotent: two
// consecutive resets yield the same snapshot.
func (s *Service) Reset() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Reset()
	s.newEpoch()
	return s.snapshotLocked()
}

// StorageHealth reports the audit store status for the health check.
func (s *Service) StorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "healthy"
	}
	return "degraded"
}

// ApplyUserMove runs one full turn: validate and apply the user's
// move, then, if the game continues and it is the engine's turn,
// negotiate and apply the engine's reply. User errors come back as
// *core.MalformedMoveError or *core.IllegalMoveError with the
// unchanged position attached; engine-side failures never fail the
// turn and surface only in the narrative text.
func (s *Service) ApplyUserMove(ctx context.Context, from, to, promotion, modelID string) (TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if modelID == "" {
		modelID = s.defaultModel
	}

	token := strings.ToLower(from + to)
	// Append the promotion hint only when a pawn is actually moving to
	// its final rank; the frontend may send a default hint
	// speculatively, so a stray hint is dropped, not an error.
	if promotion != "" && s.game.IsPromotion(from, to) {
		token += strings.ToLower(promotion)
	}

	decoded, err := s.game.ParseToken(token)
	if err != nil {
		return TurnOutcome{}, &core.MalformedMoveError{Token: token, FEN: s.game.FEN()}
	}
	handle := rules.MatchLegal(decoded, s.game.LegalMoves())
	if handle == nil {
		return TurnOutcome{}, &core.IllegalMoveError{Token: token, FEN: s.game.FEN()}
	}

	userColor := s.colorCode()
	userSAN := s.game.SAN(handle)
	if err := s.game.Apply(handle); err != nil {
		return TurnOutcome{}, fmt.Errorf("apply user move: %w", err)
	}
	s.recordMove(handle.String(), userSAN, userColor, "user")

	var engineSAN, engineMarker, rationale string
	if !s.game.GameOver() && s.game.BlackToMove() == s.engineIsBlack {
		engineSAN, engineMarker, rationale = s.engineTurn(ctx, modelID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You played %s.", userSAN)
	switch {
	case engineSAN != "":
		fmt.Fprintf(&b, " Computer played %s.", engineSAN)
	case engineMarker != "":
		fmt.Fprintf(&b, " [%s]", engineMarker)
	}
	b.WriteString(" " + s.statusPhrase())

	snap := s.snapshotLocked()
	return TurnOutcome{
		FEN:        snap.FEN,
		Moves:      snap.Moves,
		MovesSAN:   snap.MovesSAN,
		StatusText: b.String(),
		GameOver:   snap.GameOver,
		Rationale:  rationale,
	}, nil
}

// engineTurn negotiates and applies the engine's reply. Returns the
// rendered move or a degradation marker, never an error: a failed
// engine move leaves the board untouched.
func (s *Service) engineTurn(ctx context.Context, modelID string) (engineSAN, marker, rationale string) {
	result := s.negotiator.Negotiate(ctx, s.game, modelID)
	s.recordNegotiation(result.Attempts, modelID)
	rationale = result.Rationale

	if result.Move == nil {
		return "", "engine provided no move", rationale
	}

	// The handle came from this position's legal set, but re-check
	// against a freshly fetched set before touching the board.
	handle := rules.MatchLegal(result.Move, s.game.LegalMoves())
	if handle == nil {
		return "", "engine provided an illegal move", rationale
	}

	color := s.colorCode()
	engineSAN = s.game.SAN(handle)
	if err := s.game.Apply(handle); err != nil {
		return "", "engine provided an illegal move", rationale
	}
	s.recordMove(handle.String(), engineSAN, color, result.Source.String())
	return engineSAN, "", rationale
}

// statusPhrase derives the post-move status in fixed priority order:
// checkmate, stalemate, insufficient material, 75-move rule, fivefold
// repetition, check, side to move.
func (s *Service) statusPhrase() string {
	g := s.game
	switch {
	case g.IsCheckmate():
		return fmt.Sprintf("CHECKMATE! %s wins.", g.Winner())
	case g.IsStalemate():
		return "STALEMATE! Draw."
	case g.IsInsufficientMaterial():
		return "DRAW! Insufficient material."
	case g.IsSeventyFiveMoveDraw():
		return "DRAW! 75-move rule."
	case g.IsFivefoldRepetition():
		return "DRAW! Fivefold repetition."
	case g.IsCheck():
		return fmt.Sprintf("%s is in CHECK!", g.SideToMove())
	default:
		return fmt.Sprintf("%s to move.", g.SideToMove())
	}
}

func (s *Service) snapshotLocked() StateSnapshot {
	return StateSnapshot{
		FEN:      s.game.FEN(),
		Turn:     s.game.SideToMove(),
		Moves:    s.game.HistoryUCI(),
		MovesSAN: s.game.HistorySAN(),
		GameOver: s.game.GameOver(),
		Status:   s.statusPhrase(),
	}
}

func (s *Service) colorCode() string {
	if s.game.BlackToMove() {
		return "b"
	}
	return "w"
}

func (s *Service) newEpoch() {
	s.gameID = uuid.New().String()
	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       s.gameID,
			InitialFEN:   s.game.FEN(),
			StartTimeUTC: time.Now().UTC(),
		})
	}
}

func (s *Service) recordMove(uci, san, color, source string) {
	if s.store == nil {
		return
	}
	s.store.RecordMove(storage.MoveRecord{
		GameID:       s.gameID,
		MoveNumber:   len(s.game.HistoryUCI()),
		MoveUCI:      uci,
		MoveSAN:      san,
		FENAfterMove: s.game.FEN(),
		PlayerColor:  color,
		Source:       source,
		MoveTimeUTC:  time.Now().UTC(),
	})
}

func (s *Service) recordNegotiation(attempts []negotiate.Attempt, modelID string) {
	if s.store == nil {
		return
	}
	moveNumber := len(s.game.HistoryUCI()) + 1
	for i, a := range attempts {
		s.store.RecordNegotiation(storage.NegotiationRecord{
			GameID:        s.gameID,
			MoveNumber:    moveNumber,
			AttemptNumber: i + 1,
			Token:         a.Token,
			Verdict:       a.Verdict.String(),
			ModelID:       modelID,
			AttemptUTC:    time.Now().UTC(),
		})
	}
}
