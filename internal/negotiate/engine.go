// Package negotiate turns an unreliable free-text model into a source
// of exactly one legal move per turn: parse the reply, validate the
// candidate against the fresh legal set, correct the model a bounded
// number of times over the same session, and fall back to a random
// legal move when the budget is exhausted.
package negotiate

import (
	"context"
	"log"

	"github.com/notnil/chess"

	"chessllm/internal/llm"
)

// Source records where the final move came from.
type Source int

const (
	SourceModel Source = iota
	SourceFallback
	SourceNone
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "llm"
	case SourceFallback:
		return "fallback"
	default:
		return "none"
	}
}

const (
	rationaleUnavailable = "AI unavailable"
	rationaleNoAnalysis  = "AI analysis not available"
	fallbackNote         = "(a random legal move was substituted)"
)

// Attempt is one model round trip, kept for the audit trail.
type Attempt struct {
	Token   string
	Verdict Verdict
}

// Result is the terminal outcome of one negotiation. Move is nil only
// when the position has no legal moves at all.
type Result struct {
	Rationale  string
	Move       *chess.Move
	Source     Source
	Attempts   []Attempt
	RoundTrips int
}

// Engine runs bounded negotiations. One Engine serves the whole
// process; each Negotiate call opens its own session and discards it.
type Engine struct {
	client   llm.Client
	selector *Selector
}

// NewEngine builds an engine. A nil client is allowed and routes every
// negotiation straight to the fallback selector.
func NewEngine(client llm.Client, selector *Selector) *Engine {
	if selector == nil {
		selector = NewSelector(nil)
	}
	return &Engine{client: client, selector: selector}
}

// Negotiate obtains one legal move for the current position, or a
// no-move result if none exist. It never returns an error: every
// failure mode degrades to the fallback selector.
func (e *Engine) Negotiate(ctx context.Context, pos Position, modelID string) Result {
	if e.client == nil {
		log.Printf("negotiate: no model client, using fallback")
		return e.fallbackResult(pos, rationaleUnavailable, nil, 0)
	}

	session, err := e.client.NewSession(ctx, modelID)
	if err != nil {
		log.Printf("negotiate: session create failed: %v", err)
		return e.fallbackResult(pos, rationaleNoAnalysis, nil, 0)
	}

	var (
		st         = State{Phase: PhaseStart}
		ev         = Event{Kind: EvBegin}
		attempts   []Attempt
		roundTrips int
		best       string // latest usable rationale fragment, even from a rejected attempt
		current    string // rationale of the reply being evaluated
	)

	for {
		var fx Effect
		st, fx = Step(st, ev)

		switch fx.Kind {
		case FxSendInitial:
			roundTrips++
			reply, sendErr := session.Send(ctx, InitialPrompt(pos))
			if sendErr != nil {
				log.Printf("negotiate: transport failure: %v", sendErr)
				ev = Event{Kind: EvTransportError}
				continue
			}
			ev = Event{Kind: EvReply, Text: reply}

		case FxSendCorrection:
			roundTrips++
			reply, sendErr := session.Send(ctx, CorrectionPrompt(pos, fx.Rejected))
			if sendErr != nil {
				log.Printf("negotiate: transport failure on retry %d: %v", st.Retries, sendErr)
				ev = Event{Kind: EvTransportError}
				continue
			}
			ev = Event{Kind: EvReply, Text: reply}

		case FxEvaluate:
			var token string
			current, token = ParseReply(fx.Reply)
			if current != placeholderEmptyReply && current != placeholderNoRationale {
				best = current
			}
			out := Validate(pos, token)
			attempts = append(attempts, Attempt{Token: out.Token, Verdict: out.Verdict})
			if out.Verdict != VerdictLegal {
				log.Printf("negotiate: rejected %s candidate %q (attempt %d)", out.Verdict, out.Token, roundTrips)
			}
			ev = Event{Kind: EvVerdict, Outcome: out}

		case FxAccept:
			return Result{
				Rationale:  current,
				Move:       st.Move,
				Source:     SourceModel,
				Attempts:   attempts,
				RoundTrips: roundTrips,
			}

		case FxFallback:
			rationale := best
			if rationale == "" {
				rationale = rationaleNoAnalysis
			}
			log.Printf("negotiate: exhausted after %d round trips, using fallback", roundTrips)
			return e.fallbackResult(pos, rationale+" "+fallbackNote, attempts, roundTrips)
		}
	}
}

func (e *Engine) fallbackResult(pos Position, rationale string, attempts []Attempt, roundTrips int) Result {
	move := e.selector.Pick(pos.LegalMoves())
	if move == nil {
		return Result{Rationale: rationale, Source: SourceNone, Attempts: attempts, RoundTrips: roundTrips}
	}
	return Result{Rationale: rationale, Move: move, Source: SourceFallback, Attempts: attempts, RoundTrips: roundTrips}
}
