package negotiate

import "github.com/notnil/chess"

// The negotiation is an explicit finite state machine:
//
//	Start -> AwaitingResponse -> Evaluating -> {Accepted | Retrying | Exhausted}
//	Retrying -> AwaitingResponse
//
// Step is a pure transition function from (state, event) to
// (state, effect); the engine loop performs the effects. Keeping the
// transitions pure makes the retry bound and fallback behavior
// testable without a live model client.

// Phase identifies the current FSM state.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseAwaitingResponse
	PhaseEvaluating
	PhaseRetrying
	PhaseAccepted
	PhaseExhausted
)

// MaxRetries is the fixed bound on corrective attempts after the
// initial prompt, so a turn performs at most 1+MaxRetries round trips.
const MaxRetries = 3

// State carries everything the transition function needs between
// events.
type State struct {
	Phase    Phase
	Retries  int
	Rejected string      // last rejected token, "" if none
	Move     *chess.Move // set on acceptance
}

// EventKind enumerates inputs to the FSM.
type EventKind int

const (
	EvBegin EventKind = iota
	EvReply
	EvVerdict
	EvTransportError
)

// Event is one FSM input. Text accompanies EvReply; Outcome
// accompanies EvVerdict.
type Event struct {
	Kind    EventKind
	Text    string
	Outcome Outcome
}

// EffectKind enumerates the side effects the engine loop must perform
// after a transition.
type EffectKind int

const (
	FxSendInitial EffectKind = iota
	FxEvaluate
	FxSendCorrection
	FxAccept
	FxFallback
)

// Effect is the action requested by a transition. Reply accompanies
// FxEvaluate; Rejected accompanies FxSendCorrection.
type Effect struct {
	Kind     EffectKind
	Reply    string
	Rejected string
}

// Step advances the machine by one event. A transport error in any
// phase moves straight to Exhausted; negotiation never propagates
// transport failures.
func Step(st State, ev Event) (State, Effect) {
	if ev.Kind == EvTransportError {
		st.Phase = PhaseExhausted
		return st, Effect{Kind: FxFallback}
	}

	switch st.Phase {
	case PhaseStart:
		st.Phase = PhaseAwaitingResponse
		return st, Effect{Kind: FxSendInitial}

	case PhaseAwaitingResponse, PhaseRetrying:
		st.Phase = PhaseEvaluating
		return st, Effect{Kind: FxEvaluate, Reply: ev.Text}

	case PhaseEvaluating:
		if ev.Outcome.Verdict == VerdictLegal {
			st.Phase = PhaseAccepted
			st.Move = ev.Outcome.Move
			return st, Effect{Kind: FxAccept}
		}
		st.Rejected = ev.Outcome.Token
		if st.Retries < MaxRetries {
			st.Retries++
			st.Phase = PhaseRetrying
			return st, Effect{Kind: FxSendCorrection, Rejected: st.Rejected}
		}
		st.Phase = PhaseExhausted
		return st, Effect{Kind: FxFallback}

	default:
		// Accepted and Exhausted are terminal; the engine loop stops
		// before feeding further events.
		return st, Effect{Kind: FxFallback}
	}
}
