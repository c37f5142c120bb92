package core

import "fmt"

// Error codes returned in the JSON error envelope
const (
	ErrInvalidMove       = "INVALID_MOVE"
	ErrMalformedMove     = "MALFORMED_MOVE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInternalError     = "INTERNAL_ERROR"
)

// IllegalMoveError reports a well-formed token that is not in the
// current legal-move set. The unchanged position travels with it so
// the caller can resynchronize.
type IllegalMoveError struct {
	Token string
	FEN   string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: %s", e.Token)
}

// MalformedMoveError reports a token the rules engine could not parse
// at all.
type MalformedMoveError struct {
	Token string
	FEN   string
}

func (e *MalformedMoveError) Error() string {
	return fmt.Sprintf("invalid move format: %s", e.Token)
}
