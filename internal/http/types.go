package http

// MoveRequest is the body of POST /api/v1/move: the user's move as
// origin and destination squares, an optional promotion hint and an
// optional model override.
type MoveRequest struct {
	From      string `json:"from" validate:"required,len=2"`
	To        string `json:"to" validate:"required,len=2"`
	Promotion string `json:"promotion" validate:"omitempty,oneof=q n r b"`
	ModelID   string `json:"model_id" validate:"omitempty,max=128"`
}

// ErrorResponse is the JSON error envelope. FEN carries the unchanged
// position on move errors so the frontend can resynchronize.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
	FEN     string `json:"fen,omitempty"`
}
