package storage

import "time"

// GameRecord represents one game epoch: the process-wide board from
// creation or reset until the next reset.
type GameRecord struct {
	GameID       string    `db:"game_id"`
	InitialFEN   string    `db:"initial_fen"`
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// MoveRecord represents one applied move within a game epoch.
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	MoveUCI      string    `db:"move_uci"`
	MoveSAN      string    `db:"move_san"`
	FENAfterMove string    `db:"fen_after_move"`
	PlayerColor  string    `db:"player_color"`
	Source       string    `db:"source"` // user, llm, fallback
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

// NegotiationRecord represents one model round trip during a turn,
// including rejected attempts.
type NegotiationRecord struct {
	GameID        string    `db:"game_id"`
	MoveNumber    int       `db:"move_number"`
	AttemptNumber int       `db:"attempt_number"`
	Token         string    `db:"token"`
	Verdict       string    `db:"verdict"` // legal, illegal, malformed
	ModelID       string    `db:"model_id"`
	AttemptUTC    time.Time `db:"attempt_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move_uci TEXT NOT NULL,
	move_san TEXT NOT NULL,
	fen_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	source TEXT NOT NULL CHECK(source IN ('user', 'llm', 'fallback')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE TABLE IF NOT EXISTS negotiations (
	negotiation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	attempt_number INTEGER NOT NULL,
	token TEXT NOT NULL,
	verdict TEXT NOT NULL CHECK(verdict IN ('legal', 'illegal', 'malformed')),
	model_id TEXT NOT NULL,
	attempt_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_negotiations_game_id ON negotiations(game_id);
`
