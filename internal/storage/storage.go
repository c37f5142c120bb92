// Package storage provides an optional SQLite audit log of game
// epochs, applied moves and negotiation attempts. Writes are
// asynchronous so the turn path never blocks on disk; on the first
// write failure the store degrades to a no-op and flags itself
// unhealthy.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store handles SQLite database operations with an async single
// writer.
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewStore opens the database and starts the async writer.
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL in development for better concurrency with inspection tools
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, 1000),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy returns true if the storage is operational.
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// InitDB creates the database schema.
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

// RecordNewGame persists a game epoch row (async, fire and forget).
func (s *Store) RecordNewGame(r GameRecord) {
	s.enqueue(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO games (game_id, initial_fen, start_time_utc) VALUES (?, ?, ?)`,
			r.GameID, r.InitialFEN, r.StartTimeUTC,
		)
		return err
	})
}

// RecordMove persists one applied move (async, fire and forget).
func (s *Store) RecordMove(r MoveRecord) {
	s.enqueue(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO moves (game_id, move_number, move_uci, move_san, fen_after_move, player_color, source, move_time_utc)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.GameID, r.MoveNumber, r.MoveUCI, r.MoveSAN, r.FENAfterMove, r.PlayerColor, r.Source, r.MoveTimeUTC,
		)
		return err
	})
}

// RecordNegotiation persists one negotiation attempt (async).
func (s *Store) RecordNegotiation(r NegotiationRecord) {
	s.enqueue(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO negotiations (game_id, move_number, attempt_number, token, verdict, model_id, attempt_utc)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.GameID, r.MoveNumber, r.AttemptNumber, r.Token, r.Verdict, r.ModelID, r.AttemptUTC,
		)
		return err
	})
}

func (s *Store) enqueue(fn func(*sql.Tx) error) {
	select {
	case s.writeChan <- fn:
	default:
		// Queue full; audit writes are best effort
		log.Printf("Storage write queue full, dropping record")
	}
}

// writerLoop processes async write operations.
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain remaining writes with timeout
			deadline := time.After(2 * time.Second)
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				case <-deadline:
					return
				default:
					return
				}
			}

		case fn := <-s.writeChan:
			if !s.healthStatus.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

// executeWrite runs a transactional write operation.
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: failed to begin transaction: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write operation failed: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: failed to commit: %v", err)
		s.healthStatus.Store(false)
	}
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
