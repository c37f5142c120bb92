package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	s, err := NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return s, path
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestStoreRecordsFlushedOnClose(t *testing.T) {
	s, path := newTestStore(t)

	now := time.Now().UTC()
	s.RecordNewGame(GameRecord{GameID: "g1", InitialFEN: "startpos", StartTimeUTC: now})
	s.RecordMove(MoveRecord{
		GameID: "g1", MoveNumber: 1, MoveUCI: "e2e4", MoveSAN: "e4",
		FENAfterMove: "fen1", PlayerColor: "w", Source: "user", MoveTimeUTC: now,
	})
	s.RecordNegotiation(NegotiationRecord{
		GameID: "g1", MoveNumber: 2, AttemptNumber: 1,
		Token: "a1a8", Verdict: "illegal", ModelID: "test-model", AttemptUTC: now,
	})

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if n := countRows(t, path, "games"); n != 1 {
		t.Fatalf("expected 1 game row, got %d", n)
	}
	if n := countRows(t, path, "moves"); n != 1 {
		t.Fatalf("expected 1 move row, got %d", n)
	}
	if n := countRows(t, path, "negotiations"); n != 1 {
		t.Fatalf("expected 1 negotiation row, got %d", n)
	}
}

func TestStoreStartsHealthy(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()
	if !s.IsHealthy() {
		t.Fatalf("fresh store should report healthy")
	}
}

func TestStoreRejectsUnknownVerdict(t *testing.T) {
	s, path := newTestStore(t)
	now := time.Now().UTC()
	s.RecordNewGame(GameRecord{GameID: "g1", InitialFEN: "startpos", StartTimeUTC: now})
	s.RecordNegotiation(NegotiationRecord{
		GameID: "g1", MoveNumber: 1, AttemptNumber: 1,
		Token: "e2e4", Verdict: "bogus", ModelID: "test-model", AttemptUTC: now,
	})
	s.Close()

	// CHECK constraint rejects the row and degrades the store
	if n := countRows(t, path, "negotiations"); n != 0 {
		t.Fatalf("expected constraint to reject the row, got %d rows", n)
	}
}
