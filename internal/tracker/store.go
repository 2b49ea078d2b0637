package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/crease/crease/internal/platform"
)

// SQLStore keeps state in the match_state table.
type SQLStore struct {
	db *platform.DB
}

// NewSQLStore creates a SQLStore.
func NewSQLStore(db *platform.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, matchID string) (State, bool, error) {
	var (
		st                          State
		striker, nonStriker, bowler sql.NullString
		updated                     int64
	)
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT match_id, current_innings, current_striker, current_non_striker,
		        current_bowler, on_strike, updated_at
		 FROM match_state WHERE match_id = ?`), matchID,
	).Scan(&st.MatchID, &st.CurrentInnings, &striker, &nonStriker, &bowler, &st.OnStrike, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("query match state %s: %w", matchID, err)
	}
	st.CurrentStriker = stringPtr(striker)
	st.CurrentNonStriker = stringPtr(nonStriker)
	st.CurrentBowler = stringPtr(bowler)
	st.UpdatedAt = platform.FromMillis(updated)
	return st, true, nil
}

func (s *SQLStore) Put(ctx context.Context, st State) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO match_state (match_id, current_innings, current_striker, current_non_striker,
		                          current_bowler, on_strike, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (match_id) DO UPDATE SET
		   current_innings = excluded.current_innings,
		   current_striker = excluded.current_striker,
		   current_non_striker = excluded.current_non_striker,
		   current_bowler = excluded.current_bowler,
		   on_strike = excluded.on_strike,
		   updated_at = excluded.updated_at`),
		st.MatchID, st.CurrentInnings, nullString(st.CurrentStriker), nullString(st.CurrentNonStriker),
		nullString(st.CurrentBowler), st.OnStrike, platform.Millis(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert match state %s: %w", st.MatchID, err)
	}
	return nil
}

// MemoryStore keeps state in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (m *MemoryStore) Get(_ context.Context, matchID string) (State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[matchID]
	return st, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.MatchID] = st
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
