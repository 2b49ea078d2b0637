// Package registry manages matches and their lifecycle: setup, live, paused
// and completed.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crease/crease/internal/platform"
	"github.com/crease/crease/pkg/cricket"
)

// Match is a fixture tracked by Crease.
type Match struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Date         string              `json:"date"`
	Venue        string              `json:"venue"`
	Format       string              `json:"match_type"`
	Team1        string              `json:"team1"`
	Team2        string              `json:"team2"`
	TossWinner   string              `json:"toss_winner,omitempty"`
	TossDecision string              `json:"toss_decision,omitempty"`
	BattingFirst string              `json:"batting_first,omitempty"`
	Status       cricket.MatchStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NewMatch is the input for Create.
type NewMatch struct {
	Name         string `json:"name"`
	Date         string `json:"date"`
	Venue        string `json:"venue"`
	Format       string `json:"match_type"`
	Team1        string `json:"team1"`
	Team2        string `json:"team2"`
	TossWinner   string `json:"toss_winner"`
	TossDecision string `json:"toss_decision"`
	BattingFirst string `json:"batting_first"`
}

// Validate checks required fields and that toss details name one of the teams.
func (m NewMatch) Validate() error {
	switch {
	case strings.TrimSpace(m.Name) == "":
		return cricket.Invalid("match name is required")
	case strings.TrimSpace(m.Team1) == "" || strings.TrimSpace(m.Team2) == "":
		return cricket.Invalid("both team names are required")
	case m.Team1 == m.Team2:
		return cricket.Invalid("teams must differ")
	}
	for field, team := range map[string]string{"toss winner": m.TossWinner, "batting first": m.BattingFirst} {
		if team != "" && team != m.Team1 && team != m.Team2 {
			return cricket.Invalid(field + " must be one of the match teams")
		}
	}
	switch m.TossDecision {
	case "", "bat", "bowl":
	default:
		return cricket.Invalid("toss decision must be bat or bowl")
	}
	return nil
}

// Service provides match management backed by SQL.
type Service struct {
	db    *platform.DB
	locks *platform.KeyedMutex
	now   func() time.Time
}

// NewService creates a new registry Service.
func NewService(db *platform.DB) *Service {
	return &Service{db: db, locks: platform.NewKeyedMutex(), now: time.Now}
}

// Locks returns the per-match locks held by status changes and deletes.
// Writers of match data share them so a match cannot complete or vanish
// while a write is in flight.
func (s *Service) Locks() *platform.KeyedMutex {
	return s.locks
}

const matchColumns = `id, name, match_date, venue, format, team1, team2,
	toss_winner, toss_decision, batting_first, status, created_at`

func scanMatch(row interface{ Scan(...any) error }) (*Match, error) {
	var (
		m       Match
		status  string
		created int64
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Date, &m.Venue, &m.Format, &m.Team1, &m.Team2,
		&m.TossWinner, &m.TossDecision, &m.BattingFirst, &status, &created); err != nil {
		return nil, err
	}
	m.Status = cricket.MatchStatus(status)
	m.CreatedAt = platform.FromMillis(created)
	return &m, nil
}

// Create registers a new match in the setup state.
func (s *Service) Create(ctx context.Context, in NewMatch) (*Match, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m := &Match{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Date:         in.Date,
		Venue:        in.Venue,
		Format:       in.Format,
		Team1:        strings.TrimSpace(in.Team1),
		Team2:        strings.TrimSpace(in.Team2),
		TossWinner:   in.TossWinner,
		TossDecision: in.TossDecision,
		BattingFirst: in.BattingFirst,
		Status:       cricket.StatusSetup,
		CreatedAt:    platform.FromMillis(platform.Millis(s.now())),
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO matches (`+matchColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		m.ID, m.Name, m.Date, m.Venue, m.Format, m.Team1, m.Team2,
		m.TossWinner, m.TossDecision, m.BattingFirst, string(m.Status), platform.Millis(m.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// Get returns a match by ID.
func (s *Service) Get(ctx context.Context, id string) (*Match, error) {
	m, err := scanMatch(s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cricket.NotFound("match", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return m, nil
}

// List returns all matches, newest first.
func (s *Service) List(ctx context.Context) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// Status returns the lifecycle status of a match.
func (s *Service) Status(ctx context.Context, id string) (cricket.MatchStatus, error) {
	var status string
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT status FROM matches WHERE id = ?`), id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", cricket.NotFound("match", id)
	}
	if err != nil {
		return "", fmt.Errorf("get match status %s: %w", id, err)
	}
	return cricket.MatchStatus(status), nil
}

// Start moves a match to live.
func (s *Service) Start(ctx context.Context, id string) (*Match, error) {
	return s.SetStatus(ctx, id, cricket.StatusLive)
}

// SetStatus moves a match to the given status. Setting the current status
// again is a no-op.
func (s *Service) SetStatus(ctx context.Context, id string, to cricket.MatchStatus) (*Match, error) {
	if !to.Valid() {
		return nil, cricket.Invalid(fmt.Sprintf("unknown status %q", to))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == to {
		return m, nil
	}
	if !CanTransition(m.Status, to) {
		return nil, cricket.InvalidState(fmt.Sprintf("match cannot move from %s to %s", m.Status, to))
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE matches SET status = ? WHERE id = ? AND status = ?`),
		string(to), id, string(m.Status))
	if err != nil {
		return nil, fmt.Errorf("update match status %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, cricket.InvalidState("match status changed concurrently")
	}
	m.Status = to
	return m, nil
}

// CanTransition reports whether a match may move between two statuses.
// Completed is terminal and nothing returns to setup.
func CanTransition(from, to cricket.MatchStatus) bool {
	switch from {
	case cricket.StatusSetup:
		return to == cricket.StatusLive || to == cricket.StatusCompleted
	case cricket.StatusLive:
		return to == cricket.StatusPaused || to == cricket.StatusCompleted
	case cricket.StatusPaused:
		return to == cricket.StatusLive || to == cricket.StatusCompleted
	}
	return false
}

// Delete removes a match with its deliveries and tracked state.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete match: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM deliveries WHERE match_id = ?`,
		`DELETE FROM match_state WHERE match_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(q), id); err != nil {
			return fmt.Errorf("delete match %s: %w", id, err)
		}
	}
	res, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM matches WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return cricket.NotFound("match", id)
	}
	return tx.Commit()
}

// Ping checks that the backing database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
