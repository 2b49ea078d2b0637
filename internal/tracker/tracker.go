// Package tracker holds the live context of each match: who is batting,
// who is bowling and which innings is in progress.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/crease/crease/internal/platform"
	"github.com/crease/crease/pkg/cricket"
)

// Ends of the pitch a scorer can put on strike.
const (
	OnStrikeStriker    = "striker"
	OnStrikeNonStriker = "non-striker"
)

// onStrikeAliases maps spellings older scoring clients send to the stored form.
var onStrikeAliases = map[string]string{
	"nonStriker":  OnStrikeNonStriker,
	"non_striker": OnStrikeNonStriker,
}

// State is the current context of a match. Player fields are nil until set.
type State struct {
	MatchID           string    `json:"match_id"`
	CurrentInnings    int       `json:"current_innings"`
	CurrentStriker    *string   `json:"current_striker"`
	CurrentNonStriker *string   `json:"current_non_striker"`
	CurrentBowler     *string   `json:"current_bowler"`
	OnStrike          string    `json:"on_strike"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Default is the state of a match nobody has updated yet.
func Default(matchID string) State {
	return State{MatchID: matchID, CurrentInnings: 1, OnStrike: OnStrikeStriker}
}

// Validate checks the fields a scorer submits. Players are free text and are
// not checked against the match teams.
func (s State) Validate() error {
	if s.CurrentInnings < 1 {
		return cricket.Invalid("current innings must be at least 1")
	}
	switch s.OnStrike {
	case OnStrikeStriker, OnStrikeNonStriker:
	default:
		return cricket.Invalid(fmt.Sprintf("on_strike must be %q or %q", OnStrikeStriker, OnStrikeNonStriker))
	}
	return nil
}

// Store persists one State per match.
type Store interface {
	// Get returns the stored state and whether one exists.
	Get(ctx context.Context, matchID string) (State, bool, error)
	Put(ctx context.Context, s State) error
}

// Service reads and updates match state. Writes to one match are serialized.
type Service struct {
	store Store
	locks *platform.KeyedMutex
	now   func() time.Time
}

// NewService creates a tracker over store.
func NewService(store Store) *Service {
	return &Service{store: store, locks: platform.NewKeyedMutex(), now: time.Now}
}

// Get returns the state of a match, or Default when none has been set.
func (s *Service) Get(ctx context.Context, matchID string) (State, error) {
	st, ok, err := s.store.Get(ctx, matchID)
	if err != nil {
		return State{}, fmt.Errorf("get match state: %w", err)
	}
	if !ok {
		return Default(matchID), nil
	}
	return st, nil
}

// Set replaces the state of a match. The last write wins.
func (s *Service) Set(ctx context.Context, matchID string, st State) (State, error) {
	st.MatchID = matchID
	if st.CurrentInnings == 0 {
		st.CurrentInnings = 1
	}
	if st.OnStrike == "" {
		st.OnStrike = OnStrikeStriker
	}
	if canonical, ok := onStrikeAliases[st.OnStrike]; ok {
		st.OnStrike = canonical
	}
	if err := st.Validate(); err != nil {
		return st, err
	}

	unlock := s.locks.Lock(matchID)
	defer unlock()

	st.UpdatedAt = platform.FromMillis(platform.Millis(s.now()))
	if err := s.store.Put(ctx, st); err != nil {
		return st, fmt.Errorf("set match state: %w", err)
	}
	return st, nil
}
