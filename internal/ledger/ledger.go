// Package ledger records deliveries for a match. It assigns legal ball
// numbers at insertion, serializes writes per match and versions each
// match's ledger so derived views can be cached safely.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crease/crease/internal/platform"
	"github.com/crease/crease/pkg/cricket"
)

// Policy decides which deliveries may be removed.
type Policy string

const (
	// LatestOnly allows removing only the most recently appended delivery
	// of its (innings, over), so stored legal numbers never go stale.
	LatestOnly Policy = "latest-only"
	// Renumber allows any removal and re-derives the legal numbers of the
	// rest of the over.
	Renumber Policy = "renumber"
)

// ParsePolicy maps a configured name to a Policy. Empty means LatestOnly.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", LatestOnly:
		return LatestOnly, nil
	case Renumber:
		return Renumber, nil
	}
	return "", fmt.Errorf("unknown removal policy %q", s)
}

// StatusSource reports whether a match exists and its lifecycle status.
type StatusSource interface {
	Status(ctx context.Context, matchID string) (cricket.MatchStatus, error)
}

// lockSource is implemented by status sources that guard their own status
// changes with per-match locks. The ledger takes the same locks so a match
// cannot leave the live state between the status check and the write.
type lockSource interface {
	Locks() *platform.KeyedMutex
}

// Observer is notified of ledger activity. telemetry.Metrics implements it.
type Observer interface {
	DeliveryRecorded(kind cricket.ExtrasKind)
	DeliveryRemoved(kind cricket.ExtrasKind)
	LedgerInconsistent(n int)
}

type nopObserver struct{}

func (nopObserver) DeliveryRecorded(cricket.ExtrasKind) {}
func (nopObserver) DeliveryRemoved(cricket.ExtrasKind)  {}
func (nopObserver) LedgerInconsistent(int)              {}

// Service is the delivery ledger.
type Service struct {
	store    Store
	matches  StatusSource
	policy   Policy
	observer Observer
	logger   *slog.Logger
	now      func() time.Time

	locks    *platform.KeyedMutex
	mu       sync.Mutex
	versions map[string]uint64
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the removal policy.
func WithPolicy(p Policy) Option { return func(s *Service) { s.policy = p } }

// WithObserver sets the activity observer.
func WithObserver(o Observer) Option { return func(s *Service) { s.observer = o } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithClock overrides the clock used for RecordedAt.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a ledger over store, checking match status with matches.
func NewService(store Store, matches StatusSource, opts ...Option) *Service {
	s := &Service{
		store:    store,
		matches:  matches,
		policy:   LatestOnly,
		observer: nopObserver{},
		logger:   slog.Default(),
		now:      time.Now,
		locks:    platform.NewKeyedMutex(),
		versions: make(map[string]uint64),
	}
	if ls, ok := matches.(lockSource); ok {
		s.locks = ls.Locks()
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Policy returns the configured removal policy.
func (s *Service) Policy() Policy { return s.policy }

// Append validates d, numbers it against the deliveries already recorded in
// its over and stores it. The match must exist and be live.
func (s *Service) Append(ctx context.Context, d cricket.Delivery) (cricket.Delivery, error) {
	kind, ok := cricket.ParseExtrasKind(string(d.ExtrasKind))
	if ok {
		d.ExtrasKind = kind
	}
	if err := d.Validate(); err != nil {
		return d, err
	}

	unlock := s.locks.Lock(d.MatchID)
	defer unlock()

	status, err := s.matches.Status(ctx, d.MatchID)
	if err != nil {
		return d, err
	}
	if !status.AcceptsScoring() {
		return d, &cricket.Error{
			Code:     cricket.CodeInvalidState,
			Message:  "match is not live",
			Metadata: map[string]string{"match_id": d.MatchID, "status": string(status)},
		}
	}

	existing, err := s.store.List(ctx, d.MatchID)
	if err != nil {
		return d, fmt.Errorf("load ledger: %w", err)
	}

	d.ID = uuid.NewString()
	d.LegalBall = cricket.LegalBallNumber(cricket.InOver(existing, d.Innings, d.Over), d.ExtrasKind)
	d.RecordedAt = s.now().UTC()

	stored, err := s.store.Insert(ctx, d)
	if err != nil {
		return d, fmt.Errorf("append delivery: %w", err)
	}
	s.bump(d.MatchID)
	s.observer.DeliveryRecorded(stored.ExtrasKind)

	s.logger.Debug("delivery recorded",
		"match_id", stored.MatchID, "delivery_id", stored.ID,
		"innings", stored.Innings, "over", stored.Over, "ball", stored.Ball,
		"legal_ball", stored.LegalBall, "extras_type", stored.ExtrasKind)
	return stored, nil
}

// List returns the deliveries of a match in append order. A positive
// innings restricts the result to that innings.
func (s *Service) List(ctx context.Context, matchID string, innings int) ([]cricket.Delivery, error) {
	if _, err := s.matches.Status(ctx, matchID); err != nil {
		return nil, err
	}
	ds, err := s.store.List(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	if innings <= 0 {
		return ds, nil
	}
	out := ds[:0:0]
	for _, d := range ds {
		if d.Innings == innings {
			out = append(out, d)
		}
	}
	return out, nil
}

// Snapshot returns every delivery of a match together with the ledger
// version they reflect. The deliveries are at least as new as the version.
func (s *Service) Snapshot(ctx context.Context, matchID string) ([]cricket.Delivery, uint64, error) {
	v := s.Version(matchID)
	ds, err := s.List(ctx, matchID, 0)
	return ds, v, err
}

// Remove deletes a delivery subject to the removal policy. Deliveries of a
// completed match cannot be removed.
func (s *Service) Remove(ctx context.Context, matchID, deliveryID string) error {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	status, err := s.matches.Status(ctx, matchID)
	if err != nil {
		return err
	}
	if status == cricket.StatusCompleted {
		return cricket.InvalidState("match is completed")
	}

	existing, err := s.store.List(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	var target *cricket.Delivery
	for i := range existing {
		if existing[i].ID == deliveryID {
			target = &existing[i]
			break
		}
	}
	if target == nil {
		return cricket.NotFound("delivery", deliveryID)
	}

	over := cricket.InOver(existing, target.Innings, target.Over)
	latest := over[len(over)-1]

	var renumber map[string]int
	switch s.policy {
	case Renumber:
		renumber = renumbered(over, target.ID)
	default:
		if latest.ID != target.ID {
			return &cricket.Error{
				Code:    cricket.CodeInvalidState,
				Message: "only the latest delivery of an over can be removed",
				Metadata: map[string]string{
					"delivery_id": deliveryID,
					"latest_id":   latest.ID,
				},
			}
		}
	}

	if err := s.store.Delete(ctx, matchID, deliveryID, renumber); err != nil {
		return err
	}
	s.bump(matchID)
	s.observer.DeliveryRemoved(target.ExtrasKind)

	s.logger.Info("delivery removed",
		"match_id", matchID, "delivery_id", deliveryID,
		"policy", string(s.policy), "renumbered", len(renumber))
	return nil
}

// renumbered replays an over without the removed delivery and returns the
// legal numbers that change.
func renumbered(over []cricket.Delivery, removedID string) map[string]int {
	changes := make(map[string]int)
	var prior []cricket.Delivery
	for _, d := range over {
		if d.ID == removedID {
			continue
		}
		n := cricket.LegalBallNumber(prior, d.ExtrasKind)
		if n != d.LegalBall {
			changes[d.ID] = n
		}
		d.LegalBall = n
		prior = append(prior, d)
	}
	return changes
}

// Verify replays the ledger of a match and reports every delivery whose
// stored legal number disagrees with the replay.
func (s *Service) Verify(ctx context.Context, matchID string) ([]cricket.Inconsistency, error) {
	ds, err := s.List(ctx, matchID, 0)
	if err != nil {
		return nil, err
	}
	issues := cricket.Verify(ds)
	if len(issues) > 0 {
		s.observer.LedgerInconsistent(len(issues))
		for _, is := range issues {
			s.logger.Warn("ledger inconsistency",
				"match_id", matchID, "delivery_id", is.DeliveryID,
				"innings", is.Innings, "over", is.Over, "ball", is.Ball,
				"stored", is.Stored, "derived", is.Derived)
		}
	}
	return issues, nil
}

// Version returns a counter that changes whenever the match's ledger is
// modified through this Service.
func (s *Service) Version(matchID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[matchID]
}

// Invalidate bumps the version of a match whose ledger changed outside
// Append and Remove, such as when the match is deleted.
func (s *Service) Invalidate(matchID string) {
	s.bump(matchID)
}

func (s *Service) bump(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[matchID]++
}
