package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crease/crease/internal/platform"
	"github.com/crease/crease/pkg/cricket"
)

// SQLStore is a Store backed by the deliveries table.
type SQLStore struct {
	db *platform.DB
}

// NewSQLStore creates a SQLStore.
func NewSQLStore(db *platform.DB) *SQLStore {
	return &SQLStore{db: db}
}

const deliveryColumns = `id, match_id, seq, innings, over_number, ball_number, legal_ball_number,
	batter, bowler, runs, extras, extras_kind, wicket, wicket_kind, dismissed_player,
	annotation, recorded_at`

func (s *SQLStore) Insert(ctx context.Context, d cricket.Delivery) (cricket.Delivery, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return d, fmt.Errorf("begin insert delivery: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, s.db.Rebind(
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM deliveries WHERE match_id = ?`), d.MatchID,
	).Scan(&d.Seq); err != nil {
		return d, fmt.Errorf("next delivery seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO deliveries (`+deliveryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		d.ID, d.MatchID, d.Seq, d.Innings, d.Over, d.Ball, d.LegalBall,
		d.Batter, d.Bowler, d.Runs, d.Extras, string(d.ExtrasKind), d.Wicket,
		nullString(d.WicketKind), nullString(d.DismissedPlayer),
		d.Annotation, platform.Millis(d.RecordedAt),
	)
	if err != nil {
		return d, fmt.Errorf("insert delivery: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return d, fmt.Errorf("commit delivery: %w", err)
	}
	return d, nil
}

func (s *SQLStore) List(ctx context.Context, matchID string) ([]cricket.Delivery, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT `+deliveryColumns+` FROM deliveries WHERE match_id = ? ORDER BY seq`), matchID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var out []cricket.Delivery
	for rows.Next() {
		var (
			d                     cricket.Delivery
			kind                  string
			wicketKind, dismissed sql.NullString
			recorded              int64
		)
		if err := rows.Scan(&d.ID, &d.MatchID, &d.Seq, &d.Innings, &d.Over, &d.Ball, &d.LegalBall,
			&d.Batter, &d.Bowler, &d.Runs, &d.Extras, &kind, &d.Wicket, &wicketKind, &dismissed,
			&d.Annotation, &recorded); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.ExtrasKind = cricket.ExtrasKind(kind)
		d.WicketKind = stringPtr(wicketKind)
		d.DismissedPlayer = stringPtr(dismissed)
		d.RecordedAt = platform.FromMillis(recorded)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, matchID, deliveryID string, renumber map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete delivery: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.db.Rebind(
		`DELETE FROM deliveries WHERE match_id = ? AND id = ?`), matchID, deliveryID)
	if err != nil {
		return fmt.Errorf("delete delivery %s: %w", deliveryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete delivery %s: %w", deliveryID, err)
	}
	if n == 0 {
		return cricket.NotFound("delivery", deliveryID)
	}

	q := s.db.Rebind(`UPDATE deliveries SET legal_ball_number = ? WHERE match_id = ? AND id = ?`)
	for id, legal := range renumber {
		if _, err := tx.ExecContext(ctx, q, legal, matchID, id); err != nil {
			return fmt.Errorf("renumber delivery %s: %w", id, err)
		}
	}
	return tx.Commit()
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
