package cricket

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Ledger is the on-disk form of a match's deliveries, used by the CLI and
// by the scorecard archive.
type Ledger struct {
	MatchID    string     `json:"match_id"`
	Deliveries []Delivery `json:"deliveries"`
}

// SaveLedger writes a ledger to disk as JSON.
func SaveLedger(path string, l *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for ledger: %w", err)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	return nil
}

// LoadLedger reads a ledger from disk. Deliveries without a sequence number
// are assigned one from their file position, and a missing extras kind is
// read as none.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshaling ledger: %w", err)
	}

	for i := range l.Deliveries {
		d := &l.Deliveries[i]
		if d.Seq == 0 {
			d.Seq = int64(i + 1)
		}
		if d.ExtrasKind == "" {
			d.ExtrasKind = ExtrasNone
		}
		if d.MatchID == "" {
			d.MatchID = l.MatchID
		}
	}

	return &l, nil
}
