// Package archive keeps the final scorecard of each completed match in blob
// storage: the local filesystem, S3 or GCS.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crease/crease/pkg/cricket"
)

// Storage abstracts blob storage for scorecards. Get returns a
// cricket.ErrNotFound error when nothing is stored under the key.
type Storage interface {
	PutScorecard(ctx context.Context, matchID, cardID string, data []byte) error
	GetScorecard(ctx context.Context, matchID, cardID string) ([]byte, error)
}

func objectKey(matchID, cardID string) string {
	return matchID + "/scorecards/" + cardID + ".json"
}

func missing(matchID, cardID string) error {
	return cricket.NotFound("scorecard", objectKey(matchID, cardID))
}

// LocalStorage implements Storage using the local filesystem.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(matchID, cardID string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(objectKey(matchID, cardID)))
}

func (s *LocalStorage) PutScorecard(_ context.Context, matchID, cardID string, data []byte) error {
	path := s.path(matchID, cardID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStorage) GetScorecard(_ context.Context, matchID, cardID string) ([]byte, error) {
	data, err := os.ReadFile(s.path(matchID, cardID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, missing(matchID, cardID)
	}
	return data, err
}
