package quota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/teemow/youtube-mcp/internal/atomicfile"
)

// Snapshot is the persisted form of the counter.
type Snapshot struct {
	Date string `json:"date"`
	Used int    `json:"used"`
}

// Store persists quota snapshots. Load returns a zero Snapshot when nothing
// has been stored yet.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// FileStore keeps the snapshot in a JSON file, usually quota.json inside the
// config directory.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot from disk.
func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read quota file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse quota file: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode quota snapshot: %w", err)
	}
	return atomicfile.Write(s.path, data, 0o600)
}
