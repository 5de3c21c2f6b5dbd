package quota

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	// DefaultKeyPrefix matches the prefix used by the other Valkey consumers.
	DefaultKeyPrefix = "mcp:"

	quotaKey = "youtube:quota"

	// snapshotTTL keeps a day's counter around long enough to survive the
	// timezone offset between UTC and the quota day.
	snapshotTTL = 48 * time.Hour
)

// ValkeyConfig holds connection settings for ValkeyStore.
type ValkeyConfig struct {
	// URL is the server address, e.g. "valkey.namespace.svc:6379".
	URL        string
	Password   string
	TLSEnabled bool
	KeyPrefix  string
	DB         int
}

// ValkeyStore keeps the quota snapshot in Valkey so a restarted or
// rescheduled process resumes today's count. Each Save overwrites the key
// with the local count, so replicas running at the same time do not sum
// their usage; the last writer wins.
type ValkeyStore struct {
	client valkey.Client
	key    string
}

// NewValkeyStore connects to Valkey using cfg.
func NewValkeyStore(cfg ValkeyConfig) (*ValkeyStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("valkey URL is required")
	}

	opt := valkey.ClientOption{
		InitAddress: []string{cfg.URL},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	}
	if cfg.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey at %s: %w", cfg.URL, err)
	}
	return NewValkeyStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewValkeyStoreWithClient wraps an existing client.
func NewValkeyStoreWithClient(client valkey.Client, keyPrefix string) *ValkeyStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &ValkeyStore{client: client, key: keyPrefix + quotaKey}
}

// Key returns the Valkey key holding the snapshot.
func (s *ValkeyStore) Key() string {
	return s.key
}

// Load fetches the snapshot. A missing key yields a zero Snapshot.
func (s *ValkeyStore) Load(ctx context.Context) (Snapshot, error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read quota from valkey: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse quota from valkey: %w", err)
	}
	return snap, nil
}

// Save stores the snapshot with a TTL.
func (s *ValkeyStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode quota snapshot: %w", err)
	}
	cmd := s.client.B().Set().Key(s.key).Value(string(data)).ExSeconds(int64(snapshotTTL.Seconds())).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to write quota to valkey: %w", err)
	}
	return nil
}

// Close releases the connection.
func (s *ValkeyStore) Close() {
	s.client.Close()
}
