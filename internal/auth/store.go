package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/giantswarm/mcp-oauth/storage"

	"github.com/teemow/youtube-mcp/internal/atomicfile"
)

// CredentialStore persists the single credential used by the server.
type CredentialStore interface {
	// Load returns ErrNoCredential when nothing has been stored.
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, cred *Credential) error
	Exists() bool
	// Location describes where the credential lives, for status output.
	Location() string
}

// FileStore keeps the credential in token.json inside the config directory.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and parses the token file.
func (s *FileStore) Load(_ context.Context) (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &cred, nil
}

// Save writes the token file with owner-only permissions.
func (s *FileStore) Save(_ context.Context, cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := atomicfile.Write(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Exists reports whether the token file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Location returns the token file path.
func (s *FileStore) Location() string {
	return s.path
}

// extraScopes is the oauth2.Token extra key carrying granted scopes.
const extraScopes = "scope"

// TokenStore bridges an mcp-oauth storage.TokenStore to CredentialStore so
// the credential can live in the same backend as other MCP OAuth tokens.
// Client metadata that oauth2.Token cannot carry is kept alongside in memory.
type TokenStore struct {
	store  storage.TokenStore
	userID string

	mu   sync.RWMutex
	meta *Credential
}

// NewTokenStore creates a CredentialStore over store, keyed by userID.
func NewTokenStore(store storage.TokenStore, userID string) *TokenStore {
	return &TokenStore{store: store, userID: userID}
}

// Load fetches the token and re-attaches client metadata.
func (s *TokenStore) Load(ctx context.Context) (*Credential, error) {
	tok, err := s.store.GetToken(ctx, s.userID)
	if err != nil || tok == nil {
		return nil, ErrNoCredential
	}

	cred := &Credential{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}

	s.mu.RLock()
	if s.meta != nil {
		cred.TokenURI = s.meta.TokenURI
		cred.ClientID = s.meta.ClientID
		cred.ClientSecret = s.meta.ClientSecret
		cred.Scopes = append([]string(nil), s.meta.Scopes...)
	}
	s.mu.RUnlock()

	if scopes, ok := tok.Extra(extraScopes).([]string); ok && len(scopes) > 0 {
		cred.Scopes = scopes
	}
	return cred, nil
}

// Save stores the token and remembers the client metadata.
func (s *TokenStore) Save(ctx context.Context, cred *Credential) error {
	tok := cred.OAuth2Token().WithExtra(map[string]interface{}{
		extraScopes: append([]string(nil), cred.Scopes...),
	})
	if err := s.store.SaveToken(ctx, s.userID, tok); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	meta := *cred
	s.mu.Lock()
	s.meta = &meta
	s.mu.Unlock()
	return nil
}

// Exists reports whether a token is stored for the user.
func (s *TokenStore) Exists() bool {
	tok, err := s.store.GetToken(context.Background(), s.userID)
	return err == nil && tok != nil
}

// Location identifies the backing entry.
func (s *TokenStore) Location() string {
	return "token-store:" + s.userID
}

var _ CredentialStore = (*FileStore)(nil)
var _ CredentialStore = (*TokenStore)(nil)
