package auth

import "context"

// Status describes the credential without touching the network. Exactly one
// of three shapes is produced: authenticated, expired, or not configured.
type Status struct {
	Authenticated      bool     `json:"authenticated"`
	Scopes             []string `json:"scopes,omitempty"`
	TokenPath          string   `json:"token_path,omitempty"`
	Expired            *bool    `json:"expired,omitempty"`
	HasRefreshToken    *bool    `json:"has_refresh_token,omitempty"`
	TokenExists        *bool    `json:"token_exists,omitempty"`
	ClientSecretExists *bool    `json:"client_secret_exists,omitempty"`
	ClientSecretPath   string   `json:"client_secret_path,omitempty"`
}

// Status reports the stored credential's state. It does not take the
// authentication lock, so it stays responsive while consent is pending.
func (m *Manager) Status() Status {
	now := m.now()
	if cred, err := m.store.Load(context.Background()); err == nil && cred != nil {
		switch {
		case cred.Valid(now, m.scopes):
			return Status{
				Authenticated: true,
				Scopes:        append([]string{}, cred.Scopes...),
				TokenPath:     m.store.Location(),
				Expired:       boolPtr(false),
			}
		case cred.Expired(now):
			return Status{
				Authenticated:   false,
				Expired:         boolPtr(true),
				HasRefreshToken: boolPtr(cred.RefreshToken != ""),
				TokenPath:       m.store.Location(),
			}
		}
	}

	return Status{
		Authenticated:      false,
		TokenExists:        boolPtr(m.store.Exists()),
		ClientSecretExists: boolPtr(fileExists(m.clientSecretPath)),
		ClientSecretPath:   m.clientSecretPath,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
