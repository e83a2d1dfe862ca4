package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// TokenStore saves and loads the OAuth token of the synchronising account.
type TokenStore interface {
	SaveToken(token *oauth2.Token) error
	LoadToken() (*oauth2.Token, error)
}

// FileTokenStore keeps the token as JSON in a single file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a token store at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the token file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// SaveToken writes the token with owner-only permissions.
func (s *FileTokenStore) SaveToken(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// LoadToken reads the stored token. Returns nil, nil if none is stored.
func (s *FileTokenStore) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &token, nil
}

// LoadOAuthConfig reads a client credentials file downloaded from the
// Google Cloud console ("installed" or "web" application).
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := googleoauth.ConfigFromJSON(data, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	return cfg, nil
}

// autoSaveTokenSource persists every refreshed token.
type autoSaveTokenSource struct {
	mu        sync.Mutex
	source    oauth2.TokenSource
	store     TokenStore
	lastToken *oauth2.Token
}

// Token implements oauth2.TokenSource.
func (a *autoSaveTokenSource) Token() (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	token, err := a.source.Token()
	if err != nil {
		return nil, err
	}

	if a.lastToken == nil || a.lastToken.AccessToken != token.AccessToken {
		if err := a.store.SaveToken(token); err != nil {
			return nil, fmt.Errorf("save refreshed token: %w", err)
		}
		a.lastToken = token
	}
	return token, nil
}

// NewTokenSource returns a token source that refreshes the stored token
// and writes refreshed tokens back to the store. It fails with ErrNoToken
// when nothing has been stored yet.
func NewTokenSource(ctx context.Context, cfg *oauth2.Config, store TokenStore) (oauth2.TokenSource, error) {
	token, err := store.LoadToken()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrNoToken
	}

	return &autoSaveTokenSource{
		source:    oauth2.ReuseTokenSource(token, cfg.TokenSource(ctx, token)),
		store:     store,
		lastToken: token,
	}, nil
}

// Login completes the authorisation code exchange and stores the token.
func Login(ctx context.Context, cfg *oauth2.Config, store TokenStore, code, verifier string) (*oauth2.Token, error) {
	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorisation code: %w", err)
	}
	if err := store.SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// AuthCodeURL builds the consent URL for a PKCE authorisation request.
// Offline access is requested so a refresh token is issued.
func AuthCodeURL(cfg *oauth2.Config, state, verifier string) string {
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
}
