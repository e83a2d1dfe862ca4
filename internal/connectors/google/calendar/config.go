package calendar

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"github.com/custodia-labs/calsync/internal/connectors/google"
)

// Config holds Google Calendar feed configuration.
type Config struct {
	// CredentialsFile is the OAuth client file from the Google Cloud console.
	CredentialsFile string
	// TokenFile stores the account's OAuth token.
	TokenFile string
	// RateLimit throttles API requests.
	RateLimit google.RateLimitConfig
	// Endpoint overrides the API base URL (optional).
	Endpoint string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{RateLimit: google.DefaultRateLimit}
}

// Open builds an authenticated feed from cfg. It fails with
// google.ErrNoToken when the account has not logged in yet.
func Open(ctx context.Context, cfg Config) (*Feed, error) {
	if cfg.CredentialsFile == "" || cfg.TokenFile == "" {
		return nil, fmt.Errorf("google calendar: credentials and token files are required")
	}

	auth, err := google.LoadOAuthConfig(google.ExpandHome(cfg.CredentialsFile))
	if err != nil {
		return nil, err
	}
	ts, err := google.NewTokenSource(ctx, auth, google.NewFileTokenStore(google.ExpandHome(cfg.TokenFile)))
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := google.NewCalendarService(ctx, ts, opts...)
	if err != nil {
		return nil, err
	}

	return NewFeed(svc, google.NewRateLimiter(cfg.RateLimit)), nil
}
