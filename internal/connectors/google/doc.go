// Package google provides shared infrastructure for the Google Calendar feed.
//
// This package contains:
//   - OAuth2 client configuration loaded from a downloaded credentials file
//   - A file-backed token store that persists refreshed tokens
//   - Service factories for creating Google API clients
//   - Translation of Google API errors into domain.RemoteError
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	auth, err := google.LoadOAuthConfig(credentialsFile)
//	ts, err := google.NewTokenSource(ctx, auth, google.NewFileTokenStore(tokenFile))
//	svc, err := google.NewCalendarService(ctx, ts)
//
// # OAuth2 Scopes
//
// Only https://www.googleapis.com/auth/calendar.readonly is requested.
package google
