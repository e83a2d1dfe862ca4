package driven

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// AccountDirectory resolves organiser identities to local accounts.
type AccountDirectory interface {
	// FindAccountByEmail returns the account ID for an email address.
	// Returns domain.ErrNotFound if no account matches.
	FindAccountByEmail(ctx context.Context, email string) (string, error)

	// FindAccountByName returns the account ID for a display name.
	// Returns domain.ErrNotFound if no account matches.
	FindAccountByName(ctx context.Context, name string) (string, error)
}

// AccountStore manages the local account directory.
type AccountStore interface {
	AccountDirectory

	// Save stores or updates an account.
	Save(ctx context.Context, account domain.Account) error

	// List returns all accounts ordered by ID.
	List(ctx context.Context) ([]domain.Account, error)

	// Delete removes an account.
	Delete(ctx context.Context, id string) error
}
