package driving

import (
	"context"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// AccountService manages the local accounts that may own events.
type AccountService interface {
	// Add stores or replaces an account.
	Add(ctx context.Context, account domain.Account) (*domain.Account, error)

	// List returns all accounts ordered by ID.
	List(ctx context.Context) ([]domain.Account, error)

	// Remove deletes an account. Events it owns keep their owner id.
	Remove(ctx context.Context, id string) error
}
