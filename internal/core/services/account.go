package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/core/ports/driving"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// AccountService validates and stores directory accounts.
type AccountService struct {
	accounts driven.AccountStore
}

// NewAccountService creates a new account service.
func NewAccountService(accounts driven.AccountStore) *AccountService {
	return &AccountService{accounts: accounts}
}

// Add normalises and saves an account. The email is trimmed and
// lower-cased; an account must be matchable by email or name.
func (s *AccountService) Add(ctx context.Context, account domain.Account) (*domain.Account, error) {
	account.ID = strings.TrimSpace(account.ID)
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.Name = strings.TrimSpace(account.Name)

	if account.ID == "" {
		return nil, fmt.Errorf("%w: account id is required", domain.ErrInvalidInput)
	}
	if account.ID == domain.AnonymousAccount {
		return nil, fmt.Errorf("%w: account id %s is reserved", domain.ErrInvalidInput, domain.AnonymousAccount)
	}
	if account.Email == "" && account.Name == "" {
		return nil, fmt.Errorf("%w: account needs an email or a name", domain.ErrInvalidInput)
	}
	if account.Email != "" && !strings.Contains(account.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, account.Email)
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	return &account, nil
}

// List returns all accounts.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// Remove deletes an account.
func (s *AccountService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.accounts.Delete(ctx, id)
}
