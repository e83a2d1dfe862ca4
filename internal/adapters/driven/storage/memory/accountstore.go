package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure AccountStore implements the interface.
var _ driven.AccountStore = (*AccountStore)(nil)

// AccountStore is an in-memory account directory.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]domain.Account),
	}
}

// Save stores or updates an account.
func (s *AccountStore) Save(_ context.Context, account domain.Account) error {
	if account.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	return nil
}

// List returns all accounts ordered by ID.
func (s *AccountStore) List(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes an account.
func (s *AccountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

// FindAccountByEmail matches email case-insensitively.
func (s *AccountStore) FindAccountByEmail(_ context.Context, email string) (string, error) {
	return s.find(func(a domain.Account) bool {
		return a.Email != "" && strings.EqualFold(a.Email, email)
	})
}

// FindAccountByName matches display names exactly.
func (s *AccountStore) FindAccountByName(_ context.Context, name string) (string, error) {
	return s.find(func(a domain.Account) bool {
		return a.Name != "" && a.Name == name
	})
}

func (s *AccountStore) find(match func(domain.Account) bool) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, a := range s.accounts {
		if match(a) {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return "", domain.ErrNotFound
	}
	sort.Strings(ids)
	return ids[0], nil
}
