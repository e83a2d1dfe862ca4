package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/calsync/internal/core/domain"
)

func TestAccountService_Add(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		want    *domain.Account
		wantErr error
	}{
		{
			name:    "normalises email",
			account: domain.Account{ID: " 42 ", Email: " Ana@Example.COM ", Name: " Ana Lima "},
			want:    &domain.Account{ID: "42", Email: "ana@example.com", Name: "Ana Lima"},
		},
		{
			name:    "name only",
			account: domain.Account{ID: "7", Name: "Front Desk"},
			want:    &domain.Account{ID: "7", Name: "Front Desk"},
		},
		{name: "missing id", account: domain.Account{Email: "a@example.com"}, wantErr: domain.ErrInvalidInput},
		{name: "reserved id", account: domain.Account{ID: "0", Email: "a@example.com"}, wantErr: domain.ErrInvalidInput},
		{name: "no email or name", account: domain.Account{ID: "1"}, wantErr: domain.ErrInvalidInput},
		{name: "bad email", account: domain.Account{ID: "1", Email: "nobody"}, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewAccountStore()
			svc := NewAccountService(store)

			got, err := svc.Add(context.Background(), tt.account)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			accounts, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []domain.Account{*tt.want}, accounts)
		})
	}
}

func TestAccountService_AddedAccountResolvesOwner(t *testing.T) {
	store := memory.NewAccountStore()
	svc := NewAccountService(store)

	_, err := svc.Add(context.Background(), domain.Account{ID: "42", Email: "Ana@Example.com"})
	require.NoError(t, err)

	id, err := store.FindAccountByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestAccountService_Remove(t *testing.T) {
	store := memory.NewAccountStore()
	svc := NewAccountService(store)
	_, err := svc.Add(context.Background(), domain.Account{ID: "42", Email: "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "42"))
	accounts, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.ErrorIs(t, svc.Remove(context.Background(), ""), domain.ErrInvalidInput)
}
