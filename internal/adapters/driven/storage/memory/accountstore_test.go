package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

func TestAccountStore_Find(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Account{ID: "42", Email: "Ana@Example.com", Name: "Ana Lima"}))

	id, err := store.FindAccountByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	id, err = store.FindAccountByName(ctx, "Ana Lima")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = store.FindAccountByName(ctx, "ana lima")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.FindAccountByEmail(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountStore_ListAndDelete(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Account{ID: "2"}))
	require.NoError(t, store.Save(ctx, domain.Account{ID: "1"}))
	assert.ErrorIs(t, store.Save(ctx, domain.Account{}), domain.ErrInvalidInput)

	accounts, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "1", accounts[0].ID)

	require.NoError(t, store.Delete(ctx, "1"))
	accounts, _ = store.List(ctx)
	assert.Len(t, accounts, 1)
}
