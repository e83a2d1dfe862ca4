package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// OwnerResolver maps an event organiser to a local account under the
// configured ownership policy. A resolver is scoped to one run: its memo
// cache is never shared or persisted.
type OwnerResolver struct {
	directory    driven.AccountDirectory
	policy       domain.OwnershipPolicy
	defaultOwner string

	byEmail map[string]string
	byName  map[string]string
}

// NewOwnerResolver creates a resolver with an empty cache.
// The directory may be nil, in which case every lookup falls back.
func NewOwnerResolver(directory driven.AccountDirectory, policy domain.OwnershipPolicy, defaultOwner string) *OwnerResolver {
	return &OwnerResolver{
		directory:    directory,
		policy:       policy,
		defaultOwner: defaultOwner,
		byEmail:      make(map[string]string),
		byName:       make(map[string]string),
	}
}

// Resolve returns the account ID owning an event organised by organizer.
func (r *OwnerResolver) Resolve(ctx context.Context, organizer domain.Person) (string, error) {
	switch r.policy {
	case domain.OwnershipByEmail:
		return r.lookup(ctx, strings.ToLower(strings.TrimSpace(organizer.Email)), r.byEmail, r.findByEmail)
	case domain.OwnershipByName:
		return r.lookup(ctx, strings.TrimSpace(organizer.Name), r.byName, r.findByName)
	default:
		return r.fallback(), nil
	}
}

func (r *OwnerResolver) lookup(
	ctx context.Context,
	key string,
	cache map[string]string,
	find func(context.Context, string) (string, error),
) (string, error) {
	if key == "" || r.directory == nil {
		return r.fallback(), nil
	}
	if id, ok := cache[key]; ok {
		return id, nil
	}

	id, err := find(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		id = r.fallback()
	case err != nil:
		return "", fmt.Errorf("resolve owner %q: %w", key, err)
	case id == "":
		id = r.fallback()
	}

	cache[key] = id
	return id, nil
}

func (r *OwnerResolver) findByEmail(ctx context.Context, email string) (string, error) {
	return r.directory.FindAccountByEmail(ctx, email)
}

func (r *OwnerResolver) findByName(ctx context.Context, name string) (string, error) {
	return r.directory.FindAccountByName(ctx, name)
}

// fallback is the default owner, or the anonymous account when none is set.
func (r *OwnerResolver) fallback() string {
	if r.defaultOwner != "" {
		return r.defaultOwner
	}
	return domain.AnonymousAccount
}
