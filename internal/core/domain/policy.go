package domain

import "fmt"

// OwnershipPolicy controls how an event's organiser maps to a local account.
type OwnershipPolicy string

const (
	// OwnershipFixed always assigns the configured default owner.
	OwnershipFixed OwnershipPolicy = "fixed"
	// OwnershipByEmail looks the organiser up by email address.
	OwnershipByEmail OwnershipPolicy = "by_email"
	// OwnershipByName looks the organiser up by display name.
	OwnershipByName OwnershipPolicy = "by_name"
)

// IsValid reports whether p is a known policy.
func (p OwnershipPolicy) IsValid() bool {
	switch p {
	case OwnershipFixed, OwnershipByEmail, OwnershipByName:
		return true
	default:
		return false
	}
}

// ParseOwnershipPolicy validates s as an OwnershipPolicy.
func ParseOwnershipPolicy(s string) (OwnershipPolicy, error) {
	p := OwnershipPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: ownership policy %q", ErrInvalidInput, s)
	}
	return p, nil
}

// CleanupPolicy controls what happens to old events a full resync no
// longer reports.
type CleanupPolicy string

const (
	// CleanupNone leaves old events untouched.
	CleanupNone CleanupPolicy = "none"
	// CleanupDeleteOld removes old events.
	CleanupDeleteOld CleanupPolicy = "delete_old"
	// CleanupUnpublishOld hides old events locally.
	CleanupUnpublishOld CleanupPolicy = "unpublish_old"
)

// IsValid reports whether p is a known policy.
func (p CleanupPolicy) IsValid() bool {
	switch p {
	case CleanupNone, CleanupDeleteOld, CleanupUnpublishOld:
		return true
	default:
		return false
	}
}

// ParseCleanupPolicy validates s as a CleanupPolicy.
func ParseCleanupPolicy(s string) (CleanupPolicy, error) {
	p := CleanupPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: cleanup policy %q", ErrInvalidInput, s)
	}
	return p, nil
}
