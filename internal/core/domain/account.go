package domain

// AnonymousAccount is the system account used when an event has no
// resolvable owner and no default owner is configured.
const AnonymousAccount = "0"

// Account is a local user that may own synchronised events.
type Account struct {
	// ID is the local account identifier.
	ID string

	// Email is matched against organiser email addresses.
	Email string

	// Name is matched against organiser display names.
	Name string
}
