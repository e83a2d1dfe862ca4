package domain

import "time"

// EventStatus is the remote lifecycle state of an event.
type EventStatus string

const (
	EventStatusTentative EventStatus = "tentative"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCancelled EventStatus = "cancelled"
)

// ParseEventStatus maps a provider status string to an EventStatus.
// Unknown or empty values are treated as confirmed.
func ParseEventStatus(s string) EventStatus {
	switch EventStatus(s) {
	case EventStatusTentative:
		return EventStatusTentative
	case EventStatusCancelled:
		return EventStatusCancelled
	default:
		return EventStatusConfirmed
	}
}

// Person identifies an organiser or creator.
type Person struct {
	Name  string
	Email string
}

// Event is the local record of one remote event instance, keyed by
// RemoteEventID within its calendar.
type Event struct {
	// ID is the local identifier.
	ID string

	// CalendarID references the owning Calendar.
	CalendarID string

	// RemoteEventID is unique within the provider and stable across updates.
	RemoteEventID string

	// ICalID is shared by recurrence instances. Informational only.
	ICalID string

	// RecurrenceParentID is the remote id of the recurring master, if any.
	RecurrenceParentID string

	// StartAt and EndAt are UTC epoch seconds.
	StartAt int64
	EndAt   int64

	// EndUnspecified is true when the provider reported no end time.
	EndUnspecified bool

	// Status is the remote lifecycle state.
	Status EventStatus

	// LocalVisible is the local publish flag. Only cleanup or explicit
	// deletion clears it.
	LocalVisible bool

	// OwnerID is the resolved local account.
	OwnerID string

	Title       string
	Description string
	Location    string
	HTMLLink    string
	Locked      bool

	// Transparency is "opaque" or "transparent".
	Transparency string

	// Visibility is the remote visibility ("default", "public", "private", ...).
	Visibility string

	GuestsCanInviteOthers   bool
	GuestsCanModify         bool
	GuestsCanSeeOtherGuests bool

	Organizer Person
	Creator   Person

	// RemoteCreatedAt and RemoteUpdatedAt are the remote audit timestamps
	// in UTC epoch seconds.
	RemoteCreatedAt int64
	RemoteUpdatedAt int64

	// CreatedAt and UpdatedAt track the local record.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Start returns StartAt as a UTC time.
func (e *Event) Start() time.Time {
	return time.Unix(e.StartAt, 0).UTC()
}

// End returns EndAt as a UTC time.
func (e *Event) End() time.Time {
	return time.Unix(e.EndAt, 0).UTC()
}
