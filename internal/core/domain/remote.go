package domain

// RemoteDateTime is a start or end value as reported by the remote feed.
// Exactly one of Date and DateTime is normally set.
type RemoteDateTime struct {
	// Date is a date-only value ("2006-01-02") in the calendar's zone.
	Date string
	// DateTime is an RFC 3339 value carrying its own offset.
	DateTime string
	// TimeZone is the zone the provider attached to the value, if any.
	TimeZone string
}

// IsDateOnly reports whether the value has no time-of-day component.
func (d RemoteDateTime) IsDateOnly() bool {
	return d.DateTime == "" && d.Date != ""
}

// IsEmpty reports whether the provider supplied no value at all.
func (d RemoteDateTime) IsEmpty() bool {
	return d.DateTime == "" && d.Date == ""
}

// RemoteEvent is one item of a change-feed page.
type RemoteEvent struct {
	ID                 string
	ICalUID            string
	RecurringEventID   string
	Status             EventStatus
	Summary            string
	Description        string
	Location           string
	HTMLLink           string
	Locked             bool
	Transparency       string
	Visibility         string
	Start              RemoteDateTime
	End                RemoteDateTime
	EndTimeUnspecified bool

	GuestsCanInviteOthers   bool
	GuestsCanModify         bool
	GuestsCanSeeOtherGuests bool

	Organizer Person
	Creator   Person

	// Created and Updated are the remote audit timestamps (RFC 3339).
	Created string
	Updated string

	// Raw is the provider's own representation, passed through to listeners.
	Raw any
}

// RemotePage is one page of the remote change feed.
type RemotePage struct {
	Items         []RemoteEvent
	NextPageToken string
	NextSyncToken string
}

// FeedQuery selects one page of the remote change feed.
// When SyncToken is set no other filter may be sent.
type FeedQuery struct {
	SyncToken    string
	PageToken    string
	TimeMin      string
	TimeMax      string
	ShowDeleted  bool
	SingleEvents bool
	MaxResults   int64
}

// IsIncremental reports whether the query continues from a sync token.
func (q FeedQuery) IsIncremental() bool {
	return q.SyncToken != ""
}
