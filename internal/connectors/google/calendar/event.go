package calendar

import (
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// EventToRemote converts a Google Calendar event to a domain.RemoteEvent.
// The source event is kept as Raw for sync listeners.
func EventToRemote(event *calendar.Event) domain.RemoteEvent {
	remote := domain.RemoteEvent{
		ID:                 event.Id,
		ICalUID:            event.ICalUID,
		RecurringEventID:   event.RecurringEventId,
		Status:             domain.ParseEventStatus(event.Status),
		Summary:            event.Summary,
		Description:        event.Description,
		Location:           event.Location,
		HTMLLink:           event.HtmlLink,
		Locked:             event.Locked,
		Transparency:       event.Transparency,
		Visibility:         event.Visibility,
		Start:              toRemoteDateTime(event.Start),
		End:                toRemoteDateTime(event.End),
		EndTimeUnspecified: event.EndTimeUnspecified,

		// Google omits these two when they hold their default of true.
		GuestsCanInviteOthers:   boolOrTrue(event.GuestsCanInviteOthers),
		GuestsCanModify:         event.GuestsCanModify,
		GuestsCanSeeOtherGuests: boolOrTrue(event.GuestsCanSeeOtherGuests),

		Created: event.Created,
		Updated: event.Updated,
		Raw:     event,
	}

	if event.Organizer != nil { //nolint:misspell // Google API field name
		remote.Organizer = domain.Person{
			Name:  event.Organizer.DisplayName, //nolint:misspell // Google API field name
			Email: event.Organizer.Email,       //nolint:misspell // Google API field name
		}
	}
	if event.Creator != nil {
		remote.Creator = domain.Person{Name: event.Creator.DisplayName, Email: event.Creator.Email}
	}

	return remote
}

// CalendarToRemote converts a calendar resource to a domain.RemoteCalendar.
func CalendarToRemote(cal *calendar.Calendar) *domain.RemoteCalendar {
	return &domain.RemoteCalendar{
		ID:          cal.Id,
		Name:        cal.Summary,
		Description: cal.Description,
		Location:    cal.Location,
		TimeZone:    cal.TimeZone,
	}
}

// ListEntryToRemote converts a calendar list entry to a domain.RemoteCalendar.
// A user-defined summary override takes precedence over the calendar's own.
func ListEntryToRemote(entry *calendar.CalendarListEntry) domain.RemoteCalendar {
	name := entry.SummaryOverride
	if name == "" {
		name = entry.Summary
	}
	return domain.RemoteCalendar{
		ID:          entry.Id,
		Name:        name,
		Description: entry.Description,
		Location:    entry.Location,
		TimeZone:    entry.TimeZone,
	}
}

func toRemoteDateTime(dt *calendar.EventDateTime) domain.RemoteDateTime {
	if dt == nil {
		return domain.RemoteDateTime{}
	}
	return domain.RemoteDateTime{Date: dt.Date, DateTime: dt.DateTime, TimeZone: dt.TimeZone}
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
