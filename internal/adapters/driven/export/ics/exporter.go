// Package ics exports local events as an iCalendar (RFC 5545) document.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.EventExporter = (*Exporter)(nil)

const productID = "-//Custodia Labs//calsync//EN"

// Exporter writes events as a single VCALENDAR with one VEVENT each.
type Exporter struct {
	now func() time.Time
}

// NewExporter creates an exporter stamping events with the wall clock.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// ContentType implements driven.EventExporter.
func (e *Exporter) ContentType() string {
	return "text/calendar; charset=utf-8"
}

// Export implements driven.EventExporter.
func (e *Exporter) Export(w io.Writer, cal *domain.Calendar, events []domain.Event) error {
	if len(events) == 0 {
		// The encoder rejects calendars without components.
		_, err := fmt.Fprintf(w, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:%s\r\nEND:VCALENDAR\r\n", productID)
		return err
	}

	out := ical.NewCalendar()
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropProductID, productID)
	if cal != nil {
		if cal.Name != "" {
			out.Props.SetText("X-WR-CALNAME", cal.Name)
		}
		if cal.TimeZone != "" {
			out.Props.SetText("X-WR-TIMEZONE", cal.TimeZone)
		}
	}

	stamp := e.now().UTC()
	for i := range events {
		out.Children = append(out.Children, toVEvent(&events[i], stamp).Component)
	}

	if err := ical.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toVEvent(ev *domain.Event, stamp time.Time) *ical.Event {
	vevent := ical.NewEvent()

	uid := ev.ICalID
	if uid == "" {
		uid = ev.RemoteEventID
	}
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	vevent.Props.SetDateTime(ical.PropDateTimeStart, ev.Start())
	if ev.EndAt > ev.StartAt {
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, ev.End())
	}

	if ev.Title != "" {
		vevent.Props.SetText(ical.PropSummary, ev.Title)
	}
	if ev.Description != "" {
		vevent.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.HTMLLink != "" {
		setRaw(vevent, ical.PropURL, ev.HTMLLink)
	}
	if ev.Organizer.Email != "" {
		prop := ical.NewProp(ical.PropOrganizer)
		prop.Value = "mailto:" + ev.Organizer.Email
		if ev.Organizer.Name != "" {
			prop.Params.Set(ical.ParamCommonName, ev.Organizer.Name)
		}
		vevent.Props.Set(prop)
	}

	vevent.Props.SetText(ical.PropStatus, strings.ToUpper(string(ev.Status)))
	if ev.Transparency == "transparent" {
		vevent.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	} else {
		vevent.Props.SetText(ical.PropTransparency, "OPAQUE")
	}
	if class := classFor(ev.Visibility); class != "" {
		vevent.Props.SetText(ical.PropClass, class)
	}

	if ev.RemoteCreatedAt > 0 {
		vevent.Props.SetDateTime(ical.PropCreated, time.Unix(ev.RemoteCreatedAt, 0).UTC())
	}
	if ev.RemoteUpdatedAt > 0 {
		vevent.Props.SetDateTime(ical.PropLastModified, time.Unix(ev.RemoteUpdatedAt, 0).UTC())
	}

	return vevent
}

// classFor maps provider visibility onto the iCalendar CLASS property.
func classFor(visibility string) string {
	switch visibility {
	case "private":
		return "PRIVATE"
	case "confidential":
		return "CONFIDENTIAL"
	case "public":
		return "PUBLIC"
	default:
		return ""
	}
}

func setRaw(vevent *ical.Event, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	vevent.Props.Set(prop)
}
