package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

const (
	// auditLayout is the provider's created/updated format (millisecond RFC 3339).
	auditLayout = "2006-01-02T15:04:05.000Z07:00"
	// dateLayout is the layout of date-only start/end values.
	dateLayout = "2006-01-02"
	// localDateTimeLayout is accepted for date-time values without an offset.
	localDateTimeLayout = "2006-01-02T15:04:05"
)

// DateParser converts the two date representations of the remote feed into
// UTC epoch seconds.
type DateParser struct{}

// ParseAudit parses a created/updated audit timestamp.
// Empty values and timestamps at or before 1970 yield 0.
func (DateParser) ParseAudit(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	t, err := time.Parse(auditLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return 0, fmt.Errorf("%w: audit timestamp %q", domain.ErrInvalidDate, value)
		}
	}
	if t.Year() <= 1970 {
		return 0, nil
	}
	return t.UTC().Unix(), nil
}

// ParseEventTime parses an event start or end value. Date-only values are
// midnight in loc; date-time values carry their own offset.
func (DateParser) ParseEventTime(value domain.RemoteDateTime, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.UTC
	}

	if value.IsDateOnly() {
		t, err := time.ParseInLocation(dateLayout, value.Date, loc)
		if err != nil {
			return 0, fmt.Errorf("%w: date %q", domain.ErrInvalidDate, value.Date)
		}
		return t.UTC().Unix(), nil
	}

	if value.DateTime == "" {
		return 0, fmt.Errorf("%w: empty event time", domain.ErrInvalidDate)
	}

	t, err := time.Parse(time.RFC3339, value.DateTime)
	if err == nil {
		return t.UTC().Unix(), nil
	}

	// No offset: interpret in the value's own zone, else the calendar's.
	zone := loc
	if value.TimeZone != "" {
		if z, zerr := time.LoadLocation(value.TimeZone); zerr == nil {
			zone = z
		}
	}
	t, err = time.ParseInLocation(localDateTimeLayout, value.DateTime, zone)
	if err != nil {
		return 0, fmt.Errorf("%w: date-time %q", domain.ErrInvalidDate, value.DateTime)
	}
	return t.UTC().Unix(), nil
}
