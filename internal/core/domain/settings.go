package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Offset is a signed relative time offset such as "-1h" or "1y1d".
// Calendar units are applied with time.AddDate so that "1y" is one
// calendar year, not 365 days.
type Offset struct {
	Years  int
	Months int
	Days   int
	Clock  time.Duration
}

// offsetUnits lists accepted units, longest first so "mo" wins over "m".
var offsetUnits = []string{"mo", "y", "w", "d", "h", "m", "s"}

// ParseOffset parses a compound offset. An optional leading sign applies to
// every component. Accepted units: y, mo, w, d, h, m, s.
func ParseOffset(s string) (Offset, error) {
	var off Offset
	str := strings.TrimSpace(s)
	if str == "" {
		return off, fmt.Errorf("%w: empty offset", ErrInvalidInput)
	}

	sign := 1
	switch str[0] {
	case '-':
		sign = -1
		str = str[1:]
	case '+':
		str = str[1:]
	}
	if str == "" {
		return off, fmt.Errorf("%w: offset %q", ErrInvalidInput, s)
	}

	for str != "" {
		i := 0
		for i < len(str) && str[i] >= '0' && str[i] <= '9' {
			i++
		}
		if i == 0 {
			return Offset{}, fmt.Errorf("%w: offset %q", ErrInvalidInput, s)
		}
		n, err := strconv.Atoi(str[:i])
		if err != nil {
			return Offset{}, fmt.Errorf("%w: offset %q", ErrInvalidInput, s)
		}
		n *= sign
		str = str[i:]

		unit := ""
		for _, u := range offsetUnits {
			if strings.HasPrefix(str, u) {
				unit = u
				break
			}
		}
		switch unit {
		case "y":
			off.Years += n
		case "mo":
			off.Months += n
		case "w":
			off.Days += 7 * n
		case "d":
			off.Days += n
		case "h":
			off.Clock += time.Duration(n) * time.Hour
		case "m":
			off.Clock += time.Duration(n) * time.Minute
		case "s":
			off.Clock += time.Duration(n) * time.Second
		default:
			return Offset{}, fmt.Errorf("%w: offset %q", ErrInvalidInput, s)
		}
		str = str[len(unit):]
	}

	return off, nil
}

// MustParseOffset is ParseOffset for package-level defaults.
func MustParseOffset(s string) Offset {
	off, err := ParseOffset(s)
	if err != nil {
		panic(err)
	}
	return off
}

// From applies the offset to t.
func (o Offset) From(t time.Time) time.Time {
	return t.AddDate(o.Years, o.Months, o.Days).Add(o.Clock)
}

// String renders the offset in the compound syntax accepted by ParseOffset.
func (o Offset) String() string {
	var b strings.Builder
	neg := o.Years < 0 || o.Months < 0 || o.Days < 0 || o.Clock < 0
	abs := func(n int64) int64 {
		if n < 0 {
			return -n
		}
		return n
	}
	if neg {
		b.WriteByte('-')
	}
	write := func(n int64, unit string) {
		if n != 0 {
			b.WriteString(strconv.FormatInt(abs(n), 10))
			b.WriteString(unit)
		}
	}
	write(int64(o.Years), "y")
	write(int64(o.Months), "mo")
	write(int64(o.Days), "d")
	clock := o.Clock
	write(int64(clock/time.Hour), "h")
	clock %= time.Hour
	write(int64(clock/time.Minute), "m")
	clock %= time.Minute
	write(int64(clock/time.Second), "s")
	if b.Len() == 0 || b.String() == "-" {
		return "0s"
	}
	return b.String()
}

// SyncSettings is the configuration surface consumed by the sync engine.
type SyncSettings struct {
	// PastHorizon is the offset from now of the full-resync window start.
	PastHorizon Offset

	// FutureHorizon is the offset from now of the full-resync window end.
	FutureHorizon Offset

	// RefreshInterval forces a full resync once this long has passed since
	// the last one, so the window can advance.
	RefreshInterval time.Duration

	// PageSize bounds the number of events per full-resync page.
	PageSize int64

	// Ownership selects the OwnerResolver policy.
	Ownership OwnershipPolicy

	// DefaultOwner is the account used when no organiser matches.
	DefaultOwner string

	// Cleanup is the retention policy for old unreported events.
	Cleanup CleanupPolicy
}

// DefaultSyncSettings returns the built-in defaults.
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		PastHorizon:     MustParseOffset("-1h"),
		FutureHorizon:   MustParseOffset("1y1d"),
		RefreshInterval: 8 * time.Hour,
		PageSize:        128,
		Ownership:       OwnershipByEmail,
		DefaultOwner:    "",
		Cleanup:         CleanupUnpublishOld,
	}
}

// Window returns the full-resync time window relative to now.
func (s SyncSettings) Window(now time.Time) (start, end time.Time) {
	return s.PastHorizon.From(now), s.FutureHorizon.From(now)
}
