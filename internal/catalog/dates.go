package catalog

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// PartialDate is a date that preserves granularity: a value may carry a year
// only, a year-month, or a full year-month-day. "1994" is distinct from
// "1994-01-01". The zero value means no date.
type PartialDate struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses "YYYY", "YYYY-MM", or "YYYY-MM-DD". Timestamps with a
// time portion ("YYYY-MM-DDTHH:...") have it stripped.
func ParseDate(s string) (PartialDate, error) {
	var d PartialDate

	s = strings.TrimSpace(s)
	if s == "" {
		return d, nil
	}
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}

	parts := strings.SplitN(s, "-", 3)
	fields := []*int{&d.Year, &d.Month, &d.Day}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return PartialDate{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		*fields[i] = n
	}

	if d.Year <= 0 || d.Month < 0 || d.Month > 12 || d.Day < 0 || d.Day > 31 {
		return PartialDate{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}

// IsZero reports whether no date is set.
func (d PartialDate) IsZero() bool {
	return d.Year == 0
}

func (d PartialDate) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// Value implements driver.Valuer. Zero dates store as NULL.
func (d PartialDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *PartialDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = PartialDate{}
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PartialDate", src)
	}
}

// BestDate picks the most representative date for an album: original release
// first, then release, then recording. Live albums prefer the recording date.
func BestDate(a *Album) PartialDate {
	order := []PartialDate{a.OriginalReleaseDate, a.ReleaseDate, a.RecordingDate}
	if a.Type == TypeLive {
		order = []PartialDate{a.RecordingDate, a.OriginalReleaseDate, a.ReleaseDate}
	}
	for _, d := range order {
		if !d.IsZero() {
			return d
		}
	}
	return PartialDate{}
}
