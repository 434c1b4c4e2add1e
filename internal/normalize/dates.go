package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var (
	// ErrNoDate is returned when a date field was not supplied at all.
	ErrNoDate = errors.New("date not supplied")
	// ErrBadDate is returned when a date field was supplied but unusable.
	ErrBadDate = errors.New("malformed date")
)

const isoDate = "2006-01-02"

// textDateLayouts are tried in order for string-shaped dates. "2/1/2006"
// accepts both padded and unpadded day/month.
var textDateLayouts = []string{"2/1/2006", isoDate}

// dateParts is the structured date/time object. Time-of-day fields are
// optional and default to zero.
type dateParts struct {
	Year    *Number `json:"year,omitempty"`
	Month   *Number `json:"month,omitempty"`
	Day     *Number `json:"day,omitempty"`
	Hours   *Number `json:"hours,omitempty"`
	Minutes *Number `json:"minutes,omitempty"`
	Seconds *Number `json:"seconds,omitempty"`
	Nanos   *Number `json:"nanos,omitempty"`
}

// DateValue is either a structured {year, month, day, ...} object or a
// "DD/MM/YYYY" (or ISO) string. The zero value is an absent date.
type DateValue struct {
	present bool
	parts   *dateParts
	text    string
	err     error
}

// DateText builds a string-shaped DateValue.
func DateText(s string) DateValue {
	return DateValue{present: true, text: strings.TrimSpace(s)}
}

// DateParts builds a structured DateValue from calendar and clock fields.
func DateParts(year, month, day, hours, minutes, seconds int) DateValue {
	n := func(v int) *Number { x := Number(v); return &x }
	return DateValue{present: true, parts: &dateParts{
		Year: n(year), Month: n(month), Day: n(day),
		Hours: n(hours), Minutes: n(minutes), Seconds: n(seconds),
	}}
}

// UnmarshalJSON records the value's shape. It never fails: decoding problems
// are kept on the value and reported by CalendarDate / Instant.
func (d *DateValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*d = DateValue{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	d.present = true
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			d.err = err
			return nil
		}
		d.text = strings.TrimSpace(s)
		if d.text == "" {
			d.present = false
		}
	case '{':
		var p dateParts
		if err := json.Unmarshal(b, &p); err != nil {
			d.err = err
			return nil
		}
		d.parts = &p
	default:
		d.err = fmt.Errorf("unsupported date shape %q", truncateRaw(b))
	}
	return nil
}

// MarshalJSON writes the value back in the shape it arrived in.
func (d DateValue) MarshalJSON() ([]byte, error) {
	switch {
	case !d.present || d.err != nil:
		return []byte("null"), nil
	case d.parts != nil:
		return json.Marshal(d.parts)
	default:
		return json.Marshal(d.text)
	}
}

// Present reports whether any value was supplied.
func (d DateValue) Present() bool { return d.present }

// CalendarDate returns the date as "YYYY-MM-DD".
func (d DateValue) CalendarDate() (string, error) {
	t, err := d.civil(time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format(isoDate), nil
}

// Instant interprets a structured value as a UTC instant, converts it to loc
// and formats it as RFC 3339 with loc's offset. Text values are read as
// midnight in loc (or as a full RFC 3339 timestamp when they carry one).
func (d DateValue) Instant(loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	if d.present && d.err == nil && d.parts != nil {
		t, err := d.parts.utc()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadDate, err)
		}
		return t.In(loc).Format(time.RFC3339), nil
	}
	if d.present && d.err == nil {
		if t, err := time.Parse(time.RFC3339, d.text); err == nil {
			return t.In(loc).Format(time.RFC3339), nil
		}
	}
	t, err := d.civil(loc)
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

// Display renders the value for humans as "DD/MM/YYYY". Text values are
// returned as typed; absent or broken values render as "".
func (d DateValue) Display() string {
	if !d.present || d.err != nil {
		return ""
	}
	if d.parts == nil {
		return d.text
	}
	t, err := d.civil(time.UTC)
	if err != nil {
		return ""
	}
	return t.Format("02/01/2006")
}

// civil resolves the calendar date at midnight in loc.
func (d DateValue) civil(loc *time.Location) (time.Time, error) {
	if !d.present {
		return time.Time{}, ErrNoDate
	}
	if d.err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadDate, d.err)
	}
	if d.parts != nil {
		y, m, day, err := d.parts.ymd()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrBadDate, err)
		}
		return time.Date(y, time.Month(m), day, 0, 0, 0, 0, loc), nil
	}
	for _, layout := range textDateLayouts {
		if t, err := time.ParseInLocation(layout, d.text, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, d.text); err == nil {
		y, m, day := t.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, d.text)
}

func (p *dateParts) ymd() (int, time.Month, int, error) {
	if p.Year == nil || p.Month == nil || p.Day == nil {
		return 0, 0, 0, errors.New("year, month and day are required")
	}
	y, m, d := p.Year.Int(), p.Month.Int(), p.Day.Int()
	// time.Date normalizes out-of-range values; a round trip rejects them.
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return 0, 0, 0, fmt.Errorf("invalid calendar date %04d-%02d-%02d", y, m, d)
	}
	return y, time.Month(m), d, nil
}

func (p *dateParts) utc() (time.Time, error) {
	y, m, d, err := p.ymd()
	if err != nil {
		return time.Time{}, err
	}
	h, mi, s, ns := p.Hours.Int(), p.Minutes.Int(), p.Seconds.Int(), p.Nanos.Int()
	if h < 0 || h > 23 || mi < 0 || mi > 59 || s < 0 || s > 60 || ns < 0 {
		return time.Time{}, fmt.Errorf("invalid time of day %02d:%02d:%02d", h, mi, s)
	}
	return time.Date(y, m, d, h, mi, s, ns, time.UTC), nil
}

func truncateRaw(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
