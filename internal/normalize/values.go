package normalize

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Number accepts JSON numbers and numeric strings. Dialogue platforms send
// counts as floats ("2.0") and sometimes as text ("2").
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Int rounds to the nearest integer; a nil Number is 0.
func (n *Number) Int() int {
	if n == nil {
		return 0
	}
	return int(math.Round(float64(*n)))
}

// Count is a passenger count. Unlike Number it never fails to decode:
// unusable input counts as zero.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	var n Number
	if err := n.UnmarshalJSON(b); err != nil || n < 0 {
		*c = 0
		return nil
	}
	*c = Count(n.Int())
	return nil
}

// PlaceRef is either bare text or a structured place object. Text resolves
// it with priority city, then original, then the bare text.
type PlaceRef struct {
	City     string `json:"city,omitempty"`
	Original string `json:"original,omitempty"`
	Raw      string `json:"-"`
}

// Place builds a bare-text PlaceRef.
func Place(s string) PlaceRef { return PlaceRef{Raw: s} }

// UnmarshalJSON implements json.Unmarshaler.
func (p *PlaceRef) UnmarshalJSON(b []byte) error {
	*p = PlaceRef{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			City     Text `json:"city"`
			Original Text `json:"original"`
		}
		if err := json.Unmarshal(b, &obj); err == nil {
			p.City, p.Original = string(obj.City), string(obj.Original)
		}
		return nil
	}
	var t Text
	_ = t.UnmarshalJSON(b)
	p.Raw = string(t)
	return nil
}

// Text returns the best available human-readable place name.
func (p PlaceRef) Text() string {
	for _, s := range []string{p.City, p.Original, p.Raw} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// PersonName is a captured name: bare text or an entity object carrying
// resolvedValue, name or original.
type PersonName string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PersonName) UnmarshalJSON(b []byte) error {
	*p = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			ResolvedValue Text `json:"resolvedValue"`
			Name          Text `json:"name"`
			Original      Text `json:"original"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil
		}
		for _, s := range []Text{obj.ResolvedValue, obj.Name, obj.Original} {
			if strings.TrimSpace(string(s)) != "" {
				*p = PersonName(strings.TrimSpace(string(s)))
				return nil
			}
		}
		return nil
	}
	var t Text
	_ = t.UnmarshalJSON(b)
	*p = PersonName(strings.TrimSpace(string(t)))
	return nil
}

// Text is a free-form parameter. Numbers and booleans are rendered as text
// and lists are joined with ", "; objects decode to "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = Text(strings.TrimSpace(s))
		}
	case '[':
		var items []Text
		if err := json.Unmarshal(b, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				if it != "" {
					parts = append(parts, string(it))
				}
			}
			*t = Text(strings.Join(parts, ", "))
		}
	case '{':
	case 'n':
	case 't', 'f':
		*t = Text(b)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err == nil {
			*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	return nil
}

// Or returns t, or def when t is empty.
func (t Text) Or(def string) string {
	if t == "" {
		return def
	}
	return string(t)
}

// DisplayName collapses whitespace and title-cases a captured name.
func DisplayName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Casers keep state between calls and must not be shared.
	return cases.Title(language.BrazilianPortuguese).String(s)
}
