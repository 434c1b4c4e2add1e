package normalize

import (
	"errors"
	"regexp"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

var plusDigits = regexp.MustCompile(`^\+55[0-9]+$`)

func TestIdentifier(t *testing.T) {
	cases := []struct {
		name, session, want string
	}{
		{"whatsapp session", "projects/p/locations/l/agents/a/sessions/whatsapp:+5511987654321", "+5511987654321"},
		{"digits only", "sessions/5521999998888", "+5521999998888"},
		{"punctuation", "x/sessions/55 (11) 98765-4321", "+5511987654321"},
		{"no separator", "5511900000000", "+5511900000000"},
		{"non brazilian", "sessions/14155550100", "14155550100"},
		{"no digits", "projects/p/sessions/abc-def", ""},
		{"empty", "", ""},
		{"trailing slash", "sessions/5511987654321/", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Identifier(tc.session); got != tc.want {
				t.Fatalf("Identifier(%q) = %q; want %q", tc.session, got, tc.want)
			}
		})
	}
}

func TestIdentifier_BrazilianAlwaysPlus55Digits(t *testing.T) {
	for _, s := range []string{
		"a/b/55", "s/whatsapp:5511", "s/55-11-9", "s/+55 11 98888 7777", "s/tel:55(21)3333-4444",
	} {
		if got := Identifier(s); !plusDigits.MatchString(got) {
			t.Fatalf("Identifier(%q) = %q; want +55 followed by digits", s, got)
		}
	}
}

func TestContactPhone(t *testing.T) {
	if got := ContactPhone("", "+5511987654321"); got != "+5511987654321" {
		t.Fatalf("fallback: got %q", got)
	}
	if got := ContactPhone("(11) 98765-4321", "+5500"); got != "+5511987654321" {
		t.Fatalf("collected BR number: got %q", got)
	}
	if got := ContactPhone("  not a phone ", "+5500"); got != "not a phone" {
		t.Fatalf("unparseable collected number should be kept trimmed: got %q", got)
	}
}

func TestDateValue_CalendarDate(t *testing.T) {
	cases := []struct {
		name, raw, want string
		wantErr   error
	}{
		{"structured", `{"year":2024,"month":3,"day":5}`, "2024-03-05", nil},
		{"structured floats", `{"year":2024.0,"month":3.0,"day":5.0}`, "2024-03-05", nil},
		{"structured strings", `{"year":"2024","month":"3","day":"5"}`, "2024-03-05", nil},
		{"slash", `"05/03/2024"`, "2024-03-05", nil},
		{"slash unpadded", `"5/3/2024"`, "2024-03-05", nil},
		{"iso", `"2024-03-05"`, "2024-03-05", nil},
		{"rfc3339", `"2024-03-05T10:00:00Z"`, "2024-03-05", nil},
		{"null", `null`, "", ErrNoDate},
		{"empty string", `""`, "", ErrNoDate},
		{"garbage string", `"amanhã"`, "", ErrBadDate},
		{"impossible date", `{"year":2024,"month":2,"day":31}`, "", ErrBadDate},
		{"missing day", `{"year":2024,"month":2}`, "", ErrBadDate},
		{"number", `20240305`, "", ErrBadDate},
		{"bad field", `{"year":"x","month":1,"day":1}`, "", ErrBadDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d DateValue
			if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
				t.Fatalf("unmarshal must never fail, got %v", err)
			}
			got, err := d.CalendarDate()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) || got != "" {
					t.Fatalf("got (%q, %v); want error %v", got, err, tc.wantErr)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got (%q, %v); want %q", got, err, tc.want)
			}
		})
	}
}

func TestDateValue_AbsentInsideStruct(t *testing.T) {
	var p struct {
		Out DateValue `json:"out"`
		Ret DateValue `json:"ret"`
		N   Count     `json:"n"`
	}
	if err := json.Unmarshal([]byte(`{"ret":[1,2],"n":2}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Out.Present() {
		t.Fatalf("missing field should be absent")
	}
	if _, err := p.Ret.CalendarDate(); !errors.Is(err, ErrBadDate) {
		t.Fatalf("array date should be malformed, got %v", err)
	}
	if p.N != 2 {
		t.Fatalf("sibling fields must still decode, n=%d", p.N)
	}
}

func TestDateValue_InstantConvertsFromUTC(t *testing.T) {
	var d DateValue
	raw := `{"year":2024,"month":1,"day":10,"hours":14,"minutes":0,"seconds":0}`
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	loc := time.FixedZone("BRT", -3*60*60)
	got, err := d.Instant(loc)
	if err != nil {
		t.Fatalf("Instant: %v", err)
	}
	if got != "2024-01-10T11:00:00-03:00" {
		t.Fatalf("Instant = %q; want 2024-01-10T11:00:00-03:00", got)
	}

	// Crossing midnight backwards moves the calendar date too.
	early := DateParts(2024, 1, 10, 1, 30, 0)
	if got, _ := early.Instant(loc); got != "2024-01-09T22:30:00-03:00" {
		t.Fatalf("Instant across midnight = %q", got)
	}
}

func TestDateValue_InstantErrors(t *testing.T) {
	if _, err := (DateValue{}).Instant(time.UTC); !errors.Is(err, ErrNoDate) {
		t.Fatalf("absent: got %v", err)
	}
	if _, err := DateParts(2024, 1, 10, 25, 0, 0).Instant(time.UTC); !errors.Is(err, ErrBadDate) {
		t.Fatalf("hour 25: got %v", err)
	}
	got, err := DateText("10/01/2024").Instant(time.FixedZone("BRT", -3*60*60))
	if err != nil || got != "2024-01-10T00:00:00-03:00" {
		t.Fatalf("text instant = %q, %v", got, err)
	}
}

func TestDateValue_DisplayAndMarshal(t *testing.T) {
	if got := DateParts(2024, 3, 5, 0, 0, 0).Display(); got != "05/03/2024" {
		t.Fatalf("Display structured = %q", got)
	}
	if got := DateText("05/03/2024").Display(); got != "05/03/2024" {
		t.Fatalf("Display text = %q", got)
	}
	if got := (DateValue{}).Display(); got != "" {
		t.Fatalf("Display absent = %q", got)
	}

	var d DateValue
	_ = json.Unmarshal([]byte(`{"year":2024,"month":3,"day":5}`), &d)
	b, err := json.Marshal(d)
	if err != nil || string(b) != `{"year":2024,"month":3,"day":5}` {
		t.Fatalf("marshal structured = %s, %v", b, err)
	}
	b, _ = json.Marshal(DateValue{})
	if string(b) != "null" {
		t.Fatalf("marshal absent = %s", b)
	}
}

func TestPlaceRef(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{`"Recife"`, "Recife"},
		{`{"city":"São Paulo","original":"sampa"}`, "São Paulo"},
		{`{"city":"","original":"sampa"}`, "sampa"},
		{`{"country":"BR"}`, ""},
		{`null`, ""},
		{`42`, "42"},
	}
	for _, tc := range cases {
		var p PlaceRef
		if err := json.Unmarshal([]byte(tc.raw), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if got := p.Text(); got != tc.want {
			t.Fatalf("PlaceRef(%s).Text() = %q; want %q", tc.raw, got, tc.want)
		}
	}
	if Place(" Natal ").Text() != "Natal" {
		t.Fatalf("Place should trim")
	}
}

func TestPersonNameAndText(t *testing.T) {
	var p struct {
		A PersonName `json:"a"`
		B PersonName `json:"b"`
		C PersonName `json:"c"`
		T Text       `json:"t"`
		L Text       `json:"l"`
		N Text       `json:"n"`
		O Text       `json:"o"`
	}
	raw := `{"a":"Ana","b":{"resolvedValue":"Bia"},"c":{"original":"carla"},"t":" x ","l":["7","9",3],"n":5.5,"o":{"k":1}}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.A != "Ana" || p.B != "Bia" || p.C != "carla" {
		t.Fatalf("names: %+v", p)
	}
	if p.T != "x" || p.L != "7, 9, 3" || p.N != "5.5" || p.O != "" {
		t.Fatalf("texts: %+v", p)
	}
	if Text("").Or("N/A") != "N/A" || Text("v").Or("N/A") != "v" {
		t.Fatalf("Text.Or")
	}
}

func TestCount(t *testing.T) {
	for raw, want := range map[string]Count{`2`: 2, `2.0`: 2, `"3"`: 3, `"x"`: 0, `-1`: 0, `null`: 0} {
		var c Count
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if c != want {
			t.Fatalf("Count(%s) = %d; want %d", raw, c, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("  maria   da silva "); got != "Maria Da Silva" {
		t.Fatalf("DisplayName = %q", got)
	}
	if DisplayName("   ") != "" {
		t.Fatalf("blank name should stay blank")
	}
}
