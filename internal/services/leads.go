package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/lead-webhook/internal/domain"
	"github.com/tbourn/lead-webhook/internal/normalize"
)

// LeadOptions parameterize lead assembly.
type LeadOptions struct {
	Location *time.Location   // zone for the contact timestamp; UTC when nil
	Status   string           // initial status written on the record
	Now      func() time.Time // contact time when none was captured
}

// AssembleLead builds the record and the operator alert for a finalize turn.
// It never fails: unusable fields are logged and left empty.
func AssembleLead(ctx context.Context, trip domain.TripType, params domain.Params, identifier string, opt LeadOptions) (domain.Lead, domain.Notification) {
	l := loggerFrom(ctx).With().Str("trip", string(trip)).Logger()
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}

	switch trip {
	case domain.TripCruise:
		var p domain.CruiseParams
		if err := params.Decode(&p); err != nil {
			l.Warn().Err(err).Msg("lead_params_decode_failed")
		}
		return cruiseLead(l, p, identifier, opt)
	default:
		var p domain.FlightParams
		if err := params.Decode(&p); err != nil {
			l.Warn().Err(err).Msg("lead_params_decode_failed")
		}
		return flightLead(l, p, identifier, opt)
	}
}

func flightLead(l zerolog.Logger, p domain.FlightParams, identifier string, opt LeadOptions) (domain.Lead, domain.Notification) {
	lead := domain.Lead{
		TripType:      domain.TripFlight,
		CustomerName:  normalize.DisplayName(string(p.Person)),
		Phone:         normalize.ContactPhone(string(p.WhatsApp), identifier),
		Status:        opt.Status,
		Passengers:    PassengerSummary(int(p.Adults), int(p.Children)),
		ChildAges:     string(p.ChildAges),
		TravelProfile: string(p.TravelProfile),
		Preferences:   string(p.Preferences),
		Route:         route(p.Origin, p.Destination),
		OutboundDate:  calendarDate(l, "data_ida", p.OutboundDate),
		ReturnDate:    calendarDate(l, "data_volta", p.ReturnDate),
		ContactedAt:   contactedAt(l, p.ConfirmationAt, opt),
	}

	returnDate := p.ReturnDate.Display()
	if returnDate == "" {
		returnDate = "Só ida"
	}
	n := domain.Notification{
		TripType: domain.TripFlight,
		Variables: []string{
			orNA(lead.CustomerName),
			lead.TripType.Label(),
			orNA(lead.Route),
			orNA(p.OutboundDate.Display()),
			returnDate,
			lead.Passengers,
		},
	}
	return lead, n
}

func cruiseLead(l zerolog.Logger, p domain.CruiseParams, identifier string, opt LeadOptions) (domain.Lead, domain.Notification) {
	lead := domain.Lead{
		TripType:     domain.TripCruise,
		CustomerName: normalize.DisplayName(string(p.Person)),
		Phone:        normalize.ContactPhone(string(p.WhatsApp), identifier),
		Status:       opt.Status,
		Passengers:   PassengerSummary(int(p.Adults), int(p.Children)),
		ChildAges:    string(p.ChildAges),
		Preferences:  CruisePreferences(string(p.Company), string(p.Accessibility), string(p.SeniorFare)),
		CruiseRegion: string(p.Region),
		CruisePeriod: string(p.Period),
		SeniorAge:    string(p.SeniorAge),
		EmbarkPort:   string(p.EmbarkPort),
		ContactedAt:  contactedAt(l, p.ConfirmationAt, opt),
	}

	n := domain.Notification{
		TripType: domain.TripCruise,
		Variables: []string{
			orNA(lead.CustomerName),
			orNA(lead.CruiseRegion),
			orNA(lead.CruisePeriod),
			lead.Passengers,
			orNA(lead.EmbarkPort),
			orNA(lead.Phone),
		},
	}
	return lead, n
}

// PassengerSummary renders adult and child counts as one line.
func PassengerSummary(adults, children int) string {
	return fmt.Sprintf("%d adulto(s), %d criança(s)", adults, children)
}

// CruisePreferences joins the labelled cruise sub-preferences.
func CruisePreferences(company, accessibility, seniorFare string) string {
	return fmt.Sprintf("Companhia Preferida: %s. Acessibilidade: %s. Tarifa Sênior: %s.",
		orNA(company), orNA(accessibility), orNA(seniorFare))
}

func route(origin, destination normalize.PlaceRef) string {
	o, d := origin.Text(), destination.Text()
	if o == "" && d == "" {
		return ""
	}
	return orNA(o) + " → " + orNA(d)
}

func calendarDate(l zerolog.Logger, field string, v normalize.DateValue) string {
	s, err := v.CalendarDate()
	if err != nil && !errors.Is(err, normalize.ErrNoDate) {
		l.Warn().Err(err).Str("field", field).Msg("lead_date_dropped")
	}
	return s
}

func contactedAt(l zerolog.Logger, v normalize.DateValue, opt LeadOptions) string {
	s, err := v.Instant(opt.Location)
	if err == nil {
		return s
	}
	if !errors.Is(err, normalize.ErrNoDate) {
		l.Warn().Err(err).Str("field", "data_hora_confirmacao").Msg("lead_date_dropped")
	}
	return opt.Now().In(opt.Location).Format(time.RFC3339)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// loggerFrom returns the request-scoped logger carried by ctx, falling back
// to the global logger.
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
