package domain

import "github.com/tbourn/lead-webhook/internal/normalize"

// TripType tags a lead with the product the customer asked about.
type TripType string

const (
	TripFlight TripType = "flight"
	TripCruise TripType = "cruise"
)

// Label is the operator-facing name of the trip type.
func (t TripType) Label() string {
	switch t {
	case TripFlight:
		return "Passagem Aérea"
	case TripCruise:
		return "Cruzeiro"
	default:
		return "Não especificado"
	}
}

// Lead is a flat trip request ready for human follow-up. It has no identity
// of its own and is only ever created in the record store. Empty strings mean
// "not supplied"; dates are "YYYY-MM-DD" and ContactedAt is RFC 3339.
type Lead struct {
	TripType      TripType `json:"trip_type"`
	CustomerName  string   `json:"customer_name"`
	Phone         string   `json:"phone"`
	Status        string   `json:"status"`
	Passengers    string   `json:"passengers"`
	ChildAges     string   `json:"child_ages,omitempty"`
	Preferences   string   `json:"preferences,omitempty"`
	TravelProfile string   `json:"travel_profile,omitempty"`
	ContactedAt   string   `json:"contacted_at,omitempty"`

	// Flight
	Route        string `json:"route,omitempty"`
	OutboundDate string `json:"outbound_date,omitempty"`
	ReturnDate   string `json:"return_date,omitempty"`

	// Cruise
	CruiseRegion string `json:"cruise_region,omitempty"`
	CruisePeriod string `json:"cruise_period,omitempty"`
	SeniorAge    string `json:"senior_age,omitempty"`
	EmbarkPort   string `json:"embark_port,omitempty"`
}

// FlightParams are the session parameters a flight lead is built from.
type FlightParams struct {
	Person         normalize.PersonName `json:"person"`
	WhatsApp       normalize.Text       `json:"whatsapp_cliente"`
	Origin         normalize.PlaceRef   `json:"origem"`
	Destination    normalize.PlaceRef   `json:"destino"`
	OutboundDate   normalize.DateValue  `json:"data_ida"`
	ReturnDate     normalize.DateValue  `json:"data_volta"`
	Adults         normalize.Count      `json:"adultos_voo"`
	Children       normalize.Count      `json:"numero_criancas"`
	ChildAges      normalize.Text       `json:"idade_crianca"`
	TravelProfile  normalize.Text       `json:"perfil_viagem"`
	Preferences    normalize.Text       `json:"preferencias"`
	ConfirmationAt normalize.DateValue  `json:"data_hora_confirmacao"`
}

// CruiseParams are the session parameters a cruise lead is built from.
type CruiseParams struct {
	Person         normalize.PersonName `json:"person"`
	WhatsApp       normalize.Text       `json:"whatsapp_cliente"`
	Region         normalize.Text       `json:"destino_cruzeiro"`
	Period         normalize.Text       `json:"periodo_cruzeiro"`
	Adults         normalize.Count      `json:"adultos_cruzeiro"`
	Children       normalize.Count      `json:"numero_criancas"`
	ChildAges      normalize.Text       `json:"idade_crianca"`
	SeniorAge      normalize.Text       `json:"idade_senior"`
	Company        normalize.Text       `json:"companhia_cruzeiro"`
	Accessibility  normalize.Text       `json:"acessibilidade_cruzeiro"`
	SeniorFare     normalize.Text       `json:"status_tarifa_senior"`
	EmbarkPort     normalize.Text       `json:"porto_embarque"`
	ConfirmationAt normalize.DateValue  `json:"data_hora_confirmacao"`
}

// NameParams carries the name captured by the capture-name action.
type NameParams struct {
	Person normalize.PersonName `json:"person"`
}

// Notification is an operator alert: the template is chosen by trip type and
// Variables fill its numbered placeholders in order, starting at "1".
type Notification struct {
	TripType  TripType
	Variables []string
}
