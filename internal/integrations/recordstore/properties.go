package recordstore

import (
	json "github.com/goccy/go-json"

	"github.com/tbourn/lead-webhook/internal/domain"
)

// Database column names.
const (
	PropName          = "Nome do Cliente"
	PropStatus        = "Status"
	PropTripType      = "Tipo de Viagem"
	PropRoute         = "Origem → Destino"
	PropOutbound      = "Data de Ida"
	PropReturn        = "Data de Volta (se houver)"
	PropPassengers    = "Qtd. de Passageiros"
	PropChildAges     = "Idade Crianças"
	PropPreferences   = "Preferências"
	PropTravelProfile = "Perfil de Viagem"
	PropWhatsApp      = "WhatsApp"
	PropCreatedAt     = "Data de Criação"
	PropRegion        = "Região Desejada"
	PropPeriod        = "Período Desejado"
	PropNotes         = "Observações Adicionais"
	PropSeniorAge     = "Idade Sênior"
)

// Kind is a record-store property type.
type Kind string

const (
	KindTitle    Kind = "title"
	KindRichText Kind = "rich_text"
	KindSelect   Kind = "select"
	KindDate     Kind = "date"
)

// Property is one typed column value.
type Property struct {
	Kind  Kind
	Value string
}

type textContent struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

// MarshalJSON renders the property in the API's typed-object form.
func (p Property) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case KindSelect:
		return json.Marshal(map[string]any{"select": map[string]string{"name": p.Value}})
	case KindDate:
		return json.Marshal(map[string]any{"date": map[string]string{"start": p.Value}})
	default:
		var t textContent
		t.Text.Content = p.Value
		return json.Marshal(map[string]any{string(p.Kind): []textContent{t}})
	}
}

// LeadProperties maps a lead onto the database columns. Empty values are
// left out so the store keeps its column defaults.
func LeadProperties(l domain.Lead) map[string]Property {
	name := l.CustomerName
	if name == "" {
		name = "Não informado"
	}
	props := map[string]Property{
		PropName: {KindTitle, name},
	}
	add := func(key string, kind Kind, v string) {
		if v != "" {
			props[key] = Property{kind, v}
		}
	}

	add(PropStatus, KindSelect, l.Status)
	add(PropTripType, KindSelect, l.TripType.Label())
	add(PropWhatsApp, KindRichText, l.Phone)
	add(PropPassengers, KindRichText, l.Passengers)
	add(PropChildAges, KindRichText, l.ChildAges)
	add(PropPreferences, KindRichText, l.Preferences)
	add(PropTravelProfile, KindSelect, l.TravelProfile)
	add(PropCreatedAt, KindDate, l.ContactedAt)

	add(PropRoute, KindRichText, l.Route)
	add(PropOutbound, KindDate, l.OutboundDate)
	add(PropReturn, KindDate, l.ReturnDate)

	add(PropRegion, KindRichText, l.CruiseRegion)
	add(PropPeriod, KindRichText, l.CruisePeriod)
	add(PropSeniorAge, KindRichText, l.SeniorAge)
	if l.EmbarkPort != "" {
		add(PropNotes, KindRichText, "Porto de Embarque: "+l.EmbarkPort)
	}
	return props
}
