package services

import (
	"fmt"
	"strings"

	"github.com/tbourn/lead-webhook/internal/domain"
	"github.com/tbourn/lead-webhook/internal/normalize"
)

// Effect is a side effect a decision asks the caller to perform.
type Effect int

const (
	EffectLookupName Effect = iota + 1
	EffectSaveCustomer
	EffectDeliverLead
)

// Session parameters used by the date-correction actions.
const (
	ParamCorrectionTarget   = "correction_target"
	ParamNewDate            = "new_date"
	ParamAwaitingCorrection = "awaiting_correction"
	ParamDateField          = "date_field"
	ParamCapturedDate       = "captured_date"
)

// Reply texts.
const (
	TextWelcomeBack       = "Olá, %s! Que bom te ver de volta! Como posso te ajudar a planejar sua próxima viagem?"
	TextWelcomeNew        = "Olá! 😊 Eu sou a Vivi, sua consultora de viagens virtual. Para um atendimento mais atencioso, pode me dizer seu nome, por favor?"
	TextWelcomeFallback   = "Olá! Eu sou a Vivi, sua consultora de viagens. Como posso te ajudar?"
	TextLeadConfirmed     = "Perfeito! Recebi todas as informações da sua viagem e já encaminhei para a nossa equipe. Atendimento encerrado."
	TextLeadDegraded      = "Suas informações foram registradas! Um de nossos especialistas vai entrar em contato em breve para dar continuidade."
	TextDateUpdated       = "Pronto, atualizei a data!"
	TextDateNotUnderstood = "Não consegui identificar a data. Pode me informar novamente?"
	TextUnknownTag        = "Desculpe, não entendi o que preciso fazer. Pode tentar de novo?"
)

// Decision is the pure routing result for one turn.
type Decision struct {
	Action     Action
	Identifier string
	Effects    []Effect

	// CustomerName is the display name to persist with EffectSaveCustomer.
	CustomerName string

	// Trip is the lead type for EffectDeliverLead.
	Trip domain.TripType

	// Echo holds the session parameters to send back; nil when unchanged.
	Echo domain.Params
}

// Has reports whether d requests e.
func (d Decision) Has(e Effect) bool {
	for _, x := range d.Effects {
		if x == e {
			return true
		}
	}
	return false
}

// Outcome collects what happened while performing a decision's effects.
type Outcome struct {
	// CustomerName is the stored name found by EffectLookupName, or "".
	CustomerName string
	// LookupErr is set when the customer store could not be queried. A
	// customer that is simply unknown is not an error.
	LookupErr error

	SaveErr error

	// Queued is true when the lead was handed to the queue instead of
	// being delivered inline.
	Queued   bool
	Delivery DeliveryReport
}

// Decide routes a turn. It performs no I/O.
func Decide(t domain.Turn) Decision {
	d := Decision{
		Action:     ParseAction(t.Tag),
		Identifier: t.Identifier,
	}
	if d.Identifier == "" {
		d.Identifier = normalize.Identifier(t.Session)
	}

	switch d.Action {
	case ActionIdentifyCustomer:
		d.Effects = []Effect{EffectLookupName}

	case ActionCaptureName:
		var p domain.NameParams
		_ = t.Parameters.Decode(&p)
		d.CustomerName = normalize.DisplayName(string(p.Person))
		if d.CustomerName != "" && d.Identifier != "" {
			d.Effects = []Effect{EffectSaveCustomer}
		}

	case ActionFinalizeFlight:
		d.Trip = domain.TripFlight
		d.Effects = []Effect{EffectDeliverLead}

	case ActionFinalizeCruise:
		d.Trip = domain.TripCruise
		d.Effects = []Effect{EffectDeliverLead}

	case ActionCorrectDate:
		d.Echo = dateEcho(t.Parameters, paramString(t.Parameters, ParamCorrectionTarget), ParamNewDate,
			ParamCorrectionTarget, ParamNewDate, ParamAwaitingCorrection)

	case ActionManageDateField:
		d.Echo = dateEcho(t.Parameters, paramString(t.Parameters, ParamDateField), ParamCapturedDate,
			ParamDateField, ParamCapturedDate)
	}
	return d
}

// dateEcho copies the captured date object found under source into target
// and nulls the transient parameters. It returns nil when either the target
// name or the captured value is missing.
func dateEcho(params domain.Params, target, source string, transient ...string) domain.Params {
	value, ok := params[source]
	if target == "" || !ok || value == nil {
		return nil
	}
	echo := domain.Params{}
	for _, k := range transient {
		echo[k] = nil
	}
	echo[target] = value
	return echo
}

func paramString(params domain.Params, key string) string {
	s, _ := params[key].(string)
	return strings.TrimSpace(s)
}

// Compose builds the single fulfillment response for a decision and the
// outcome of its effects. It performs no I/O.
func Compose(d Decision, o Outcome) domain.WebhookResponse {
	switch d.Action {
	case ActionIdentifyCustomer:
		switch {
		case o.LookupErr != nil:
			return domain.TextReply(TextWelcomeFallback)
		case o.CustomerName != "":
			return domain.TextReply(fmt.Sprintf(TextWelcomeBack, o.CustomerName))
		default:
			return domain.TextReply(TextWelcomeNew)
		}

	case ActionCaptureName:
		return domain.WebhookResponse{}

	case ActionFinalizeFlight, ActionFinalizeCruise:
		text := TextLeadConfirmed
		if !o.Queued && failed(o.Delivery.StoreErr) {
			text = TextLeadDegraded
		}
		resp := domain.TextReply(text)
		resp.FulfillmentResponse.Messages = append(resp.FulfillmentResponse.Messages,
			domain.ResponseMessage{Payload: map[string]any{"flow_status": "finished"}})
		return resp

	case ActionCorrectDate, ActionManageDateField:
		if d.Echo == nil {
			return domain.TextReply(TextDateNotUnderstood)
		}
		resp := domain.TextReply(TextDateUpdated)
		resp.SessionInfo = &domain.SessionInfo{Parameters: d.Echo}
		return resp

	default:
		return domain.TextReply(TextUnknownTag)
	}
}
