package services

import "strings"

// Action is the closed set of things a turn can ask for.
type Action int

const (
	ActionUnknown Action = iota
	ActionIdentifyCustomer
	ActionCaptureName
	ActionFinalizeFlight
	ActionFinalizeCruise
	ActionCorrectDate
	ActionManageDateField
)

var actionTags = map[string]Action{
	"identify-customer":    ActionIdentifyCustomer,
	"capture-name":         ActionCaptureName,
	"finalize-flight-lead": ActionFinalizeFlight,
	"finalize-cruise-lead": ActionFinalizeCruise,
	"correct-date":         ActionCorrectDate,
	"manage-date-field":    ActionManageDateField,

	// Tags configured on the agent before the rename.
	"identificar_cliente":             ActionIdentifyCustomer,
	"salvar_nome_e_perguntar_produto": ActionCaptureName,
	"salvar_dados_voo_no_notion":      ActionFinalizeFlight,
	"salvar_dados_cruzeiro_no_notion": ActionFinalizeCruise,
	"corrigir_data":                   ActionCorrectDate,
	"gerenciar_campo_data":            ActionManageDateField,
}

// ParseAction maps a tag to its action. Matching ignores case and
// surrounding whitespace; anything else is ActionUnknown.
func ParseAction(tag string) Action {
	return actionTags[strings.ToLower(strings.TrimSpace(tag))]
}

// String returns the canonical tag.
func (a Action) String() string {
	switch a {
	case ActionIdentifyCustomer:
		return "identify-customer"
	case ActionCaptureName:
		return "capture-name"
	case ActionFinalizeFlight:
		return "finalize-flight-lead"
	case ActionFinalizeCruise:
		return "finalize-cruise-lead"
	case ActionCorrectDate:
		return "correct-date"
	case ActionManageDateField:
		return "manage-date-field"
	default:
		return "unknown"
	}
}
