package domain

import (
	"strings"

	json "github.com/goccy/go-json"
)

// WebhookRequest is the inbound turn. Two shapes are accepted: the flat
// {tag, session, parameters} form and the dialogue platform's native
// {fulfillmentInfo:{tag}, sessionInfo:{session, parameters}} form. The worker
// envelope adds an explicit identifier.
type WebhookRequest struct {
	Tag        string `json:"tag,omitempty"        example:"finalize-flight-lead"`
	Session    string `json:"session,omitempty"    example:"projects/p/locations/l/agents/a/sessions/whatsapp:+5511987654321"`
	Identifier string `json:"identifier,omitempty" example:"+5511987654321"`
	Parameters Params `json:"parameters,omitempty" swaggertype:"object"`

	FulfillmentInfo *FulfillmentInfo `json:"fulfillmentInfo,omitempty"`
	SessionInfo     *SessionInfo     `json:"sessionInfo,omitempty"`
}

// FulfillmentInfo carries the tag in the native request shape.
type FulfillmentInfo struct {
	Tag string `json:"tag"`
}

// SessionInfo carries the session path and parameters. It is also used in
// responses to echo updated parameters.
type SessionInfo struct {
	Session    string `json:"session,omitempty"`
	Parameters Params `json:"parameters,omitempty" swaggertype:"object"`
}

// Turn is a flattened, shape-independent view of one inbound request.
type Turn struct {
	Tag        string
	Session    string
	Identifier string
	Parameters Params
}

// Turn flattens either request shape. Fields of the native shape win when
// both are present.
func (r WebhookRequest) Turn() Turn {
	t := Turn{
		Tag:        strings.TrimSpace(r.Tag),
		Session:    r.Session,
		Identifier: strings.TrimSpace(r.Identifier),
		Parameters: r.Parameters,
	}
	if r.FulfillmentInfo != nil && strings.TrimSpace(r.FulfillmentInfo.Tag) != "" {
		t.Tag = strings.TrimSpace(r.FulfillmentInfo.Tag)
	}
	if r.SessionInfo != nil {
		if r.SessionInfo.Session != "" {
			t.Session = r.SessionInfo.Session
		}
		if r.SessionInfo.Parameters != nil {
			t.Parameters = r.SessionInfo.Parameters
		}
	}
	if t.Parameters == nil {
		t.Parameters = Params{}
	}
	return t
}

// Empty reports whether the request carries nothing to act on.
func (r WebhookRequest) Empty() bool {
	t := r.Turn()
	return t.Tag == "" && t.Session == "" && t.Identifier == "" && len(t.Parameters) == 0
}

// Params is the loosely typed session parameter mapping.
type Params map[string]any

// Decode copies the parameters into a typed struct through a JSON round
// trip so field types can normalize their own shapes.
func (p Params) Decode(out any) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Clone returns a shallow copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// WebhookResponse is the fulfillment reply. An all-empty value marshals to
// "{}", which tells the platform to continue its own flow.
type WebhookResponse struct {
	FulfillmentResponse *FulfillmentResponse `json:"fulfillment_response,omitempty"`
	SessionInfo         *SessionInfo         `json:"session_info,omitempty"`
	TargetPage          string               `json:"target_page,omitempty"`
}

// FulfillmentResponse wraps the reply messages.
type FulfillmentResponse struct {
	Messages []ResponseMessage `json:"messages"`
}

// ResponseMessage is a text message or a custom payload.
type ResponseMessage struct {
	Text    *TextMessage   `json:"text,omitempty"`
	Payload map[string]any `json:"payload,omitempty" swaggertype:"object"`
}

// TextMessage holds the text variants of a message.
type TextMessage struct {
	Text []string `json:"text"`
}

// TextReply builds a response with a single text message.
func TextReply(text string) WebhookResponse {
	return WebhookResponse{FulfillmentResponse: &FulfillmentResponse{
		Messages: []ResponseMessage{{Text: &TextMessage{Text: []string{text}}}},
	}}
}

// FirstText returns the first text message, or "".
func (r WebhookResponse) FirstText() string {
	if r.FulfillmentResponse == nil {
		return ""
	}
	for _, m := range r.FulfillmentResponse.Messages {
		if m.Text != nil && len(m.Text.Text) > 0 {
			return m.Text.Text[0]
		}
	}
	return ""
}
