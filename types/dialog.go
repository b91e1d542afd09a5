/*
# Module: types/dialog.go
Voice platform request and response envelopes.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, api, dialog

## Exports
DialogRequest, DialogResponse, Slot, Intent, OutputSpeech, Card, Directive

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/dialog.go" ;
    code:description "Voice platform request and response envelopes" ;
    code:exports :DialogRequest, :DialogResponse ;
    code:tags "data-types", "api", "dialog" .
<!-- End LinkedDoc RDF -->
*/
package types

import "time"

// Request types sent by the voice platform
const (
	RequestLaunch       = "LaunchRequest"
	RequestIntent       = "IntentRequest"
	RequestSessionEnded = "SessionEndedRequest"
)

// DialogRequest is the envelope posted to the skill endpoint
type DialogRequest struct {
	Version string `json:"version"`
	Session struct {
		New        bool                   `json:"new"`
		SessionID  string                 `json:"sessionId"`
		Attributes map[string]interface{} `json:"attributes,omitempty"`
		User       struct {
			UserID string `json:"userId"`
		} `json:"user"`
	} `json:"session"`
	Request struct {
		Type        string    `json:"type"`
		RequestID   string    `json:"requestId"`
		Timestamp   time.Time `json:"timestamp"`
		Locale      string    `json:"locale,omitempty"`
		DialogState string    `json:"dialogState,omitempty"`
		Reason      string    `json:"reason,omitempty"`
		Intent      Intent    `json:"intent"`
	} `json:"request"`
}

// Intent is the parsed user intent with its slot values
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot is a named intent parameter
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the value of the named slot, or "" when unfilled.
func (i Intent) SlotValue(name string) string {
	if i.Slots == nil {
		return ""
	}
	return i.Slots[name].Value
}

// DialogResponse is the envelope returned by the skill endpoint
type DialogResponse struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Response          ResponseBody           `json:"response"`
}

// ResponseBody carries speech, card and directives
type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

// OutputSpeech is plain text speech
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reprompt is spoken if the user stays silent
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Card is a simple text card
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Directive hands control to the platform, e.g. Dialog.Delegate
type Directive struct {
	Type string `json:"type"`
}
