package session

import (
	"github.com/mbd888/numerics/pkg/field"
)

// Inbound message types.
const (
	TypeMount   = "mount"
	TypeKeyDown = "keydown"
	TypeChange  = "change"
	TypeBlur    = "blur"
	TypeSet     = "set"
	TypeUnmount = "unmount"
)

// Outbound message types. TypeKeyDown is reused for keydown replies.
const (
	TypeDisplay = "display"
	TypeNumeric = "numeric"
	TypeError   = "error"
)

// Error codes sent in error messages.
const (
	CodeInvalidMessage = "invalid_message"
	CodeUnknownType    = "unknown_type"
	CodeUnknownField   = "unknown_field"
	CodeFieldExists    = "field_exists"
	CodeTooManyFields  = "too_many_fields"
	CodeInvalidOptions = "invalid_options"
	CodePresetNotFound = "preset_not_found"
	CodeRateLimited    = "rate_limited"
)

// Inbound is a client event. Which fields are read depends on Type.
type Inbound struct {
	Type         string        `json:"type"`
	Field        string        `json:"field"`
	Kind         field.Kind    `json:"kind,omitempty"`
	Preset       string        `json:"preset,omitempty"`
	Options      field.Options `json:"options"`
	Value        string        `json:"value"`
	Key          string        `json:"key,omitempty"`
	SelectionEnd *int          `json:"selectionEnd,omitempty"`
}

// Outbound is a server message.
type Outbound struct {
	Type     string  `json:"type"`
	Field    string  `json:"field,omitempty"`
	Display  *string `json:"display,omitempty"`
	Value    *string `json:"value,omitempty"`
	Accepted *bool   `json:"accepted,omitempty"`
	Code     string  `json:"code,omitempty"`
	Message  string  `json:"message,omitempty"`
}

func displayMsg(id, display string) Outbound {
	return Outbound{Type: TypeDisplay, Field: id, Display: &display}
}

func numericMsg(id, value string) Outbound {
	return Outbound{Type: TypeNumeric, Field: id, Value: &value}
}

func keyDownMsg(id string, accepted bool) Outbound {
	return Outbound{Type: TypeKeyDown, Field: id, Accepted: &accepted}
}

func errorMsg(id, code, message string) Outbound {
	return Outbound{Type: TypeError, Field: id, Code: code, Message: message}
}
