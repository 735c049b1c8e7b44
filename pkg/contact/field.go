package contact

import "fmt"

// FieldID identifies one of the four contact form fields.
type FieldID string

const (
	FieldName    FieldID = "name"
	FieldEmail   FieldID = "email"
	FieldSubject FieldID = "subject"
	FieldMessage FieldID = "message"
)

// Fields lists every field in evaluation order.
var Fields = []FieldID{FieldName, FieldEmail, FieldSubject, FieldMessage}

// Page element ids owned by the form.
const (
	ElementForm      = "contactForm"
	ElementBanner    = "formMessage"
	ElementSubmit    = "submitBtn"
	ElementSubscribe = "subscribe"
)

// CSS classes applied to fields and the submit button.
const (
	ClassError   = "input-error"
	ClassSuccess = "input-success"
	ClassLoading = "btn-loading"
)

// Default labels for the submit button.
const (
	DefaultSubmitLabel = "Send Message"
	DefaultBusyLabel   = "Sending..."
)

// SuccessBanner is the text of the banner shown after a submission completes.
const SuccessBanner = "Success! Your message has been sent successfully. I'll get back to you soon!"

// storageKeyPrefix prefixes every persisted field key.
const storageKeyPrefix = "form_"

// ParseField converts a raw field identifier.
func ParseField(s string) (FieldID, error) {
	f := FieldID(s)
	if !f.Valid() {
		return "", fmt.Errorf("contact: unknown field %q", s)
	}
	return f, nil
}

// Valid reports whether f is one of the four form fields.
func (f FieldID) Valid() bool {
	switch f {
	case FieldName, FieldEmail, FieldSubject, FieldMessage:
		return true
	}
	return false
}

// StorageKey returns the persisted store key, e.g. "form_email".
func (f FieldID) StorageKey() string {
	return storageKeyPrefix + string(f)
}

// ErrorElement returns the id of the element showing the field's error text.
func (f FieldID) ErrorElement() string {
	return string(f) + "Error"
}

// StorageKeys returns the store keys of all four fields.
func StorageKeys() []string {
	keys := make([]string, len(Fields))
	for i, f := range Fields {
		keys[i] = f.StorageKey()
	}
	return keys
}

// VisualState is the mutually exclusive marking of a field.
type VisualState int

const (
	VisualNeutral VisualState = iota
	VisualError
	VisualSuccess
)

// String returns the state name.
func (v VisualState) String() string {
	switch v {
	case VisualNeutral:
		return "neutral"
	case VisualError:
		return "error"
	case VisualSuccess:
		return "success"
	default:
		return fmt.Sprintf("VisualState(%d)", int(v))
	}
}

// Class returns the CSS class for the state, or "" for neutral.
func (v VisualState) Class() string {
	switch v {
	case VisualError:
		return ClassError
	case VisualSuccess:
		return ClassSuccess
	}
	return ""
}

// Snapshot is the set of values captured when the form is submitted.
type Snapshot struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	Subscribe bool
}

// SnapshotFromMap builds a Snapshot from values keyed by field id.
// Unknown keys are ignored.
func SnapshotFromMap(values map[string]string, subscribe bool) Snapshot {
	return Snapshot{
		Name:      values[string(FieldName)],
		Email:     values[string(FieldEmail)],
		Subject:   values[string(FieldSubject)],
		Message:   values[string(FieldMessage)],
		Subscribe: subscribe,
	}
}

// Value returns the snapshot value of f.
func (s Snapshot) Value(f FieldID) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldSubject:
		return s.Subject
	case FieldMessage:
		return s.Message
	}
	return ""
}
