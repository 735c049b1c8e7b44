package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator checks a single field value.
type Validator interface {
	// Validate returns nil if valid, or a FieldValidationError if not.
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// FieldValidationError is the one error kind of the contact form: a field
// and its fixed human-readable message.
type FieldValidationError struct {
	Field   FieldID
	Message string
}

func (e FieldValidationError) Error() string {
	return e.Message
}

// Fixed per-field messages.
const (
	MessageName    = "Name must be at least 2 characters long"
	MessageEmail   = "Please enter a valid email address"
	MessageSubject = "Subject is required"
	MessageMessage = "Message must be at least 10 characters long"
)

// emailPattern accepts "x@y.z" shapes with no whitespace or extra @.
// It does not attempt RFC 5322 validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinTrimmedLength validates that the value has at least n characters after
// surrounding whitespace is removed. Empty values fail.
func MinTrimmedLength(n int, msg string) Validator {
	return ValidatorFunc(func(value string) error {
		if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
			return FieldValidationError{Message: msg}
		}
		return nil
	})
}

// Required validates that the value is not blank.
func Required(msg string) Validator {
	return MinTrimmedLength(1, msg)
}

// Pattern validates that the untrimmed value matches re.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return ValidatorFunc(func(value string) error {
		if !re.MatchString(value) {
			return FieldValidationError{Message: msg}
		}
		return nil
	})
}

var rules = map[FieldID]Validator{
	FieldName:    MinTrimmedLength(2, MessageName),
	FieldEmail:   Pattern(emailPattern, MessageEmail),
	FieldSubject: Required(MessageSubject),
	FieldMessage: MinTrimmedLength(10, MessageMessage),
}

// CheckField validates value for field f. It returns nil when the value is
// valid or the field is unknown.
func CheckField(f FieldID, value string) *FieldValidationError {
	v, ok := rules[f]
	if !ok {
		return nil
	}
	err := v.Validate(value)
	if err == nil {
		return nil
	}
	fe, ok := err.(FieldValidationError)
	if !ok {
		fe = FieldValidationError{Message: err.Error()}
	}
	fe.Field = f
	return &fe
}

// ValidateField reports whether value is valid for field kind.
// Unknown fields are never valid.
func ValidateField(kind FieldID, value string) bool {
	if !kind.Valid() {
		return false
	}
	return CheckField(kind, value) == nil
}

// ErrorMessage returns the fixed message shown when field f is invalid.
func ErrorMessage(f FieldID) string {
	switch f {
	case FieldName:
		return MessageName
	case FieldEmail:
		return MessageEmail
	case FieldSubject:
		return MessageSubject
	case FieldMessage:
		return MessageMessage
	}
	return ""
}
