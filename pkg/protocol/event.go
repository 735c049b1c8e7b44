package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType identifies the type of client event.
type EventType string

// Event type constants.
const (
	// Connection setup
	EventHello EventType = "hello"

	// Pointer and navigation
	EventClick   EventType = "click"
	EventAnchor  EventType = "anchor"
	EventProject EventType = "project"

	// Form events
	EventInput     EventType = "input"
	EventBlur      EventType = "blur"
	EventSubmit    EventType = "submit"
	EventSubscribe EventType = "subscribe"

	// Keyboard
	EventKeyDown EventType = "keydown"

	// Viewport observations
	EventScroll    EventType = "scroll"
	EventIntersect EventType = "intersect"

	// Uncaught client-side errors
	EventError EventType = "error"
)

var knownEvents = map[EventType]bool{
	EventHello:     true,
	EventClick:     true,
	EventAnchor:    true,
	EventProject:   true,
	EventInput:     true,
	EventBlur:      true,
	EventSubmit:    true,
	EventSubscribe: true,
	EventKeyDown:   true,
	EventScroll:    true,
	EventIntersect: true,
	EventError:     true,
}

// Valid reports whether the event type is one the server understands.
func (et EventType) Valid() bool {
	return knownEvents[et]
}

// SectionOffset is the measured position of a page section.
type SectionOffset struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height,omitempty"`
}

// Event is a decoded client event.
//
// Only the fields relevant to the event type are populated.
type Event struct {
	Type   EventType `json:"type"`
	Target string    `json:"target,omitempty"`

	// input, blur
	Value string `json:"value,omitempty"`

	// subscribe, submit (subscribe box state)
	Checked bool `json:"checked,omitempty"`

	// submit
	Fields map[string]string `json:"fields,omitempty"`

	// keydown
	Key  string `json:"key,omitempty"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Meta bool   `json:"meta,omitempty"`

	// scroll
	ScrollY  float64         `json:"scrollY,omitempty"`
	Sections []SectionOffset `json:"sections,omitempty"`

	// anchor
	Href string `json:"href,omitempty"`

	// project
	Index int `json:"index,omitempty"`

	// intersect
	Targets []string `json:"targets,omitempty"`

	// hello
	IDs    []string       `json:"ids,omitempty"`
	Counts map[string]int `json:"counts,omitempty"`

	// error
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Decoding errors.
var (
	ErrEmptyMessage     = errors.New("protocol: empty message")
	ErrMessageTooLarge  = errors.New("protocol: message too large")
	ErrUnknownEventType = errors.New("protocol: unknown event type")
	ErrTooManyItems     = errors.New("protocol: too many items")
)

// DecodeEvent parses a client message and validates it against limits.
func DecodeEvent(data []byte) (*Event, error) {
	return DecodeEventWithLimits(data, DefaultLimits())
}

// DecodeEventWithLimits parses a client message using custom limits.
func DecodeEventWithLimits(data []byte, limits Limits) (*Event, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}
	if limits.MaxMessageBytes > 0 && len(data) > limits.MaxMessageBytes {
		return nil, ErrMessageTooLarge
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("protocol: decode event: %w", err)
	}
	if !ev.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, ev.Type)
	}
	if limits.MaxSections > 0 && len(ev.Sections) > limits.MaxSections {
		return nil, fmt.Errorf("%w: %d sections", ErrTooManyItems, len(ev.Sections))
	}
	if limits.MaxTargets > 0 && len(ev.Targets) > limits.MaxTargets {
		return nil, fmt.Errorf("%w: %d targets", ErrTooManyItems, len(ev.Targets))
	}
	if limits.MaxTargets > 0 && len(ev.IDs) > limits.MaxTargets {
		return nil, fmt.Errorf("%w: %d ids", ErrTooManyItems, len(ev.IDs))
	}
	if limits.MaxValueBytes > 0 {
		if len(ev.Value) > limits.MaxValueBytes {
			return nil, fmt.Errorf("%w: value of %d bytes", ErrMessageTooLarge, len(ev.Value))
		}
		for k, v := range ev.Fields {
			if len(v) > limits.MaxValueBytes {
				return nil, fmt.Errorf("%w: field %s of %d bytes", ErrMessageTooLarge, k, len(v))
			}
		}
	}
	return &ev, nil
}
