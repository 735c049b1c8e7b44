package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"input","target":"name","value":"Ada"}`))
	if err != nil {
		t.Fatalf("DecodeEvent error: %v", err)
	}
	if ev.Type != EventInput {
		t.Errorf("Type = %q, want %q", ev.Type, EventInput)
	}
	if ev.Target != "name" || ev.Value != "Ada" {
		t.Errorf("got target=%q value=%q", ev.Target, ev.Value)
	}
}

func TestDecodeEventSubmitSnapshot(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"submit","checked":true,"fields":{"name":"Ada","email":"a@b.c"}}`))
	if err != nil {
		t.Fatalf("DecodeEvent error: %v", err)
	}
	if !ev.Checked {
		t.Error("Checked should be true")
	}
	if ev.Fields["email"] != "a@b.c" {
		t.Errorf("Fields[email] = %q", ev.Fields["email"])
	}
}

func TestDecodeEventErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", ``, ErrEmptyMessage},
		{"unknown type", `{"type":"teleport"}`, ErrUnknownEventType},
		{"missing type", `{"target":"x"}`, ErrUnknownEventType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeEvent([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestDecodeEventLimits(t *testing.T) {
	limits := Limits{MaxMessageBytes: 64, MaxValueBytes: 4, MaxSections: 1, MaxTargets: 1}

	if _, err := DecodeEventWithLimits([]byte(`{"type":"input","value":"`+strings.Repeat("x", 80)+`"}`), limits); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("oversized message: err = %v", err)
	}
	if _, err := DecodeEventWithLimits([]byte(`{"type":"input","value":"hello"}`), limits); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("oversized value: err = %v", err)
	}
	if _, err := DecodeEventWithLimits([]byte(`{"type":"scroll","sections":[{"id":"a"},{"id":"b"}]}`), limits); !errors.Is(err, ErrTooManyItems) {
		t.Errorf("too many sections: err = %v", err)
	}
	if _, err := DecodeEventWithLimits([]byte(`{"type":"intersect","targets":["a","b"]}`), limits); !errors.Is(err, ErrTooManyItems) {
		t.Errorf("too many targets: err = %v", err)
	}
}

func TestEncodePatches(t *testing.T) {
	data, err := EncodePatches(3, []Op{
		AddClass("name", "input-error"),
		Show("nameError"),
		SetChecked("subscribe", false),
	})
	if err != nil {
		t.Fatalf("EncodePatches error: %v", err)
	}

	var got Patches
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Seq != 3 {
		t.Errorf("Seq = %d, want 3", got.Seq)
	}
	if len(got.Ops) != 3 {
		t.Fatalf("len(Ops) = %d, want 3", len(got.Ops))
	}
	if got.Ops[0].Kind != OpAddClass || got.Ops[0].Classes[0] != "input-error" {
		t.Errorf("Ops[0] = %+v", got.Ops[0])
	}
	if !strings.Contains(string(data), `"op":"show"`) {
		t.Errorf("encoded batch missing show op: %s", data)
	}
}
