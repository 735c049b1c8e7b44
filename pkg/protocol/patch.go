package protocol

import "encoding/json"

// OpKind is the type of patch operation.
type OpKind string

// Patch operation constants.
const (
	OpAddClass       OpKind = "addClass"
	OpRemoveClass    OpKind = "removeClass"
	OpSetText        OpKind = "setText"
	OpSetValue       OpKind = "setValue"
	OpSetChecked     OpKind = "setChecked"
	OpSetDisabled    OpKind = "setDisabled"
	OpShow           OpKind = "show" // remove the "hidden" class
	OpHide           OpKind = "hide" // add the "hidden" class
	OpScrollTop      OpKind = "scrollTop"
	OpScrollIntoView OpKind = "scrollIntoView"
	OpFocus          OpKind = "focus"
	OpAlert          OpKind = "alert"
	OpUnobserve      OpKind = "unobserve"
)

// Op is a single UI mutation.
type Op struct {
	Kind    OpKind   `json:"op"`
	Target  string   `json:"target,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Text    string   `json:"text,omitempty"`
	Bool    bool     `json:"bool,omitempty"`
}

// AddClass adds classes to the target element.
func AddClass(target string, classes ...string) Op {
	return Op{Kind: OpAddClass, Target: target, Classes: classes}
}

// RemoveClass removes classes from the target element.
func RemoveClass(target string, classes ...string) Op {
	return Op{Kind: OpRemoveClass, Target: target, Classes: classes}
}

// SetText replaces the text content of the target element.
func SetText(target, text string) Op {
	return Op{Kind: OpSetText, Target: target, Text: text}
}

// SetValue sets the value of an input or textarea.
func SetValue(target, value string) Op {
	return Op{Kind: OpSetValue, Target: target, Text: value}
}

// SetChecked sets the checked state of a checkbox.
func SetChecked(target string, checked bool) Op {
	return Op{Kind: OpSetChecked, Target: target, Bool: checked}
}

// SetDisabled sets the disabled state of a control.
func SetDisabled(target string, disabled bool) Op {
	return Op{Kind: OpSetDisabled, Target: target, Bool: disabled}
}

// Show reveals the target element.
func Show(target string) Op {
	return Op{Kind: OpShow, Target: target}
}

// Hide hides the target element.
func Hide(target string) Op {
	return Op{Kind: OpHide, Target: target}
}

// ScrollTop smoothly scrolls the window to the top.
func ScrollTop() Op {
	return Op{Kind: OpScrollTop}
}

// ScrollIntoView smoothly scrolls the target to the top of the viewport.
func ScrollIntoView(target string) Op {
	return Op{Kind: OpScrollIntoView, Target: target}
}

// Focus focuses the target element.
func Focus(target string) Op {
	return Op{Kind: OpFocus, Target: target}
}

// Alert shows a blocking alert with the given text.
func Alert(text string) Op {
	return Op{Kind: OpAlert, Text: text}
}

// Unobserve stops reveal observation of the target element.
func Unobserve(target string) Op {
	return Op{Kind: OpUnobserve, Target: target}
}

// Patches is a server → client batch.
type Patches struct {
	Seq uint64 `json:"seq"`
	Ops []Op   `json:"ops"`
}

// EncodePatches serializes a patch batch.
func EncodePatches(seq uint64, ops []Op) ([]byte, error) {
	return json.Marshal(Patches{Seq: seq, Ops: ops})
}
