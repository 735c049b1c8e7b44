package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (trusted content only)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
}

// Props holds element attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// ID returns the element's id attribute, or "".
func (v *VNode) ID() string {
	if v == nil || v.Props == nil {
		return ""
	}
	id, _ := v.Props["id"].(string)
	return id
}

// HasClass reports whether the element's class attribute contains class.
func (v *VNode) HasClass(class string) bool {
	if v == nil || v.Props == nil {
		return false
	}
	classes, _ := v.Props["class"].(string)
	for _, c := range splitFields(classes) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk calls fn for v and every descendant in document order.
// Returning false from fn skips the node's children.
func (v *VNode) Walk(fn func(*VNode) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// Find returns every element in the tree for which match returns true.
func (v *VNode) Find(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.Walk(func(n *VNode) bool {
		if n.Kind == KindElement && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
