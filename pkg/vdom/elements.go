package vdom

import (
	"fmt"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string.
// Repeated class attributes are merged; other repeated attributes
// overwrite earlier ones.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		default:
			panic(fmt.Sprintf("vdom: unsupported argument %T for <%s>", arg, tag))
		}
	}

	if voidElements[tag] {
		node.Children = nil
	}
	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "class" {
		if existing, ok := v.Props["class"].(string); ok && existing != "" {
			if s, ok := a.Value.(string); ok && s != "" {
				v.Props["class"] = existing + " " + s
			}
			return
		}
	}
	v.Props[a.Key] = a.Value
}

func splitFields(s string) []string {
	return strings.Fields(s)
}

// Node creates an element with an arbitrary tag.
func Node(tag string, args ...any) *VNode { return createElement(tag, args) }

// Text creates a text node. Its content is escaped when rendered.
func Text(s string) *VNode { return &VNode{Kind: KindText, Text: s} }

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode { return Text(fmt.Sprintf(format, args...)) }

// Raw creates a node whose content is written without escaping.
func Raw(html string) *VNode { return &VNode{Kind: KindRaw, Text: html} }

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode {
	out := &VNode{Kind: KindFragment}
	for _, c := range children {
		if c != nil {
			out.Children = append(out.Children, c)
		}
	}
	return out
}

// If returns node when cond is true, otherwise nil.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// Range maps items to nodes.
func Range[T any](items []T, fn func(int, T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(i, item); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Document structure

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func Div(args ...any) *VNode     { return createElement("div", args) }

// Headings and text

func H1(args ...any) *VNode     { return createElement("h1", args) }
func H2(args ...any) *VNode     { return createElement("h2", args) }
func H3(args ...any) *VNode     { return createElement("h3", args) }
func P(args ...any) *VNode      { return createElement("p", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Ul(args ...any) *VNode     { return createElement("ul", args) }
func Li(args ...any) *VNode     { return createElement("li", args) }
func A(args ...any) *VNode      { return createElement("a", args) }
func Br() *VNode                { return createElement("br", nil) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
