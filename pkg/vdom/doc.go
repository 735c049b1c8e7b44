// Package vdom provides the virtual node tree used to build folio pages.
//
// A VNode is an element, a text node, a fragment or raw HTML. Pages are
// assembled with variadic element functions and rendered to HTML by package
// render:
//
//	Section(ID("about"), Class("py-20"),
//	    H2(Text("About Me")),
//	    P(Class("text-gray-600"), Text(bio)),
//	)
//
// Arguments may be attributes (Attr), child nodes (*VNode, []*VNode),
// strings (text children) or nil, which is ignored so conditional parts
// can be written inline with If.
//
// The tree is static once rendered: interactivity is driven by patch
// operations addressed to element ids, not by diffing trees.
package vdom
