package render

// inlineElements don't get newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":        true,
	"b":        true,
	"br":       true,
	"code":     true,
	"em":       true,
	"i":        true,
	"label":    true,
	"small":    true,
	"span":     true,
	"strong":   true,
	"textarea": true,
	"button":   true,
}

// booleanAttrs are rendered as a bare name when true and omitted when false.
var booleanAttrs = map[string]bool{
	"async":      true,
	"autofocus":  true,
	"checked":    true,
	"defer":      true,
	"disabled":   true,
	"hidden":     true,
	"multiple":   true,
	"novalidate": true,
	"readonly":   true,
	"required":   true,
	"selected":   true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
