package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/vango-dev/folio/pkg/vdom"
)

// DefaultClientScript is the path of the thin client.
const DefaultClientScript = "/_folio/client.js"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Description fills the description meta tag.
	Description string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// HeadScripts are external scripts loaded in the head, e.g. a CSS
	// framework runtime.
	HeadScripts []string

	// Styles contains inline CSS. Written verbatim.
	Styles []string

	// BodyClass is the class attribute of the body element.
	BodyClass string

	// BodyData becomes data-* attributes on the body element. The thin
	// client reads its bootstrap configuration from them.
	BodyData map[string]string

	// ClientScript is the path to the thin client JavaScript.
	// Defaults to DefaultClientScript.
	ClientScript string

	// Lang is the language attribute for the html element.
	// Defaults to "en".
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	ew := &errWriter{w: w}

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	ew.WriteString("<!DOCTYPE html>\n")
	ew.WriteString(`<html lang="` + escapeAttr(lang) + `">` + "\n")
	r.renderHead(ew, page)

	ew.WriteString("<body")
	if page.BodyClass != "" {
		ew.WriteString(` class="` + escapeAttr(page.BodyClass) + `"`)
	}
	keys := make([]string, 0, len(page.BodyData))
	for k := range page.BodyData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ew.WriteString(fmt.Sprintf(` data-%s="%s"`, escapeAttr(k), escapeAttr(page.BodyData[k])))
	}
	ew.WriteString(">\n")

	r.renderNode(ew, page.Body, 0)

	clientPath := page.ClientScript
	if clientPath == "" {
		clientPath = DefaultClientScript
	}
	ew.WriteString(`  <script src="` + escapeAttr(clientPath) + `" defer></script>` + "\n")
	ew.WriteString("</body>\n</html>\n")
	return ew.err
}

func (r *Renderer) renderHead(w *errWriter, page PageData) {
	w.WriteString("<head>\n")
	w.WriteString(`  <meta charset="utf-8">` + "\n")
	w.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")

	if page.Title != "" {
		w.WriteString("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}
	if page.Description != "" {
		w.WriteString(`  <meta name="description" content="` + escapeAttr(page.Description) + `">` + "\n")
	}
	for _, href := range page.StyleSheets {
		w.WriteString(`  <link rel="stylesheet" href="` + escapeAttr(href) + `">` + "\n")
	}
	for _, src := range page.HeadScripts {
		w.WriteString(`  <script src="` + escapeAttr(src) + `"></script>` + "\n")
	}
	for _, style := range page.Styles {
		w.WriteString("  <style>" + style + "</style>\n")
	}
	w.WriteString("</head>\n")
}
