// Package render provides server-side rendering of vdom trees to HTML.
//
// It handles HTML5 element rendering, text and attribute escaping, void
// elements, boolean attributes and full page rendering with the thin client
// bootstrap.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Title:        "Jane Doe | Portfolio",
//	    Body:         site.Page(data),
//	    ClientScript: "/_folio/client.js?v=" + version,
//	    BodyData:     map[string]string{"contract": selectors},
//	}
//	err := renderer.RenderPage(w, page)
//
// # Security
//
// Text content and attribute values are escaped. KindRaw nodes and
// PageData.Styles are written verbatim and must only carry trusted content.
package render
