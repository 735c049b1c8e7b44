package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/folio/pkg/vdom"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain text", "Hello, World!", "Hello, World!"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry"},
		{"script tag", "<script>alert('xss')</script>", "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;"},
		{"double quote", `say "hello"`, "say &quot;hello&quot;"},
		{"newline kept", "a\nb", "a\nb"},
		{"unicode preserved", "Hello 世界 🌍", "Hello 世界 🌍"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeHTML(tt.input); got != tt.expected {
				t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{`x" onload="y`, "x&quot; onload=&quot;y"},
		{"a\nb\tc\rd", "a&#10;b&#9;c&#13;d"},
	}

	for _, tt := range tests {
		if got := escapeAttr(tt.input); got != tt.expected {
			t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderElement(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "nested",
			node: vdom.Div(vdom.Class("card"), vdom.H2(vdom.Text("Title"))),
			want: `<div class="card"><h2>Title</h2></div>`,
		},
		{
			name: "sorted attributes",
			node: vdom.A(vdom.Href("#about"), vdom.ID("nav-about"), vdom.Class("nav-link"), vdom.Text("About")),
			want: `<a class="nav-link" href="#about" id="nav-about">About</a>`,
		},
		{
			name: "void element",
			node: vdom.Input(vdom.Type("text"), vdom.ID("name"), vdom.Value(`O"Neil`)),
			want: `<input id="name" type="text" value="O&quot;Neil">`,
		},
		{
			name: "boolean attributes",
			node: vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Disabled(false)),
			want: `<input checked type="checkbox">`,
		},
		{
			name: "numeric attribute",
			node: vdom.Textarea(vdom.Rows(5), vdom.Text("<hi>")),
			want: `<textarea rows="5">&lt;hi&gt;</textarea>`,
		},
		{
			name: "fragment and raw",
			node: vdom.Fragment(vdom.Text("a&b"), vdom.Raw("<br>")),
			want: `a&amp;b<br>`,
		},
		{
			name: "nil node",
			node: nil,
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("RenderToString: %v", err)
			}
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	got, err := r.RenderToString(vdom.Div(vdom.P(vdom.Text("x"))))
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n  <p>\nx  </p>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	_, err := r.RenderToString(&vdom.VNode{Kind: vdom.VKind(42)})
	if err == nil {
		t.Error("expected error for unknown kind")
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestRenderWriterError(t *testing.T) {
	r := NewRenderer(RendererConfig{})
	err := r.RenderToWriter(failingWriter{}, vdom.Div(vdom.Text("x")))
	if !errors.Is(err, errWrite) {
		t.Errorf("err = %v, want %v", err, errWrite)
	}
	if err := r.RenderPage(failingWriter{}, PageData{}); !errors.Is(err, errWrite) {
		t.Errorf("RenderPage err = %v", err)
	}
}

func TestRenderPage(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	var buf strings.Builder
	err := r.RenderPage(&buf, PageData{
		Title:       "Jane <Dev>",
		Description: "Portfolio",
		StyleSheets: []string{"/static/site.css"},
		HeadScripts: []string{"https://cdn.tailwindcss.com"},
		Styles:      []string{".hidden{display:none}"},
		BodyClass:   "bg-gray-50",
		BodyData:    map[string]string{"ws": "/_folio/ws", "contract": "#a,#b"},
		Body:        vdom.Main(vdom.ID("top")),
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		"<title>Jane &lt;Dev&gt;</title>",
		`<meta name="description" content="Portfolio">`,
		`<link rel="stylesheet" href="/static/site.css">`,
		`<script src="https://cdn.tailwindcss.com"></script>`,
		"<style>.hidden{display:none}</style>",
		`<body class="bg-gray-50" data-contract="#a,#b" data-ws="/_folio/ws">`,
		`<main id="top"></main>`,
		`<script src="/_folio/client.js" defer></script>`,
		"</html>\n",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in:\n%s", want, html)
		}
	}
}
