package vtest_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/folio/pkg/protocol"
	"github.com/vango-dev/folio/pkg/vdom"
	"github.com/vango-dev/folio/pkg/vtest"
)

func TestPage_Apply(t *testing.T) {
	page := vtest.NewPage("banner")

	if !page.Hidden("banner") {
		t.Fatal("banner should start hidden")
	}

	page.Apply(
		protocol.Show("banner"),
		protocol.AddClass("name", "input-error", "x"),
		protocol.RemoveClass("name", "x"),
		protocol.SetText("nameError", "bad"),
		protocol.SetValue("name", "Jo"),
		protocol.SetChecked("subscribe", true),
		protocol.SetDisabled("submitBtn", true),
	)
	page.Apply(protocol.ScrollTop(), protocol.Focus("home"), protocol.Alert("hi"))

	if page.Hidden("banner") {
		t.Error("banner should be visible")
	}
	if got := page.Classes("name"); len(got) != 1 || got[0] != "input-error" {
		t.Errorf("name classes = %v", got)
	}
	if page.Text("nameError") != "bad" {
		t.Errorf("Text = %q", page.Text("nameError"))
	}
	if page.Value("name") != "Jo" {
		t.Errorf("Value = %q", page.Value("name"))
	}
	if !page.Element("subscribe").Checked {
		t.Error("subscribe should be checked")
	}
	if !page.Element("submitBtn").Disabled {
		t.Error("submit should be disabled")
	}
	if page.ScrollTops() != 1 || page.Focused() != "home" {
		t.Errorf("scrollTops=%d focused=%q", page.ScrollTops(), page.Focused())
	}
	if alerts := page.Alerts(); len(alerts) != 1 || alerts[0] != "hi" {
		t.Errorf("Alerts = %v", alerts)
	}
	if page.Batches() != 2 {
		t.Errorf("Batches = %d, want 2", page.Batches())
	}
	if len(page.Ops()) != 10 {
		t.Errorf("Ops len = %d, want 10", len(page.Ops()))
	}

	page.Reset()
	if page.Batches() != 0 || len(page.Ops()) != 0 {
		t.Error("Reset should clear recorded ops")
	}
	if page.Value("name") != "Jo" {
		t.Error("Reset should keep element state")
	}
}

func TestRenderToString(t *testing.T) {
	node := vdom.Div(
		vdom.Class("container"),
		vdom.H1(vdom.Text("Hello")),
		vdom.P(vdom.Text("World")),
	)

	html := vtest.RenderToString(node)
	for _, want := range []string{"container", "Hello", "World"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}

	vtest.ExpectContains(t, node, "Hello")
	vtest.ExpectNotContains(t, node, "Goodbye")
	vtest.ExpectAttribute(t, node, "class", "container")
}
