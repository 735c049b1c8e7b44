package site

import (
	"testing"

	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/page"
	"github.com/vango-dev/folio/pkg/vdom"
	"github.com/vango-dev/folio/pkg/vtest"
)

func testContent() Content {
	return Content{
		Profile:  DefaultProfile(),
		Projects: page.Projects(),
	}
}

func TestPage_ContractElements(t *testing.T) {
	root := Page(testContent())

	for _, id := range []string{
		page.ElementMenuButton, page.ElementMobileMenu, page.ElementScrollTop,
		contact.ElementForm, contact.ElementBanner, contact.ElementSubmit, contact.ElementSubscribe,
		"name", "email", "subject", "message",
		"nameError", "emailError", "subjectError", "messageError",
	} {
		n := len(root.Find(func(v *vdom.VNode) bool { return v.ID() == id }))
		if n != 1 {
			t.Errorf("#%s appears %d times, want 1", id, n)
		}
	}

	links := root.Find(func(v *vdom.VNode) bool { return v.HasClass("project-link") })
	if len(links) != page.ProjectCount {
		t.Errorf("project links = %d, want %d", len(links), page.ProjectCount)
	}
	for i, l := range links {
		if got := l.Props["data-index"]; got != string(rune('0'+i)) {
			t.Errorf("link %d data-index = %v", i, got)
		}
	}
}

func TestPage_HiddenAtLoad(t *testing.T) {
	root := Page(testContent())
	for _, id := range []string{page.ElementMobileMenu, page.ElementScrollTop, contact.ElementBanner, "emailError"} {
		nodes := root.Find(func(v *vdom.VNode) bool { return v.ID() == id })
		if len(nodes) != 1 || !nodes[0].HasClass("hidden") {
			t.Errorf("#%s should start hidden", id)
		}
	}
}

func TestPage_PrefillsValues(t *testing.T) {
	c := testContent()
	c.Values = map[contact.FieldID]string{
		contact.FieldName:    `Ada "The Countess"`,
		contact.FieldMessage: "<draft>",
	}
	root := Page(c)

	vtest.ExpectAttribute(t, root, "value", "Ada &quot;The Countess&quot;")
	vtest.ExpectContains(t, root, "&lt;draft&gt;</textarea>")

	email := root.Find(func(v *vdom.VNode) bool { return v.ID() == "email" })
	if len(email) != 1 {
		t.Fatalf("email inputs = %d", len(email))
	}
	if _, ok := email[0].Props["value"]; ok {
		t.Error("empty field should have no value attribute")
	}
}

func TestLayout(t *testing.T) {
	root := Page(testContent())
	l := Layout(root)

	want := []string{"home", "about", "skills", "projects", "contact"}
	if len(l.Sections) != len(want) {
		t.Fatalf("sections = %v", l.Sections)
	}
	for i := range want {
		if l.Sections[i] != want[i] {
			t.Errorf("section %d = %q, want %q", i, l.Sections[i], want[i])
		}
	}

	if len(l.NavLinks) != len(want) {
		t.Fatalf("nav links = %v", l.NavLinks)
	}
	for i, link := range l.NavLinks {
		if link.ID != NavLinkID(want[i]) || link.Section() != want[i] {
			t.Errorf("nav link %d = %+v", i, link)
		}
	}
}

func TestRevealTargets(t *testing.T) {
	c := testContent()
	ids := RevealTargets(Page(c))
	if len(ids) != len(c.Profile.Skills)+len(c.Projects) {
		t.Fatalf("targets = %v", ids)
	}
	if ids[0] != SkillCardID(0) || ids[len(ids)-1] != ProjectCardID(2) {
		t.Errorf("targets = %v", ids)
	}
}

func TestPage_Renders(t *testing.T) {
	root := Page(testContent())
	vtest.ExpectContains(t, root, "Alex Morgan")
	vtest.ExpectContains(t, root, "E-Commerce Platform")
	vtest.ExpectAttribute(t, root, "id", "contactForm")
	vtest.ExpectContains(t, root, "<form class=\"space-y-6 bg-white p-8 rounded-xl shadow\" id=\"contactForm\" novalidate>")
	vtest.ExpectNotContains(t, root, "input-error")
}
