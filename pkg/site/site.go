package site

import (
	"strconv"

	"github.com/vango-dev/folio/pkg/contact"
	"github.com/vango-dev/folio/pkg/page"

	. "github.com/vango-dev/folio/pkg/vdom"
)

// NavSection is a top-level page section reachable from the navigation.
type NavSection struct {
	ID    string
	Label string
}

// NavSections lists the page sections in document order.
func NavSections() []NavSection {
	return []NavSection{
		{ID: "home", Label: "Home"},
		{ID: "about", Label: "About"},
		{ID: "skills", Label: "Skills"},
		{ID: "projects", Label: "Projects"},
		{ID: "contact", Label: "Contact"},
	}
}

// Content is everything the page renders.
type Content struct {
	Profile  Profile
	Projects []page.Project

	// Values pre-fills the contact form with persisted input.
	Values map[contact.FieldID]string
}

// NavLinkID returns the id of the desktop nav link for a section.
func NavLinkID(section string) string {
	return "nav-" + section
}

// SkillCardID and ProjectCardID name the reveal-on-scroll cards.
func SkillCardID(i int) string   { return "skill-" + strconv.Itoa(i) }
func ProjectCardID(i int) string { return "project-" + strconv.Itoa(i) }

// Page builds the full page body.
func Page(d Content) *VNode {
	return Fragment(
		header(d.Profile),
		Main(
			hero(d.Profile),
			about(d.Profile),
			skills(d.Profile.Skills),
			projects(d.Projects),
			contactSection(d),
		),
		footer(d.Profile),
		Button(
			ID(page.ElementScrollTop),
			Type("button"),
			AriaLabel("Scroll to top"),
			Class("fixed bottom-8 right-8 w-12 h-12 bg-gradient-to-r from-blue-600 to-purple-600 text-white rounded-full shadow-lg hover:shadow-xl transform hover:scale-110 transition z-40 hidden font-bold text-lg"),
			Text("↑"),
		),
	)
}

func header(p Profile) *VNode {
	sections := NavSections()
	return Header(
		Class("fixed top-0 inset-x-0 bg-white/90 backdrop-blur shadow-sm z-50"),
		Nav(
			Class("max-w-6xl mx-auto px-6 py-4 flex items-center justify-between"),
			A(Href("#home"), Class("text-xl font-bold text-gray-900"), Text(p.Name)),
			Div(
				Class("hidden md:flex space-x-8"),
				Range(sections, func(_ int, s NavSection) *VNode {
					return A(
						ID(NavLinkID(s.ID)),
						Href("#"+s.ID),
						Class("nav-link text-gray-700 hover:text-blue-600 transition"),
						Text(s.Label),
					)
				}),
			),
			Button(
				ID(page.ElementMenuButton),
				Type("button"),
				AriaLabel("Toggle menu"),
				AriaControls(page.ElementMobileMenu),
				Class("md:hidden text-gray-700 text-2xl"),
				Text("☰"),
			),
		),
		Div(
			ID(page.ElementMobileMenu),
			Class("hidden md:hidden bg-white border-t px-6 py-4 space-y-3"),
			Range(sections, func(_ int, s NavSection) *VNode {
				return A(
					Href("#"+s.ID),
					Class("block text-gray-700 hover:text-blue-600"),
					Text(s.Label),
				)
			}),
		),
	)
}

func hero(p Profile) *VNode {
	return Section(
		ID("home"),
		TabIndex(-1),
		Class("min-h-screen flex items-center bg-gradient-to-br from-blue-50 to-purple-50 pt-20"),
		Div(
			Class("max-w-6xl mx-auto px-6"),
			P(Class("text-blue-600 font-semibold mb-2"), Text("Hi, I'm")),
			H1(Class("text-5xl md:text-6xl font-bold text-gray-900 mb-4"), Text(p.Name)),
			H2(Class("text-2xl text-gray-600 mb-6"), Text(p.Role)),
			P(Class("text-lg text-gray-600 max-w-2xl mb-8"), Text(p.Tagline)),
			Div(
				Class("space-x-4"),
				A(Href("#projects"), Class("px-6 py-3 bg-blue-600 text-white rounded-lg"), Text("View My Work")),
				A(Href("#contact"), Class("px-6 py-3 border border-blue-600 text-blue-600 rounded-lg"), Text("Get In Touch")),
			),
		),
	)
}

func about(p Profile) *VNode {
	return Section(
		ID("about"),
		TabIndex(-1),
		Class("py-20 bg-white"),
		Div(
			Class("max-w-4xl mx-auto px-6"),
			H2(Class("text-3xl font-bold text-gray-900 mb-8"), Text("About Me")),
			Range(p.About, func(_ int, para string) *VNode {
				return P(Class("text-gray-600 mb-4"), Text(para))
			}),
			P(Class("text-gray-500"), Textf("📍 %s", p.Location)),
		),
	)
}

func skills(list []Skill) *VNode {
	return Section(
		ID("skills"),
		TabIndex(-1),
		Class("py-20 bg-gray-50"),
		Div(
			Class("max-w-6xl mx-auto px-6"),
			H2(Class("text-3xl font-bold text-gray-900 mb-8"), Text("Skills")),
			Div(
				Class("grid md:grid-cols-2 lg:grid-cols-4 gap-6"),
				Range(list, func(i int, s Skill) *VNode {
					return Div(
						ID(SkillCardID(i)),
						Class("skill-card reveal bg-white p-6 rounded-xl shadow"),
						Div(Class("text-3xl mb-3"), Text(s.Icon)),
						H3(Class("font-semibold text-gray-900 mb-2"), Text(s.Name)),
						P(Class("text-gray-600 text-sm"), Text(s.Items)),
					)
				}),
			),
		),
	)
}

func projects(list []page.Project) *VNode {
	return Section(
		ID("projects"),
		TabIndex(-1),
		Class("py-20 bg-white"),
		Div(
			Class("max-w-6xl mx-auto px-6"),
			H2(Class("text-3xl font-bold text-gray-900 mb-8"), Text("Projects")),
			Div(
				Class("grid md:grid-cols-3 gap-8"),
				Range(list, func(i int, p page.Project) *VNode {
					return Div(
						ID(ProjectCardID(i)),
						Class("project-card reveal bg-gray-50 rounded-xl shadow p-6"),
						H3(Class("text-xl font-semibold text-gray-900 mb-2"), Text(p.Name)),
						P(Class("text-gray-500 text-sm mb-4"), Textf("%s · %s", p.Year, p.Team)),
						A(
							Href("#"),
							Data("index", strconv.Itoa(i)),
							Class("project-link text-blue-600 font-semibold hover:underline"),
							Text("View Details →"),
						),
					)
				}),
			),
		),
	)
}

func contactSection(d Content) *VNode {
	return Section(
		ID("contact"),
		TabIndex(-1),
		Class("py-20 bg-gray-50"),
		Div(
			Class("max-w-2xl mx-auto px-6"),
			H2(Class("text-3xl font-bold text-gray-900 mb-8"), Text("Get In Touch")),
			contactForm(d.Values),
		),
	)
}

const inputClass = "w-full px-4 py-3 border border-gray-300 rounded-lg focus:outline-none focus:ring-2 focus:ring-blue-500"

func contactForm(values map[contact.FieldID]string) *VNode {
	return Form(
		ID(contact.ElementForm),
		Novalidate(),
		Class("space-y-6 bg-white p-8 rounded-xl shadow"),
		Div(
			ID(contact.ElementBanner),
			Role("status"),
			AriaLive("polite"),
			Class("hidden p-4 bg-green-100 text-green-800 rounded-lg"),
			Strong(Text("✓ Success!")),
			Text(" Your message has been sent successfully. I'll get back to you soon!"),
		),
		field(contact.FieldName, "Name", "text", "Your name", values),
		field(contact.FieldEmail, "Email", "email", "you@example.com", values),
		field(contact.FieldSubject, "Subject", "text", "What's this about?", values),
		field(contact.FieldMessage, "Message", "", "Tell me about your project...", values),
		Div(
			Class("flex items-center"),
			Input(ID(contact.ElementSubscribe), Type("checkbox"), Name(contact.ElementSubscribe), Class("mr-2")),
			Label(For(contact.ElementSubscribe), Class("text-gray-600"), Text("Subscribe to my newsletter")),
		),
		Button(
			ID(contact.ElementSubmit),
			Type("submit"),
			Class("w-full py-3 bg-blue-600 text-white rounded-lg font-semibold hover:bg-blue-700 transition"),
			Text(contact.DefaultSubmitLabel),
		),
	)
}

// field renders a labelled input, or a textarea when kind is "".
func field(id contact.FieldID, label, kind, placeholder string, values map[contact.FieldID]string) *VNode {
	name := string(id)
	var control *VNode
	if kind == "" {
		control = Textarea(ID(name), Name(name), Rows(5), Placeholder(placeholder), Class(inputClass), Text(values[id]))
	} else {
		control = Input(ID(name), Name(name), Type(kind), Placeholder(placeholder), Class(inputClass),
			AttrIf(values[id] != "", Value(values[id])))
	}
	return Div(
		Label(For(name), Class("block text-gray-700 font-medium mb-2"), Text(label)),
		control,
		P(ID(id.ErrorElement()), Class("hidden text-red-500 text-sm mt-1")),
	)
}

func footer(p Profile) *VNode {
	return Footer(
		Class("py-8 bg-gray-900 text-gray-400 text-center"),
		Div(
			Class("space-x-6 mb-4"),
			Range(p.Socials, func(_ int, s Social) *VNode {
				return A(Href(s.URL), Target("_blank"), Rel("noopener"), Class("hover:text-white"), Text(s.Label))
			}),
			A(Href("mailto:"+p.Email), Class("hover:text-white"), Text(p.Email)),
		),
		P(Textf("© %s", p.Name)),
	)
}

// Layout extracts the scroll-spy layout from a page tree.
func Layout(root *VNode) page.Layout {
	var l page.Layout
	for _, s := range root.Find(func(n *VNode) bool { return n.Tag == "section" && n.ID() != "" }) {
		l.Sections = append(l.Sections, s.ID())
	}
	for _, a := range root.Find(func(n *VNode) bool { return n.HasClass("nav-link") }) {
		href, _ := a.Props["href"].(string)
		l.NavLinks = append(l.NavLinks, page.NavLink{ID: a.ID(), Href: href})
	}
	return l
}

// RevealTargets returns the ids of the skill and project cards.
func RevealTargets(root *VNode) []string {
	var ids []string
	for _, n := range root.Find(func(n *VNode) bool {
		return n.HasClass("skill-card") || n.HasClass("project-card")
	}) {
		ids = append(ids, n.ID())
	}
	return ids
}
