package vtest

import (
	"sort"
	"sync"

	"github.com/vango-dev/folio/pkg/protocol"
)

// Element is the in-memory state of one page element.
type Element struct {
	Classes  map[string]bool
	Text     string
	Value    string
	Checked  bool
	Disabled bool
}

// Page is an in-memory page that records applied patch operations.
// It implements contact.View and page.View.
type Page struct {
	mu       sync.Mutex
	elements map[string]*Element

	ops          []protocol.Op
	batches      int
	alerts       []string
	scrollTops   int
	scrolledInto []string
	focused      string
	unobserved   []string
}

// NewPage creates a page whose listed elements start hidden.
func NewPage(hidden ...string) *Page {
	p := &Page{elements: make(map[string]*Element)}
	for _, id := range hidden {
		p.elementLocked(id).Classes["hidden"] = true
	}
	return p
}

// Apply applies ops in order as one batch.
func (p *Page) Apply(ops ...protocol.Op) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batches++
	for _, op := range ops {
		p.ops = append(p.ops, op)
		switch op.Kind {
		case protocol.OpAddClass:
			el := p.elementLocked(op.Target)
			for _, c := range op.Classes {
				el.Classes[c] = true
			}
		case protocol.OpRemoveClass:
			el := p.elementLocked(op.Target)
			for _, c := range op.Classes {
				delete(el.Classes, c)
			}
		case protocol.OpShow:
			delete(p.elementLocked(op.Target).Classes, "hidden")
		case protocol.OpHide:
			p.elementLocked(op.Target).Classes["hidden"] = true
		case protocol.OpSetText:
			p.elementLocked(op.Target).Text = op.Text
		case protocol.OpSetValue:
			p.elementLocked(op.Target).Value = op.Text
		case protocol.OpSetChecked:
			p.elementLocked(op.Target).Checked = op.Bool
		case protocol.OpSetDisabled:
			p.elementLocked(op.Target).Disabled = op.Bool
		case protocol.OpScrollTop:
			p.scrollTops++
		case protocol.OpScrollIntoView:
			p.scrolledInto = append(p.scrolledInto, op.Target)
		case protocol.OpFocus:
			p.focused = op.Target
		case protocol.OpAlert:
			p.alerts = append(p.alerts, op.Text)
		case protocol.OpUnobserve:
			p.unobserved = append(p.unobserved, op.Target)
		}
	}
}

func (p *Page) elementLocked(id string) *Element {
	el, ok := p.elements[id]
	if !ok {
		el = &Element{Classes: make(map[string]bool)}
		p.elements[id] = el
	}
	return el
}

// Element returns a copy of the element state.
func (p *Page) Element(id string) Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	el := p.elementLocked(id)
	cp := *el
	cp.Classes = make(map[string]bool, len(el.Classes))
	for c := range el.Classes {
		cp.Classes[c] = true
	}
	return cp
}

// HasClass reports whether element id carries class.
func (p *Page) HasClass(id, class string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elementLocked(id).Classes[class]
}

// Classes returns the sorted classes of element id.
func (p *Page) Classes(id string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0)
	for c := range p.elementLocked(id).Classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Hidden reports whether element id carries the "hidden" class.
func (p *Page) Hidden(id string) bool {
	return p.HasClass(id, "hidden")
}

// Text returns the text content of element id.
func (p *Page) Text(id string) string {
	return p.Element(id).Text
}

// Value returns the value of input id.
func (p *Page) Value(id string) string {
	return p.Element(id).Value
}

// Ops returns every operation applied so far.
func (p *Page) Ops() []protocol.Op {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]protocol.Op(nil), p.ops...)
}

// Batches returns the number of Apply calls.
func (p *Page) Batches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batches
}

// Alerts returns the alert texts shown so far.
func (p *Page) Alerts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.alerts...)
}

// ScrollTops returns how many times the window was scrolled to the top.
func (p *Page) ScrollTops() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrollTops
}

// ScrolledInto returns the ids scrolled into view, in order.
func (p *Page) ScrolledInto() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.scrolledInto...)
}

// Focused returns the id of the last focused element.
func (p *Page) Focused() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focused
}

// Unobserved returns the ids removed from reveal observation.
func (p *Page) Unobserved() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.unobserved...)
}

// Reset forgets recorded operations but keeps element state.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ops = nil
	p.batches = 0
	p.alerts = nil
	p.scrollTops = 0
	p.scrolledInto = nil
	p.focused = ""
	p.unobserved = nil
}
