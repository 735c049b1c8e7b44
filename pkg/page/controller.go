package page

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/vango-dev/folio/pkg/protocol"
)

// ErrControllerClosed is returned by operations after Close.
var ErrControllerClosed = errors.New("page: controller is closed")

// Element ids and classes the controller manipulates.
const (
	ElementMenuButton = "menuBtn"
	ElementMobileMenu = "mobileMenu"
	ElementScrollTop  = "scrollTopBtn"

	ClassSlideUp = "animate-slide-up"
)

// ActiveNavClasses mark the nav link of the section in view.
var ActiveNavClasses = []string{"text-blue-600", "font-semibold"}

// Thresholds, in CSS pixels.
const (
	// SpyOffset is how far above a section's top it becomes active.
	SpyOffset = 200
	// ScrollTopThreshold is the scroll position past which the
	// scroll-to-top button shows.
	ScrollTopThreshold = 500
)

// View receives the patch operations produced by the controller.
type View interface {
	Apply(ops ...protocol.Op)
}

// NavLink is an in-page navigation link tracked by the scroll spy.
type NavLink struct {
	ID   string
	Href string
}

// Section returns the section id the link points to.
func (l NavLink) Section() string {
	return strings.TrimPrefix(l.Href, "#")
}

// Layout describes the page the controller drives.
type Layout struct {
	// Sections are the section ids in document order.
	Sections []string

	// NavLinks are the scroll-spy links.
	NavLinks []NavLink
}

// Options configures a Controller.
type Options struct {
	View   View
	Logger *slog.Logger
}

// Controller holds the page state of one open page.
type Controller struct {
	mu     sync.Mutex
	layout Layout
	view   View
	logger *slog.Logger

	sections      map[string]bool
	menuOpen      bool
	active        string
	scrollTopShow bool
	revealed      map[string]bool
	closed        bool
}

// New creates a controller for layout. The menu starts closed, no section
// is active and the scroll-to-top button is hidden.
func New(layout Layout, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "page")
	}
	c := &Controller{
		view:     opts.View,
		logger:   opts.Logger,
		revealed: make(map[string]bool),
	}
	c.setLayout(layout)
	return c
}

func (c *Controller) setLayout(layout Layout) {
	c.layout = layout
	c.sections = make(map[string]bool, len(layout.Sections))
	for _, id := range layout.Sections {
		c.sections[id] = true
	}
}

// Hello records the section ids the client found on the page and checks
// the reported element counts. Violations are returned, not logged.
func (c *Controller) Hello(sectionIDs []string, counts map[string]int) []Violation {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(sectionIDs) > 0 {
		layout := c.layout
		layout.Sections = append([]string(nil), sectionIDs...)
		c.setLayout(layout)
	}
	return CheckContract(counts)
}

// ToggleMenu flips the mobile menu. Opening it also starts the slide-up
// animation.
func (c *Controller) ToggleMenu() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.menuOpen = !c.menuOpen
	var ops []protocol.Op
	if c.menuOpen {
		ops = []protocol.Op{
			protocol.Show(ElementMobileMenu),
			protocol.AddClass(ElementMobileMenu, ClassSlideUp),
		}
	} else {
		ops = []protocol.Op{protocol.Hide(ElementMobileMenu)}
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// CloseMenu hides the mobile menu. Clicking a link inside the menu calls
// this unconditionally.
func (c *Controller) CloseMenu() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.menuOpen = false
	c.mu.Unlock()

	c.apply([]protocol.Op{protocol.Hide(ElementMobileMenu)})
	return nil
}

// Sync re-sends the menu, nav highlight and scroll-to-top state, so a page
// that reconnects matches a fresh controller.
func (c *Controller) Sync() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	var ops []protocol.Op
	if c.menuOpen {
		ops = append(ops, protocol.Show(ElementMobileMenu))
	} else {
		ops = append(ops, protocol.Hide(ElementMobileMenu))
	}
	for _, link := range c.layout.NavLinks {
		if link.Section() == c.active && c.active != "" {
			ops = append(ops, protocol.AddClass(link.ID, ActiveNavClasses...))
		} else {
			ops = append(ops, protocol.RemoveClass(link.ID, ActiveNavClasses...))
		}
	}
	if c.scrollTopShow {
		ops = append(ops, protocol.Show(ElementScrollTop))
	} else {
		ops = append(ops, protocol.Hide(ElementScrollTop))
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// MenuOpen reports whether the mobile menu is shown.
func (c *Controller) MenuOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuOpen
}

// Scroll updates the scroll spy and the scroll-to-top button for a new
// scroll position. Only changes are emitted.
func (c *Controller) Scroll(scrollY float64, sections []protocol.SectionOffset) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}

	var ops []protocol.Op

	current := ActiveSection(scrollY, sections)
	if current != c.active {
		for _, link := range c.layout.NavLinks {
			switch link.Section() {
			case c.active:
				ops = append(ops, protocol.RemoveClass(link.ID, ActiveNavClasses...))
			case current:
				ops = append(ops, protocol.AddClass(link.ID, ActiveNavClasses...))
			}
		}
		c.active = current
	}

	show := scrollY > ScrollTopThreshold
	if show != c.scrollTopShow {
		c.scrollTopShow = show
		if show {
			ops = append(ops, protocol.Show(ElementScrollTop))
		} else {
			ops = append(ops, protocol.Hide(ElementScrollTop))
		}
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// ActiveSection returns the id of the last section whose top, less
// SpyOffset, is at or above scrollY. It returns "" if none qualifies.
func ActiveSection(scrollY float64, sections []protocol.SectionOffset) string {
	current := ""
	for _, s := range sections {
		if scrollY >= s.Top-SpyOffset {
			current = s.ID
		}
	}
	return current
}

// ActiveNav returns the section currently highlighted.
func (c *Controller) ActiveNav() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ScrollToTop scrolls the window smoothly to the top.
func (c *Controller) ScrollToTop() error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrControllerClosed
	}
	c.apply([]protocol.Op{protocol.ScrollTop()})
	return nil
}

// Anchor follows an in-page link. A bare "#" is left to the browser.
// A known section scrolls into view and closes the mobile menu if it is
// open. It reports whether the link was handled.
func (c *Controller) Anchor(href string) (bool, error) {
	if href == "#" || !strings.HasPrefix(href, "#") {
		return false, nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrControllerClosed
	}
	target := strings.TrimPrefix(href, "#")
	if !c.sections[target] {
		c.mu.Unlock()
		return false, nil
	}
	ops := []protocol.Op{protocol.ScrollIntoView(target)}
	if c.menuOpen {
		c.menuOpen = false
		ops = append(ops, protocol.Hide(ElementMobileMenu))
	}
	c.mu.Unlock()

	c.apply(ops)
	return true, nil
}

// Intersect reveals each newly visible card once and stops observing it.
func (c *Controller) Intersect(targets []string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	var ops []protocol.Op
	for _, id := range targets {
		if id == "" || c.revealed[id] {
			continue
		}
		c.revealed[id] = true
		ops = append(ops,
			protocol.AddClass(id, ClassSlideUp),
			protocol.Unobserve(id),
		)
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// Revealed reports whether the card id has been revealed.
func (c *Controller) Revealed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed[id]
}

// KeyDown handles the page shortcuts: Escape closes an open mobile menu,
// Ctrl+S or Cmd+S focuses the first section.
func (c *Controller) KeyDown(key string, ctrl, meta bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	var ops []protocol.Op
	switch {
	case key == "Escape" && c.menuOpen:
		c.menuOpen = false
		ops = append(ops, protocol.Hide(ElementMobileMenu))
	case key == "s" && (ctrl || meta):
		if len(c.layout.Sections) > 0 {
			ops = append(ops, protocol.Focus(c.layout.Sections[0]))
		}
	}
	c.mu.Unlock()

	c.apply(ops)
	return nil
}

// ShowProject opens the detail alert for the project link at index.
func (c *Controller) ShowProject(index int) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrControllerClosed
	}

	p, err := LookupProject(index)
	if err != nil {
		c.logger.Warn("project click ignored", "index", index)
		return err
	}
	c.apply([]protocol.Op{protocol.Alert(p.AlertText())})
	return nil
}

// ReportError logs an uncaught error raised in the browser.
func (c *Controller) ReportError(message, source string, line int) {
	c.logger.Error("page error", "message", message, "source", source, "line", line)
}

// Close detaches the controller. Later calls return ErrControllerClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Controller) apply(ops []protocol.Op) {
	if len(ops) == 0 || c.view == nil {
		return
	}
	c.view.Apply(ops...)
}
