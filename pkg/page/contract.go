package page

import (
	"fmt"
	"strings"
)

// Requirement is one rule of the page structure the controllers rely on.
// Max < 0 means unbounded.
type Requirement struct {
	Selector string
	Min      int
	Max      int
}

// Violation is a Requirement the page did not meet.
type Violation struct {
	Requirement
	Found int
}

func (v Violation) String() string {
	switch {
	case v.Max < 0:
		return fmt.Sprintf("%s: found %d, want at least %d", v.Selector, v.Found, v.Min)
	case v.Min == v.Max:
		return fmt.Sprintf("%s: found %d, want exactly %d", v.Selector, v.Found, v.Min)
	default:
		return fmt.Sprintf("%s: found %d, want %d..%d", v.Selector, v.Found, v.Min, v.Max)
	}
}

// Contract lists the elements the page must provide. The client counts
// each selector on connect and reports the numbers.
func Contract() []Requirement {
	exactlyOne := []string{
		"#menuBtn",
		"#mobileMenu",
		"#contactForm",
		"#formMessage",
		"#name", "#email", "#subject", "#message",
		"#nameError", "#emailError", "#subjectError", "#messageError",
		"#subscribe",
		"#submitBtn",
		"#scrollTopBtn",
	}
	reqs := make([]Requirement, 0, len(exactlyOne)+3)
	for _, sel := range exactlyOne {
		reqs = append(reqs, Requirement{Selector: sel, Min: 1, Max: 1})
	}
	reqs = append(reqs,
		Requirement{Selector: ".nav-link", Min: 1, Max: -1},
		Requirement{Selector: "section[id]", Min: 1, Max: -1},
		Requirement{Selector: ".project-link", Min: ProjectCount, Max: ProjectCount},
	)
	return reqs
}

// Selectors returns the selectors of Contract, in order.
func Selectors() []string {
	reqs := Contract()
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Selector
	}
	return out
}

// CheckContract compares reported selector counts against Contract.
// Selectors missing from counts count as zero.
func CheckContract(counts map[string]int) []Violation {
	var out []Violation
	for _, r := range Contract() {
		n := counts[r.Selector]
		if n < r.Min || (r.Max >= 0 && n > r.Max) {
			out = append(out, Violation{Requirement: r, Found: n})
		}
	}
	return out
}

// FormatViolations joins violations for a single log line.
func FormatViolations(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}
