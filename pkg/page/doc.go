// Package page implements the stateless reactions of the portfolio page:
// mobile menu, scroll spy, scroll-to-top button, anchor navigation,
// reveal-on-scroll, keyboard shortcuts and the project detail alert.
//
// A Controller holds the little state these reactions need (menu open,
// active section, revealed cards) for one open page and answers each event
// with patch operations through its View. The contact form lives in package
// contact.
package page
