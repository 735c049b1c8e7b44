// Package errors provides coded, categorized errors for folio.
//
// Every fault that is worth reporting to an operator has a code in the
// registry. A FolioError carries the code, its category, a short message,
// an optional detail and suggestion, and the underlying error:
//
//	err := errors.New(errors.CodeMissingElement).
//	    WithDetail("#menuBtn: found 0, want exactly 1").
//	    WithSuggestion("Check that the page template renders the mobile menu button.")
//
// Servers log coded errors with LogAttrs; the CLI prints them with Format:
//
//	ERROR F001: Page element missing
//
//	  #menuBtn: found 0, want exactly 1
//
//	  Hint: Check that the page template renders the mobile menu button.
//
// # Error Categories
//
//   - config: page structure and configuration faults
//   - store: field store faults
//   - protocol: malformed client messages
//   - runtime: faults while handling an event
//   - cli: command line usage errors
package errors
