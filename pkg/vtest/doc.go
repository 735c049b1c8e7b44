// Package vtest provides testing helpers for folio pages and controllers.
//
// # In-Memory Page
//
// Page applies patch operations to an in-memory element model, so tests can
// assert on what the browser would show without running one:
//
//	page := vtest.NewPage("nameError", "formMessage")
//	ctrl := contact.New(ctx, contact.Options{View: page})
//	ctrl.Submit(ctx, contact.Snapshot{Email: "bad"})
//
//	if page.Hidden("emailError") {
//	    t.Error("email error should be visible")
//	}
//
// Elements passed to NewPage start hidden. Any other id is created on first
// use with no classes.
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, site.Page(data), `id="contactForm"`)
//	vtest.ExpectNotContains(t, node, "Error")
package vtest
