// Package site builds the portfolio page as a vdom tree.
//
// The markup carries the element ids and classes the page and contact
// controllers address: menuBtn, mobileMenu, nav-<section> links with class
// nav-link, skill and project cards, project-link triggers, the contact form
// with its <field>Error slots, formMessage, subscribe, submitBtn and
// scrollTopBtn.
//
// Layout extracts the sections and nav links from a rendered tree, so the
// scroll spy always matches the markup it drives.
package site
