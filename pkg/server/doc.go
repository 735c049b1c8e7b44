// Package server hosts the portfolio page and its live sessions.
//
// The server renders the page with the visitor's persisted form values,
// serves the thin client, and upgrades /_folio/ws to a WebSocket session.
// Each open page gets one Session holding a contact.Controller and a
// page.Controller.
//
// # Session Lifecycle
//
// A session runs three goroutines:
//   - readLoop: reads JSON events, decodes them, queues them
//   - eventLoop: runs events and deferred callbacks one at a time, then
//     flushes the collected patch operations as one batch
//   - pingLoop: sends heartbeat pings
//
// Controller state is only touched from the event loop. Timers started by
// the contact form fire on the runtime timer goroutine and are dispatched
// back onto the event loop before they run.
//
// # Event Processing
//
//  1. readLoop decodes an event frame
//  2. the event is queued for eventLoop
//  3. the middleware chain (recover, tracing, metrics) wraps dispatch
//  4. the controllers emit patch operations into the session outbox
//  5. the outbox is encoded as {"seq":n,"ops":[...]} and written
//
// # Routes
//
//	GET /                    page, pre-filled from the field store
//	GET /_folio/folio.<h>.js thin client, fingerprinted and immutable
//	GET /_folio/client.js    thin client, ETag cached
//	GET /_folio/ws           live session
//	GET /api/projects        project catalog JSON
//	GET /api/projects/{i}    one project
//	GET /healthz             liveness
//	GET /metrics             Prometheus exposition
package server
