// Package config loads folio's server configuration.
//
// Configuration comes from three layers, later layers winning:
//
//  1. defaults from New
//  2. an optional YAML file (folio.yaml by default)
//  3. FOLIO_ environment variables
//
// Environment keys map onto the YAML tree with a double underscore as the
// section separator, so FOLIO_STORE__DRIVER sets store.driver and
// FOLIO_CONTACT__SUBMIT_DELAY sets contact.submit_delay.
//
// Example folio.yaml:
//
//	server:
//	  addr: ":8080"
//	  allowed_origins: ["https://example.com"]
//	store:
//	  driver: sqlite
//	  dsn: "file:folio.db"
//	contact:
//	  submit_delay: 1.5s
//	  banner_duration: 5s
//	tracing:
//	  endpoint: "localhost:4318"
//	  insecure: true
package config
