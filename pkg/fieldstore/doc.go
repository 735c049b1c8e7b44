// Package fieldstore persists in-progress contact form values between page
// loads.
//
// Values are plain strings stored under a key (for example "form_email")
// within a scope. The server uses the visitor cookie as the scope, so each
// browser sees only its own text, like a page's local storage.
//
// # Backends
//
//	store := fieldstore.NewMemoryStore()
//	// or
//	store := fieldstore.NewSQLStore(db, fieldstore.WithSQLDialect(fieldstore.DialectSQLite))
//	// or
//	store := fieldstore.NewS3Store(s3Client, "my-bucket")
//	// or
//	store := fieldstore.NewRedisStore(redisClient)
//
// Open builds one of these from configuration.
//
// # Clearing
//
// Delete removes several keys in a single backend operation, so a reader
// never observes a partially cleared form:
//
//	bucket := fieldstore.NewBucket(store, visitorID)
//	err := bucket.Delete(ctx, "form_name", "form_email", "form_subject", "form_message")
package fieldstore
