// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreRequest caps a single storage or blob round trip made on behalf of an
// HTTP request.
const StoreRequest = 3 * time.Second

// MailSend caps delivery of one message to the SMTP relay.
const MailSend = 15 * time.Second
