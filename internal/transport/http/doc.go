// Package http contains the chi HTTP handlers for the dashboard API. All
// endpoints answer with the {success, data, timestamp} envelope; responses
// served from the synthetic fallback dataset additionally carry a note field
// so clients can flag degraded data.
package http
