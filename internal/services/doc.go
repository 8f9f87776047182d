// Package services holds the business logic between the HTTP transport and
// the cache layer. Services take the cache snapshot once per call and answer
// queries from it, translating domain errors into the package's sentinel
// errors for the handlers to map onto HTTP status codes.
package services
