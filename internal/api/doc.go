// Package api contains the HTTP handlers for the TaskDeck API.
//
// Handlers decode and validate request payloads, delegate all business
// decisions to the service layer, and translate service errors into
// sanitized HTTP responses. Nothing in this package touches the database
// directly.
package api
