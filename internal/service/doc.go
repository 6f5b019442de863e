// Package service implements the application's business logic on top of the
// store interfaces: user signup and authentication (local and external
// identity) and task CRUD, search, and status grouping.
package service
