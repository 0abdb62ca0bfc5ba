// Package dto defines data transfer objects for the pairs HTTP API.
package dto

// ErrorResponse is returned when the catalog could not be retrieved.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
