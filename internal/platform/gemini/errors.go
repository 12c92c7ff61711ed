package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the client is constructed with
	// missing or invalid configuration.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrEmptyResponse is returned when the API reply carries no usable
	// candidate content.
	ErrEmptyResponse = errors.New("empty response from model")
)
