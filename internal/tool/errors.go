package tool

import "errors"

// Error definitions for the tool package.
var (
	// ErrUnknownTool is returned when a dispatch names a tool that is not
	// in the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when tool arguments fail schema
	// validation. No task is registered in that case.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)
