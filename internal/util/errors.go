package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrUnknownCountry indicates a country name or code could not be resolved
	ErrUnknownCountry = errors.New("unknown country")

	// ErrPromptExit indicates the user aborted an interactive prompt (ctrl-D)
	// or prompts are disabled
	ErrPromptExit = errors.New("prompt aborted")

	// ErrUnsupportedFile indicates a file is not a supported audio format
	ErrUnsupportedFile = errors.New("unsupported file")

	// ErrMissingSchema indicates the database tables are absent
	ErrMissingSchema = errors.New("missing database schema")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
