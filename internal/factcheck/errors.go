package factcheck

import "errors"

var (
	// ErrNoCredential means a required model API key is not configured.
	ErrNoCredential = errors.New("missing model credential")
	// ErrEmptyCompletion means a model responded without usable text.
	ErrEmptyCompletion = errors.New("model returned empty completion")
	// ErrMalformedOutput means the structuring model's response could not be
	// parsed as JSON even after repair attempts.
	ErrMalformedOutput = errors.New("structuring model returned malformed output")
)
