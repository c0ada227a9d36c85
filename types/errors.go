package types

import "errors"

// Error kinds shared across the proving pipeline. Every failure surfaced by
// the pipeline wraps exactly one of these, so callers can discriminate with
// errors.Is.
var (
	// ErrValidation marks malformed or out-of-range caller input, detected
	// before any hashing or proving takes place. Not retriable without
	// changing the inputs.
	ErrValidation = errors.New("validation error")
	// ErrArtifact marks missing or corrupt circuit artifacts. Not retriable
	// without fixing the artifact source.
	ErrArtifact = errors.New("artifact error")
	// ErrProofGeneration marks a proving backend failure. May be retried
	// with identical inputs.
	ErrProofGeneration = errors.New("proof generation error")
	// ErrEncoding marks a malformed proof object coming back from the
	// backend, which indicates a backend or version mismatch. Always fatal.
	ErrEncoding = errors.New("proof encoding error")
)
