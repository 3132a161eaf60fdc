package domain

import "errors"

// Errors surfaced by the evaluation core. Only load-time schema violations
// and batch length mismatches are hard failures; everything else degrades
// per pair.
var (
	// ErrMissingField indicates a required field was absent at load time.
	// This is fatal for the whole run.
	ErrMissingField = errors.New("missing required field")

	// ErrLengthMismatch indicates that parallel batch inputs (human
	// answers, AI answers, questions) have different lengths. Batch
	// scorers fail with this rather than silently truncating.
	ErrLengthMismatch = errors.New("parallel input lists have mismatched lengths")

	// ErrNoPairs indicates the dataset produced no response pairs.
	ErrNoPairs = errors.New("dataset contains no response pairs")
)
