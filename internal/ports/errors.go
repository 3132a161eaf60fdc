package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors from external capability adapters.
var (
	// ErrRateLimited indicates the external service throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates the external service is down.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAuthenticationFailed indicates the credential was rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidResponse indicates the service returned a response the
	// adapter could not interpret.
	ErrInvalidResponse = errors.New("invalid response")
)

// LLMError wraps a failure from the text-generation capability with the
// model and operation that produced it.
type LLMError struct {
	// Model is the identifier of the model that generated the error.
	Model string

	// Operation is the name of the operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error: model=%s, operation=%s, err=%v", e.Model, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error { return e.Err }

// NewLLMError creates an LLMError with the given details.
func NewLLMError(model, operation string, err error) *LLMError {
	return &LLMError{Model: model, Operation: operation, Err: err}
}

// EmbeddingError wraps a failure from the embedding capability.
type EmbeddingError struct {
	// Model is the embedding model involved in the failure.
	Model string

	// BatchSize is the number of texts in the failed request.
	BatchSize int

	// Err is the underlying error.
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding error: model=%s, batch=%d, err=%v", e.Model, e.BatchSize, e.Err)
}

// Unwrap returns the underlying error.
func (e *EmbeddingError) Unwrap() error { return e.Err }

// NewEmbeddingError creates an EmbeddingError with the given details.
func NewEmbeddingError(model string, batchSize int, err error) *EmbeddingError {
	return &EmbeddingError{Model: model, BatchSize: batchSize, Err: err}
}
