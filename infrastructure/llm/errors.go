package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahrav/go-mimic/internal/ports"
)

// Common errors returned by the client and providers. Response-shape
// failures wrap ports.ErrInvalidResponse so callers above the port boundary
// can match them without importing this package.
var (
	// ErrEmptyAPIKey indicates a required API key was not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")

	// ErrEmptyResponse indicates the provider returned no content.
	ErrEmptyResponse = fmt.Errorf("%w: empty response from API", ports.ErrInvalidResponse)

	// ErrNoResponseChoice indicates the response contained no choices.
	ErrNoResponseChoice = fmt.Errorf("%w: no response choices returned", ports.ErrInvalidResponse)
)

// ErrorType classifies provider errors for standardized handling.
type ErrorType int

const (
	// ErrorTypeUnknown is an error of undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication covers invalid or rejected credentials.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit covers throttled requests.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest covers malformed requests or parameters.
	ErrorTypeBadRequest
	// ErrorTypeServerError covers provider-side failures.
	ErrorTypeServerError
	// ErrorTypeTimeout covers deadline and cancellation failures.
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ProviderError normalizes provider-specific failures into one shape with
// a classified type and the original error preserved for unwrapping.
type ProviderError struct {
	// Provider names the LLM provider that produced the error.
	Provider string
	// Type classifies the error.
	Type ErrorType
	// StatusCode holds the HTTP status from the provider, if any.
	StatusCode int
	// Err is the underlying error.
	Err error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s error [%s]", e.Provider, e.Type)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.Err }

// Is maps the classified error type onto the port-level sentinels, so
// errors.Is(err, ports.ErrRateLimited) works on any wrapped provider error.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ports.ErrRateLimited:
		return e.Type == ErrorTypeRateLimit
	case ports.ErrAuthenticationFailed:
		return e.Type == ErrorTypeAuthentication
	case ports.ErrServiceUnavailable:
		return e.Type == ErrorTypeServerError
	}
	return false
}

// classifyStatus maps an HTTP status code from a provider to an ErrorType.
func classifyStatus(code int) ErrorType {
	switch {
	case code == 401 || code == 403:
		return ErrorTypeAuthentication
	case code == 429:
		return ErrorTypeRateLimit
	case code >= 500:
		return ErrorTypeServerError
	case code >= 400:
		return ErrorTypeBadRequest
	default:
		return ErrorTypeUnknown
	}
}

// wrapProviderError classifies err for the named provider, giving context
// errors their own type so callers can distinguish timeouts from rejections.
func wrapProviderError(provider string, statusCode int, err error) *ProviderError {
	errType := classifyStatus(statusCode)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		errType = ErrorTypeTimeout
	}
	return &ProviderError{Provider: provider, Type: errType, StatusCode: statusCode, Err: err}
}
