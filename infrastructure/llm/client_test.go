package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mimic/internal/ports"
)

// fakeCore records calls and returns canned responses for middleware tests.
type fakeCore struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	lastOpts map[string]any
}

func (f *fakeCore) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	f.calls++
	f.lastOpts = opts
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		}
	}
	return f.response, 10, 5, f.err
}

func (f *fakeCore) GetModel() string { return "fake-model" }

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient("nonexistent", ClientConfig{APIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewClientEmptyAPIKey(t *testing.T) {
	_, err := NewClient("anthropic", ClientConfig{})
	assert.ErrorIs(t, err, ErrEmptyAPIKey)
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next CoreLLM) CoreLLM {
			return coreFunc(func(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
				order = append(order, name)
				return next.DoRequest(ctx, prompt, opts)
			})
		}
	}

	RegisterProviderFactory("test-order", func(ClientConfig) (CoreLLM, error) {
		return &fakeCore{response: "ok"}, nil
	})

	client, err := NewClient("test-order", ClientConfig{
		APIKey:     "key",
		Middleware: []Middleware{tag("outer"), tag("inner")},
	})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

// coreFunc adapts a function to CoreLLM for test middleware.
type coreFunc func(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error)

func (f coreFunc) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	return f(ctx, prompt, opts)
}

func (f coreFunc) GetModel() string { return "func-model" }

func TestTimeoutMiddleware(t *testing.T) {
	slow := &fakeCore{response: "ok", delay: 200 * time.Millisecond}
	wrapped := TimeoutMiddleware(20 * time.Millisecond)(slow)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeoutMiddlewareDisabled(t *testing.T) {
	core := &fakeCore{response: "ok"}
	wrapped := TimeoutMiddleware(0)(core)
	assert.Same(t, CoreLLM(core), wrapped)
}

func TestRateLimitMiddlewareRespectsContext(t *testing.T) {
	core := &fakeCore{response: "ok"}
	// One request per minute with no burst capacity forces an immediate wait.
	wrapped := RateLimitMiddleware(1.0/60.0, 1)(core)

	ctx := context.Background()
	_, _, _, err := wrapped.DoRequest(ctx, "first", nil)
	require.NoError(t, err)

	cancelled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, _, _, err = wrapped.DoRequest(cancelled, "second", nil)
	require.Error(t, err)
	assert.Equal(t, 1, core.calls)
}

func TestParseRequestOptions(t *testing.T) {
	opts := parseRequestOptions(map[string]any{
		"max_tokens":  256,
		"model":       "override",
		"temperature": 0.7,
		"system":      "be terse",
	}, "default-model")

	assert.Equal(t, 256, opts.MaxTokens)
	assert.Equal(t, "override", opts.Model)
	require.NotNil(t, opts.Temperature)
	assert.InDelta(t, 0.7, *opts.Temperature, 1e-9)
	assert.Equal(t, "be terse", opts.System)
}

func TestParseRequestOptionsDefaults(t *testing.T) {
	opts := parseRequestOptions(nil, "default-model")

	assert.Equal(t, DefaultMaxTokens, opts.MaxTokens)
	assert.Equal(t, "default-model", opts.Model)
	assert.Nil(t, opts.Temperature)
}

func TestEstimateTokens(t *testing.T) {
	client := &Client{core: &fakeCore{}}
	n, err := client.EstimateTokens("abcdefgh")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCompleteWrapsLLMError(t *testing.T) {
	RegisterProviderFactory("test-failing", func(ClientConfig) (CoreLLM, error) {
		return &fakeCore{err: errors.New("boom")}, nil
	})

	client, err := NewClient("test-failing", ClientConfig{APIKey: "key"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt", nil)
	require.Error(t, err)

	var llmErr *ports.LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, "fake-model", llmErr.Model)
	assert.Equal(t, "complete", llmErr.Operation)
	assert.EqualError(t, llmErr.Err, "boom")
}

func TestProviderErrorMatchesPortSentinels(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"rate limited", 429, ports.ErrRateLimited},
		{"auth rejected", 401, ports.ErrAuthenticationFailed},
		{"forbidden", 403, ports.ErrAuthenticationFailed},
		{"server down", 503, ports.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapProviderError("openai", tt.status, errors.New("upstream"))
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	badRequest := wrapProviderError("openai", 400, errors.New("upstream"))
	assert.NotErrorIs(t, badRequest, ports.ErrRateLimited)
	assert.NotErrorIs(t, badRequest, ports.ErrAuthenticationFailed)
	assert.NotErrorIs(t, badRequest, ports.ErrServiceUnavailable)
}

func TestResponseShapeErrorsMatchInvalidResponse(t *testing.T) {
	assert.ErrorIs(t, ErrEmptyResponse, ports.ErrInvalidResponse)
	assert.ErrorIs(t, ErrNoResponseChoice, ports.ErrInvalidResponse)
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, ErrorTypeAuthentication, classifyStatus(401))
	assert.Equal(t, ErrorTypeRateLimit, classifyStatus(429))
	assert.Equal(t, ErrorTypeBadRequest, classifyStatus(400))
	assert.Equal(t, ErrorTypeServerError, classifyStatus(500))
	assert.Equal(t, ErrorTypeUnknown, classifyStatus(0))
}
