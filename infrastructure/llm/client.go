// Package llm provides a unified client for the text-generation capability
// behind the qualitative judge, abstracting the Anthropic and OpenAI APIs
// behind one interface with composable middleware for timeouts, rate
// limiting, and metrics.
//
// Basic usage:
//
//	client, err := llm.NewClient("anthropic", llm.ClientConfig{
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	    Model:  "claude-sonnet-4-20250514",
//	    Middleware: []llm.Middleware{
//	        llm.TimeoutMiddleware(60 * time.Second),
//	        llm.RateLimitMiddleware(5, 10),
//	    },
//	})
package llm

import (
	"context"
	"fmt"

	"github.com/ahrav/go-mimic/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. The middleware
// chain wraps any conforming implementation.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the response
	// text plus input/output token counts.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the currently configured model name.
	GetModel() string
}

// Middleware wraps a CoreLLM to add cross-cutting behavior without touching
// provider logic. Middleware listed first in ClientConfig ends up outermost.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds the settings for constructing an LLM client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model selects the provider model. Empty uses the provider default.
	Model string

	// BaseURL overrides the provider's default endpoint when non-empty.
	BaseURL string

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Client implements ports.LLMClient over a middleware-wrapped provider.
type Client struct {
	core CoreLLM
}

var _ ports.LLMClient = (*Client)(nil)

// ProviderFactory builds a provider-specific CoreLLM from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider under a name. Providers in
// this package register themselves in init.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// NewClient assembles a client for the named provider with the configured
// middleware chain.
func NewClient(provider string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	// Reverse application keeps the first middleware outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a prompt and returns the generated text, discarding token
// usage for callers that don't track it. Failures are wrapped in a
// ports.LLMError carrying the model and operation.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	if err != nil {
		return "", ports.NewLLMError(c.core.GetModel(), "complete", err)
	}
	return response, nil
}

// EstimateTokens approximates the token count of text using a 4-characters
// per-token heuristic, adequate for cost estimates on English text.
func (c *Client) EstimateTokens(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string { return c.core.GetModel() }
