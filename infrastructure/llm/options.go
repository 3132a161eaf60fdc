package llm

// RequestOptions is the standardized set of request parameters shared by
// all providers.
type RequestOptions struct {
	// MaxTokens caps the generated response length.
	MaxTokens int
	// Model overrides the client's configured model for one request.
	Model string
	// Temperature controls sampling randomness; nil uses the provider
	// default.
	Temperature *float64
	// System carries an optional system prompt.
	System string
}

// DefaultMaxTokens bounds responses when the caller does not specify a cap.
const DefaultMaxTokens = 1024

// parseRequestOptions extracts standardized parameters from the loosely
// typed options map, applying defaults for anything missing or invalid.
func parseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: DefaultMaxTokens,
		Model:     defaultModel,
	}

	if v, ok := opts["max_tokens"].(int); ok && v > 0 {
		options.MaxTokens = v
	}
	if v, ok := opts["model"].(string); ok && v != "" {
		options.Model = v
	}
	if v, ok := opts["system"].(string); ok {
		options.System = v
	}
	if v, ok := opts["temperature"].(float64); ok && v >= 0 && v <= 2 {
		options.Temperature = &v
	}

	return options
}

// clampFloat64 restricts val to [lo, hi].
func clampFloat64(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
