package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-mimic/internal/ports"
)

// timeoutLLM enforces a per-request deadline on the wrapped provider.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware bounds each request to the given duration. A
// non-positive timeout disables the wrapper.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		if timeout <= 0 {
			return next
		}
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

func (m *timeoutLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.DoRequest(ctx, prompt, opts)
}

func (m *timeoutLLM) GetModel() string { return m.next.GetModel() }

// rateLimitLLM throttles requests with a token bucket.
type rateLimitLLM struct {
	next    CoreLLM
	limiter *rate.Limiter
}

// RateLimitMiddleware allows rps requests per second with the given burst.
// Requests block until a token is available or the context is done.
func RateLimitMiddleware(rps float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next CoreLLM) CoreLLM {
		return &rateLimitLLM{next: next, limiter: limiter}
	}
}

func (m *rateLimitLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", 0, 0, err
	}
	return m.next.DoRequest(ctx, prompt, opts)
}

func (m *rateLimitLLM) GetModel() string { return m.next.GetModel() }

// metricsLLM records request latency and token counts.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware records per-request latency, outcome, and token usage
// through the given collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		if collector == nil {
			return next
		}
		return &metricsLLM{next: next, collector: collector}
	}
}

func (m *metricsLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)

	labels := map[string]string{"model": m.next.GetModel(), "status": "success"}
	if err != nil {
		labels["status"] = "error"
	}
	m.collector.RecordLatency("llm_request_duration_seconds", time.Since(start), labels)
	m.collector.RecordCounter("llm_requests_total", 1, labels)
	if err == nil {
		tokenLabels := map[string]string{"model": m.next.GetModel()}
		m.collector.RecordCounter("llm_tokens_input_total", float64(tokensIn), tokenLabels)
		m.collector.RecordCounter("llm_tokens_output_total", float64(tokensOut), tokenLabels)
	}

	return response, tokensIn, tokensOut, err
}

func (m *metricsLLM) GetModel() string { return m.next.GetModel() }

// tracingLLM wraps each request in an OpenTelemetry span.
type tracingLLM struct {
	next   CoreLLM
	tracer trace.Tracer
}

// TracingMiddleware records a span per request with model and token
// attributes. A nil tracer disables the wrapper.
func TracingMiddleware(tracer trace.Tracer) Middleware {
	return func(next CoreLLM) CoreLLM {
		if tracer == nil {
			return next
		}
		return &tracingLLM{next: next, tracer: tracer}
	}
}

func (m *tracingLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, span := m.tracer.Start(ctx, "llm.request",
		trace.WithAttributes(attribute.String("llm.model", m.next.GetModel())))
	defer span.End()

	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return response, tokensIn, tokensOut, err
	}

	span.SetAttributes(
		attribute.Int("llm.tokens.input", tokensIn),
		attribute.Int("llm.tokens.output", tokensOut),
	)
	return response, tokensIn, tokensOut, nil
}

func (m *tracingLLM) GetModel() string { return m.next.GetModel() }
