// Package ports defines the interfaces between the evaluation core and its
// external collaborators. These contracts enable dependency inversion and
// keep every scorer testable without network access.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-mimic/internal/domain"
)

// Embedder encodes text into fixed-dimensional dense vectors using a shared
// pretrained embedding capability.
type Embedder interface {
	// Embed encodes a single text. Implementations may cache by exact text
	// value; callers must not mutate the returned vector.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch encodes texts as one batch for throughput. The result is
	// positionally aligned with the input and has the same length.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// LLMClient is the text-generation capability behind the qualitative judge.
// Implementations handle provider-specific details like authentication,
// request formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request and returns the generated text.
	// The options map carries provider-agnostic settings such as
	// "temperature" (float64) and "max_tokens" (int).
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens approximates the token count of text, for cost
	// accounting before a request is made.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// DatasetLoader yields the ordered sequence of response pairs for one run.
// A missing required field is a fatal error for the whole run.
type DatasetLoader interface {
	Load(ctx context.Context) ([]domain.ResponsePair, error)
}

// SnapshotStore persists the single evaluation snapshot produced by a run.
// Reporting and visualization tools consume what it writes.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *domain.EvaluationSnapshot) error
}

// MetricsCollector records operational metrics. Implementations integrate
// with observability platforms such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)
}
