package scorers

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ahrav/go-mimic/internal/domain"
	"github.com/ahrav/go-mimic/internal/ports"
)

// SemanticScorer measures how close an AI answer is to its human answer in
// embedding space. Both answers are embedded with the same model so the
// geometry is comparable.
type SemanticScorer struct {
	embedder ports.Embedder
	tracer   trace.Tracer
}

// NewSemanticScorer builds a scorer over the given embedder. A nil tracer
// disables tracing.
func NewSemanticScorer(embedder ports.Embedder, tracer trace.Tracer) (*SemanticScorer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("semantic scorer requires an embedder")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("scorers")
	}
	return &SemanticScorer{embedder: embedder, tracer: tracer}, nil
}

// Score embeds both answers and computes their similarity metrics.
func (s *SemanticScorer) Score(ctx context.Context, humanAnswer, aiAnswer string) (domain.SemanticResult, error) {
	ctx, span := s.tracer.Start(ctx, "semantic_scorer.score")
	defer span.End()

	humanVec, err := s.embedder.Embed(ctx, humanAnswer)
	if err != nil {
		return domain.SemanticResult{}, fmt.Errorf("embed human answer: %w", err)
	}
	aiVec, err := s.embedder.Embed(ctx, aiAnswer)
	if err != nil {
		return domain.SemanticResult{}, fmt.Errorf("embed ai answer: %w", err)
	}

	return compareVectors(humanVec, aiVec), nil
}

// ScoreBatch scores positionally paired answer lists. A length mismatch is
// a hard error; silent truncation would misattribute every following score.
func (s *SemanticScorer) ScoreBatch(ctx context.Context, humanAnswers, aiAnswers []string) ([]domain.SemanticResult, error) {
	ctx, span := s.tracer.Start(ctx, "semantic_scorer.score_batch",
		trace.WithAttributes(attribute.Int("batch.size", len(humanAnswers))))
	defer span.End()

	if len(humanAnswers) != len(aiAnswers) {
		return nil, fmt.Errorf("%w: %d human answers vs %d ai answers",
			domain.ErrLengthMismatch, len(humanAnswers), len(aiAnswers))
	}
	if len(humanAnswers) == 0 {
		return nil, nil
	}

	// One batch with humans first, AI answers second, split afterwards.
	texts := make([]string, 0, 2*len(humanAnswers))
	texts = append(texts, humanAnswers...)
	texts = append(texts, aiAnswers...)

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	n := len(humanAnswers)
	results := make([]domain.SemanticResult, n)
	for i := 0; i < n; i++ {
		results[i] = compareVectors(vectors[i], vectors[n+i])
	}
	return results, nil
}

// Aggregate summarizes cosine similarity across results. An empty input
// yields zeroed stats with Count 0.
func (s *SemanticScorer) Aggregate(results []domain.SemanticResult) domain.SemanticStats {
	if len(results) == 0 {
		return domain.SemanticStats{}
	}

	cosines := make([]float64, len(results))
	for i, r := range results {
		cosines[i] = r.CosineSimilarity
	}

	mean, _ := stats.Mean(cosines)
	std, _ := stats.StandardDeviationPopulation(cosines)
	minVal, _ := stats.Min(cosines)
	maxVal, _ := stats.Max(cosines)
	median, _ := stats.Median(cosines)

	return domain.SemanticStats{
		Count:      len(results),
		MeanCosine: mean,
		StdCosine:  std,
		MinCosine:  minVal,
		MaxCosine:  maxVal,
		MedCosine:  median,
	}
}

// compareVectors computes cosine similarity and the two distance metrics.
// Cosine similarity with a zero vector is defined as 0.
func compareVectors(a, b []float64) domain.SemanticResult {
	var dot, normA, normB, euclidean, manhattan float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
		diff := a[i] - b[i]
		euclidean += diff * diff
		manhattan += math.Abs(diff)
	}

	cosine := 0.0
	if normA > 0 && normB > 0 {
		cosine = dot / (math.Sqrt(normA) * math.Sqrt(normB))
	}

	return domain.SemanticResult{
		CosineSimilarity:  cosine,
		EuclideanDistance: math.Sqrt(euclidean),
		ManhattanDistance: manhattan,
	}
}
