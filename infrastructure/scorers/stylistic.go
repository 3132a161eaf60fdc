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
)

// Composite style score weights. Formality carries the most weight because
// it is the strongest behavioral authenticity signal in this dataset.
const (
	lengthWeight     = 0.3
	complexityWeight = 0.3
	formalityWeight  = 0.4

	// complexityGradeSpan is the grade-level gap treated as total mismatch.
	complexityGradeSpan = 12.0

	// informalThreshold is the formality score below which a text is
	// considered casual enough to plausibly be authentic.
	informalThreshold = 0.7
)

// StylisticScorer compares the extracted feature profiles of human and AI
// answers. It is purely local and needs no network access.
type StylisticScorer struct {
	extractor *FeatureExtractor
	tracer    trace.Tracer
}

// NewStylisticScorer builds a scorer with its own feature extractor. A nil
// tracer disables tracing.
func NewStylisticScorer(tracer trace.Tracer) *StylisticScorer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("scorers")
	}
	return &StylisticScorer{extractor: NewFeatureExtractor(), tracer: tracer}
}

// ExtractFeatures exposes the underlying feature extraction for callers
// that want raw profiles.
func (s *StylisticScorer) ExtractFeatures(text string) domain.TextFeatures {
	return s.extractor.Extract(text)
}

// Compare computes the style alignment between two feature profiles.
func (s *StylisticScorer) Compare(human, ai domain.TextFeatures) domain.StylisticAlignment {
	var lengthRatio float64
	switch {
	case human.Length > 0:
		lengthRatio = float64(ai.Length) / float64(human.Length)
	case ai.Length > 0:
		lengthRatio = math.Inf(1)
	default:
		// Both empty answers match perfectly by convention.
		lengthRatio = 1.0
	}

	lengthSimilarity := 1.0
	if maxLen := max(human.Length, ai.Length); maxLen > 0 {
		lengthSimilarity = 1 - math.Abs(float64(human.Length-ai.Length))/float64(maxLen)
	}

	complexitySimilarity := math.Max(0, 1-math.Abs(human.GradeLevel-ai.GradeLevel)/complexityGradeSpan)
	formalitySimilarity := 1 - math.Abs(human.Formality-ai.Formality)

	styleScore := lengthWeight*lengthSimilarity +
		complexityWeight*complexitySimilarity +
		formalityWeight*formalitySimilarity

	hasImperfections := ai.HasTypos ||
		(ai.Formality < informalThreshold && human.Formality < informalThreshold)

	return domain.StylisticAlignment{
		LengthRatio:               lengthRatio,
		LengthSimilarity:          lengthSimilarity,
		ComplexitySimilarity:      complexitySimilarity,
		FormalitySimilarity:       formalitySimilarity,
		StyleConsistencyScore:     styleScore,
		HasHumanLikeImperfections: hasImperfections,
		SentimentSimilarity:       clamp01(1 - math.Abs(human.Polarity-ai.Polarity)/2),
		EmotionalToneMatch:        clamp01(1 - math.Abs(human.EmotionalIntensity-ai.EmotionalIntensity)),
		SubjectivitySimilarity:    clamp01(1 - math.Abs(human.Subjectivity-ai.Subjectivity)),
	}
}

// ScoreBatch extracts features and compares each positionally paired
// answer. A length mismatch is a hard error.
func (s *StylisticScorer) ScoreBatch(ctx context.Context, humanAnswers, aiAnswers []string) ([]domain.StylisticAlignment, error) {
	_, span := s.tracer.Start(ctx, "stylistic_scorer.score_batch",
		trace.WithAttributes(attribute.Int("batch.size", len(humanAnswers))))
	defer span.End()

	if len(humanAnswers) != len(aiAnswers) {
		return nil, fmt.Errorf("%w: %d human answers vs %d ai answers",
			domain.ErrLengthMismatch, len(humanAnswers), len(aiAnswers))
	}

	results := make([]domain.StylisticAlignment, len(humanAnswers))
	for i := range humanAnswers {
		human := s.extractor.Extract(humanAnswers[i])
		ai := s.extractor.Extract(aiAnswers[i])
		results[i] = s.Compare(human, ai)
	}
	return results, nil
}

// Aggregate summarizes alignments. The mean length ratio skips non-finite
// entries so a single empty human answer cannot poison the average. An
// empty input yields zeroed stats with Count 0.
func (s *StylisticScorer) Aggregate(alignments []domain.StylisticAlignment) domain.StylisticStats {
	if len(alignments) == 0 {
		return domain.StylisticStats{}
	}

	n := len(alignments)
	finiteRatios := make([]float64, 0, n)
	lengthSims := make([]float64, 0, n)
	complexitySims := make([]float64, 0, n)
	formalitySims := make([]float64, 0, n)
	sentimentSims := make([]float64, 0, n)
	styleScores := make([]float64, 0, n)
	imperfect := 0

	for _, a := range alignments {
		if !math.IsInf(a.LengthRatio, 0) && !math.IsNaN(a.LengthRatio) {
			finiteRatios = append(finiteRatios, a.LengthRatio)
		}
		lengthSims = append(lengthSims, a.LengthSimilarity)
		complexitySims = append(complexitySims, a.ComplexitySimilarity)
		formalitySims = append(formalitySims, a.FormalitySimilarity)
		sentimentSims = append(sentimentSims, a.SentimentSimilarity)
		styleScores = append(styleScores, a.StyleConsistencyScore)
		if a.HasHumanLikeImperfections {
			imperfect++
		}
	}

	meanRatio, _ := stats.Mean(finiteRatios)
	meanLength, _ := stats.Mean(lengthSims)
	meanComplexity, _ := stats.Mean(complexitySims)
	meanFormality, _ := stats.Mean(formalitySims)
	meanSentiment, _ := stats.Mean(sentimentSims)
	meanStyle, _ := stats.Mean(styleScores)

	return domain.StylisticStats{
		Count:                    n,
		MeanLengthRatio:          meanRatio,
		MeanLengthSimilarity:     meanLength,
		MeanComplexitySimilarity: meanComplexity,
		MeanFormalitySimilarity:  meanFormality,
		MeanSentimentSimilarity:  meanSentiment,
		MeanStyleScore:           meanStyle,
		PctWithImperfections:     float64(imperfect) / float64(n) * 100,
	}
}
