package scorers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mimic/internal/domain"
)

func TestCompareIdenticalFeatures(t *testing.T) {
	scorer := NewStylisticScorer(nil)
	features := domain.TextFeatures{Length: 100, GradeLevel: 8, Formality: 0.9}

	alignment := scorer.Compare(features, features)

	assert.InDelta(t, 1.0, alignment.LengthRatio, 1e-9)
	assert.InDelta(t, 1.0, alignment.LengthSimilarity, 1e-9)
	assert.InDelta(t, 1.0, alignment.ComplexitySimilarity, 1e-9)
	assert.InDelta(t, 1.0, alignment.FormalitySimilarity, 1e-9)
	assert.InDelta(t, 1.0, alignment.StyleConsistencyScore, 1e-9)
}

func TestCompareBothEmpty(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	alignment := scorer.Compare(domain.TextFeatures{}, domain.TextFeatures{})

	assert.InDelta(t, 1.0, alignment.LengthRatio, 1e-9)
	assert.InDelta(t, 1.0, alignment.LengthSimilarity, 1e-9)
}

func TestCompareOnlyAINonEmpty(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	alignment := scorer.Compare(domain.TextFeatures{}, domain.TextFeatures{Length: 50})

	assert.True(t, math.IsInf(alignment.LengthRatio, 1))
	assert.InDelta(t, 0.0, alignment.LengthSimilarity, 1e-9)
}

func TestCompareWeights(t *testing.T) {
	scorer := NewStylisticScorer(nil)
	human := domain.TextFeatures{Length: 100, GradeLevel: 8, Formality: 1.0}
	ai := domain.TextFeatures{Length: 50, GradeLevel: 14, Formality: 0.5}

	alignment := scorer.Compare(human, ai)

	assert.InDelta(t, 0.5, alignment.LengthSimilarity, 1e-9)
	assert.InDelta(t, 0.5, alignment.ComplexitySimilarity, 1e-9)
	assert.InDelta(t, 0.5, alignment.FormalitySimilarity, 1e-9)
	assert.InDelta(t, 0.5, alignment.StyleConsistencyScore, 1e-9)
}

func TestCompareComplexityClampedAtZero(t *testing.T) {
	scorer := NewStylisticScorer(nil)
	human := domain.TextFeatures{Length: 10, GradeLevel: 2}
	ai := domain.TextFeatures{Length: 10, GradeLevel: 20}

	alignment := scorer.Compare(human, ai)

	assert.Zero(t, alignment.ComplexitySimilarity)
}

func TestImperfectionFlag(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	tests := []struct {
		name  string
		human domain.TextFeatures
		ai    domain.TextFeatures
		want  bool
	}{
		{
			name:  "ai has typos",
			human: domain.TextFeatures{Formality: 0.9},
			ai:    domain.TextFeatures{Formality: 0.9, HasTypos: true},
			want:  true,
		},
		{
			name:  "both informal",
			human: domain.TextFeatures{Formality: 0.5},
			ai:    domain.TextFeatures{Formality: 0.6},
			want:  true,
		},
		{
			name:  "only human informal",
			human: domain.TextFeatures{Formality: 0.5},
			ai:    domain.TextFeatures{Formality: 0.9},
			want:  false,
		},
		{
			name:  "both formal no typos",
			human: domain.TextFeatures{Formality: 0.9},
			ai:    domain.TextFeatures{Formality: 0.9},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alignment := scorer.Compare(tt.human, tt.ai)
			assert.Equal(t, tt.want, alignment.HasHumanLikeImperfections)
		})
	}
}

func TestSentimentSubScores(t *testing.T) {
	scorer := NewStylisticScorer(nil)
	human := domain.TextFeatures{Polarity: 1, Subjectivity: 0.8, EmotionalIntensity: 0.9}
	ai := domain.TextFeatures{Polarity: -1, Subjectivity: 0.3, EmotionalIntensity: 0.4}

	alignment := scorer.Compare(human, ai)

	assert.InDelta(t, 0.0, alignment.SentimentSimilarity, 1e-9)
	assert.InDelta(t, 0.5, alignment.SubjectivitySimilarity, 1e-9)
	assert.InDelta(t, 0.5, alignment.EmotionalToneMatch, 1e-9)
}

func TestStylisticScoreBatchLengthMismatch(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	_, err := scorer.ScoreBatch(context.Background(), []string{"a"}, nil)
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)
}

func TestStylisticScoreBatch(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	results, err := scorer.ScoreBatch(context.Background(),
		[]string{"I love going to the market on Saturdays.", ""},
		[]string{"I love going to the market on Saturdays.", "something"},
	)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.InDelta(t, 1.0, results[0].StyleConsistencyScore, 1e-9)
	assert.True(t, math.IsInf(results[1].LengthRatio, 1))
}

func TestStylisticAggregateSkipsInfiniteRatios(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	result := scorer.Aggregate([]domain.StylisticAlignment{
		{LengthRatio: 2.0, StyleConsistencyScore: 0.8, HasHumanLikeImperfections: true},
		{LengthRatio: math.Inf(1), StyleConsistencyScore: 0.4},
		{LengthRatio: 1.0, StyleConsistencyScore: 0.6, HasHumanLikeImperfections: true},
	})

	assert.Equal(t, 3, result.Count)
	assert.InDelta(t, 1.5, result.MeanLengthRatio, 1e-9)
	assert.InDelta(t, 0.6, result.MeanStyleScore, 1e-9)
	assert.InDelta(t, 200.0/3.0, result.PctWithImperfections, 1e-9)
}

func TestStylisticAggregateEmpty(t *testing.T) {
	scorer := NewStylisticScorer(nil)

	result := scorer.Aggregate(nil)

	assert.Zero(t, result.Count)
	assert.Zero(t, result.MeanStyleScore)
}
