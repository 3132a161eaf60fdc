package domain

import (
	"encoding/json"
	"math"
)

// SemanticResult holds the embedding-space comparison for one pair.
// Produced once per pair and immutable thereafter.
type SemanticResult struct {
	// CosineSimilarity is the cosine of the angle between the two answer
	// embeddings, in [-1, 1] (practically [0, 1] for text embeddings).
	CosineSimilarity float64 `json:"cosine_similarity"`

	// EuclideanDistance is the L2 distance between the embeddings, >= 0.
	EuclideanDistance float64 `json:"euclidean_distance"`

	// ManhattanDistance is the L1 distance between the embeddings, >= 0.
	ManhattanDistance float64 `json:"manhattan_distance"`
}

// StylisticAlignment holds the feature-level style comparison for one pair.
//
// LengthRatio follows the edge conventions of the stylistic scorer: 1.0 when
// both answers are empty and +Inf when only the AI answer has content.
type StylisticAlignment struct {
	// LengthRatio is AI length divided by human length.
	LengthRatio float64 `json:"length_ratio"`

	// LengthSimilarity is 1 minus the normalized absolute length
	// difference, in [0, 1].
	LengthSimilarity float64 `json:"length_similarity"`

	// ComplexitySimilarity compares readability grade levels, in [0, 1];
	// a 12-grade gap counts as total mismatch.
	ComplexitySimilarity float64 `json:"complexity_similarity"`

	// FormalitySimilarity is 1 minus the absolute formality difference.
	FormalitySimilarity float64 `json:"formality_similarity"`

	// StyleConsistencyScore is the weighted composite style score in [0, 1].
	StyleConsistencyScore float64 `json:"style_consistency_score"`

	// HasHumanLikeImperfections is true when the AI answer itself shows
	// typo signals, or when both answers are informal enough to plausibly
	// be authentic.
	HasHumanLikeImperfections bool `json:"has_human_like_imperfections"`

	// SentimentSimilarity, EmotionalToneMatch, and SubjectivitySimilarity
	// compare the affective profiles of the two answers, each in [0, 1].
	// They inform reporting but are not folded into the composite.
	SentimentSimilarity    float64 `json:"sentiment_similarity"`
	EmotionalToneMatch     float64 `json:"emotional_tone_match"`
	SubjectivitySimilarity float64 `json:"subjectivity_similarity"`
}

// MarshalJSON encodes a non-finite length ratio as the string "Infinity".
// encoding/json rejects IEEE 754 infinities, and the snapshot must always
// serialize even for pairs where only the AI answered.
func (a StylisticAlignment) MarshalJSON() ([]byte, error) {
	type alias StylisticAlignment
	if !math.IsInf(a.LengthRatio, 0) && !math.IsNaN(a.LengthRatio) {
		return json.Marshal(alias(a))
	}

	finite := a
	finite.LengthRatio = 0
	out := struct {
		alias
		LengthRatio string `json:"length_ratio"`
	}{alias: alias(finite), LengthRatio: "Infinity"}
	return json.Marshal(out)
}

// Judgment is the structured verdict of the external qualitative judge for
// one pair. The dimension is optional end to end: callers receive an
// Option[Judgment] and must treat absence as "not judged", never as a score.
// When present, all five numeric fields are finite and within [0, 10].
type Judgment struct {
	// SemanticMatch rates factual/content agreement on a 0-10 scale.
	SemanticMatch float64 `json:"semantic_match"`

	// StyleMatch rates writing-style agreement on a 0-10 scale.
	StyleMatch float64 `json:"style_match"`

	// PersonalityMatch rates how well the simulation captures the
	// respondent's individual voice, on a 0-10 scale.
	PersonalityMatch float64 `json:"personality_match"`

	// Naturalness rates how convincingly human the AI answer reads,
	// on a 0-10 scale.
	Naturalness float64 `json:"naturalness"`

	// OverallScore is the judge's weighted overall rating on a 0-10 scale.
	OverallScore float64 `json:"overall_score"`

	// Explanation is the judge's free-text assessment.
	Explanation string `json:"explanation"`

	// Weaknesses names the concrete shortcomings the judge observed in the
	// AI answer, in the order reported.
	Weaknesses []string `json:"ai_weaknesses"`
}
