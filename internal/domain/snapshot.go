package domain

import "time"

// SemanticStats summarizes cosine similarity across a batch of pairs.
type SemanticStats struct {
	Count      int     `json:"count"`
	MeanCosine float64 `json:"mean_cosine_similarity"`
	StdCosine  float64 `json:"std_cosine_similarity"`
	MinCosine  float64 `json:"min_cosine_similarity"`
	MaxCosine  float64 `json:"max_cosine_similarity"`
	MedCosine  float64 `json:"median_cosine_similarity"`
}

// StylisticStats summarizes style alignment across a batch of pairs.
// MeanLengthRatio is computed over finite ratios only; a pair whose human
// answer is empty contributes an infinite ratio that would poison the mean.
type StylisticStats struct {
	Count                    int     `json:"count"`
	MeanLengthRatio          float64 `json:"mean_length_ratio"`
	MeanLengthSimilarity     float64 `json:"mean_length_similarity"`
	MeanComplexitySimilarity float64 `json:"mean_complexity_similarity"`
	MeanFormalitySimilarity  float64 `json:"mean_formality_similarity"`
	MeanSentimentSimilarity  float64 `json:"mean_sentiment_similarity"`
	MeanStyleScore           float64 `json:"mean_style_score"`
	PctWithImperfections     float64 `json:"pct_with_imperfections"`
}

// WeaknessCount is one named weakness with its frequency across all present
// judgments.
type WeaknessCount struct {
	Weakness string `json:"weakness"`
	Count    int    `json:"count"`
}

// JudgeStats summarizes the qualitative dimension over the present
// judgments only. Count is 0 when the judge was unavailable or every call
// failed, and downstream consumers must render that as "skipped" rather
// than reading the zeroed means as real scores.
type JudgeStats struct {
	Count                int             `json:"count"`
	MeanSemanticMatch    float64         `json:"mean_semantic_match"`
	StdSemanticMatch     float64         `json:"std_semantic_match"`
	MeanStyleMatch       float64         `json:"mean_style_match"`
	StdStyleMatch        float64         `json:"std_style_match"`
	MeanPersonalityMatch float64         `json:"mean_personality_match"`
	StdPersonalityMatch  float64         `json:"std_personality_match"`
	MeanNaturalness      float64         `json:"mean_naturalness"`
	StdNaturalness       float64         `json:"std_naturalness"`
	MeanOverallScore     float64         `json:"mean_overall_score"`
	StdOverallScore      float64         `json:"std_overall_score"`
	CommonWeaknesses     []WeaknessCount `json:"common_weaknesses"`
}

// GroupStats aggregates one partition of the pairs, keyed by respondent or
// by category. MeanJudgeScore is absent when no pair in the group carries a
// present judgment.
type GroupStats struct {
	Count          int             `json:"count"`
	MeanSemantic   float64         `json:"mean_semantic_similarity"`
	StdSemantic    float64         `json:"std_semantic"`
	MeanStyleScore float64         `json:"mean_style_score"`
	StdStyleScore  float64         `json:"std_style"`
	MeanJudgeScore Option[float64] `json:"mean_llm_score"`
}

// WeakMatch is one entry in the weakest-simulations ranking. It carries the
// raw component scores alongside the composite so reporting tools can
// explain why the pair ranked poorly.
type WeakMatch struct {
	PairID         int             `json:"pair_id"`
	PersonID       string          `json:"person_id"`
	Category       string          `json:"category"`
	Question       string          `json:"question"`
	CompositeScore float64         `json:"composite_score"`
	SemanticScore  float64         `json:"semantic_score"`
	StyleScore     float64         `json:"style_score"`
	JudgeScore     Option[float64] `json:"llm_score"`
	HumanAnswer    string          `json:"human_answer"`
	AIAnswer       string          `json:"ai_answer"`
	Issues         []string        `json:"issues"`
}

// SnapshotMeta describes one evaluation run.
type SnapshotMeta struct {
	RunID          string    `json:"run_id"`
	EvaluationDate time.Time `json:"evaluation_date"`
	TotalPairs     int       `json:"total_pairs"`
	NumPersons     int       `json:"num_persons"`
	NumCategories  int       `json:"num_categories"`
	EngineVersion  string    `json:"engine_version"`
}

// AggregateScores groups the three per-dimension stats blocks.
type AggregateScores struct {
	Semantic  SemanticStats  `json:"semantic"`
	Stylistic StylisticStats `json:"stylistic"`
	Judge     JudgeStats     `json:"llm_judge"`
}

// DetailedResults holds the full per-pair result lists for all three
// dimensions. Every list is positionally aligned with the input pair list;
// the judgments list carries null entries for pairs without a judgment.
type DetailedResults struct {
	Semantic  []SemanticResult     `json:"semantic"`
	Stylistic []StylisticAlignment `json:"stylistic"`
	Judgments []Option[Judgment]   `json:"llm_judge"`
}

// EvaluationSnapshot is the single immutable output of one evaluation run.
// It is assembled once by the orchestrator, written once to the result
// sink, and never mutated afterwards.
type EvaluationSnapshot struct {
	Metadata        SnapshotMeta          `json:"metadata"`
	Aggregate       AggregateScores       `json:"aggregate_scores"`
	PerPerson       map[string]GroupStats `json:"per_person_analysis"`
	PerCategory     map[string]GroupStats `json:"per_category_analysis"`
	WeakestMatches  []WeakMatch           `json:"weakest_matches"`
	DetailedResults DetailedResults       `json:"detailed_results"`
}
