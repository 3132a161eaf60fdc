package scorers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-mimic/internal/domain"
	"github.com/ahrav/go-mimic/internal/ports"
)

// Defaults for judge request handling.
const (
	DefaultJudgeConcurrency = 5
	DefaultJudgeTimeout     = 60 * time.Second

	judgeMaxTokens   = 1500
	judgeTemperature = 0.3
	topWeaknesses    = 5
)

const judgePromptTemplate = `You are an expert evaluator assessing how well an AI simulation mimics a real human's response.

You will be shown:
1. A question asked to both a human and an AI simulation
2. The human's actual response
3. The AI simulation's response

Your task is to evaluate how accurately the AI simulation captures the human's response across multiple dimensions.

QUESTION: {{.Question}}

HUMAN RESPONSE:
{{.HumanAnswer}}

AI SIMULATION RESPONSE:
{{.AIAnswer}}

Evaluate the AI simulation on these dimensions (0-10 scale):

1. SEMANTIC MATCH: How similar is the factual content and meaning?
   - 10: Identical meaning
   - 7-9: Very similar meaning with minor differences
   - 4-6: Partially overlapping meaning
   - 0-3: Different meaning or contradictory

2. STYLE MATCH: How similar is the writing style?
   - 10: Indistinguishable style (tone, formality, structure)
   - 7-9: Very similar style with minor differences
   - 4-6: Noticeable style differences
   - 0-3: Completely different style

3. PERSONALITY MATCH: How well does the AI capture individual personality traits?
   - 10: Perfectly captures personal quirks, voice, attitude
   - 7-9: Captures overall personality well
   - 4-6: Generic response lacking personal flavor
   - 0-3: Misses personality entirely

4. NATURALNESS: How natural and human-like is the AI response?
   - 10: Fully convincing as human (includes imperfections, casual language)
   - 7-9: Mostly natural with slight AI tells
   - 4-6: Noticeably polished/artificial
   - 0-3: Obviously AI-generated

Provide your evaluation in this JSON format:
{
    "semantic_match": <score 0-10>,
    "style_match": <score 0-10>,
    "personality_match": <score 0-10>,
    "naturalness": <score 0-10>,
    "overall_score": <weighted average>,
    "explanation": "<brief explanation of your assessment>",
    "ai_weaknesses": ["<weakness 1>", "<weakness 2>", ...]
}

Focus on specific, concrete observations. Be critical and note even subtle differences.
Respond ONLY with the JSON, no additional text.`

// judgmentResponse is the wire shape expected back from the judge model.
type judgmentResponse struct {
	SemanticMatch    float64  `json:"semantic_match" validate:"min=0,max=10"`
	StyleMatch       float64  `json:"style_match" validate:"min=0,max=10"`
	PersonalityMatch float64  `json:"personality_match" validate:"min=0,max=10"`
	Naturalness      float64  `json:"naturalness" validate:"min=0,max=10"`
	OverallScore     float64  `json:"overall_score" validate:"min=0,max=10"`
	Explanation      string   `json:"explanation"`
	Weaknesses       []string `json:"ai_weaknesses"`
}

// JudgeConfig tunes the qualitative judge.
type JudgeConfig struct {
	// MaxConcurrency bounds in-flight judge requests. Zero or negative
	// uses DefaultJudgeConcurrency.
	MaxConcurrency int
	// RequestTimeout bounds each judge call. Zero or negative uses
	// DefaultJudgeTimeout.
	RequestTimeout time.Duration
}

// JudgeScorer asks an external LLM to rate each pair on four 0-10 axes.
// The whole dimension is optional: a scorer constructed with a nil client
// is inert and yields an absent judgment for every pair, and individual
// call failures degrade to absent judgments rather than failing the run.
type JudgeScorer struct {
	client         ports.LLMClient
	tmpl           *template.Template
	maxConcurrency int
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewJudgeScorer builds a judge over the given client. A nil client is
// allowed and produces an inert scorer.
func NewJudgeScorer(client ports.LLMClient, config JudgeConfig, logger *slog.Logger) (*JudgeScorer, error) {
	tmpl, err := template.New("judge_prompt").Parse(judgePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse judge prompt template: %w", err)
	}

	concurrency := config.MaxConcurrency
	if concurrency <= 0 {
		concurrency = DefaultJudgeConcurrency
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &JudgeScorer{
		client:         client,
		tmpl:           tmpl,
		maxConcurrency: concurrency,
		requestTimeout: timeout,
		logger:         logger,
	}, nil
}

// Available reports whether the judge has a client to call.
func (j *JudgeScorer) Available() bool { return j.client != nil }

// Score judges a single pair. Absent when the judge is inert or the call
// fails in any way.
func (j *JudgeScorer) Score(ctx context.Context, pair domain.ResponsePair) domain.Option[domain.Judgment] {
	if j.client == nil {
		return domain.None[domain.Judgment]()
	}

	var prompt strings.Builder
	if err := j.tmpl.Execute(&prompt, map[string]string{
		"Question":    pair.Question,
		"HumanAnswer": pair.HumanAnswer,
		"AIAnswer":    pair.AIAnswer,
	}); err != nil {
		j.logger.Warn("judge prompt render failed", "pair_id", pair.ID, "error", err)
		return domain.None[domain.Judgment]()
	}

	if tokens, err := j.client.EstimateTokens(prompt.String()); err == nil {
		j.logger.Debug("judge request prepared", "pair_id", pair.ID, "estimated_prompt_tokens", tokens)
	}

	callCtx, cancel := context.WithTimeout(ctx, j.requestTimeout)
	defer cancel()

	response, err := j.client.Complete(callCtx, prompt.String(), map[string]any{
		"max_tokens":  judgeMaxTokens,
		"temperature": judgeTemperature,
	})
	if err != nil {
		j.logger.Warn("judge request failed", "pair_id", pair.ID, "model", j.client.GetModel(), "error", err)
		return domain.None[domain.Judgment]()
	}

	judgment, err := parseJudgment(response)
	if err != nil {
		j.logger.Warn("judge response rejected", "pair_id", pair.ID, "error", err)
		return domain.None[domain.Judgment]()
	}
	return domain.Some(judgment)
}

// ScoreBatch judges all pairs concurrently, preserving input order. The
// returned slice always has one entry per pair.
func (j *JudgeScorer) ScoreBatch(ctx context.Context, pairs []domain.ResponsePair) []domain.Option[domain.Judgment] {
	results := make([]domain.Option[domain.Judgment], len(pairs))
	if j.client == nil {
		for i := range results {
			results[i] = domain.None[domain.Judgment]()
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.maxConcurrency)
	for i, pair := range pairs {
		g.Go(func() error {
			results[i] = j.Score(gctx, pair)
			return nil
		})
	}
	// Workers never return errors; failures degrade to absent judgments.
	_ = g.Wait()
	return results
}

// Aggregate summarizes the present judgments, ignoring absent entries.
// The weakness tally keeps the five most frequent weaknesses, breaking
// count ties by first appearance.
func (j *JudgeScorer) Aggregate(judgments []domain.Option[domain.Judgment]) domain.JudgeStats {
	var present []domain.Judgment
	for _, opt := range judgments {
		if v, ok := opt.Get(); ok {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return domain.JudgeStats{CommonWeaknesses: []domain.WeaknessCount{}}
	}

	semantic := make([]float64, len(present))
	style := make([]float64, len(present))
	personality := make([]float64, len(present))
	naturalness := make([]float64, len(present))
	overall := make([]float64, len(present))
	for i, judgment := range present {
		semantic[i] = judgment.SemanticMatch
		style[i] = judgment.StyleMatch
		personality[i] = judgment.PersonalityMatch
		naturalness[i] = judgment.Naturalness
		overall[i] = judgment.OverallScore
	}

	result := domain.JudgeStats{Count: len(present)}
	result.MeanSemanticMatch, result.StdSemanticMatch = meanStd(semantic)
	result.MeanStyleMatch, result.StdStyleMatch = meanStd(style)
	result.MeanPersonalityMatch, result.StdPersonalityMatch = meanStd(personality)
	result.MeanNaturalness, result.StdNaturalness = meanStd(naturalness)
	result.MeanOverallScore, result.StdOverallScore = meanStd(overall)
	result.CommonWeaknesses = tallyWeaknesses(present)
	return result
}

// tallyWeaknesses counts weakness strings across judgments and returns the
// top entries, most frequent first, first seen winning ties.
func tallyWeaknesses(judgments []domain.Judgment) []domain.WeaknessCount {
	counts := make(map[string]int)
	var order []string
	for _, judgment := range judgments {
		for _, weakness := range judgment.Weaknesses {
			if _, seen := counts[weakness]; !seen {
				order = append(order, weakness)
			}
			counts[weakness]++
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if len(order) > topWeaknesses {
		order = order[:topWeaknesses]
	}

	top := make([]domain.WeaknessCount, len(order))
	for i, weakness := range order {
		top[i] = domain.WeaknessCount{Weakness: weakness, Count: counts[weakness]}
	}
	return top
}

// parseJudgment extracts, decodes, and validates a judge response.
func parseJudgment(response string) (domain.Judgment, error) {
	raw := extractJSON(response)
	if raw == "" {
		return domain.Judgment{}, fmt.Errorf("no JSON object in response")
	}

	var parsed judgmentResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.Judgment{}, fmt.Errorf("decode judgment: %w", err)
	}
	for _, score := range []float64{
		parsed.SemanticMatch, parsed.StyleMatch, parsed.PersonalityMatch,
		parsed.Naturalness, parsed.OverallScore,
	} {
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return domain.Judgment{}, fmt.Errorf("non-finite score in judgment")
		}
	}
	if err := validate.Struct(parsed); err != nil {
		return domain.Judgment{}, fmt.Errorf("validate judgment: %w", err)
	}

	weaknesses := parsed.Weaknesses
	if weaknesses == nil {
		weaknesses = []string{}
	}
	return domain.Judgment{
		SemanticMatch:    parsed.SemanticMatch,
		StyleMatch:       parsed.StyleMatch,
		PersonalityMatch: parsed.PersonalityMatch,
		Naturalness:      parsed.Naturalness,
		OverallScore:     parsed.OverallScore,
		Explanation:      parsed.Explanation,
		Weaknesses:       weaknesses,
	}, nil
}

// meanStd returns the mean and population standard deviation of values.
func meanStd(values []float64) (mean, std float64) {
	mean, _ = stats.Mean(values)
	std, _ = stats.StandardDeviationPopulation(values)
	return mean, std
}
