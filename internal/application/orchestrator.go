package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/ahrav/go-mimic/internal/domain"
	"github.com/ahrav/go-mimic/internal/ports"
)

// EngineVersion stamps every snapshot this build produces.
const EngineVersion = "v1.0"

// SemanticScorer scores pairs in embedding space.
type SemanticScorer interface {
	ScoreBatch(ctx context.Context, humanAnswers, aiAnswers []string) ([]domain.SemanticResult, error)
	Aggregate(results []domain.SemanticResult) domain.SemanticStats
}

// StyleScorer scores pairs on extracted stylistic features.
type StyleScorer interface {
	ScoreBatch(ctx context.Context, humanAnswers, aiAnswers []string) ([]domain.StylisticAlignment, error)
	Aggregate(alignments []domain.StylisticAlignment) domain.StylisticStats
}

// QualitativeScorer provides the optional LLM judgment dimension.
type QualitativeScorer interface {
	Available() bool
	ScoreBatch(ctx context.Context, pairs []domain.ResponsePair) []domain.Option[domain.Judgment]
	Aggregate(judgments []domain.Option[domain.Judgment]) domain.JudgeStats
}

// Evaluator runs all three scorers over a dataset and assembles the single
// immutable snapshot of the run.
type Evaluator struct {
	config    Config
	loader    ports.DatasetLoader
	semantic  SemanticScorer
	stylistic StyleScorer
	judge     QualitativeScorer
	store     ports.SnapshotStore
	logger    *slog.Logger
}

// NewEvaluator wires an evaluator. All collaborators are required except
// the logger, which defaults to slog.Default.
func NewEvaluator(
	config Config,
	loader ports.DatasetLoader,
	semantic SemanticScorer,
	stylistic StyleScorer,
	judge QualitativeScorer,
	store ports.SnapshotStore,
	logger *slog.Logger,
) (*Evaluator, error) {
	switch {
	case loader == nil:
		return nil, fmt.Errorf("evaluator requires a dataset loader")
	case semantic == nil:
		return nil, fmt.Errorf("evaluator requires a semantic scorer")
	case stylistic == nil:
		return nil, fmt.Errorf("evaluator requires a stylistic scorer")
	case judge == nil:
		return nil, fmt.Errorf("evaluator requires a qualitative scorer")
	case store == nil:
		return nil, fmt.Errorf("evaluator requires a snapshot store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		config:    config,
		loader:    loader,
		semantic:  semantic,
		stylistic: stylistic,
		judge:     judge,
		store:     store,
		logger:    logger,
	}, nil
}

// Run executes one full evaluation: load, score all three dimensions,
// aggregate, rank, assemble, and persist the snapshot.
func (e *Evaluator) Run(ctx context.Context) (*domain.EvaluationSnapshot, error) {
	pairs, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	e.logger.Info("dataset loaded", "pairs", len(pairs))

	humanAnswers := make([]string, len(pairs))
	aiAnswers := make([]string, len(pairs))
	for i, pair := range pairs {
		humanAnswers[i] = pair.HumanAnswer
		aiAnswers[i] = pair.AIAnswer
	}

	e.logger.Info("running semantic evaluation")
	semanticResults, err := e.semantic.ScoreBatch(ctx, humanAnswers, aiAnswers)
	if err != nil {
		return nil, fmt.Errorf("semantic evaluation: %w", err)
	}
	semanticStats := e.semantic.Aggregate(semanticResults)
	e.logger.Info("semantic evaluation done", "mean_cosine", semanticStats.MeanCosine)

	e.logger.Info("running stylistic evaluation")
	stylisticResults, err := e.stylistic.ScoreBatch(ctx, humanAnswers, aiAnswers)
	if err != nil {
		return nil, fmt.Errorf("stylistic evaluation: %w", err)
	}
	stylisticStats := e.stylistic.Aggregate(stylisticResults)
	e.logger.Info("stylistic evaluation done", "mean_style_score", stylisticStats.MeanStyleScore)

	if e.judge.Available() {
		e.logger.Info("running qualitative evaluation, dominant wall-clock cost")
	} else {
		e.logger.Warn("qualitative evaluation skipped, no judge configured")
	}
	judgments := e.judge.ScoreBatch(ctx, pairs)
	judgeStats := e.judge.Aggregate(judgments)
	if judgeStats.Count > 0 {
		e.logger.Info("qualitative evaluation done",
			"judged", judgeStats.Count, "mean_overall", judgeStats.MeanOverallScore)
	}

	perPerson := groupAnalysis(pairs, semanticResults, stylisticResults, judgments,
		func(p domain.ResponsePair) string { return p.PersonID })
	perCategory := groupAnalysis(pairs, semanticResults, stylisticResults, judgments,
		func(p domain.ResponsePair) string { return p.Category })

	weakest := e.weakestMatches(pairs, semanticResults, stylisticResults, judgments)

	snapshot := &domain.EvaluationSnapshot{
		Metadata: domain.SnapshotMeta{
			RunID:          uuid.NewString(),
			EvaluationDate: time.Now().UTC(),
			TotalPairs:     len(pairs),
			NumPersons:     len(perPerson),
			NumCategories:  len(perCategory),
			EngineVersion:  EngineVersion,
		},
		Aggregate: domain.AggregateScores{
			Semantic:  semanticStats,
			Stylistic: stylisticStats,
			Judge:     judgeStats,
		},
		PerPerson:      perPerson,
		PerCategory:    perCategory,
		WeakestMatches: weakest,
		DetailedResults: domain.DetailedResults{
			Semantic:  semanticResults,
			Stylistic: stylisticResults,
			Judgments: judgments,
		},
	}

	if err := e.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	e.logger.Info("evaluation complete", "run_id", snapshot.Metadata.RunID)
	return snapshot, nil
}

// groupAnalysis aggregates per-pair results under the key function. Pairs
// with absent judgments still count toward the group; only the judge mean
// excludes them, and it is absent when no pair in the group was judged.
func groupAnalysis(
	pairs []domain.ResponsePair,
	semanticResults []domain.SemanticResult,
	stylisticResults []domain.StylisticAlignment,
	judgments []domain.Option[domain.Judgment],
	keyOf func(domain.ResponsePair) string,
) map[string]domain.GroupStats {
	type bucket struct {
		semantic []float64
		style    []float64
		judge    []float64
	}
	buckets := make(map[string]*bucket)

	for i, pair := range pairs {
		key := keyOf(pair)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.semantic = append(b.semantic, semanticResults[i].CosineSimilarity)
		b.style = append(b.style, stylisticResults[i].StyleConsistencyScore)
		if judgment, ok := judgments[i].Get(); ok {
			b.judge = append(b.judge, judgment.OverallScore)
		}
	}

	analysis := make(map[string]domain.GroupStats, len(buckets))
	for key, b := range buckets {
		meanSemantic, _ := stats.Mean(b.semantic)
		stdSemantic, _ := stats.StandardDeviationPopulation(b.semantic)
		meanStyle, _ := stats.Mean(b.style)
		stdStyle, _ := stats.StandardDeviationPopulation(b.style)

		group := domain.GroupStats{
			Count:          len(b.semantic),
			MeanSemantic:   meanSemantic,
			StdSemantic:    stdSemantic,
			MeanStyleScore: meanStyle,
			StdStyleScore:  stdStyle,
			MeanJudgeScore: domain.None[float64](),
		}
		if len(b.judge) > 0 {
			meanJudge, _ := stats.Mean(b.judge)
			group.MeanJudgeScore = domain.Some(meanJudge)
		}
		analysis[key] = group
	}
	return analysis
}

// weakestMatches ranks pairs by the weighted composite, worst first, and
// keeps the configured top N. Equal composites order by pair ID so the
// ranking is deterministic.
func (e *Evaluator) weakestMatches(
	pairs []domain.ResponsePair,
	semanticResults []domain.SemanticResult,
	stylisticResults []domain.StylisticAlignment,
	judgments []domain.Option[domain.Judgment],
) []domain.WeakMatch {
	scored := make([]domain.WeakMatch, len(pairs))
	for i, pair := range pairs {
		semanticScore := semanticResults[i].CosineSimilarity
		styleScore := stylisticResults[i].StyleConsistencyScore

		judgeComponent := e.config.NeutralJudgeScore
		judgeScore := domain.None[float64]()
		issues := []string{}
		if judgment, ok := judgments[i].Get(); ok {
			judgeComponent = judgment.OverallScore / 10
			judgeScore = domain.Some(judgeComponent)
			issues = judgment.Weaknesses
		}

		composite := e.config.Weights.Semantic*semanticScore +
			e.config.Weights.Stylistic*styleScore +
			e.config.Weights.Judge*judgeComponent

		scored[i] = domain.WeakMatch{
			PairID:         pair.ID,
			PersonID:       pair.PersonID,
			Category:       pair.Category,
			Question:       pair.Question,
			CompositeScore: composite,
			SemanticScore:  semanticScore,
			StyleScore:     styleScore,
			JudgeScore:     judgeScore,
			HumanAnswer:    pair.HumanAnswer,
			AIAnswer:       pair.AIAnswer,
			Issues:         issues,
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].CompositeScore != scored[b].CompositeScore {
			return scored[a].CompositeScore < scored[b].CompositeScore
		}
		return scored[a].PairID < scored[b].PairID
	})

	if len(scored) > e.config.TopN {
		scored = scored[:e.config.TopN]
	}
	return scored
}
