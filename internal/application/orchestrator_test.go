package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mimic/internal/domain"
)

type fakeLoader struct {
	pairs []domain.ResponsePair
	err   error
}

func (l *fakeLoader) Load(context.Context) ([]domain.ResponsePair, error) {
	return l.pairs, l.err
}

type fakeSemantic struct {
	results []domain.SemanticResult
}

func (s *fakeSemantic) ScoreBatch(context.Context, []string, []string) ([]domain.SemanticResult, error) {
	return s.results, nil
}

func (s *fakeSemantic) Aggregate(results []domain.SemanticResult) domain.SemanticStats {
	return domain.SemanticStats{Count: len(results)}
}

type fakeStylistic struct {
	results []domain.StylisticAlignment
}

func (s *fakeStylistic) ScoreBatch(context.Context, []string, []string) ([]domain.StylisticAlignment, error) {
	return s.results, nil
}

func (s *fakeStylistic) Aggregate(alignments []domain.StylisticAlignment) domain.StylisticStats {
	return domain.StylisticStats{Count: len(alignments)}
}

type fakeJudge struct {
	judgments []domain.Option[domain.Judgment]
}

func (j *fakeJudge) Available() bool { return j.judgments != nil }

func (j *fakeJudge) ScoreBatch(_ context.Context, pairs []domain.ResponsePair) []domain.Option[domain.Judgment] {
	if j.judgments == nil {
		out := make([]domain.Option[domain.Judgment], len(pairs))
		for i := range out {
			out[i] = domain.None[domain.Judgment]()
		}
		return out
	}
	return j.judgments
}

func (j *fakeJudge) Aggregate(judgments []domain.Option[domain.Judgment]) domain.JudgeStats {
	count := 0
	for _, opt := range judgments {
		if opt.IsPresent() {
			count++
		}
	}
	return domain.JudgeStats{Count: count}
}

type capturingStore struct {
	saved *domain.EvaluationSnapshot
}

func (s *capturingStore) Save(_ context.Context, snapshot *domain.EvaluationSnapshot) error {
	s.saved = snapshot
	return nil
}

func testPairs() []domain.ResponsePair {
	return []domain.ResponsePair{
		{ID: 1, PersonID: "p1", Category: "shopping", Question: "q1", HumanAnswer: "h1", AIAnswer: "a1"},
		{ID: 2, PersonID: "p1", Category: "travel", Question: "q2", HumanAnswer: "h2", AIAnswer: "a2"},
		{ID: 3, PersonID: "p1", Category: "shopping", Question: "q3", HumanAnswer: "h3", AIAnswer: "a3"},
		{ID: 4, PersonID: "p2", Category: "travel", Question: "q4", HumanAnswer: "h4", AIAnswer: "a4"},
	}
}

func semanticResults(cosines ...float64) []domain.SemanticResult {
	out := make([]domain.SemanticResult, len(cosines))
	for i, c := range cosines {
		out[i] = domain.SemanticResult{CosineSimilarity: c}
	}
	return out
}

func stylisticResults(scores ...float64) []domain.StylisticAlignment {
	out := make([]domain.StylisticAlignment, len(scores))
	for i, s := range scores {
		out[i] = domain.StylisticAlignment{StyleConsistencyScore: s}
	}
	return out
}

func newTestEvaluator(t *testing.T, judge QualitativeScorer, store *capturingStore) *Evaluator {
	t.Helper()
	evaluator, err := NewEvaluator(
		DefaultConfig(),
		&fakeLoader{pairs: testPairs()},
		&fakeSemantic{results: semanticResults(0.9, 0.2, 0.5, 0.7)},
		&fakeStylistic{results: stylisticResults(0.9, 0.2, 0.5, 0.7)},
		judge,
		store,
		nil,
	)
	require.NoError(t, err)
	return evaluator
}

func TestRunAssemblesSnapshot(t *testing.T) {
	store := &capturingStore{}
	evaluator := newTestEvaluator(t, &fakeJudge{}, store)

	snapshot, err := evaluator.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, store.saved)
	assert.Same(t, snapshot, store.saved)

	assert.NotEmpty(t, snapshot.Metadata.RunID)
	assert.Equal(t, 4, snapshot.Metadata.TotalPairs)
	assert.Equal(t, 2, snapshot.Metadata.NumPersons)
	assert.Equal(t, 2, snapshot.Metadata.NumCategories)
	assert.Equal(t, EngineVersion, snapshot.Metadata.EngineVersion)
	assert.False(t, snapshot.Metadata.EvaluationDate.IsZero())

	assert.Len(t, snapshot.DetailedResults.Semantic, 4)
	assert.Len(t, snapshot.DetailedResults.Stylistic, 4)
	assert.Len(t, snapshot.DetailedResults.Judgments, 4)
	for _, j := range snapshot.DetailedResults.Judgments {
		assert.False(t, j.IsPresent())
	}
}

func TestRunGroupAnalysis(t *testing.T) {
	store := &capturingStore{}
	judgments := []domain.Option[domain.Judgment]{
		domain.Some(domain.Judgment{OverallScore: 8}),
		domain.Some(domain.Judgment{OverallScore: 6}),
		domain.None[domain.Judgment](),
		domain.None[domain.Judgment](),
	}
	evaluator := newTestEvaluator(t, &fakeJudge{judgments: judgments}, store)

	snapshot, err := evaluator.Run(context.Background())
	require.NoError(t, err)

	p1 := snapshot.PerPerson["p1"]
	assert.Equal(t, 3, p1.Count)
	assert.InDelta(t, (0.9+0.2+0.5)/3, p1.MeanSemantic, 1e-9)
	judgeMean, ok := p1.MeanJudgeScore.Get()
	require.True(t, ok)
	assert.InDelta(t, 7.0, judgeMean, 1e-9)

	p2 := snapshot.PerPerson["p2"]
	assert.Equal(t, 1, p2.Count)
	assert.InDelta(t, 0.7, p2.MeanSemantic, 1e-9)
	assert.Zero(t, p2.StdSemantic)
	assert.False(t, p2.MeanJudgeScore.IsPresent())

	shopping := snapshot.PerCategory["shopping"]
	assert.Equal(t, 2, shopping.Count)
	assert.InDelta(t, (0.9+0.5)/2, shopping.MeanSemantic, 1e-9)
}

func TestWeakestMatchesNeutralPlaceholder(t *testing.T) {
	store := &capturingStore{}
	evaluator := newTestEvaluator(t, &fakeJudge{}, store)
	evaluator.config.TopN = 2

	snapshot, err := evaluator.Run(context.Background())
	require.NoError(t, err)

	weakest := snapshot.WeakestMatches
	require.Len(t, weakest, 2)

	// With no judgments every pair takes the neutral 0.5 judge component:
	// composite = 0.35*cos + 0.35*style + 0.30*0.5.
	assert.Equal(t, 2, weakest[0].PairID)
	assert.InDelta(t, 0.35*0.2+0.35*0.2+0.15, weakest[0].CompositeScore, 1e-9)
	assert.False(t, weakest[0].JudgeScore.IsPresent())
	assert.Empty(t, weakest[0].Issues)

	assert.Equal(t, 3, weakest[1].PairID)
}

func TestWeakestMatchesWithJudgments(t *testing.T) {
	store := &capturingStore{}
	judgments := []domain.Option[domain.Judgment]{
		domain.Some(domain.Judgment{OverallScore: 10, Weaknesses: []string{"none"}}),
		domain.Some(domain.Judgment{OverallScore: 0, Weaknesses: []string{"wrong facts", "too stiff"}}),
		domain.None[domain.Judgment](),
		domain.None[domain.Judgment](),
	}
	evaluator := newTestEvaluator(t, &fakeJudge{judgments: judgments}, store)
	evaluator.config.TopN = 1

	snapshot, err := evaluator.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.WeakestMatches, 1)
	worst := snapshot.WeakestMatches[0]
	assert.Equal(t, 2, worst.PairID)
	assert.InDelta(t, 0.35*0.2+0.35*0.2, worst.CompositeScore, 1e-9)
	judgeScore, ok := worst.JudgeScore.Get()
	require.True(t, ok)
	assert.Zero(t, judgeScore)
	assert.Equal(t, []string{"wrong facts", "too stiff"}, worst.Issues)
}

func TestWeakestMatchesTieBreaksByPairID(t *testing.T) {
	store := &capturingStore{}
	evaluator, err := NewEvaluator(
		DefaultConfig(),
		&fakeLoader{pairs: testPairs()},
		&fakeSemantic{results: semanticResults(0.5, 0.5, 0.5, 0.5)},
		&fakeStylistic{results: stylisticResults(0.5, 0.5, 0.5, 0.5)},
		&fakeJudge{},
		store,
		nil,
	)
	require.NoError(t, err)
	evaluator.config.TopN = 3

	snapshot, err := evaluator.Run(context.Background())
	require.NoError(t, err)

	ids := make([]int, len(snapshot.WeakestMatches))
	for i, w := range snapshot.WeakestMatches {
		ids[i] = w.PairID
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestNewEvaluatorRequiresCollaborators(t *testing.T) {
	_, err := NewEvaluator(DefaultConfig(), nil, &fakeSemantic{}, &fakeStylistic{}, &fakeJudge{}, &capturingStore{}, nil)
	assert.Error(t, err)

	_, err = NewEvaluator(DefaultConfig(), &fakeLoader{}, &fakeSemantic{}, &fakeStylistic{}, &fakeJudge{}, nil, nil)
	assert.Error(t, err)
}

func TestRunPropagatesLoadError(t *testing.T) {
	evaluator, err := NewEvaluator(
		DefaultConfig(),
		&fakeLoader{err: domain.ErrNoPairs},
		&fakeSemantic{},
		&fakeStylistic{},
		&fakeJudge{},
		&capturingStore{},
		nil,
	)
	require.NoError(t, err)

	_, err = evaluator.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPairs)
}
