package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ahrav/go-mimic/internal/ports"
)

// DefaultCacheSize bounds the embedding cache when no size is given.
const DefaultCacheSize = 1024

// CachedEmbedder memoizes single-text embeddings by exact text value so
// repeated answers within a run cost one API call. Batch requests bypass
// the cache since the batch endpoint is already the cheap path.
type CachedEmbedder struct {
	next  ports.Embedder
	cache *lru.Cache[string, []float64]
}

var _ ports.Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps next with an LRU cache of the given size. A
// non-positive size falls back to DefaultCacheSize.
func NewCachedEmbedder(next ports.Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{next: next, cache: cache}, nil
}

// Embed returns the cached vector for text, fetching and storing it on a
// miss. Callers must not mutate the returned slice.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if vec, ok := e.cache.Get(text); ok {
		return vec, nil
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(text, vec)
	return vec, nil
}

// EmbedBatch delegates to the underlying embedder and seeds the cache with
// the results.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors, err := e.next.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i, text := range texts {
		e.cache.Add(text, vectors[i])
	}
	return vectors, nil
}
