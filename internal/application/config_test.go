package application

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 5, config.TopN)
	assert.InDelta(t, 0.5, config.NeutralJudgeScore, 1e-9)
	assert.InDelta(t, 0.35, config.Weights.Semantic, 1e-9)
	assert.Equal(t, 60*time.Second, config.Judge.RequestTimeout.Std())
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
top_n: 10
judge:
  provider: openai
  max_concurrency: 3
  request_timeout: 30s
weights:
  semantic: 0.5
  stylistic: 0.25
  judge: 0.25
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, config.TopN)
	assert.Equal(t, "openai", config.Judge.Provider)
	assert.Equal(t, 3, config.Judge.MaxConcurrency)
	assert.Equal(t, 30*time.Second, config.Judge.RequestTimeout.Std())
	assert.InDelta(t, 0.5, config.Weights.Semantic, 1e-9)
	// Untouched fields keep their defaults.
	assert.Equal(t, "data/response_pairs.csv", config.DatasetPath)
	assert.Equal(t, 1024, config.Embedding.CacheSize)
}

func TestLoadConfigRejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
weights:
  semantic: 0.9
  stylistic: 0.9
  judge: 0.1
`), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1")
}

func TestLoadConfigRejectsInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_n: 0\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
