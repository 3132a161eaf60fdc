package storage

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-mimic/internal/domain"
)

func TestSaveAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snapshot.json")
	store := NewJSONStore(path)

	snapshot := &domain.EvaluationSnapshot{
		Metadata: domain.SnapshotMeta{RunID: "run-1", TotalPairs: 2},
		PerPerson: map[string]domain.GroupStats{
			"p1": {Count: 2, MeanSemantic: 0.8},
		},
	}
	require.NoError(t, store.Save(context.Background(), snapshot))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	metadata := decoded["metadata"].(map[string]any)
	assert.Equal(t, "run-1", metadata["run_id"])
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "snapshot.json")
	store := NewJSONStore(path)

	require.NoError(t, store.Save(context.Background(), &domain.EvaluationSnapshot{}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveInfiniteLengthRatio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewJSONStore(path)

	snapshot := &domain.EvaluationSnapshot{
		DetailedResults: domain.DetailedResults{
			Stylistic: []domain.StylisticAlignment{{LengthRatio: math.Inf(1)}},
		},
	}
	require.NoError(t, store.Save(context.Background(), snapshot))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Infinity"`)
}

func TestSaveCancelledContext(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "snapshot.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, &domain.EvaluationSnapshot{})
	assert.ErrorIs(t, err, context.Canceled)
}
