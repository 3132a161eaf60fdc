package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionSomeAndNone(t *testing.T) {
	some := Some(3.5)
	value, ok := some.Get()
	assert.True(t, ok)
	assert.InDelta(t, 3.5, value, 1e-9)
	assert.True(t, some.IsPresent())

	none := None[float64]()
	value, ok = none.Get()
	assert.False(t, ok)
	assert.Zero(t, value)
	assert.False(t, none.IsPresent())
}

func TestOptionOrElse(t *testing.T) {
	assert.InDelta(t, 2.0, Some(2.0).OrElse(9.0), 1e-9)
	assert.InDelta(t, 9.0, None[float64]().OrElse(9.0), 1e-9)
}

func TestOptionMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Some(Judgment{OverallScore: 7}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overall_score":7`)

	data, err = json.Marshal(None[Judgment]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestOptionUnmarshalJSON(t *testing.T) {
	var present Option[float64]
	require.NoError(t, json.Unmarshal([]byte("4.5"), &present))
	value, ok := present.Get()
	assert.True(t, ok)
	assert.InDelta(t, 4.5, value, 1e-9)

	var absent Option[float64]
	require.NoError(t, json.Unmarshal([]byte("null"), &absent))
	assert.False(t, absent.IsPresent())
}

func TestOptionSliceAlignment(t *testing.T) {
	list := []Option[float64]{Some(1.0), None[float64](), Some(2.0)}

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Equal(t, "[1,null,2]", string(data))
}
