package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTensorShape(t *testing.T) {
	arts := fixtureBundle(t)
	window, err := Validate(sampleTable(), arts, PlausibilityOff)
	require.NoError(t, err)

	tensor, err := BuildTensor(window, arts.Scaler, arts.Config.Lookback)
	require.NoError(t, err)

	assert.Equal(t, 1, tensor.Batch)
	assert.Equal(t, fixtureLookback, tensor.Steps)
	assert.Equal(t, len(canonicalColumns), tensor.Channels)
	assert.Len(t, tensor.Data, fixtureLookback*len(canonicalColumns))
}

func TestBuildTensorScalesValues(t *testing.T) {
	arts := fixtureBundle(t)
	window, err := Validate(sampleTable(), arts, PlausibilityOff)
	require.NoError(t, err)

	tensor, err := BuildTensor(window, arts.Scaler, arts.Config.Lookback)
	require.NoError(t, err)

	// Every cell must be the min-max image of the raw value, laid out
	// timestep-major.
	for r := 0; r < fixtureLookback; r++ {
		values := rowValues(r)
		for c, name := range canonicalColumns {
			bounds := fixtureRanges[name]
			want := (values[name] - bounds.Min) / (bounds.Max - bounds.Min)
			got := tensor.Data[r*tensor.Channels+c]
			assert.InDelta(t, want, got, 1e-12, "step %d channel %s", r, name)
		}
	}

	// In-range input scales into the unit interval.
	for i, v := range tensor.Data {
		assert.GreaterOrEqual(t, v, 0.0, "data[%d]", i)
		assert.LessOrEqual(t, v, 1.0, "data[%d]", i)
	}
}

func TestBuildTensorRejectsWrongRowCount(t *testing.T) {
	arts := fixtureBundle(t)
	window, err := Validate(sampleTable(), arts, PlausibilityOff)
	require.NoError(t, err)

	window.Rows = window.Rows[:10]
	_, err = BuildTensor(window, arts.Scaler, arts.Config.Lookback)
	require.Error(t, err)

	var sErr *ShapeError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, 24, sErr.WantSteps)
	assert.Equal(t, 10, sErr.GotSteps)
	assert.Contains(t, sErr.Error(), "10 steps")
}

func TestBuildTensorRejectsWrongRowWidth(t *testing.T) {
	arts := fixtureBundle(t)
	window, err := Validate(sampleTable(), arts, PlausibilityOff)
	require.NoError(t, err)

	window.Rows[4] = window.Rows[4][:3]
	_, err = BuildTensor(window, arts.Scaler, arts.Config.Lookback)

	var sErr *ShapeError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, 3, sErr.GotChannels)
}
