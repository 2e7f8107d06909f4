package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/powercast/internal/activations"
	"github.com/gridsense/powercast/internal/layer"
	"github.com/gridsense/powercast/internal/net"
)

func TestInferReturnsScaledScalar(t *testing.T) {
	model := fixtureModel(t)
	tensor := &Tensor{
		Batch:    1,
		Steps:    fixtureLookback,
		Channels: len(canonicalColumns),
		Data:     make([]float64, model.InSize()),
	}

	out, err := Infer(model, tensor)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out, 1e-12)
}

func TestInferRejectsBatch(t *testing.T) {
	model := fixtureModel(t)
	tensor := &Tensor{Batch: 2, Data: make([]float64, model.InSize())}

	_, err := Infer(model, tensor)
	var iErr *InferenceError
	require.True(t, errors.As(err, &iErr))
	assert.Contains(t, iErr.Error(), "batch size 2")
}

func TestInferRejectsWrongWidth(t *testing.T) {
	model := fixtureModel(t)
	tensor := &Tensor{Batch: 1, Data: make([]float64, 10)}

	_, err := Infer(model, tensor)
	var iErr *InferenceError
	require.True(t, errors.As(err, &iErr))
}

func TestInferRejectsNonFiniteOutput(t *testing.T) {
	head := layer.NewDense(2, 1, activations.Linear{})
	head.SetParams([]float64{0, 0, math.NaN()})
	model, err := net.New(head)
	require.NoError(t, err)

	_, err = Infer(model, &Tensor{Batch: 1, Data: []float64{1, 2}})
	var iErr *InferenceError
	require.True(t, errors.As(err, &iErr))
	assert.Contains(t, iErr.Error(), "non-finite")
}
