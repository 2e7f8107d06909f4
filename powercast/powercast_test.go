package powercast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/powercast/internal/activations"
	"github.com/gridsense/powercast/internal/artifact"
	"github.com/gridsense/powercast/internal/layer"
	"github.com/gridsense/powercast/internal/net"
	"github.com/gridsense/powercast/internal/scaler"
)

// Write a bundle to disk, load it back through the public API and run
// one prediction over a parsed CSV: the whole serving path in one test.
func TestFacadeEndToEnd(t *testing.T) {
	const lookback = 4

	sc, err := scaler.New(
		[]string{"Global_intensity", "Voltage", "Global_active_power"},
		[]float64{0, 200, 0},
		[]float64{50, 260, 12},
	)
	require.NoError(t, err)

	head := layer.NewDense(lookback*3, 1, activations.Linear{})
	params := head.Params()
	params[len(params)-1] = 0.5
	head.SetParams(params)
	model, err := net.New(head)
	require.NoError(t, err)

	bundle, err := artifact.New(model, sc,
		artifact.Manifest{"Global_intensity", "Voltage"},
		artifact.ModelConfig{
			Lookback:     lookback,
			Horizon:      1,
			TargetColumn: "Global_active_power",
			TargetIndex:  2,
		})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, bundle.Save(dir))

	arts, err := LoadArtifacts(dir)
	require.NoError(t, err)

	csv := "Global_intensity,Voltage,Global_active_power\n" +
		"4.628,234.84,1.088\n" +
		"4.5,234.0,1.1\n" +
		"4.7,233.5,1.2\n" +
		"4.6,234.2,1.15\n"
	raw, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	p := NewPredictor(arts, PlausibilityWarn)
	result, err := p.Predict(raw)
	require.NoError(t, err)

	assert.InDelta(t, 6.0, result.PredictedKW, 1e-9)
	require.Len(t, result.HistoryKW, lookback)
	assert.InDelta(t, 1.088, result.HistoryKW[0], 1e-12)
	assert.Empty(t, result.Warnings)
}

func TestLoadArtifactsMissingDir(t *testing.T) {
	_, err := LoadArtifacts(t.TempDir())
	require.Error(t, err)

	var artErr *ArtifactError
	assert.ErrorAs(t, err, &artErr)
}
