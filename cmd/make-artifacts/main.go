// Command make-artifacts writes a self-consistent demo artifact bundle
// for the household power dataset: the reference network with
// deterministic placeholder weights, a scaler fitted to the dataset's
// documented ranges, the feature manifest and the config record.
//
// This is packaging, not training — the weights are seeded noise, good
// for exercising the serving path end to end, not for accuracy.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"

	"github.com/gridsense/powercast/internal/activations"
	"github.com/gridsense/powercast/internal/artifact"
	"github.com/gridsense/powercast/internal/layer"
	"github.com/gridsense/powercast/internal/net"
	"github.com/gridsense/powercast/internal/scaler"
)

const (
	lookback    = 24
	convFilters = 32
	lstmUnits   = 32
	headUnits   = 32
	kernel      = 3
)

func main() {
	outDir := flag.String("out", "artifacts", "output directory for the bundle")
	seed := flag.Int64("seed", 42, "seed for the placeholder weights")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	features := []string{
		"Global_intensity",
		"Sub_metering_3",
		"Voltage",
		"Global_reactive_power",
		"Sub_metering_2",
	}
	const target = "Global_active_power"

	// Trained column order: features first, target last.
	columns := append(append([]string{}, features...), target)

	// Per-column spans of the household dataset.
	ranges := map[string]artifact.Range{
		"Global_intensity":      {Min: 0, Max: 50},
		"Sub_metering_3":        {Min: 0, Max: 50},
		"Voltage":               {Min: 200, Max: 260},
		"Global_reactive_power": {Min: 0, Max: 2},
		"Sub_metering_2":        {Min: 0, Max: 50},
		"Global_active_power":   {Min: 0, Max: 12},
	}

	mins := make([]float64, len(columns))
	maxs := make([]float64, len(columns))
	for i, c := range columns {
		mins[i] = ranges[c].Min
		maxs[i] = ranges[c].Max
	}

	sc, err := scaler.New(columns, mins, maxs)
	if err != nil {
		log.Fatal().Err(err).Msg("building scaler")
	}

	model, err := buildNetwork(len(columns), *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("building network")
	}

	cfg := artifact.ModelConfig{
		Lookback:        lookback,
		Horizon:         1,
		TargetColumn:    target,
		TargetIndex:     len(columns) - 1,
		PlausibleRanges: ranges,
	}

	arts, err := artifact.New(model, sc, features, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bundle failed consistency checks")
	}

	if err := arts.Save(*outDir); err != nil {
		log.Fatal().Err(err).Msg("writing bundle")
	}

	fmt.Printf("wrote demo bundle to %s\n", *outDir)
	fmt.Printf("  model: %d layers, %d params, input %d (%d steps x %d channels)\n",
		len(model.Layers()), model.NumParams(), model.InSize(), lookback, len(columns))
}

// buildNetwork assembles the reference architecture: temporal
// convolution, bidirectional LSTM encoding, attention pooling and a
// two-layer regression head.
func buildNetwork(channels int, seed int64) (*net.Network, error) {
	conv := layer.NewConv1D(lookback, channels, convFilters, kernel, activations.ReLU{})
	bi := layer.NewBidirectional(
		layer.NewLSTM(convFilters, lstmUnits),
		layer.NewLSTM(convFilters, lstmUnits),
		lookback,
	)
	attn := layer.NewAttentionPool(lookback, lstmUnits*2)
	hidden := layer.NewDense(lstmUnits*2, headUnits, activations.ReLU{})
	head := layer.NewDense(headUnits, 1, activations.Linear{})

	rng := rand.New(rand.NewSource(seed))
	for _, l := range []layer.Layer{conv, bi, attn, hidden, head} {
		params := l.Params()
		for i := range params {
			params[i] = rng.Float64()*0.2 - 0.1
		}
		l.SetParams(params)
	}

	return net.New(conv, bi, attn, hidden, head)
}
