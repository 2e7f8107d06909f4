package pipeline

import (
	"github.com/gridsense/powercast/internal/scaler"
	"gonum.org/v1/gonum/mat"
)

// Tensor is the model input: a batch of one lookback window, each
// timestep holding every scaled channel. Data is laid out batch-major,
// then timestep, then channel.
type Tensor struct {
	Batch    int
	Steps    int
	Channels int
	Data     []float64
}

// BuildTensor stacks the window's rows chronologically, scales every
// value through the fitted transform and prepends the batch axis.
// Pure and deterministic; the scaler is read-only here.
//
// The shape check is defensive — the validator already guarantees the
// window dimensions — so a ShapeError out of here is a bug upstream.
func BuildTensor(w *InputWindow, sc *scaler.MinMax, lookback int) (*Tensor, error) {
	channels := sc.NumColumns()
	if len(w.Rows) != lookback {
		return nil, &ShapeError{
			WantSteps: lookback, WantChannels: channels,
			GotSteps: len(w.Rows), GotChannels: channels,
		}
	}
	for _, row := range w.Rows {
		if len(row) != channels {
			return nil, &ShapeError{
				WantSteps: lookback, WantChannels: channels,
				GotSteps: len(w.Rows), GotChannels: len(row),
			}
		}
	}

	window := mat.NewDense(lookback, channels, nil)
	for t, row := range w.Rows {
		scaled, err := sc.Transform(row)
		if err != nil {
			return nil, &ShapeError{
				WantSteps: lookback, WantChannels: channels,
				GotSteps: len(w.Rows), GotChannels: len(row),
			}
		}
		window.SetRow(t, scaled)
	}

	data := make([]float64, lookback*channels)
	copy(data, window.RawMatrix().Data)

	return &Tensor{
		Batch:    1,
		Steps:    lookback,
		Channels: channels,
		Data:     data,
	}, nil
}
