package pipeline

import (
	"fmt"
	"math"

	"github.com/gridsense/powercast/internal/net"
)

// Infer runs a single forward pass over the built tensor and returns
// the raw scaled scalar. No training-mode behavior: dropout is the
// identity and no gradients exist at serving time. Deterministic given
// identical weights and input, so failures are never retried.
//
// The network reuses internal buffers; the caller serializes access.
func Infer(model *net.Network, t *Tensor) (float64, error) {
	if t.Batch != 1 {
		return 0, &InferenceError{Msg: fmt.Sprintf("batch size %d, expected 1", t.Batch)}
	}
	if want := model.InSize(); len(t.Data) != want {
		return 0, &InferenceError{Msg: fmt.Sprintf("tensor holds %d values, model expects %d", len(t.Data), want)}
	}

	out := model.Forward(t.Data)
	if len(out) != 1 {
		return 0, &InferenceError{Msg: fmt.Sprintf("model emitted %d values, expected 1", len(out))}
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, &InferenceError{Msg: fmt.Sprintf("model emitted non-finite value %v", out[0])}
	}
	return out[0], nil
}
