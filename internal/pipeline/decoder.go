package pipeline

import (
	"fmt"
	"math"

	"github.com/gridsense/powercast/internal/scaler"
)

// Decode maps the scaled model output back to kilowatts.
//
// The min-max inverse is defined per column, so the scalar must travel
// through a full-width vector with the prediction sitting in the
// target's trained column: inverting a bare scalar would silently apply
// some other column's min and span and yield a wrong physical value.
func Decode(scaled float64, sc *scaler.MinMax, targetIndex int) (float64, error) {
	if targetIndex < 0 || targetIndex >= sc.NumColumns() {
		return 0, &DecodeError{Msg: fmt.Sprintf("target index %d outside scaler's %d columns",
			targetIndex, sc.NumColumns())}
	}

	padded := make([]float64, sc.NumColumns())
	padded[targetIndex] = scaled

	restored, err := sc.Inverse(padded)
	if err != nil {
		return 0, &DecodeError{Msg: err.Error()}
	}

	kw := restored[targetIndex]
	if math.IsNaN(kw) || math.IsInf(kw, 0) {
		return 0, &DecodeError{Msg: fmt.Sprintf("inverse transform produced non-finite value %v", kw)}
	}
	return kw, nil
}
