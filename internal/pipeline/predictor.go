// Package pipeline implements the prediction path: raw upload in,
// next-hour kilowatt figure out. Each stage is a pure function over
// the frozen artifact bundle; the Predictor facade sequences them and
// is the only entry point the surrounding layers consume.
package pipeline

import (
	"sync"

	"github.com/gridsense/powercast/internal/artifact"
	"github.com/gridsense/powercast/internal/table"
)

// Result is a completed prediction: the next-hour estimate plus the
// validated, unscaled historical target values the caller can chart.
// History is pure pass-through from the upload, not model output.
type Result struct {
	PredictedKW float64
	HistoryKW   []float64
	Warnings    []Warning
}

// Predictor sequences validation, tensor building, inference and
// decoding over an immutable artifact bundle. Stateless across calls
// and safe for concurrent use: the only shared mutable state is the
// network's internal buffers, guarded by a single lock around the
// forward pass.
type Predictor struct {
	arts   *artifact.Artifacts
	policy PlausibilityPolicy

	// The network reuses layer buffers between calls.
	inferMu sync.Mutex
}

// NewPredictor creates a predictor over a loaded artifact bundle.
func NewPredictor(arts *artifact.Artifacts, policy PlausibilityPolicy) *Predictor {
	if policy == "" {
		policy = PlausibilityWarn
	}
	return &Predictor{arts: arts, policy: policy}
}

// Artifacts exposes the read-only bundle for callers that report on it.
func (p *Predictor) Artifacts() *artifact.Artifacts {
	return p.arts
}

// Predict runs the full pipeline over one raw upload.
// Failures are typed: *ValidationError for user-correctable input,
// *ShapeError / *InferenceError / *DecodeError for internal faults.
func (p *Predictor) Predict(raw *table.RawTable) (*Result, error) {
	window, err := Validate(raw, p.arts, p.policy)
	if err != nil {
		return nil, err
	}

	tensor, err := BuildTensor(window, p.arts.Scaler, p.arts.Config.Lookback)
	if err != nil {
		return nil, err
	}

	p.inferMu.Lock()
	scaled, err := Infer(p.arts.Model, tensor)
	p.inferMu.Unlock()
	if err != nil {
		return nil, err
	}

	kw, err := Decode(scaled, p.arts.Scaler, p.arts.Config.TargetIndex)
	if err != nil {
		return nil, err
	}

	return &Result{
		PredictedKW: kw,
		HistoryKW:   window.History,
		Warnings:    window.Warnings,
	}, nil
}
