// Package powercast is the public entry point for the next-hour
// electricity forecasting pipeline. It re-exports the pieces a host
// application needs: load the frozen artifacts once, build a predictor
// over them, feed it parsed uploads.
package powercast

import (
	"io"

	"github.com/gridsense/powercast/internal/artifact"
	"github.com/gridsense/powercast/internal/pipeline"
	"github.com/gridsense/powercast/internal/table"
)

// Re-export the pipeline types consumed by host applications.
type (
	Artifacts       = artifact.Artifacts
	ArtifactError   = artifact.Error
	Manifest        = artifact.Manifest
	ModelConfig     = artifact.ModelConfig
	Predictor       = pipeline.Predictor
	Result          = pipeline.Result
	RawTable        = table.RawTable
	Warning         = pipeline.Warning
	ValidationError = pipeline.ValidationError
	ShapeError      = pipeline.ShapeError
	InferenceError  = pipeline.InferenceError
	DecodeError     = pipeline.DecodeError
)

// Plausibility policies for out-of-training-range values.
const (
	PlausibilityOff    = pipeline.PlausibilityOff
	PlausibilityWarn   = pipeline.PlausibilityWarn
	PlausibilityReject = pipeline.PlausibilityReject
)

// LoadArtifacts reads and cross-validates the artifact directory.
// Call once at process start; a failure is fatal for serving.
func LoadArtifacts(dir string) (*Artifacts, error) {
	return artifact.Load(dir)
}

// NewPredictor builds the prediction facade over a loaded bundle.
func NewPredictor(arts *Artifacts, policy pipeline.PlausibilityPolicy) *Predictor {
	return pipeline.NewPredictor(arts, policy)
}

// ReadCSV parses CSV content into the raw table the predictor accepts.
func ReadCSV(r io.Reader) (*RawTable, error) {
	return table.ReadCSV(r)
}
