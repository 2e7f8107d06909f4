// Package artifact loads and validates the frozen training artifacts
// the serving pipeline depends on: the model snapshot, the fitted
// scaler, the feature manifest and the model config. Loading happens
// once at process start; the resulting bundle is immutable and shared
// read-only by every request.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridsense/powercast/internal/net"
	"github.com/gridsense/powercast/internal/scaler"
)

// Artifact file names inside the artifact directory.
const (
	ModelFile    = "model.gob"
	ScalerFile   = "scaler.json"
	FeaturesFile = "features.json"
	ConfigFile   = "config.json"
)

// Error is a fatal artifact problem: a missing, malformed or mutually
// inconsistent artifact. The process must not serve predictions when
// loading fails with it.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("artifact: %s: %v", e.Msg, e.Err)
	}
	return "artifact: " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Manifest is the frozen, ordered list of input feature names. It
// defines the required upload columns together with the target column.
type Manifest []string

// Contains reports whether the manifest holds the given feature name.
func (m Manifest) Contains(name string) bool {
	for _, f := range m {
		if f == name {
			return true
		}
	}
	return false
}

// Range is an inclusive plausibility bound for one column, taken from
// the training data distribution.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ModelConfig is the frozen training configuration record.
type ModelConfig struct {
	Lookback     int    `json:"lookback"`
	Horizon      int    `json:"horizon"`
	TargetColumn string `json:"target_col"`
	// TargetIndex is the target's position within the scaler's trained
	// column order. Derived from the scaler when the file omits it.
	TargetIndex int `json:"target_index"`
	// PlausibleRanges optionally bounds each column to the span seen in
	// training data; how violations are treated is a serving policy.
	PlausibleRanges map[string]Range `json:"plausible_ranges,omitempty"`
}

// Artifacts is the immutable bundle of everything the pipeline needs.
// Construct it with New (fixtures) or Load (artifact directory) and
// pass it into the predictor; nothing mutates it afterwards.
type Artifacts struct {
	Model    *net.Network
	Scaler   *scaler.MinMax
	Manifest Manifest
	Config   ModelConfig
}

// ColumnOrder returns the canonical channel order fed to the model:
// the scaler's trained column order. This is the only place column
// order is ever decided; every downstream component consumes rows
// already arranged this way.
func (a *Artifacts) ColumnOrder() []string {
	return a.Scaler.Columns
}

// NumChannels returns the model's per-timestep channel count
// (features plus target).
func (a *Artifacts) NumChannels() int {
	return a.Scaler.NumColumns()
}

// New assembles and cross-validates an artifact bundle. Every
// consistency rule lives here so that a directory load and a test
// fixture go through identical checks.
func New(model *net.Network, sc *scaler.MinMax, manifest Manifest, cfg ModelConfig) (*Artifacts, error) {
	if model == nil || sc == nil {
		return nil, errorf("model and scaler are required")
	}
	if len(manifest) == 0 {
		return nil, errorf("feature manifest is empty")
	}
	seen := make(map[string]bool, len(manifest))
	for _, f := range manifest {
		if seen[f] {
			return nil, errorf("feature manifest lists %q twice", f)
		}
		seen[f] = true
	}
	if cfg.Lookback <= 0 {
		return nil, errorf("config lookback must be positive, got %d", cfg.Lookback)
	}
	if cfg.Horizon != 1 {
		return nil, errorf("config horizon must be 1, got %d", cfg.Horizon)
	}
	if cfg.TargetColumn == "" {
		return nil, errorf("config target column is empty")
	}
	if manifest.Contains(cfg.TargetColumn) {
		return nil, errorf("target column %q must not appear in the feature manifest", cfg.TargetColumn)
	}

	// Scaler width: features plus the target channel.
	if sc.NumColumns() != len(manifest)+1 {
		return nil, errorf("scaler expects %d columns, manifest implies %d (%d features + target)",
			sc.NumColumns(), len(manifest)+1, len(manifest))
	}

	// The scaler's column order is the trained channel order; it must
	// cover exactly the manifest features and the target.
	for _, f := range manifest {
		if sc.ColumnIndex(f) < 0 {
			return nil, errorf("scaler is missing manifest feature %q", f)
		}
	}
	targetIdx := sc.ColumnIndex(cfg.TargetColumn)
	if targetIdx < 0 {
		return nil, errorf("scaler is missing target column %q", cfg.TargetColumn)
	}
	if cfg.TargetIndex != targetIdx {
		return nil, errorf("config places target at column %d but scaler trained it at %d",
			cfg.TargetIndex, targetIdx)
	}

	// Model input shape: lookback timesteps of all channels, one output.
	wantIn := cfg.Lookback * sc.NumColumns()
	if model.InSize() != wantIn {
		return nil, errorf("model expects %d inputs, artifacts imply %d (%d timesteps x %d channels)",
			model.InSize(), wantIn, cfg.Lookback, sc.NumColumns())
	}
	if model.OutSize() != 1 {
		return nil, errorf("model emits %d outputs, expected a single scaled target", model.OutSize())
	}

	return &Artifacts{
		Model:    model,
		Scaler:   sc,
		Manifest: manifest,
		Config:   cfg,
	}, nil
}

// Load reads the four artifacts from dir and cross-validates them.
// Any failure is fatal for serving.
func Load(dir string) (*Artifacts, error) {
	model, err := net.Load(filepath.Join(dir, ModelFile))
	if err != nil {
		return nil, &Error{Msg: "loading model snapshot", Err: err}
	}

	sc, err := scaler.Load(filepath.Join(dir, ScalerFile))
	if err != nil {
		return nil, &Error{Msg: "loading scaler", Err: err}
	}

	manifest, err := loadManifest(filepath.Join(dir, FeaturesFile))
	if err != nil {
		return nil, &Error{Msg: "loading feature manifest", Err: err}
	}

	cfg, err := loadConfig(filepath.Join(dir, ConfigFile), sc)
	if err != nil {
		return nil, &Error{Msg: "loading config", Err: err}
	}

	return New(model, sc, manifest, cfg)
}

func loadManifest(filename string) (Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func loadConfig(filename string, sc *scaler.MinMax) (ModelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return ModelConfig{}, err
	}

	// target_index is optional in the file; absence means "wherever the
	// scaler trained it".
	var raw struct {
		Lookback        int              `json:"lookback"`
		Horizon         int              `json:"horizon"`
		TargetColumn    string           `json:"target_col"`
		TargetIndex     *int             `json:"target_index"`
		PlausibleRanges map[string]Range `json:"plausible_ranges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ModelConfig{}, err
	}

	cfg := ModelConfig{
		Lookback:        raw.Lookback,
		Horizon:         raw.Horizon,
		TargetColumn:    raw.TargetColumn,
		PlausibleRanges: raw.PlausibleRanges,
	}
	if raw.TargetIndex != nil {
		cfg.TargetIndex = *raw.TargetIndex
	} else {
		cfg.TargetIndex = sc.ColumnIndex(raw.TargetColumn)
	}
	return cfg, nil
}

// Save writes the non-model artifacts of a bundle into dir, and the
// model snapshot alongside them. Used by tooling that assembles demo
// bundles; the serving path never writes artifacts.
func (a *Artifacts) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := a.Model.Save(filepath.Join(dir, ModelFile)); err != nil {
		return err
	}
	if err := a.Scaler.Save(filepath.Join(dir, ScalerFile)); err != nil {
		return err
	}
	manifestData, err := json.MarshalIndent(a.Manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, FeaturesFile), manifestData, 0o644); err != nil {
		return err
	}
	cfgData, err := json.MarshalIndent(a.Config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ConfigFile), cfgData, 0o644)
}
