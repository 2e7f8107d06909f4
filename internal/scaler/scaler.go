// Package scaler provides the fitted per-column min-max transform the
// model was trained with. The transform is frozen at training time and
// shipped as a JSON artifact; at serving time it is applied forward to
// raw sensor windows and inverted to turn the scaled prediction back
// into kilowatts.
package scaler

import (
	"encoding/json"
	"fmt"
	"os"
)

// MinMax is a fitted affine transform over a fixed, ordered set of
// columns. Column i maps v -> (v - Min[i]) / (Max[i] - Min[i]).
// Immutable after load.
type MinMax struct {
	Columns []string  `json:"columns"`
	Min     []float64 `json:"min"`
	Max     []float64 `json:"max"`
}

// New builds a scaler and checks the internal lengths line up.
func New(columns []string, min, max []float64) (*MinMax, error) {
	s := &MinMax{Columns: columns, Min: min, Max: max}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinMax) validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("scaler: no columns")
	}
	if len(s.Min) != len(s.Columns) || len(s.Max) != len(s.Columns) {
		return fmt.Errorf("scaler: %d columns but %d min / %d max values",
			len(s.Columns), len(s.Min), len(s.Max))
	}
	for i := range s.Columns {
		if s.Max[i] < s.Min[i] {
			return fmt.Errorf("scaler: column %q has max %v below min %v",
				s.Columns[i], s.Max[i], s.Min[i])
		}
	}
	return nil
}

// NumColumns returns the fitted column count.
func (s *MinMax) NumColumns() int {
	return len(s.Columns)
}

// Transform scales a full-width row in column order.
// A degenerate column (max == min) maps to 0, matching how the training
// pipeline treated constant columns.
func (s *MinMax) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Columns) {
		return nil, fmt.Errorf("scaler: row has %d values, expected %d", len(row), len(s.Columns))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		span := s.Max[i] - s.Min[i]
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.Min[i]) / span
	}
	return out, nil
}

// Inverse maps a scaled full-width row back to physical units.
func (s *MinMax) Inverse(row []float64) ([]float64, error) {
	if len(row) != len(s.Columns) {
		return nil, fmt.Errorf("scaler: row has %d values, expected %d", len(row), len(s.Columns))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = v*(s.Max[i]-s.Min[i]) + s.Min[i]
	}
	return out, nil
}

// ColumnIndex returns the position of a column by name, or -1.
func (s *MinMax) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Save writes the scaler artifact as indented JSON.
func (s *MinMax) Save(filename string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// Load reads a scaler artifact from a JSON file.
func Load(filename string) (*MinMax, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	var s MinMax
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
