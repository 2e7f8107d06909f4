package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/gridsense/powercast/internal/artifact"
	"github.com/gridsense/powercast/internal/table"
)

// PlausibilityPolicy controls how values outside the training-data
// range are treated. The model cannot promise accuracy outside its
// training distribution, but such values are not necessarily wrong,
// so the default only flags them.
type PlausibilityPolicy string

const (
	PlausibilityOff    PlausibilityPolicy = "off"
	PlausibilityWarn   PlausibilityPolicy = "warn"
	PlausibilityReject PlausibilityPolicy = "reject"
)

// Warning flags a suspicious but accepted value.
type Warning struct {
	Row    int     `json:"row"`
	Column string  `json:"column"`
	Value  float64 `json:"value"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d, column %q: %g is outside the training range [%g, %g]",
		w.Row, w.Column, w.Value, w.Min, w.Max)
}

// InputWindow is one validated lookback window: rows in chronological
// order (row 0 oldest), each row arranged in the canonical trained
// column order. Built per request and discarded afterwards.
type InputWindow struct {
	Columns  []string
	Rows     [][]float64
	History  []float64 // raw target values, chronological
	Warnings []Warning
}

// Validate turns a raw upload into an InputWindow or rejects it with a
// ValidationError. Checks run in a fixed order so the user always sees
// the most structural problem first: row count, column set, numeric
// cells, plausibility. Pure function of its input.
func Validate(raw *table.RawTable, arts *artifact.Artifacts, policy PlausibilityPolicy) (*InputWindow, error) {
	lookback := arts.Config.Lookback
	if raw.NumRows() != lookback {
		return nil, &ValidationError{
			Reason:   RowCountMismatch,
			Expected: lookback,
			Actual:   raw.NumRows(),
		}
	}

	order := arts.ColumnOrder()
	if err := checkColumns(raw, order); err != nil {
		return nil, err
	}

	// Source column index for every canonical channel. From here on,
	// order comes only from this mapping — never from header lookups.
	srcIdx := make([]int, len(order))
	for i, name := range order {
		srcIdx[i] = raw.ColumnIndex(name)
	}
	targetIdx := arts.Config.TargetIndex

	window := &InputWindow{
		Columns: order,
		Rows:    make([][]float64, lookback),
		History: make([]float64, lookback),
	}

	for r, rec := range raw.Rows {
		row := make([]float64, len(order))
		for c, name := range order {
			if srcIdx[c] >= len(rec) {
				return nil, &ValidationError{Reason: NonNumericValue, Row: r, Column: name}
			}
			cell := rec[srcIdx[c]]
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ValidationError{Reason: NonNumericValue, Row: r, Column: name, Value: cell}
			}
			row[c] = v
		}
		window.Rows[r] = row
		window.History[r] = row[targetIdx]
	}

	if policy != PlausibilityOff && len(arts.Config.PlausibleRanges) > 0 {
		if err := checkPlausibility(window, arts.Config.PlausibleRanges, policy); err != nil {
			return nil, err
		}
	}

	return window, nil
}

// checkColumns compares the upload's column set against the required
// one and reports the symmetric difference by name.
func checkColumns(raw *table.RawTable, required []string) error {
	requiredSet := make(map[string]bool, len(required))
	for _, name := range required {
		requiredSet[name] = true
	}
	headerSet := make(map[string]bool, len(raw.Header))
	for _, name := range raw.Header {
		headerSet[name] = true
	}

	var missing, unexpected []string
	for _, name := range required {
		if !headerSet[name] {
			missing = append(missing, name)
		}
	}
	for _, name := range raw.Header {
		if name != "" && !requiredSet[name] {
			unexpected = append(unexpected, name)
		}
	}

	// Missing columns make the window unusable regardless of extras,
	// so they are reported first.
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{Reason: MissingColumns, Columns: missing}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return &ValidationError{Reason: UnexpectedColumns, Columns: unexpected}
	}
	return nil
}

func checkPlausibility(w *InputWindow, ranges map[string]artifact.Range, policy PlausibilityPolicy) error {
	for c, name := range w.Columns {
		bounds, ok := ranges[name]
		if !ok {
			continue
		}
		for r, row := range w.Rows {
			v := row[c]
			if v >= bounds.Min && v <= bounds.Max {
				continue
			}
			if policy == PlausibilityReject {
				return &ValidationError{
					Reason: ImplausibleValue,
					Row:    r,
					Column: name,
					Value:  strconv.FormatFloat(v, 'g', -1, 64),
				}
			}
			w.Warnings = append(w.Warnings, Warning{
				Row:    r,
				Column: name,
				Value:  v,
				Min:    bounds.Min,
				Max:    bounds.Max,
			})
		}
	}
	return nil
}
