package pipeline

import (
	"fmt"
	"strings"
)

// ValidationReason discriminates the user-correctable rejection causes.
type ValidationReason string

const (
	// RowCountMismatch: the upload does not hold exactly one lookback
	// window of rows.
	RowCountMismatch ValidationReason = "row_count_mismatch"
	// MissingColumns: required columns are absent from the header.
	MissingColumns ValidationReason = "missing_columns"
	// UnexpectedColumns: the header names columns the model was never
	// trained on.
	UnexpectedColumns ValidationReason = "unexpected_columns"
	// NonNumericValue: a cell does not parse as a finite real number.
	NonNumericValue ValidationReason = "non_numeric_value"
	// ImplausibleValue: a value falls outside the training-data range
	// and the serving policy rejects rather than warns.
	ImplausibleValue ValidationReason = "implausible_value"
)

// ValidationError reports bad input with enough detail for the user to
// fix their file. It is always a client fault, never a server fault.
type ValidationError struct {
	Reason   ValidationReason
	Expected int      // row counts
	Actual   int      // row counts
	Columns  []string // offending column names
	Row      int      // offending data row (0-based, header excluded)
	Column   string   // offending column name
	Value    string   // offending cell content
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case RowCountMismatch:
		return fmt.Sprintf("upload must contain exactly %d rows of hourly history, found %d",
			e.Expected, e.Actual)
	case MissingColumns:
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
	case UnexpectedColumns:
		return fmt.Sprintf("unexpected columns: %s", strings.Join(e.Columns, ", "))
	case NonNumericValue:
		if e.Value == "" {
			return fmt.Sprintf("row %d, column %q has no value", e.Row, e.Column)
		}
		return fmt.Sprintf("row %d, column %q contains %q, which is not a finite number",
			e.Row, e.Column, e.Value)
	case ImplausibleValue:
		return fmt.Sprintf("row %d, column %q contains %s, outside the plausible range seen in training",
			e.Row, e.Column, e.Value)
	default:
		return fmt.Sprintf("invalid input (%s)", e.Reason)
	}
}

// ShapeError reports a tensor whose dimensions do not match the model
// contract. It is defensive: unreachable when validation ran first, so
// an occurrence is a bug, not a user mistake.
type ShapeError struct {
	WantSteps, WantChannels int
	GotSteps, GotChannels   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("tensor shape (%d steps, %d channels) does not match model shape (%d steps, %d channels)",
		e.GotSteps, e.GotChannels, e.WantSteps, e.WantChannels)
}

// InferenceError reports a failed forward pass. The computation is
// deterministic, so there is nothing to retry.
type InferenceError struct {
	Msg string
}

func (e *InferenceError) Error() string {
	return "inference failed: " + e.Msg
}

// DecodeError reports a failure turning the scaled model output back
// into physical units.
type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string {
	return "decoding prediction failed: " + e.Msg
}
