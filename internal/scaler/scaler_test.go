package scaler

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func householdScaler(t *testing.T) *MinMax {
	t.Helper()
	s, err := New(
		[]string{
			"Global_intensity",
			"Sub_metering_3",
			"Voltage",
			"Global_reactive_power",
			"Sub_metering_2",
			"Global_active_power",
		},
		[]float64{0, 0, 200, 0, 0, 0},
		[]float64{50, 50, 260, 2, 50, 12},
	)
	require.NoError(t, err)
	return s
}

func TestTransformKnownValues(t *testing.T) {
	s := householdScaler(t)

	out, err := s.Transform([]float64{25, 10, 230, 1, 0, 6})
	require.NoError(t, err)

	want := []float64{0.5, 0.2, 0.5, 0.5, 0, 0.5}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-12, "column %s", s.Columns[i])
	}
}

func TestInverseKnownValues(t *testing.T) {
	s := householdScaler(t)

	out, err := s.Inverse([]float64{0.5, 0.2, 0.5, 0.5, 0, 0.5})
	require.NoError(t, err)

	want := []float64{25, 10, 230, 1, 0, 6}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-9, "column %s", s.Columns[i])
	}
}

// Transform then Inverse must return the original values to within
// 1e-6 relative error across random in-range rows.
func TestRoundTrip(t *testing.T) {
	s := householdScaler(t)
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 100; trial++ {
		row := make([]float64, s.NumColumns())
		for i := range row {
			row[i] = s.Min[i] + rng.Float64()*(s.Max[i]-s.Min[i])
		}

		scaled, err := s.Transform(row)
		require.NoError(t, err)
		back, err := s.Inverse(scaled)
		require.NoError(t, err)

		assert.True(t, floats.EqualApprox(row, back, 1e-6), "trial %d: %v != %v", trial, row, back)
	}
}

func TestDegenerateColumn(t *testing.T) {
	s, err := New([]string{"a", "b"}, []float64{0, 5}, []float64{10, 5})
	require.NoError(t, err)

	out, err := s.Transform([]float64{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, out[0])
	assert.Equal(t, 0.0, out[1], "constant column maps to 0")
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err, "empty column set")

	_, err = New([]string{"a", "b"}, []float64{0}, []float64{1, 2})
	assert.Error(t, err, "length mismatch")

	_, err = New([]string{"a"}, []float64{5}, []float64{1})
	assert.Error(t, err, "max below min")
}

func TestRowWidthChecked(t *testing.T) {
	s := householdScaler(t)

	_, err := s.Transform([]float64{1, 2, 3})
	assert.Error(t, err)
	_, err = s.Inverse(make([]float64, 7))
	assert.Error(t, err)
}

func TestColumnIndex(t *testing.T) {
	s := householdScaler(t)
	assert.Equal(t, 5, s.ColumnIndex("Global_active_power"))
	assert.Equal(t, 0, s.ColumnIndex("Global_intensity"))
	assert.Equal(t, -1, s.ColumnIndex("Humidity"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := householdScaler(t)
	path := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Columns, loaded.Columns)
	assert.Equal(t, s.Min, loaded.Min)
	assert.Equal(t, s.Max, loaded.Max)
}

func TestLoadRejectsInconsistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.json")
	data := `{"columns":["a","b"],"min":[0],"max":[1]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
