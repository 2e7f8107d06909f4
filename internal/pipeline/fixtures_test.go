package pipeline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridsense/powercast/internal/activations"
	"github.com/gridsense/powercast/internal/artifact"
	"github.com/gridsense/powercast/internal/layer"
	"github.com/gridsense/powercast/internal/net"
	"github.com/gridsense/powercast/internal/scaler"
	"github.com/gridsense/powercast/internal/table"
)

const fixtureLookback = 24

// canonicalColumns is the trained channel order: features first, the
// regression target last.
var canonicalColumns = []string{
	"Global_intensity",
	"Sub_metering_3",
	"Voltage",
	"Global_reactive_power",
	"Sub_metering_2",
	"Global_active_power",
}

// uploadHeader deliberately differs from the trained order; uploads may
// arrange columns however they like.
var uploadHeader = []string{
	"Voltage",
	"Global_active_power",
	"Global_intensity",
	"Sub_metering_3",
	"Global_reactive_power",
	"Sub_metering_2",
}

var fixtureRanges = map[string]artifact.Range{
	"Global_intensity":      {Min: 0, Max: 50},
	"Sub_metering_3":        {Min: 0, Max: 50},
	"Voltage":               {Min: 200, Max: 260},
	"Global_reactive_power": {Min: 0, Max: 2},
	"Sub_metering_2":        {Min: 0, Max: 50},
	"Global_active_power":   {Min: 0, Max: 12},
}

// rowValues produces plausible hourly readings; row 0 is a real
// household sample, later rows drift gently.
func rowValues(r int) map[string]float64 {
	if r == 0 {
		return map[string]float64{
			"Global_intensity":      4.628,
			"Sub_metering_3":        17.0,
			"Voltage":               234.84,
			"Global_reactive_power": 0.226,
			"Sub_metering_2":        1.0,
			"Global_active_power":   1.088,
		}
	}
	fr := float64(r)
	return map[string]float64{
		"Global_intensity":      4.0 + 0.05*fr,
		"Sub_metering_3":        15.0 + 0.1*fr,
		"Voltage":               233.0 + 0.2*fr,
		"Global_reactive_power": 0.2 + 0.001*fr,
		"Sub_metering_2":        1.0,
		"Global_active_power":   1.0 + 0.05*fr,
	}
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// sampleTable builds a full valid lookback window in upload order.
func sampleTable() *table.RawTable {
	rows := make([][]string, fixtureLookback)
	for r := 0; r < fixtureLookback; r++ {
		values := rowValues(r)
		row := make([]string, len(uploadHeader))
		for c, name := range uploadHeader {
			row[c] = formatCell(values[name])
		}
		rows[r] = row
	}
	return &table.RawTable{
		Header: append([]string{}, uploadHeader...),
		Rows:   rows,
	}
}

func fixtureScaler(t *testing.T) *scaler.MinMax {
	t.Helper()
	mins := make([]float64, len(canonicalColumns))
	maxs := make([]float64, len(canonicalColumns))
	for i, c := range canonicalColumns {
		mins[i] = fixtureRanges[c].Min
		maxs[i] = fixtureRanges[c].Max
	}
	s, err := scaler.New(append([]string{}, canonicalColumns...), mins, maxs)
	require.NoError(t, err)
	return s
}

// fixtureModel is a linear head with zero weights and bias 0.5, so
// every prediction lands at the midpoint of the target's scaled range.
// Decoded through the fixture scaler that is 6.0 kW.
func fixtureModel(t *testing.T) *net.Network {
	t.Helper()
	head := layer.NewDense(fixtureLookback*len(canonicalColumns), 1, activations.Linear{})
	params := head.Params()
	params[len(params)-1] = 0.5
	head.SetParams(params)

	n, err := net.New(head)
	require.NoError(t, err)
	return n
}

func fixtureBundle(t *testing.T) *artifact.Artifacts {
	t.Helper()
	features := artifact.Manifest(canonicalColumns[:len(canonicalColumns)-1])
	arts, err := artifact.New(fixtureModel(t), fixtureScaler(t), features, artifact.ModelConfig{
		Lookback:        fixtureLookback,
		Horizon:         1,
		TargetColumn:    "Global_active_power",
		TargetIndex:     len(canonicalColumns) - 1,
		PlausibleRanges: fixtureRanges,
	})
	require.NoError(t, err)
	return arts
}

// dropColumn removes one column from the table in place.
func dropColumn(tbl *table.RawTable, name string) {
	idx := tbl.ColumnIndex(name)
	if idx < 0 {
		return
	}
	tbl.Header = append(tbl.Header[:idx], tbl.Header[idx+1:]...)
	for r := range tbl.Rows {
		tbl.Rows[r] = append(tbl.Rows[r][:idx], tbl.Rows[r][idx+1:]...)
	}
}

// addColumn appends a constant extra column.
func addColumn(tbl *table.RawTable, name, value string) {
	tbl.Header = append(tbl.Header, name)
	for r := range tbl.Rows {
		tbl.Rows[r] = append(tbl.Rows[r], value)
	}
}

// setCell overwrites one cell by row and column name.
func setCell(tbl *table.RawTable, row int, column, value string) {
	tbl.Rows[row][tbl.ColumnIndex(column)] = value
}
