package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

func sample() *table.Table {
	tbl := table.New("s", []string{"name", "qty", "note"})
	tbl.AppendRow([]table.Cell{table.Text("Ann"), table.Text("3"), table.Text("tbd")})
	tbl.AppendRow([]table.Cell{table.Text("Bo"), table.Absent, table.Text("ok")})
	tbl.AppendRow([]table.Cell{table.Text("Ann"), table.Text("3"), table.Text("tbd")})
	tbl.AppendRow([]table.Cell{table.Text("Cy"), table.Number(4.5), table.Text(" Null ")})
	tbl.AppendRow([]table.Cell{table.Absent, table.Absent, table.Absent})
	return tbl
}

func TestProfile_Counts(t *testing.T) {
	r := Profile(sample())

	assert.Equal(t, 5, r.TotalRows)
	assert.Equal(t, 3, r.TotalColumns)
	assert.Equal(t, []string{"name", "qty", "note"}, r.Columns)

	assert.Equal(t, []int{4}, r.MissingPositions["name"])
	assert.Equal(t, []int{1, 4}, r.MissingPositions["qty"])
	assert.Equal(t, 2, r.MissingValues["qty"])
	assert.InDelta(t, 40.0, r.MissingPercentage["qty"], 1e-9)

	assert.Equal(t, []int{0, 2, 3}, r.TBDPositions["note"])
	assert.Equal(t, 3, r.TBDValues["note"])
	assert.InDelta(t, 60.0, r.TBDPercentage["note"], 1e-9)

	// Every column has an entry, even with nothing to report.
	assert.NotNil(t, r.TBDPositions["name"])
	assert.Empty(t, r.TBDPositions["name"])
}

func TestProfile_DataTypes(t *testing.T) {
	r := Profile(sample())
	assert.Equal(t, KindText, r.DataTypes["name"])
	assert.Equal(t, KindNumber, r.DataTypes["qty"])
	assert.Equal(t, KindText, r.DataTypes["note"])

	empty := table.New("e", []string{"x"})
	empty.AppendRow(nil)
	assert.Equal(t, KindEmpty, Profile(empty).DataTypes["x"])
}

func TestProfile_Duplicates(t *testing.T) {
	r := Profile(sample())

	assert.Equal(t, Duplicates{Count: 1, TotalOccurrences: 2, Values: map[string]int{"Ann": 2}}, r.DuplicateInfo["name"])
	assert.Equal(t, Duplicates{Count: 1, TotalOccurrences: 2, Values: map[string]int{"3": 2}}, r.DuplicateInfo["qty"])

	assert.Equal(t, DuplicateRows{Total: 2, Percentage: 40, Indices: []int{0, 2}}, r.DuplicateRows)
}

func TestProfile_AbsentAndEmptyDiffer(t *testing.T) {
	tbl := table.New("d", []string{"a"})
	tbl.AppendRow([]table.Cell{table.Absent})
	tbl.AppendRow([]table.Cell{table.Text("")})

	r := Profile(tbl)
	assert.Equal(t, []int{0}, r.MissingPositions["a"])
	assert.Equal(t, []int{1}, r.TBDPositions["a"])
	assert.Empty(t, r.DuplicateRows.Indices)
}

func TestProfile_EmptyTable(t *testing.T) {
	r := Profile(table.New("z", []string{"a"}))
	require.NotNil(t, r)
	assert.Equal(t, 0, r.TotalRows)
	assert.Zero(t, r.MissingPercentage["a"])
	assert.Equal(t, DuplicateRows{Indices: []int{}}, r.DuplicateRows)
}

func TestIsPlaceholder(t *testing.T) {
	for _, v := range []string{"TBD", "to be determined", " - ", "none", "NULL", "Empty", ""} {
		assert.True(t, IsPlaceholder(table.Text(v)), v)
	}
	assert.False(t, IsPlaceholder(table.Absent))
	assert.False(t, IsPlaceholder(table.Text("n/a")))
	assert.False(t, IsPlaceholder(table.Number(0)))
}
