package delimiter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

func cells(vals ...string) []table.Cell {
	out := make([]table.Cell, len(vals))
	for i, v := range vals {
		out[i] = table.Text(v)
	}
	return out
}

func TestAnalyzeColumn_SecondaryDelimiter(t *testing.T) {
	p := AnalyzeColumn(cells("a,b", "a-b", "a,c", "a,d"))
	require.NotNil(t, p)

	assert.Equal(t, Primary{Character: ",", TotalOccurrences: 3}, p.Primary)
	assert.Equal(t, map[string]int{",": 3, "-": 1}, p.AllDelimiters)
	assert.Equal(t, []int{1}, p.DefectIndices())
	assert.Equal(t, 1, p.TotalRowsWithDefects)
	assert.Equal(t, 4, p.TotalRowsAnalyzed)

	row := p.DefectRows[1]
	assert.Equal(t, "a-b", row.Value)
	assert.Equal(t, DefectDetail{
		Count:         1,
		TotalInColumn: 1,
		Reasoning:     "Secondary delimiter (used 1 times in column) vs primary delimiter ',' (used 3 times)",
	}, row.Defects["-"])
}

func TestAnalyzeColumn_SingleDelimiter(t *testing.T) {
	p := AnalyzeColumn(cells("x|y", "x|y|z", "plain"))
	require.NotNil(t, p)
	assert.Equal(t, "|", p.Primary.Character)
	assert.Equal(t, 3, p.Primary.TotalOccurrences)
	assert.Empty(t, p.DefectRows)
	assert.Equal(t, 0, p.TotalRowsWithDefects)
	assert.Equal(t, 2, p.TotalRowsAnalyzed)
}

func TestAnalyzeColumn_NoDelimiters(t *testing.T) {
	assert.Nil(t, AnalyzeColumn(cells("alpha", "beta", "")))
	assert.Nil(t, AnalyzeColumn(nil))
	assert.Nil(t, AnalyzeColumn([]table.Cell{table.Absent, table.Absent}))
}

func TestAnalyzeColumn_TieGoesToEarlierCandidate(t *testing.T) {
	// "/" and "-" both occur twice; "-" comes first in the candidate list.
	p := AnalyzeColumn(cells("a/b", "c-d", "e/f", "g-h"))
	require.NotNil(t, p)
	assert.Equal(t, "-", p.Primary.Character)
	assert.Equal(t, []int{0, 2}, p.DefectIndices())
}

func TestAnalyzeColumn_SkipsAbsentKeepsIndices(t *testing.T) {
	col := []table.Cell{table.Absent, table.Text("a;b"), table.Absent, table.Text("a;b;c"), table.Text(`a\b`)}
	p := AnalyzeColumn(col)
	require.NotNil(t, p)
	assert.Equal(t, ";", p.Primary.Character)
	assert.Equal(t, []int{4}, p.DefectIndices())
	assert.Equal(t, 3, p.TotalRowsAnalyzed)
}

func TestAnalyzeColumn_MixedRowHasOnlySecondaryInDefects(t *testing.T) {
	p := AnalyzeColumn(cells("1,2,3", "4,5:6", "7,8"))
	require.NotNil(t, p)
	require.Contains(t, p.DefectRows, 1)

	d := p.DefectRows[1].Defects
	assert.Len(t, d, 1)
	assert.Contains(t, d, ":")
	assert.NotContains(t, d, ",")
}

func TestAnalyzeColumn_NumbersUseStringForm(t *testing.T) {
	col := []table.Cell{table.Number(-5), table.Text("1,2"), table.Text("3,4")}
	p := AnalyzeColumn(col)
	require.NotNil(t, p)
	assert.Equal(t, []int{0}, p.DefectIndices())
}

func TestAnalyzeColumn_DefectKeysHaveDelimiters(t *testing.T) {
	col := cells("a,b", "none", "a-b", "x", "c,d", "e:f")
	p := AnalyzeColumn(col)
	require.NotNil(t, p)

	for idx := range p.DefectRows {
		s := col[idx].String()
		assert.NotEqual(t, "none", s)
		assert.NotEqual(t, "x", s)
	}
	assert.Equal(t, []int{2, 5}, p.DefectIndices())
}

func TestAnalyzeColumn_Idempotent(t *testing.T) {
	col := cells("a,b", "a-b", "a/c")
	assert.Equal(t, AnalyzeColumn(col), AnalyzeColumn(col))
}

func TestAnalyzeTable(t *testing.T) {
	tbl := table.New("t", []string{"codes", "names", "dates"})
	tbl.AppendRow([]table.Cell{table.Text("a,b"), table.Text("Ann"), table.Text("2024-01-02")})
	tbl.AppendRow([]table.Cell{table.Text("a-b"), table.Text("Bo"), table.Text("2024/01/03")})
	tbl.AppendRow([]table.Cell{table.Text("c,d"), table.Absent, table.Text("2024-01-04")})
	tbl.AppendRow([]table.Cell{table.Text("e,f"), table.Text("Cy"), table.Text("2024-01-05")})

	got := AnalyzeTable(tbl)
	assert.Equal(t, map[string][]int{
		"codes": {1},
		"dates": {1},
	}, got)

	profiles := ProfileTable(tbl)
	assert.Len(t, profiles, 2)
	assert.NotContains(t, profiles, "names")
}

func TestProfileJSON(t *testing.T) {
	p := AnalyzeColumn(cells("a,b", "a-b"))
	require.NotNil(t, p)

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Contains(t, decoded, "primary_delimiter")
	assert.Contains(t, decoded, "all_delimiters")
	assert.Contains(t, decoded["defect_rows"], "1")
	assert.EqualValues(t, 1, decoded["total_rows_with_defects"])
	assert.EqualValues(t, 2, decoded["total_rows_analyzed"])
}
