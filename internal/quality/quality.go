// Package quality computes per-column completeness and duplication
// statistics for an uploaded table.
package quality

import (
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

// Placeholders are values that stand in for missing data. Matching is
// case-insensitive after trimming. Absent cells are counted as missing,
// never as placeholders.
var Placeholders = []string{"TBD", "TO BE DETERMINED", "-", "", "NONE", "NULL", "EMPTY"}

// Data kinds reported per column.
const (
	KindText   = "text"
	KindNumber = "number"
	KindEmpty  = "empty"
)

// Duplicates summarizes repeated values in one column.
type Duplicates struct {
	Count            int            `json:"count"`
	TotalOccurrences int            `json:"total_occurrences"`
	Values           map[string]int `json:"values"`
}

// DuplicateRows lists every row that has an identical twin.
type DuplicateRows struct {
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Indices    []int   `json:"indices"`
}

// Report is the full statistics block. Every per-column map has an entry for
// every column.
type Report struct {
	TotalRows         int                   `json:"total_rows"`
	TotalColumns      int                   `json:"total_columns"`
	Columns           []string              `json:"columns"`
	MissingValues     map[string]int        `json:"missing_values"`
	TBDValues         map[string]int        `json:"tbd_values"`
	MissingPercentage map[string]float64    `json:"missing_percentage"`
	TBDPercentage     map[string]float64    `json:"tbd_percentage"`
	DataTypes         map[string]string     `json:"data_types"`
	MissingPositions  map[string][]int      `json:"missing_positions"`
	TBDPositions      map[string][]int      `json:"tbd_positions"`
	DuplicateInfo     map[string]Duplicates `json:"duplicate_info"`
	DuplicateRows     DuplicateRows         `json:"duplicate_rows"`
}

// IsPlaceholder reports whether a present cell holds a placeholder value.
func IsPlaceholder(c table.Cell) bool {
	if c.IsAbsent() {
		return false
	}
	v := strings.ToUpper(strings.TrimSpace(c.String()))
	for _, p := range Placeholders {
		if v == p {
			return true
		}
	}
	return false
}

// Profile computes the report for t.
func Profile(t *table.Table) *Report {
	n := len(t.Columns)
	r := &Report{
		TotalRows:         t.Len(),
		TotalColumns:      n,
		Columns:           append([]string(nil), t.Columns...),
		MissingValues:     make(map[string]int, n),
		TBDValues:         make(map[string]int, n),
		MissingPercentage: make(map[string]float64, n),
		TBDPercentage:     make(map[string]float64, n),
		DataTypes:         make(map[string]string, n),
		MissingPositions:  make(map[string][]int, n),
		TBDPositions:      make(map[string][]int, n),
		DuplicateInfo:     make(map[string]Duplicates, n),
	}

	for i, name := range t.Columns {
		col := t.ColumnAt(i)

		missing, tbd := []int{}, []int{}
		for idx, c := range col {
			switch {
			case c.IsAbsent():
				missing = append(missing, idx)
			case IsPlaceholder(c):
				tbd = append(tbd, idx)
			}
		}

		r.MissingPositions[name] = missing
		r.TBDPositions[name] = tbd
		r.MissingValues[name] = len(missing)
		r.TBDValues[name] = len(tbd)
		r.MissingPercentage[name] = percent(len(missing), t.Len())
		r.TBDPercentage[name] = percent(len(tbd), t.Len())
		r.DataTypes[name] = kindOf(col)
		r.DuplicateInfo[name] = duplicateValues(col)
	}

	idx := duplicateRowIndices(t)
	r.DuplicateRows = DuplicateRows{
		Total:      len(idx),
		Percentage: percent(len(idx), t.Len()),
		Indices:    idx,
	}
	return r
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func kindOf(col []table.Cell) string {
	kind := KindEmpty
	for _, c := range col {
		switch c.Kind() {
		case table.KindAbsent:
			continue
		case table.KindNumber:
			kind = KindNumber
		default:
			if _, err := strconv.ParseFloat(strings.TrimSpace(c.String()), 64); err != nil {
				return KindText
			}
			kind = KindNumber
		}
	}
	return kind
}

func duplicateValues(col []table.Cell) Duplicates {
	counts := make(map[string]int)
	for _, c := range col {
		if c.IsAbsent() {
			continue
		}
		counts[c.String()]++
	}

	d := Duplicates{Values: map[string]int{}}
	for v, n := range counts {
		if n < 2 {
			continue
		}
		d.Count++
		d.TotalOccurrences += n
		d.Values[v] = n
	}
	return d
}

// duplicateRowIndices returns, ascending, every row equal to at least one
// other row. Absent and empty-string cells compare as different.
func duplicateRowIndices(t *table.Table) []int {
	groups := make(map[string][]int)
	for i, row := range t.Rows {
		k := rowKey(row)
		groups[k] = append(groups[k], i)
	}

	out := []int{}
	for _, members := range groups {
		if len(members) > 1 {
			out = append(out, members...)
		}
	}
	sort.Ints(out)
	return out
}

func rowKey(row []table.Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.IsAbsent() {
			b.WriteByte(0)
			continue
		}
		s := c.String()
		b.WriteByte(1)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}
