// Package delimiter finds the dominant separator character of each column and
// flags the rows that use a different one.
package delimiter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

// Candidates are the characters treated as delimiters, in tie-break order.
var Candidates = []string{",", "-", "/", "|", ";", ":", `\`}

// Primary is the column's most used delimiter.
type Primary struct {
	Character        string `json:"character"`
	TotalOccurrences int    `json:"total_occurrences"`
}

// DefectDetail describes one secondary delimiter found in a row.
type DefectDetail struct {
	Count         int    `json:"count"`
	TotalInColumn int    `json:"total_in_column"`
	Reasoning     string `json:"reasoning"`
}

// RowDefect lists the secondary delimiters of one row.
type RowDefect struct {
	Value   string                  `json:"value"`
	Defects map[string]DefectDetail `json:"defects"`
}

// Profile is the delimiter usage of a single column.
type Profile struct {
	Primary              Primary           `json:"primary_delimiter"`
	AllDelimiters        map[string]int    `json:"all_delimiters"`
	DefectRows           map[int]RowDefect `json:"defect_rows"`
	TotalRowsWithDefects int               `json:"total_rows_with_defects"`
	TotalRowsAnalyzed    int               `json:"total_rows_analyzed"`
}

// DefectIndices returns the defect row indices in ascending order.
func (p *Profile) DefectIndices() []int {
	out := make([]int, 0, len(p.DefectRows))
	for idx := range p.DefectRows {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

type rowHits struct {
	value  string
	counts map[string]int
}

// AnalyzeColumn profiles a column. It returns nil when no candidate delimiter
// occurs in any present cell. Absent cells are skipped.
func AnalyzeColumn(values []table.Cell) *Profile {
	tally := make([]int, len(Candidates))
	hits := make(map[int]rowHits)

	for idx, cell := range values {
		if cell.IsAbsent() {
			continue
		}
		s := cell.String()
		var counts map[string]int
		for i, d := range Candidates {
			n := strings.Count(s, d)
			if n == 0 {
				continue
			}
			if counts == nil {
				counts = make(map[string]int)
			}
			counts[d] = n
			tally[i] += n
		}
		if counts != nil {
			hits[idx] = rowHits{value: s, counts: counts}
		}
	}
	if len(hits) == 0 {
		return nil
	}

	best := 0
	for i := range Candidates {
		if tally[i] > tally[best] {
			best = i
		}
	}
	primary := Primary{Character: Candidates[best], TotalOccurrences: tally[best]}

	all := make(map[string]int)
	for i, d := range Candidates {
		if tally[i] > 0 {
			all[d] = tally[i]
		}
	}

	defects := make(map[int]RowDefect)
	for idx, h := range hits {
		var row map[string]DefectDetail
		for d, n := range h.counts {
			if d == primary.Character {
				continue
			}
			if row == nil {
				row = make(map[string]DefectDetail)
			}
			row[d] = DefectDetail{
				Count:         n,
				TotalInColumn: all[d],
				Reasoning: fmt.Sprintf("Secondary delimiter (used %d times in column) vs primary delimiter '%s' (used %d times)",
					all[d], primary.Character, primary.TotalOccurrences),
			}
		}
		if row != nil {
			defects[idx] = RowDefect{Value: h.value, Defects: row}
		}
	}

	return &Profile{
		Primary:              primary,
		AllDelimiters:        all,
		DefectRows:           defects,
		TotalRowsWithDefects: len(defects),
		TotalRowsAnalyzed:    len(hits),
	}
}

// ProfileTable profiles every column that has at least one delimiter.
func ProfileTable(t *table.Table) map[string]*Profile {
	out := make(map[string]*Profile)
	for i, name := range t.Columns {
		if p := AnalyzeColumn(t.ColumnAt(i)); p != nil {
			out[name] = p
		}
	}
	return out
}

// AnalyzeTable returns, for each column with at least one defect row, the
// ascending defect row indices.
func AnalyzeTable(t *table.Table) map[string][]int {
	out := make(map[string][]int)
	for name, p := range ProfileTable(t) {
		if len(p.DefectRows) > 0 {
			out[name] = p.DefectIndices()
		}
	}
	return out
}
