// Package templates renders the server's HTML pages. The components are
// written in .templ files; run `templ generate` after editing them.
package templates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetcheck/internal/core"
)

type columnRow struct {
	Name        string
	Kind        string
	Missing     string
	Placeholder string
	Duplicates  string
	Delimiters  string
}

func columnRows(a *core.Analysis) []columnRow {
	if a.Report == nil {
		return nil
	}
	out := make([]columnRow, 0, len(a.Columns))
	for _, c := range a.Columns {
		out = append(out, columnRow{
			Name:        c,
			Kind:        a.DataTypes[c],
			Missing:     fmt.Sprintf("%d (%.1f%%)", a.MissingValues[c], a.MissingPercentage[c]),
			Placeholder: fmt.Sprintf("%d (%.1f%%)", a.TBDValues[c], a.TBDPercentage[c]),
			Duplicates:  strconv.Itoa(a.DuplicateInfo[c].Count),
			Delimiters:  rowList(a.DelimiterAnalysis[c]),
		})
	}
	return out
}

func summary(a *core.Analysis) string {
	if a.Report == nil {
		return fmt.Sprintf("Analysis %s.", a.ID)
	}
	return fmt.Sprintf("Analysis %s: %d rows, %d columns.", a.ID, a.TotalRows, a.TotalColumns)
}

func duplicateSummary(a *core.Analysis) string {
	if a.Report == nil {
		return "none"
	}
	d := a.DuplicateRows
	return fmt.Sprintf("%d (%.1f%%): %s", d.Total, d.Percentage, rowList(d.Indices))
}

type mismatchRow struct {
	Row      string
	Location string
	Region   string
}

// mismatchRows pairs each flagged row with its location and region cells.
func mismatchRows(a *core.Analysis, rows []int) []mismatchRow {
	out := make([]mismatchRow, 0, len(rows))
	for _, i := range rows {
		m := mismatchRow{Row: strconv.Itoa(i)}
		if i >= 0 && i < len(a.Data) {
			m.Location, m.Region = a.Data[i][a.LocationColumn], a.Data[i][a.RegionalColumn]
		}
		out = append(out, m)
	}
	return out
}

// rowList prints at most 20 row numbers.
func rowList(rows []int) string {
	if len(rows) == 0 {
		return "none"
	}
	sorted := append([]int(nil), rows...)
	sort.Ints(sorted)
	const limit = 20
	parts := make([]string, 0, min(len(sorted), limit+1))
	for i, r := range sorted {
		if i == limit {
			parts = append(parts, fmt.Sprintf("and %d more", len(sorted)-limit))
			break
		}
		parts = append(parts, strconv.Itoa(r))
	}
	return strings.Join(parts, ", ")
}
