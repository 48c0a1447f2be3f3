package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetcheck/internal/consistency"
	"github.com/JonMunkholm/sheetcheck/internal/core"
	"github.com/JonMunkholm/sheetcheck/internal/delimiter"
	"github.com/JonMunkholm/sheetcheck/internal/table"
	"github.com/JonMunkholm/sheetcheck/internal/taxonomy"
)

func (a *app) analyzeCommand() *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run every check on a CSV or Excel file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings.service()
			if err != nil {
				return err
			}
			f, size, err := open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := svc.AnalyzeUpload(cmd.Context(), filepath.Base(args[0]), f, size, core.Options{Sheet: sheet})
			if err != nil {
				return userError(err)
			}
			return render(a.out, a.settings.Output, res, func(w io.Writer) error {
				return writeAnalysis(w, res)
			})
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet (default: first)")
	return cmd
}

func (a *app) delimitersCommand() *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "delimiters <file>",
		Short: "Show each column's primary delimiter and the rows that deviate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.settings.service()
			if err != nil {
				return err
			}
			f, size, err := open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			profiles, err := svc.Profiles(cmd.Context(), filepath.Base(args[0]), f, size, core.Options{Sheet: sheet})
			if err != nil {
				return userError(err)
			}
			return render(a.out, a.settings.Output, profiles, func(w io.Writer) error {
				return writeProfiles(w, profiles)
			})
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet (default: first)")
	return cmd
}

type checkResult struct {
	Location         string            `json:"location"`
	Region           string            `json:"region"`
	Consistent       bool              `json:"consistent"`
	RequiredRegions  []taxonomy.Region `json:"required_regions"`
	RegionLabelValid bool              `json:"region_label_valid"`
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <location> <region>",
		Short: "Check one location/region pair; exits 1 when inconsistent",
		Example: `  sheetcheck check "France, Japan" "APAC/EMEA"
  sheetcheck check Worldwide GLOBAL -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := checkResult{
				Location:         args[0],
				Region:           args[1],
				Consistent:       consistency.IsConsistent(args[0], args[1]),
				RequiredRegions:  consistency.RequiredRegions(args[0]),
				RegionLabelValid: len(consistency.CheckRegionLabels([]table.Cell{table.Text(args[1])})) == 0,
			}
			err := render(a.out, a.settings.Output, res, func(w io.Writer) error {
				return writeCheck(w, res)
			})
			if err != nil {
				return err
			}
			if !res.Consistent {
				return errFindings
			}
			return nil
		},
	}
}

type regionEntry struct {
	Countries []string `json:"countries"`
	Cities    []string `json:"cities,omitempty"`
}

func (a *app) taxonomyCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "taxonomy [region]",
		Short:     "List the countries and cities assigned to each region",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"APAC", "EMEA", "AMERICAS"},
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := taxonomy.Regions
			if len(args) == 1 {
				r := taxonomy.Region(strings.ToUpper(strings.TrimSpace(args[0])))
				if len(taxonomy.Countries(r)) == 0 {
					return fmt.Errorf("unknown region %q (want APAC, EMEA or AMERICAS)", args[0])
				}
				regions = []taxonomy.Region{r}
			}

			out := make(map[taxonomy.Region]regionEntry, len(regions))
			for _, r := range regions {
				out[r] = regionEntry{Countries: taxonomy.Countries(r), Cities: taxonomy.Cities(r)}
			}
			return render(a.out, a.settings.Output, out, func(w io.Writer) error {
				for _, r := range regions {
					e := out[r]
					fmt.Fprintf(w, "%s (%d countries): %s\n", r, len(e.Countries), strings.Join(e.Countries, ", "))
					if len(e.Cities) > 0 {
						fmt.Fprintf(w, "  cities: %s\n", strings.Join(e.Cities, ", "))
					}
				}
				_, err := fmt.Fprintf(w, "worldwide markers: %s\n", strings.Join(taxonomy.WorldwideMarkers(), ", "))
				return err
			})
		},
	}
}

func open(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// userError prefixes known errors with their user message and code.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}

func writeAnalysis(w io.Writer, a *core.Analysis) error {
	fmt.Fprintf(w, "File: %s (%d rows, %d columns)\n", a.FileName, a.TotalRows, a.TotalColumns)
	if a.LocationColumn != "" {
		fmt.Fprintf(w, "Location column: %s, region column: %s\n", a.LocationColumn, a.RegionalColumn)
	}

	fmt.Fprintln(w, "\nDelimiter defects:")
	if len(a.DelimiterAnalysis) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, col := range sortedKeys(a.DelimiterAnalysis) {
		fmt.Fprintf(w, "  %s: rows %s\n", col, joinInts(a.DelimiterAnalysis[col]))
	}

	fmt.Fprintln(w)
	writeRows(w, "Unknown region labels", a.RegionMismatches)
	writeRows(w, "Region/location mismatches", a.LocationMismatch)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nCOLUMN\tTYPE\tMISSING\tPLACEHOLDER\tDUPLICATE VALUES")
	for _, c := range a.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", c, a.DataTypes[c], a.MissingValues[c], a.TBDValues[c], a.DuplicateInfo[c].Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nDuplicate rows: %d\n", a.DuplicateRows.Total)

	for _, n := range a.Notes {
		fmt.Fprintf(w, "note: %s\n", n)
	}
	return nil
}

func writeRows(w io.Writer, label string, rows []int) {
	switch {
	case rows == nil:
		fmt.Fprintf(w, "%s: not checked\n", label)
	case len(rows) == 0:
		fmt.Fprintf(w, "%s: none\n", label)
	default:
		fmt.Fprintf(w, "%s: %d (rows %s)\n", label, len(rows), joinInts(rows))
	}
}

func writeProfiles(w io.Writer, profiles map[string]*delimiter.Profile) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(w, "No delimiters found.")
		return err
	}
	for _, col := range sortedKeys(profiles) {
		p := profiles[col]
		fmt.Fprintf(w, "%s: primary %q (%d uses), %d of %d rows deviate\n",
			col, p.Primary.Character, p.Primary.TotalOccurrences, p.TotalRowsWithDefects, p.TotalRowsAnalyzed)
		for _, row := range p.DefectIndices() {
			d := p.DefectRows[row]
			for _, ch := range sortedKeys(d.Defects) {
				fmt.Fprintf(w, "  row %d %q: %q x%d. %s\n", row, d.Value, ch, d.Defects[ch].Count, d.Defects[ch].Reasoning)
			}
		}
	}
	return nil
}

func writeCheck(w io.Writer, r checkResult) error {
	verdict := "consistent"
	if !r.Consistent {
		verdict = "INCONSISTENT"
	}
	fmt.Fprintf(w, "%s / %s: %s\n", r.Location, r.Region, verdict)
	if len(r.RequiredRegions) > 0 {
		names := make([]string, len(r.RequiredRegions))
		for i, reg := range r.RequiredRegions {
			names[i] = string(reg)
		}
		fmt.Fprintf(w, "  location implies: %s\n", strings.Join(names, ", "))
	}
	if !r.RegionLabelValid {
		fmt.Fprintf(w, "  %q is not a recognized region label\n", r.Region)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
