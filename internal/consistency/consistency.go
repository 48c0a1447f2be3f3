// Package consistency checks that a row's stated region agrees with the
// countries named in its location.
//
// The rules here are canonical. The model-driven review prompts for the same
// check word some of them differently and are not reconciled:
//
//   - The prompts require GLOBAL whenever a location spans several regions.
//     Here ("France, Japan", "APAC/EMEA") passes because every implied region
//     is listed.
//   - One prompt rejects GLOBAL next to a country-only location. Here
//     ("France", "GLOBAL/EMEA") passes because EMEA is present.
//   - The prompts flag any region code used as a location. Here only AMERICAS
//     is rejected.
package consistency

import (
	"strings"

	"github.com/JonMunkholm/sheetcheck/internal/table"
	"github.com/JonMunkholm/sheetcheck/internal/taxonomy"
	"github.com/JonMunkholm/sheetcheck/internal/textnorm"
)

// Pair is one row's raw location and region cells.
type Pair struct {
	Location string `json:"location"`
	Region   string `json:"region"`
}

// IsConsistent applies the rules in order:
//
//  1. a blank region is never flagged
//  2. AMERICAS used as a location fails
//  3. a worldwide location passes only with region exactly GLOBAL
//  4. otherwise every region implied by a known location must be stated,
//     and at least one must be implied
func IsConsistent(location, region string) bool {
	regions := textnorm.Tokenize(region)
	if regions.Len() == 0 {
		return true
	}

	locations := textnorm.Tokenize(location)
	if locations.Has(string(taxonomy.Americas)) {
		return false
	}
	for tok := range locations {
		if taxonomy.IsWorldwide(tok) {
			return regions.Only(string(taxonomy.Global))
		}
	}

	required := RequiredRegions(location)
	if len(required) == 0 {
		return false
	}
	for _, r := range required {
		if !regions.Has(string(r)) {
			return false
		}
	}
	return true
}

// RequiredRegions resolves a location cell to the regions it implies, in
// first-seen order. Multi-word names are matched longest first; words that
// match nothing are skipped.
func RequiredRegions(location string) []taxonomy.Region {
	words := textnorm.Words(location)
	seen := make(map[taxonomy.Region]bool)
	var out []taxonomy.Region

	for i := 0; i < len(words); {
		n := min(taxonomy.MaxPhraseWords, len(words)-i)
		matched := false
		for ; n > 0; n-- {
			r, ok := taxonomy.RegionOf(strings.Join(words[i:i+n], " "))
			if !ok {
				continue
			}
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
			matched = true
			break
		}
		if matched {
			i += n
		} else {
			i++
		}
	}
	return out
}

// Validate returns the ascending indices of inconsistent rows. The result is
// empty, not nil, when every row passes.
func Validate(rows []Pair) []int {
	out := []int{}
	for i, p := range rows {
		if !IsConsistent(p.Location, p.Region) {
			out = append(out, i)
		}
	}
	return out
}

// ValidateTable validates two named columns of t. A column that cannot be
// resolved yields a *table.ColumnNotFoundError and no result.
func ValidateTable(t *table.Table, locationCol, regionCol string) ([]int, error) {
	locs, err := t.Column(locationCol)
	if err != nil {
		return nil, err
	}
	regs, err := t.Column(regionCol)
	if err != nil {
		return nil, err
	}

	rows := make([]Pair, len(locs))
	for i := range locs {
		rows[i] = Pair{Location: locs[i].String(), Region: regs[i].String()}
	}
	return Validate(rows), nil
}

// CheckRegionLabels returns the ascending indices of rows whose region cell,
// trimmed and upper-cased, is outside taxonomy.RegionLabels. Blank and absent
// cells are skipped.
func CheckRegionLabels(values []table.Cell) []int {
	out := []int{}
	for i, c := range values {
		if c.IsAbsent() {
			continue
		}
		label := strings.ToUpper(strings.TrimSpace(c.String()))
		if label == "" {
			continue
		}
		if !taxonomy.IsRegionLabel(label) {
			out = append(out, i)
		}
	}
	return out
}

// CheckRegionColumn runs CheckRegionLabels on a named column.
func CheckRegionColumn(t *table.Table, regionCol string) ([]int, error) {
	vals, err := t.Column(regionCol)
	if err != nil {
		return nil, err
	}
	return CheckRegionLabels(vals), nil
}
