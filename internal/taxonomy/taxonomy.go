// Package taxonomy is the static country to region table used by the
// consistency validator.
//
// Everything here is read-only after package initialization and safe for
// concurrent use.
package taxonomy

import (
	"sort"
	"strings"
)

// Region is a sales region code as it appears in region cells.
type Region string

const (
	APAC     Region = "APAC"
	EMEA     Region = "EMEA"
	Americas Region = "AMERICAS"
	Global   Region = "GLOBAL"
)

// Regions lists the country-bearing regions in lookup order.
var Regions = []Region{APAC, EMEA, Americas}

// cityOverrides resolve known city tokens without a country lookup.
var cityOverrides = map[string]Region{
	"NEW YORK": Americas,
	"NEWYORK":  Americas,
	"NY":       Americas,
}

// worldwideMarkers mean "every region" when found in a location cell.
var worldwideMarkers = map[string]bool{
	"WORLDWIDE": true,
	"GLOBAL":    true,
	"ALL":       true,
}

// RegionLabels is the accepted vocabulary for a whole region cell.
var RegionLabels = []string{"APAC", "EMEA", "AMERICAS", "GLOBAL", "APAC/EMEA", "EMEA/APAC"}

// MaxPhraseWords is the word count of the longest country or city name.
var MaxPhraseWords = longestPhrase()

func longestPhrase() int {
	longest := 1
	for name := range countries {
		if n := len(strings.Fields(name)); n > longest {
			longest = n
		}
	}
	for name := range cityOverrides {
		if n := len(strings.Fields(name)); n > longest {
			longest = n
		}
	}
	return longest
}

// RegionOf resolves an upper-case token or phrase. Country names are checked
// before city overrides. Matching is exact: no partial or fuzzy matches.
func RegionOf(token string) (Region, bool) {
	if r, ok := countries[token]; ok {
		return r, true
	}
	r, ok := cityOverrides[token]
	return r, ok
}

// IsWorldwide reports whether an upper-case location token means every
// region.
func IsWorldwide(token string) bool {
	return worldwideMarkers[token]
}

// IsRegionLabel reports whether an upper-case region cell is in the accepted
// vocabulary.
func IsRegionLabel(label string) bool {
	for _, l := range RegionLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Countries returns the region's upper-case country names in sorted order.
func Countries(r Region) []string {
	var names []string
	for name, region := range countries {
		if region == r {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Cities returns the city override tokens for a region in sorted order.
func Cities(r Region) []string {
	var out []string
	for name, region := range cityOverrides {
		if region == r {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// WorldwideMarkers returns the worldwide location tokens in sorted order.
func WorldwideMarkers() []string {
	out := make([]string, 0, len(worldwideMarkers))
	for m := range worldwideMarkers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
