package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sitesCSV = `Site,Location,Region,Tags
HQ,France,EMEA,"a,b"
Lab,Japan,EMEA,a-b
Remote,Worldwide,GLOBAL,"a,c"
Branch,Germany,Mars,"a,d"
`

// run executes the CLI from a clean directory so no stray config is read.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_JSON(t *testing.T) {
	path := writeFile(t, "sites.csv", sitesCSV)

	out, err := run(t, "analyze", path, "-o", "json")
	require.NoError(t, err)

	var res struct {
		FileName          string           `json:"file_name"`
		TotalRows         int              `json:"total_rows"`
		DelimiterAnalysis map[string][]int `json:"delimiter_analysis"`
		LocationMismatch  []int            `json:"location_mismatch"`
		RegionMismatches  []int            `json:"region_mismatches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "sites.csv", res.FileName)
	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, map[string][]int{"Tags": {1}}, res.DelimiterAnalysis)
	assert.Equal(t, []int{1, 3}, res.LocationMismatch)
	assert.Equal(t, []int{3}, res.RegionMismatches)
}

func TestAnalyze_Text(t *testing.T) {
	path := writeFile(t, "sites.csv", sitesCSV)

	out, err := run(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "File: sites.csv (4 rows, 4 columns)")
	assert.Contains(t, out, "Tags: rows 1")
	assert.Contains(t, out, "Region/location mismatches: 2 (rows 1, 3)")
}

func TestAnalyze_YAMLUsesJSONKeys(t *testing.T) {
	path := writeFile(t, "sites.csv", sitesCSV)

	out, err := run(t, "analyze", path, "--output", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "total_rows")
	assert.Contains(t, doc, "location_mismatch")
	assert.NotContains(t, doc, "report")
}

func TestAnalyze_ExplicitColumnsFlag(t *testing.T) {
	path := writeFile(t, "sites.csv", sitesCSV)

	out, err := run(t, "analyze", path, "-o", "json", "--resolver", "none",
		"--location-column", "Location", "--region-column", "Site")
	require.NoError(t, err)

	var res struct {
		RegionalColumn   string `json:"regional_column"`
		RegionMismatches []int  `json:"region_mismatches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Site", res.RegionalColumn)
	assert.Equal(t, []int{0, 1, 2, 3}, res.RegionMismatches)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := run(t, "analyze", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := writeFile(t, "notes.txt", "hello")
	_, err = run(t, "analyze", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE002")

	_, err = run(t, "analyze")
	assert.Error(t, err, "file argument is required")
}

func TestDelimiters(t *testing.T) {
	path := writeFile(t, "sites.csv", sitesCSV)

	out, err := run(t, "delimiters", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Tags: primary "," (3 uses), 1 of 4 rows deviate`)
	assert.Contains(t, out, `row 1 "a-b"`)
	assert.Contains(t, out, "Secondary delimiter (used 1 times in column) vs primary delimiter ',' (used 3 times)")
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "France, Japan", "APAC/EMEA")
	require.NoError(t, err)
	assert.Contains(t, out, "consistent")

	out, err = run(t, "check", "France", "APAC", "-o", "json")
	assert.ErrorIs(t, err, errFindings)
	var res checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Consistent)
	assert.True(t, res.RegionLabelValid)

	out, err = run(t, "check", "Worldwide", "Moon")
	assert.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, `"Moon" is not a recognized region label`)
}

func TestTaxonomy(t *testing.T) {
	out, err := run(t, "taxonomy", "emea", "-o", "json")
	require.NoError(t, err)

	var res map[string]regionEntry
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Contains(t, res, "EMEA")
	assert.Contains(t, res["EMEA"].Countries, "FRANCE")
	assert.NotContains(t, res, "APAC")

	_, err = run(t, "taxonomy", "mars")
	assert.Error(t, err)
}

func TestLoadSettings_Precedence(t *testing.T) {
	cfgPath := writeFile(t, "sheetcheck.yaml", "llm_model: from-file\nmax_rows: 50\nllm_timeout: 10s\noutput: yaml\n")
	t.Setenv("SHEETCHECK_MAX_ROWS", "75")

	s, err := LoadSettings(viper.New(), cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "from-file", s.LLMModel)
	assert.Equal(t, 75, s.MaxRows, "environment beats config file")
	assert.Equal(t, 10*time.Second, s.LLMTimeout)
	assert.Equal(t, FormatYAML, s.Output)
	assert.Equal(t, "header", s.Resolver)
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Setenv("SHEETCHECK_OUTPUT", "xml")
	t.Setenv("SHEETCHECK_RESOLVER", "psychic")

	_, err := LoadSettings(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.Contains(t, err.Error(), "psychic")
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
