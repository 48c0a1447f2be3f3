package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/table"
)

const sitesCSV = `Site,Location,Region,Tags
HQ,France,EMEA,"a,b"
Lab,Japan,EMEA,a-b
Remote,Worldwide,GLOBAL,"a,c"
Branch,Germany,Mars,"a,d"
`

type stubSource struct {
	tables map[string]*table.Table
}

func (s stubSource) Load(_ context.Context, name string) (*table.Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, errors.New(`relation "` + name + `" does not exist`)
	}
	return t, nil
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, *table.Table) (columns.Names, error) {
	return columns.Names{}, f.err
}

func newTestService(resolver columns.Resolver, source TableSource) *Service {
	s := DefaultSettings()
	s.MaxWaitTime = 50 * time.Millisecond
	return NewService(s, resolver, source)
}

func TestAnalyzeUpload(t *testing.T) {
	svc := newTestService(columns.Header{}, nil)

	a, err := svc.AnalyzeUpload(context.Background(), "sites.csv", strings.NewReader(sitesCSV), int64(len(sitesCSV)), Options{})
	if err != nil {
		t.Fatalf("AnalyzeUpload() error = %v", err)
	}

	if a.ID == "" {
		t.Error("analysis has no id")
	}
	if a.TotalRows != 4 || a.TotalColumns != 4 {
		t.Errorf("totals = %d rows, %d columns, want 4, 4", a.TotalRows, a.TotalColumns)
	}
	if a.LocationColumn != "Location" || a.RegionalColumn != "Region" {
		t.Errorf("columns = %q/%q, want Location/Region", a.LocationColumn, a.RegionalColumn)
	}
	if got := a.DelimiterAnalysis["Tags"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("delimiter_analysis[Tags] = %v, want [1]", got)
	}
	// Japan is APAC; Germany is EMEA but the region is not a label at all.
	if got := a.LocationMismatch; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("location_mismatch = %v, want [1 3]", got)
	}
	if got := a.RegionMismatches; len(got) != 1 || got[0] != 3 {
		t.Errorf("region_mismatches = %v, want [3]", got)
	}
	if len(a.Data) != 4 || a.Data[0]["Site"] != "HQ" {
		t.Errorf("data = %v", a.Data)
	}
	if len(a.Notes) != 0 {
		t.Errorf("notes = %v, want none", a.Notes)
	}
}

func TestAnalyzeUpload_ExplicitColumnsOverrideResolver(t *testing.T) {
	svc := newTestService(failingResolver{err: columns.ErrUnresolved}, nil)
	opts := Options{Columns: columns.Names{Location: "Location", Region: "Region"}}

	a, err := svc.AnalyzeUpload(context.Background(), "sites.csv", strings.NewReader(sitesCSV), -1, opts)
	if err != nil {
		t.Fatalf("AnalyzeUpload() error = %v", err)
	}
	if a.LocationMismatch == nil {
		t.Error("location_mismatch is nil with explicit columns")
	}
}

func TestAnalyze_ColumnNamesUseHeaderSpelling(t *testing.T) {
	svc := newTestService(nil, nil)
	tbl := table.New("sites", []string{"Location", "Region"})
	tbl.AppendRow([]table.Cell{table.Text("France"), table.Text("APAC")})

	opts := Options{Columns: columns.Names{Location: "location", Region: " region "}}
	a, err := svc.Analyze(context.Background(), tbl, opts)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.LocationColumn != "Location" || a.RegionalColumn != "Region" {
		t.Errorf("columns = %q/%q, want Location/Region", a.LocationColumn, a.RegionalColumn)
	}
	if len(a.LocationMismatch) != 1 || a.LocationMismatch[0] != 0 {
		t.Fatalf("location_mismatch = %v, want [0]", a.LocationMismatch)
	}
	row := a.Data[a.LocationMismatch[0]]
	if row[a.LocationColumn] != "France" || row[a.RegionalColumn] != "APAC" {
		t.Errorf("data lookup by reported columns = %q/%q, want France/APAC",
			row[a.LocationColumn], row[a.RegionalColumn])
	}
}

func TestAnalyze_UnknownColumnNameKept(t *testing.T) {
	svc := newTestService(nil, nil)
	tbl := table.New("sites", []string{"Location", "Region"})
	tbl.AppendRow([]table.Cell{table.Text("France"), table.Text("EMEA")})

	a, err := svc.Analyze(context.Background(), tbl, Options{Columns: columns.Names{Location: "location", Region: "Theatre"}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.LocationColumn != "Location" || a.RegionalColumn != "Theatre" {
		t.Errorf("columns = %q/%q, want Location/Theatre", a.LocationColumn, a.RegionalColumn)
	}
	if a.LocationMismatch != nil {
		t.Errorf("location_mismatch = %v, want nil", a.LocationMismatch)
	}
}

func TestAnalyzeUpload_UnresolvedColumns(t *testing.T) {
	svc := newTestService(failingResolver{err: columns.ErrUnresolved}, nil)

	a, err := svc.AnalyzeUpload(context.Background(), "sites.csv", strings.NewReader(sitesCSV), -1, Options{})
	if err != nil {
		t.Fatalf("AnalyzeUpload() error = %v", err)
	}
	if a.LocationMismatch != nil || a.RegionMismatches != nil {
		t.Errorf("mismatch results should be nil, got %v / %v", a.LocationMismatch, a.RegionMismatches)
	}
	if len(a.Notes) != 1 {
		t.Errorf("notes = %v, want one", a.Notes)
	}
	if a.DelimiterAnalysis == nil || a.Report == nil {
		t.Error("column-independent analyses should still run")
	}
}

func TestAnalyzeUpload_MissingNamedColumn(t *testing.T) {
	svc := newTestService(nil, nil)
	opts := Options{Columns: columns.Names{Location: "Location", Region: "Theatre"}}

	a, err := svc.AnalyzeUpload(context.Background(), "sites.csv", strings.NewReader(sitesCSV), -1, opts)
	if err != nil {
		t.Fatalf("AnalyzeUpload() error = %v", err)
	}
	if a.LocationMismatch != nil || a.RegionMismatches != nil {
		t.Error("checks on a missing column should have no result")
	}
	if len(a.Notes) != 2 {
		t.Fatalf("notes = %v, want two", a.Notes)
	}
	if !strings.Contains(a.Notes[0], `"Theatre"`) {
		t.Errorf("note %q does not name the missing column", a.Notes[0])
	}
}

func TestAnalyzeUpload_Rejections(t *testing.T) {
	svc := NewService(Settings{MaxFileSize: 64, AllowedExtensions: []string{".csv"}}, nil, nil)
	ctx := context.Background()
	big := strings.Repeat("a,b\n", 40)

	tests := []struct {
		name    string
		file    string
		body    string
		size    int64
		wantErr error
	}{
		{"no file", "", "", 0, ErrNoFile},
		{"extension not allowed", "sites.xlsx", "x", 1, table.ErrUnsupportedFormat},
		{"unknown extension", "sites.txt", "x", 1, table.ErrUnsupportedFormat},
		{"declared size too large", "sites.csv", "a\n", 1 << 20, ErrFileTooLarge},
		{"body larger than declared", "sites.csv", big, 10, ErrFileTooLarge},
		{"empty file", "sites.csv", "\n\n", 2, table.ErrEmptyFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AnalyzeUpload(ctx, tt.file, strings.NewReader(tt.body), tt.size, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if svc.Limiter().Active() != 0 {
		t.Error("limiter slot leaked")
	}
}

func TestAnalyzeUpload_Busy(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxConcurrent = 1
	settings.MaxWaitTime = 20 * time.Millisecond
	svc := NewService(settings, nil, nil)

	if !svc.Limiter().TryAcquire() {
		t.Fatal("TryAcquire failed")
	}
	defer svc.Limiter().Release()

	_, err := svc.AnalyzeUpload(context.Background(), "sites.csv", strings.NewReader(sitesCSV), -1, Options{})
	if !errors.Is(err, ErrTooManyAnalyses) {
		t.Errorf("err = %v, want ErrTooManyAnalyses", err)
	}
}

func TestProfiles(t *testing.T) {
	svc := newTestService(nil, nil)

	profiles, err := svc.Profiles(context.Background(), "sites.csv", strings.NewReader(sitesCSV), -1, Options{})
	if err != nil {
		t.Fatalf("Profiles() error = %v", err)
	}
	p, ok := profiles["Tags"]
	if !ok {
		t.Fatalf("no profile for Tags: %v", profiles)
	}
	if p.Primary.Character != "," || p.Primary.TotalOccurrences != 3 {
		t.Errorf("primary = %+v, want ',' x3", p.Primary)
	}
	if _, ok := profiles["Site"]; ok {
		t.Error("column without delimiters should have no profile")
	}
}

func TestAnalyzeSource(t *testing.T) {
	sites := table.New("public.sites", []string{"location", "region"})
	sites.AppendRow([]table.Cell{table.Text("France"), table.Text("EMEA")})
	sites.AppendRow([]table.Cell{table.Text("Brazil"), table.Text("APAC")})

	svc := newTestService(columns.Header{}, stubSource{tables: map[string]*table.Table{"public.sites": sites}})
	ctx := context.Background()

	a, err := svc.AnalyzeSource(ctx, "public.sites", Options{})
	if err != nil {
		t.Fatalf("AnalyzeSource() error = %v", err)
	}
	if len(a.LocationMismatch) != 1 || a.LocationMismatch[0] != 1 {
		t.Errorf("location_mismatch = %v, want [1]", a.LocationMismatch)
	}

	if _, err := svc.AnalyzeSource(ctx, "missing", Options{}); MapError(err).Code != "SRC003" {
		t.Errorf("missing table maps to %q, want SRC003", MapError(err).Code)
	}
}

func TestAnalyzeSource_Disabled(t *testing.T) {
	svc := newTestService(nil, nil)
	if _, err := svc.AnalyzeSource(context.Background(), "sites", Options{}); !errors.Is(err, ErrSourceDisabled) {
		t.Errorf("err = %v, want ErrSourceDisabled", err)
	}
	if svc.Status().SourceEnabled {
		t.Error("Status().SourceEnabled = true without a source")
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	svc := newTestService(nil, nil)
	tbl := table.New("t", []string{"a"})
	tbl.AppendRow([]table.Cell{table.Text("x")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Analyze(ctx, tbl, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOrigin(t *testing.T) {
	ctx := WithOrigin(context.Background(), Origin{IP: "10.0.0.1", UserAgent: "curl"})
	if got := OriginFrom(ctx); got.IP != "10.0.0.1" || got.UserAgent != "curl" {
		t.Errorf("OriginFrom() = %+v", got)
	}
	if got := OriginFrom(context.Background()); got != (Origin{}) {
		t.Errorf("OriginFrom(empty) = %+v, want zero", got)
	}
}
