package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/consistency"
	"github.com/JonMunkholm/sheetcheck/internal/delimiter"
	"github.com/JonMunkholm/sheetcheck/internal/logging"
	"github.com/JonMunkholm/sheetcheck/internal/quality"
	"github.com/JonMunkholm/sheetcheck/internal/table"
)

// TableSource loads a named table from somewhere other than an upload.
// *pgsource.Loader satisfies it.
type TableSource interface {
	Load(ctx context.Context, name string) (*table.Table, error)
}

// Settings bounds the work a Service accepts.
type Settings struct {
	MaxFileSize       int64
	MaxRows           int
	MaxConcurrent     int
	MaxWaitTime       time.Duration
	Timeout           time.Duration
	AllowedExtensions []string
}

// DefaultSettings mirrors the server's configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxFileSize:       50 << 20,
		MaxConcurrent:     DefaultMaxConcurrent,
		MaxWaitTime:       DefaultMaxWait,
		Timeout:           2 * time.Minute,
		AllowedExtensions: table.Extensions,
	}
}

// Options tune a single analysis.
type Options struct {
	// Sheet selects a workbook sheet; empty means the first.
	Sheet string

	// Columns, when both names are set, bypasses the resolver.
	Columns columns.Names
}

// Analysis is the combined result for one table.
//
// RegionMismatches and LocationMismatch are nil (JSON null) when the column
// they need could not be identified; Notes then says why.
type Analysis struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`

	*quality.Report

	Data              []map[string]string `json:"data"`
	DelimiterAnalysis map[string][]int    `json:"delimiter_analysis"`
	RegionMismatches  []int               `json:"region_mismatches"`
	LocationMismatch  []int               `json:"location_mismatch"`
	LocationColumn    string              `json:"location_column"`
	RegionalColumn    string              `json:"regional_column"`
	Notes             []string            `json:"notes,omitempty"`
}

// Service runs analyses. It is safe for concurrent use.
type Service struct {
	settings Settings
	limiter  *Limiter
	resolver columns.Resolver
	source   TableSource
}

// NewService creates a Service. resolver and source may be nil: without a
// resolver only explicitly named columns are validated, without a source
// AnalyzeSource fails with ErrSourceDisabled.
func NewService(settings Settings, resolver columns.Resolver, source TableSource) *Service {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultSettings().Timeout
	}
	if len(settings.AllowedExtensions) == 0 {
		settings.AllowedExtensions = table.Extensions
	}
	return &Service{
		settings: settings,
		limiter:  NewLimiter(settings.MaxConcurrent, settings.MaxWaitTime),
		resolver: resolver,
		source:   source,
	}
}

// Limiter exposes the concurrency limiter for status reporting and shutdown.
func (s *Service) Limiter() *Limiter {
	return s.limiter
}

// SourceEnabled reports whether AnalyzeSource can work.
func (s *Service) SourceEnabled() bool {
	return s.source != nil
}

// AnalyzeUpload loads an uploaded file and analyzes it. size is the length
// the client declared, or -1 when unknown.
func (s *Service) AnalyzeUpload(ctx context.Context, name string, r io.Reader, size int64, opts Options) (*Analysis, error) {
	var out *Analysis
	err := s.withUpload(ctx, name, r, size, opts, func(ctx context.Context, t *table.Table) error {
		a, err := s.Analyze(ctx, t, opts)
		out = a
		return err
	})
	return out, err
}

// Profiles loads an uploaded file and returns the full delimiter profile of
// every column that contains a delimiter.
func (s *Service) Profiles(ctx context.Context, name string, r io.Reader, size int64, opts Options) (map[string]*delimiter.Profile, error) {
	var out map[string]*delimiter.Profile
	err := s.withUpload(ctx, name, r, size, opts, func(ctx context.Context, t *table.Table) error {
		out = delimiter.ProfileTable(t)
		return ctx.Err()
	})
	return out, err
}

// AnalyzeSource reads a table from the configured source and analyzes it.
func (s *Service) AnalyzeSource(ctx context.Context, name string, opts Options) (*Analysis, error) {
	if s.source == nil {
		return nil, ErrSourceDisabled
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	t, err := s.source.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return s.Analyze(ctx, t, opts)
}

// withUpload validates the upload, holds a limiter slot and the analysis
// timeout, and hands the decoded table to fn.
func (s *Service) withUpload(ctx context.Context, name string, r io.Reader, size int64, opts Options, fn func(context.Context, *table.Table) error) error {
	if r == nil || name == "" {
		return ErrNoFile
	}
	if !s.allowed(name) {
		if strings.EqualFold(filepath.Ext(name), ".xls") {
			return table.ErrLegacyWorkbook
		}
		return fmt.Errorf("%w: %q", table.ErrUnsupportedFormat, filepath.Ext(name))
	}
	if size > s.settings.MaxFileSize && s.settings.MaxFileSize > 0 {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, s.settings.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	origin := OriginFrom(ctx)
	log := logging.WithFields(ctx, "file", name, "ip", origin.IP)
	start := time.Now()

	src := r
	if s.settings.MaxFileSize > 0 {
		src = io.LimitReader(r, s.settings.MaxFileSize+1)
	}
	counter := table.NewCountingReader(src)

	t, err := table.Load(name, counter, table.Options{Sheet: opts.Sheet, MaxRows: s.settings.MaxRows})
	if s.settings.MaxFileSize > 0 && counter.BytesRead() > s.settings.MaxFileSize {
		return fmt.Errorf("%w: over %d bytes", ErrFileTooLarge, s.settings.MaxFileSize)
	}
	if err != nil {
		log.Warn("file rejected", "error", err)
		return err
	}
	log.Debug("file loaded", "rows", t.Len(), "columns", len(t.Columns), "bytes", counter.BytesRead())

	if err := fn(ctx, t); err != nil {
		return err
	}
	log.Info("upload analyzed", "rows", t.Len(), "duration", time.Since(start))
	return nil
}

func (s *Service) allowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range s.settings.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return table.SupportedExtension(name)
		}
	}
	return false
}

// Analyze runs every analyzer over t. The independent analyses run
// concurrently; they only read t.
func (s *Service) Analyze(ctx context.Context, t *table.Table, opts Options) (*Analysis, error) {
	a := &Analysis{
		ID:       uuid.NewString(),
		FileName: t.Name,
		Data:     t.Records(),
	}
	log := logging.WithFields(ctx, "analysis_id", a.ID, "table", t.Name)

	names, note, err := s.resolveColumns(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	if note != "" {
		a.Notes = append(a.Notes, note)
	}
	names = headerSpelling(t, names)
	a.LocationColumn, a.RegionalColumn = names.Location, names.Region

	var regionNote, locationNote string
	var g errgroup.Group
	g.Go(func() error {
		a.Report = quality.Profile(t)
		return nil
	})
	g.Go(func() error {
		a.DelimiterAnalysis = delimiter.AnalyzeTable(t)
		return nil
	})
	if names.Region != "" {
		g.Go(func() error {
			res, err := consistency.CheckRegionColumn(t, names.Region)
			a.RegionMismatches, regionNote = res, columnNote("region check", err)
			return nil
		})
	}
	if names.Location != "" && names.Region != "" {
		g.Go(func() error {
			res, err := consistency.ValidateTable(t, names.Location, names.Region)
			a.LocationMismatch, locationNote = res, columnNote("location check", err)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, n := range []string{regionNote, locationNote} {
		if n != "" {
			a.Notes = append(a.Notes, n)
		}
	}

	log.Info("analysis completed",
		"rows", t.Len(),
		"delimiter_columns", len(a.DelimiterAnalysis),
		"location_mismatches", len(a.LocationMismatch),
		"region_mismatches", len(a.RegionMismatches),
	)
	return a, nil
}

// resolveColumns picks the location and region columns. A resolver failure
// is reported as a note; only context errors abort the analysis.
func (s *Service) resolveColumns(ctx context.Context, t *table.Table, opts Options) (columns.Names, string, error) {
	if opts.Columns.Location != "" && opts.Columns.Region != "" {
		return opts.Columns, "", nil
	}
	if s.resolver == nil {
		return columns.Names{}, "location and region columns not specified", nil
	}

	names, err := s.resolver.Resolve(ctx, t)
	if err == nil {
		return names, "", nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return columns.Names{}, "", ctxErr
	}
	logging.FromContext(ctx).Warn("column resolution failed", "table", t.Name, "error", err)
	return columns.Names{}, "location and region columns could not be identified", nil
}

// headerSpelling replaces each name that resolves against the header with
// the header's own spelling. Unknown names are kept so the checks report
// them as not found.
func headerSpelling(t *table.Table, n columns.Names) columns.Names {
	spell := func(name string) string {
		if idx, ok := t.ColumnIndex(name); ok {
			return t.Columns[idx]
		}
		return name
	}
	return columns.Names{Location: spell(n.Location), Region: spell(n.Region)}
}

func columnNote(check string, err error) string {
	if err == nil {
		return ""
	}
	var nf *table.ColumnNotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("%s skipped: column %q not found", check, nf.Column)
	}
	return fmt.Sprintf("%s skipped: %v", check, err)
}

// Status is a snapshot for the status endpoint.
type Status struct {
	Analyses      LimiterStatus `json:"analyses"`
	SourceEnabled bool          `json:"source_enabled"`
	Resolver      bool          `json:"resolver_enabled"`
}

// Status reports current load and optional features.
func (s *Service) Status() Status {
	return Status{
		Analyses:      s.limiter.Status(),
		SourceEnabled: s.source != nil,
		Resolver:      s.resolver != nil,
	}
}
