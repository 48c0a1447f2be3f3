package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrLegacyWorkbook is returned for binary .xls workbooks. It wraps
	// ErrUnsupportedFormat.
	ErrLegacyWorkbook = fmt.Errorf("%w: legacy .xls workbook", ErrUnsupportedFormat)

	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("file has no header row")
)

// Options tunes loading.
type Options struct {
	// Sheet selects a workbook sheet by name. Empty means the first sheet.
	Sheet string

	// MaxRows caps the number of data rows read. Zero means no cap.
	MaxRows int
}

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".csv", ".xlsx", ".xlsm"}

// SupportedExtension reports whether Load can read a file with this name.
func SupportedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads a table, choosing the decoder by file extension.
func Load(name string, r io.Reader, opts Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ReadCSV(name, r, opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(name, r, opts)
	case ".xls":
		return nil, ErrLegacyWorkbook
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadCSV decodes comma-separated text. Empty fields become absent cells.
func ReadCSV(name string, r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(Sanitize(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var t *Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if t == nil {
			if blank(rec) {
				continue
			}
			t = New(name, headerNames(rec))
			continue
		}
		if opts.MaxRows > 0 && t.Len() >= opts.MaxRows {
			break
		}
		t.AppendRow(textCells(rec))
	}
	if t == nil {
		return nil, ErrEmptyFile
	}
	return t, nil
}

// ReadXLSX decodes one sheet of an Excel workbook.
func ReadXLSX(name string, r io.Reader, opts Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := sheets[0]
	if opts.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if s == opts.Sheet {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet %q not found (available: %s)", opts.Sheet, strings.Join(sheets, ", "))
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var t *Table
	for _, rec := range rows {
		if t == nil {
			if blank(rec) {
				continue
			}
			t = New(name, headerNames(rec))
			continue
		}
		if opts.MaxRows > 0 && t.Len() >= opts.MaxRows {
			break
		}
		t.AppendRow(textCells(rec))
	}
	if t == nil {
		return nil, ErrEmptyFile
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// headerNames trims header cells, names blank ones by position and suffixes
// repeats with ".N" so every column stays addressable.
func headerNames(rec []string) []string {
	names := make([]string, len(rec))
	used := make(map[string]bool, len(rec))
	repeats := make(map[string]int)
	for i, raw := range rec {
		base := strings.TrimSpace(raw)
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		name := base
		for used[name] {
			repeats[base]++
			name = base + "." + strconv.Itoa(repeats[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func textCells(rec []string) []Cell {
	cells := make([]Cell, len(rec))
	for i, f := range rec {
		if f == "" {
			continue
		}
		cells[i] = Text(f)
	}
	return cells
}
