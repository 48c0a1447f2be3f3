package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/pgsource"
	"github.com/JonMunkholm/sheetcheck/internal/table"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "file too large", err: fmt.Errorf("%w: 60MB", ErrFileTooLarge), wantCode: "FILE001"},
		{name: "body limit from net/http", err: errors.New("http: request body too large"), wantCode: "FILE001"},
		{name: "unsupported format", err: fmt.Errorf("%w: %q", table.ErrUnsupportedFormat, ".txt"), wantCode: "FILE002"},
		{name: "legacy workbook", err: fmt.Errorf("load: %w", table.ErrLegacyWorkbook), wantCode: "FILE007"},
		{name: "broken csv", err: errors.New(`read csv: record on line 3: extraneous " in field`), wantCode: "FILE003"},
		{name: "broken workbook", err: errors.New("open workbook: zip: not a valid zip file"), wantCode: "FILE003"},
		{name: "no file", err: ErrNoFile, wantCode: "FILE004"},
		{name: "empty file", err: fmt.Errorf("load: %w", table.ErrEmptyFile), wantCode: "FILE005"},
		{name: "missing sheet", err: errors.New(`sheet "Q3" not found (available: Sheet1, Sheet2)`), wantCode: "FILE006"},
		{
			name:     "missing column",
			err:      &table.ColumnNotFoundError{Column: "Region", Available: []string{"A"}},
			wantCode: "COL001",
		},
		{name: "unresolved columns", err: fmt.Errorf("%w: no match", columns.ErrUnresolved), wantCode: "COL002"},
		{name: "busy", err: ErrTooManyAnalyses, wantCode: "ANL001"},
		{name: "cancelled", err: fmt.Errorf("analyze: %w", context.Canceled), wantCode: "ANL002"},
		{name: "deadline", err: fmt.Errorf("analyze: %w", context.DeadlineExceeded), wantCode: "ANL003"},
		{name: "invalid table name", err: fmt.Errorf("%w: %q", pgsource.ErrInvalidName, "a.b.c"), wantCode: "SRC001"},
		{name: "no database", err: ErrSourceDisabled, wantCode: "SRC002"},
		{name: "missing relation", err: errors.New(`ERROR: relation "sites" does not exist (SQLSTATE 42P01)`), wantCode: "SRC003"},
		{name: "rate limited", err: ErrRateLimited, wantCode: "RATE001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestMapError_SentinelBeatsPattern(t *testing.T) {
	// The text mentions "timeout", but the wrapped sentinel decides.
	err := fmt.Errorf("llm timeout budget spent: %w", columns.ErrUnresolved)
	if got := MapError(err).Code; got != "COL002" {
		t.Errorf("MapError() code = %q, want COL002", got)
	}
}

func TestMapError_UserErrorPassesThrough(t *testing.T) {
	ue := &UserError{Technical: errors.New("x"), User: UserMessage{Message: "custom", Code: "X1"}}
	if got := MapError(fmt.Errorf("wrapped: %w", ue)); got.Code != "X1" {
		t.Errorf("MapError() code = %q, want X1", got.Code)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyAnalyses)
	want := "The server is busy analyzing other files (Code: ANL001). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: table.ErrEmptyFile, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("load: %w", table.ErrEmptyFile)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The file has no header row" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, table.ErrEmptyFile) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
