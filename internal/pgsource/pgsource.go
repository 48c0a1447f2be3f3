// Package pgsource loads a Postgres table into a table.Table so it can be
// analyzed like an uploaded file. Access is read-only.
package pgsource

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

// DefaultRowLimit caps rows read when the loader is given no limit.
const DefaultRowLimit = 10000

// ErrInvalidName is returned for table names that are not of the form
// "table" or "schema.table".
var ErrInvalidName = errors.New("invalid table name")

// Querier is the subset of *pgxpool.Pool the loader needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Loader reads named tables.
type Loader struct {
	db       Querier
	rowLimit int
}

// NewLoader returns a loader reading at most rowLimit rows per table.
func NewLoader(db Querier, rowLimit int) *Loader {
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}
	return &Loader{db: db, rowLimit: rowLimit}
}

// ParseIdentifier splits "schema.table" into a quotable identifier.
func ParseIdentifier(name string) (pgx.Identifier, error) {
	parts := strings.Split(strings.TrimSpace(name), ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return pgx.Identifier(parts), nil
}

// Load reads up to the row limit from the named table.
func (l *Loader) Load(ctx context.Context, name string) (*table.Table, error) {
	ident, err := ParseIdentifier(name)
	if err != nil {
		return nil, err
	}

	rows, err := l.db.Query(ctx, "SELECT * FROM "+ident.Sanitize()+" LIMIT $1", l.rowLimit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	t := table.New(name, cols)

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row %d of %s: %w", t.Len(), name, err)
		}
		cells := make([]table.Cell, len(vals))
		for i, v := range vals {
			cells[i] = Cell(v)
		}
		t.AppendRow(cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return t, nil
}

// Cell converts a decoded Postgres value. NULL becomes an absent cell and
// numeric types become number cells; everything else keeps its text form.
func Cell(v any) table.Cell {
	switch val := v.(type) {
	case nil:
		return table.Absent
	case string:
		return table.Text(val)
	case int16:
		return table.Number(float64(val))
	case int32:
		return table.Number(float64(val))
	case int64:
		return table.Number(float64(val))
	case int:
		return table.Number(float64(val))
	case float32:
		return table.Number(float64(val))
	case float64:
		return table.Number(val)
	case pgtype.Numeric:
		if !val.Valid {
			return table.Absent
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return table.Absent
		}
		return table.Number(f.Float64)
	case bool:
		return table.Text(strconv.FormatBool(val))
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return table.Text(val.Format("2006-01-02"))
		}
		return table.Text(val.Format(time.RFC3339))
	case [16]byte:
		return table.Text(uuid.UUID(val).String())
	case []byte:
		return table.Text(string(val))
	case fmt.Stringer:
		return table.Text(val.String())
	default:
		return table.Text(fmt.Sprint(val))
	}
}
