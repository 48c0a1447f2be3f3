package table

import (
	"encoding/json"
	"strconv"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
)

// Cell is a single scalar value. The zero value is an absent (missing) cell,
// which is distinct from a present empty string.
type Cell struct {
	kind Kind
	text string
	num  float64
}

// Absent is the missing-value cell.
var Absent = Cell{}

// Text returns a string cell. Empty strings are kept as present values.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{kind: KindNumber, num: f}
}

// Kind reports the cell kind.
func (c Cell) Kind() Kind { return c.kind }

// IsAbsent reports whether the cell is missing.
func (c Cell) IsAbsent() bool { return c.kind == KindAbsent }

// String returns the cell's string form. Numbers are formatted without
// trailing zeros; absent cells yield "".
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON encodes absent cells as null and numbers as JSON numbers.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindText:
		return json.Marshal(c.text)
	case KindNumber:
		return json.Marshal(c.num)
	default:
		return []byte("null"), nil
	}
}
