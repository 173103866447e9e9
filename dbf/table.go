// Package dbf reads and writes dBASE-III-style attribute tables (.dbf):
// fixed-width column descriptors, trimmed ASCII cell encoding, per-column
// type-aware numeric parsing/formatting, and delete-flag handling.
package dbf

import "fmt"

// FieldKind is the in-memory type of a column. It is distinct from the
// on-disk type byte because a Numeric descriptor with decimals > 0 is
// promoted to Float when read (see ReadTable).
type FieldKind byte

const (
	// Character columns hold trimmed ASCII text.
	Character FieldKind = 'C'
	// Numeric columns hold signed or unsigned integers with no decimals.
	Numeric FieldKind = 'N'
	// Float columns hold IEEE-754 doubles, formatted on disk in
	// decimal-exponential notation.
	Float FieldKind = 'F'
)

func (k FieldKind) String() string {
	switch k {
	case Character:
		return "Character"
	case Numeric:
		return "Numeric"
	case Float:
		return "Float"
	default:
		return fmt.Sprintf("FieldKind(%q)", byte(k))
	}
}

// FieldDef describes one column of a Table.
type FieldDef struct {
	Name     string // ≤ 10 bytes of ASCII once trimmed; stored padded to 11
	Kind     FieldKind
	Length   int // 1..255
	Decimals int // 0..255; irrelevant (and written as 0) for Character
}

// ValueKind tags the variant carried by a FieldValue.
type ValueKind int

const (
	// KindStr holds a Character cell.
	KindStr ValueKind = iota
	// KindSInt32 holds a signed Numeric cell.
	KindSInt32
	// KindUInt32 holds an unsigned Numeric cell.
	KindUInt32
	// KindDbl holds a Float cell.
	KindDbl
)

// FieldValue is a tagged variant over the four cell representations the
// format supports. Raw retains the trimmed on-disk text a numeric or
// float value was parsed from, for round-trip fidelity; it is populated
// by ReadTable but never consulted by WriteTable (see spec §9).
type FieldValue struct {
	Kind    ValueKind
	Str     string
	SInt32  int32
	UInt32  uint32
	Dbl     float64
	Raw     string
}

// NewStr builds a Character-compatible FieldValue.
func NewStr(s string) FieldValue { return FieldValue{Kind: KindStr, Str: s} }

// NewSInt32 builds a signed Numeric-compatible FieldValue.
func NewSInt32(v int32) FieldValue { return FieldValue{Kind: KindSInt32, SInt32: v} }

// NewUInt32 builds an unsigned Numeric-compatible FieldValue.
func NewUInt32(v uint32) FieldValue { return FieldValue{Kind: KindUInt32, UInt32: v} }

// NewDbl builds a Float-compatible FieldValue.
func NewDbl(v float64) FieldValue { return FieldValue{Kind: KindDbl, Dbl: v} }

// Row is one record: values in the same order as the Table's FieldDefs.
type Row []FieldValue

// Table is an in-memory dBASE table: an ordered column list plus an
// ordered row list. Once constructed by a reader it is never mutated by
// this package.
type Table struct {
	Fields []FieldDef
	Rows   []Row
}
