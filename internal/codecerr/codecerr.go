// Package codecerr defines the uniform, enumerable failure model shared by
// the dbf and shp codecs. Every error surfaced by either package is a
// terminal *Error carrying one Kind; there is no retry, rollback, or
// partial-file recovery.
package codecerr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/McSnappy/shpdbf/internal/logging"
)

// Kind enumerates every distinguishable failure the codecs can report.
type Kind int

const (
	// IoRead covers any failure reading from the underlying file.
	IoRead Kind = iota
	// IoWrite covers any failure writing to the underlying file.
	IoWrite
	// ShortRead means fewer bytes were available than the format requires.
	ShortRead
	// BadMagic means a .shp/.shx file_code field was not 9994.
	BadMagic
	// UnsupportedVersion means a .shp/.shx version field was not 1000.
	UnsupportedVersion
	// BadFieldDescTerminator means the 0x0D terminator after a dbf field
	// descriptor list was missing or wrong.
	BadFieldDescTerminator
	// BadRecordLength means a dbf record or shp record content length was
	// inconsistent with the header.
	BadRecordLength
	// UnexpectedShapeType means a shape record's type code did not match
	// the file's declared shape kind (aside from the NullShape sentinel).
	UnexpectedShapeType
	// MixedShapeTypes means a ShapeFile being written contains more than
	// one non-null shape kind.
	MixedShapeTypes
	// BadShapeKind means a ShapeFile has no shapes, or none are of a
	// supported kind, so a shape_type cannot be determined for writing;
	// on read, it means a record's shape_type is not one the codec decodes.
	BadShapeKind
	// NumericParseFailure means a dbf Numeric or Float cell's trimmed text
	// could not be parsed.
	NumericParseFailure
	// RowArityMismatch means a Row's field count did not match the
	// Table's column count.
	RowArityMismatch
	// ValueKindMismatch means a FieldValue's variant did not match the
	// column's declared kind at write time.
	ValueKindMismatch
	// InvalidFieldDef means a FieldDef failed validation (empty name,
	// zero length, unsupported type code).
	InvalidFieldDef
	// EmptyTable means a Table with zero columns or zero rows was
	// presented for writing.
	EmptyTable
	// AllocationFailure covers buffer-sizing failures (in Go this mostly
	// guards against corrupt length fields driving unreasonable
	// allocations, not host OOM).
	AllocationFailure
	// BadOutputPath means the .shp writer's path did not end in ".shp",
	// so no .shx sibling path could be derived.
	BadOutputPath
	// ConcurrentModification means the destination file's size changed
	// between WriteTable's initial stat and the moment it opened the file
	// for writing, indicating another writer touched the same path.
	ConcurrentModification
)

func (k Kind) String() string {
	switch k {
	case IoRead:
		return "io_read"
	case IoWrite:
		return "io_write"
	case ShortRead:
		return "short_read"
	case BadMagic:
		return "bad_magic"
	case UnsupportedVersion:
		return "unsupported_version"
	case BadFieldDescTerminator:
		return "bad_field_desc_terminator"
	case BadRecordLength:
		return "bad_record_length"
	case UnexpectedShapeType:
		return "unexpected_shape_type"
	case MixedShapeTypes:
		return "mixed_shape_types"
	case BadShapeKind:
		return "bad_shape_kind"
	case NumericParseFailure:
		return "numeric_parse_failure"
	case RowArityMismatch:
		return "row_arity_mismatch"
	case ValueKindMismatch:
		return "value_kind_mismatch"
	case InvalidFieldDef:
		return "invalid_field_def"
	case EmptyTable:
		return "empty_table"
	case AllocationFailure:
		return "allocation_failure"
	case BadOutputPath:
		return "bad_output_path"
	case ConcurrentModification:
		return "concurrent_modification"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by the dbf and shp packages.
type Error struct {
	Kind    Kind
	Context string // e.g. a column name or file path
	cause   error
}

func (e *Error) Error() string {
	if e.Context != "" {
		if e.cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.cause)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// New builds a bare *Error of the given kind with no wrapped cause, its
// stack captured at the call site, and logs it at logging.Error severity —
// every codecerr.Error is constructed on a path that returns it as the
// terminal failure of the current operation, so this is the one place that
// needs to log it.
func New(kind Kind, context string) *Error {
	e := &Error{Kind: kind, Context: context, cause: pkgerrors.New(kind.String())}
	logging.Error("%s", e.Error())
	return e
}

// Wrap attaches kind and context to cause, capturing a stack trace at this
// call (even if cause already carries one), and logs it at logging.Error
// severity (see New).
func Wrap(kind Kind, cause error, context string) *Error {
	if cause == nil {
		return New(kind, context)
	}
	e := &Error{Kind: kind, Context: context, cause: pkgerrors.WithStack(cause)}
	logging.Error("%s", e.Error())
	return e
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
