package dbf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/McSnappy/shpdbf/internal/codecerr"
	"github.com/McSnappy/shpdbf/internal/logging"
)

// WriteTable writes t to path in one pass, refusing tables with no columns
// or no rows.
func WriteTable(path string, t *Table) error {
	// Best-effort caller-concurrency check in the style of the teacher's
	// Append (which compares an md5 taken before and after building the
	// row buffer): stat the destination before doing any of the work
	// below, then again immediately before opening it for writing. A size
	// change in between means another writer touched the same path.
	preSize, preExists := statSize(path)

	if len(t.Fields) == 0 {
		return codecerr.New(codecerr.EmptyTable, "no columns")
	}
	if len(t.Rows) == 0 {
		return codecerr.New(codecerr.EmptyTable, "no rows")
	}

	for _, fd := range t.Fields {
		if err := validateFieldDef(fd); err != nil {
			return err
		}
	}

	recordLength := 1
	for _, fd := range t.Fields {
		recordLength += fd.Length
	}
	headerLength := headerSize + len(t.Fields)*descriptorSize + 1

	if preExists {
		if postSize, stillExists := statSize(path); !stillExists || postSize != preSize {
			return codecerr.New(codecerr.ConcurrentModification, path)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	now := time.Now()
	h := header{
		Version:         0x03,
		LastUpdateYear:  byte(now.Year() - 1900),
		LastUpdateMonth: byte(now.Month()),
		LastUpdateDay:   byte(now.Day()),
		NumRecords:      uint32(len(t.Rows)),
		HeaderLength:    uint16(headerLength),
		RecordLength:    uint16(recordLength),
	}
	if err := writeHeader(w, h); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, "header")
	}

	for _, fd := range t.Fields {
		d := descriptorFromFieldDef(fd)
		if err := writeDescriptor(w, d); err != nil {
			return codecerr.Wrap(codecerr.IoWrite, err, "field descriptor")
		}
	}
	if err := w.WriteByte(terminator); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, "field descriptor terminator")
	}

	buf := make([]byte, recordLength)
	for i, row := range t.Rows {
		if len(row) != len(t.Fields) {
			return codecerr.New(codecerr.RowArityMismatch, fmt.Sprintf("row %d", i))
		}
		if err := encodeRow(buf, t.Fields, row); err != nil {
			return err
		}
		if _, err := w.Write(buf); err != nil {
			return codecerr.Wrap(codecerr.IoWrite, err, fmt.Sprintf("row %d", i))
		}
	}

	if err := w.WriteByte(eofMarker); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, "eof marker")
	}

	if err := w.Flush(); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, path)
	}

	logging.Info("dbf: wrote %d rows, %d columns to %s", len(t.Rows), len(t.Fields), path)
	return nil
}

// statSize reports path's current size and whether it exists yet. A
// missing path is not an error here: WriteTable is equally happy creating
// a new file or overwriting an existing one.
func statSize(path string) (size int64, exists bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

func validateFieldDef(fd FieldDef) error {
	if fd.Name == "" {
		return codecerr.New(codecerr.InvalidFieldDef, "missing field name")
	}
	if fd.Length <= 0 || fd.Length > 255 {
		return codecerr.New(codecerr.InvalidFieldDef, fd.Name+": length out of range")
	}
	switch fd.Kind {
	case Character, Numeric, Float:
	default:
		return codecerr.New(codecerr.InvalidFieldDef, fd.Name+": unsupported kind")
	}
	return nil
}

func descriptorFromFieldDef(fd FieldDef) descriptor {
	var d descriptor
	putName(&d.Name, fd.Name)
	d.Type = byte(fd.Kind)
	d.Length = byte(fd.Length)
	if fd.Kind != Character {
		d.Decimals = byte(fd.Decimals)
	}
	return d
}

// encodeRow fills buf (sized recordLength) with the active-flag byte and
// every field's fixed-width, space-padded text, matching dbfutil.cpp's
// write_table_rows byte for byte.
func encodeRow(buf []byte, fields []FieldDef, row Row) error {
	for i := range buf {
		buf[i] = ' '
	}
	buf[0] = activeFlag

	offset := 1
	for i, fd := range fields {
		val := row[i]
		text, err := formatCell(fd, val)
		if err != nil {
			return err
		}
		span := buf[offset : offset+fd.Length]
		writeJustified(span, fd.Kind, text)
		offset += fd.Length
	}
	return nil
}

// writeJustified places text into span. Character text is left-justified
// and right-padded with spaces; Numeric/Float text is right-justified and
// left-padded with spaces, the way printf("%*s", width, text) pads. Text
// longer than the span is truncated to its leading `len(span)` bytes for
// every kind (Numeric/Float text is never expected to overflow).
func writeJustified(span []byte, kind FieldKind, text string) {
	if kind == Character {
		for i := range span {
			span[i] = ' '
		}
		copy(span, text)
		return
	}
	if len(text) >= len(span) {
		copy(span, text[:len(span)])
		return
	}
	pad := len(span) - len(text)
	for i := 0; i < pad; i++ {
		span[i] = ' '
	}
	copy(span[pad:], text)
}

func formatCell(fd FieldDef, val FieldValue) (string, error) {
	switch fd.Kind {
	case Character:
		if val.Kind != KindStr {
			return "", codecerr.New(codecerr.ValueKindMismatch, fd.Name)
		}
		return val.Str, nil
	case Numeric:
		switch val.Kind {
		case KindSInt32:
			return strconv.FormatInt(int64(val.SInt32), 10), nil
		case KindUInt32:
			return strconv.FormatUint(uint64(val.UInt32), 10), nil
		default:
			return "", codecerr.New(codecerr.ValueKindMismatch, fd.Name)
		}
	case Float:
		if val.Kind != KindDbl {
			return "", codecerr.New(codecerr.ValueKindMismatch, fd.Name)
		}
		return formatExp(val.Dbl, fd.Decimals), nil
	default:
		return "", codecerr.New(codecerr.InvalidFieldDef, fd.Name)
	}
}

// formatExp reproduces printf("%.*e", decimals, v): mantissa with exactly
// `decimals` digits after the point, exponent as a signed two-digit(+)
// decimal, e.g. "3.1400e+00".
func formatExp(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'e', decimals, 64)
	// C's printf pads the exponent to at least two digits. Go's 'e'
	// format already does the same; the check below pads a one-digit
	// exponent anyway, so the result never depends on it.
	idx := len(s) - 1
	for idx >= 0 && s[idx] != 'e' {
		idx--
	}
	if idx < 0 {
		return s
	}
	mantissa := s[:idx]
	sign := s[idx+1]
	digits := s[idx+2:]
	if len(digits) < 2 {
		digits = "0" + digits
	}
	return fmt.Sprintf("%se%c%s", mantissa, sign, digits)
}
