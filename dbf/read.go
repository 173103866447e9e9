package dbf

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/McSnappy/shpdbf/internal/codecerr"
	"github.com/McSnappy/shpdbf/internal/logging"
)

// ReadTable opens path and reads the whole dBASE table in one pass.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.IoRead, err, path)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	h, err := readHeader(r)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.IoRead, err, "header")
	}

	fieldCount := (int(h.HeaderLength) - headerSize - 1) / descriptorSize
	if fieldCount < 0 {
		return nil, codecerr.New(codecerr.BadRecordLength, "negative field count")
	}

	fields := make([]FieldDef, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		d, err := readDescriptor(r)
		if err != nil {
			return nil, codecerr.Wrap(codecerr.IoRead, err, "field descriptor")
		}
		fields = append(fields, fieldDefFromDescriptor(d))
	}

	var term [1]byte
	if _, err := io.ReadFull(r, term[:]); err != nil {
		return nil, codecerr.Wrap(codecerr.IoRead, err, "field descriptor terminator")
	}
	if term[0] != terminator {
		return nil, codecerr.New(codecerr.BadFieldDescTerminator, path)
	}

	rows := make([]Row, 0, h.NumRecords)
	recBuf := make([]byte, h.RecordLength)
	for i := uint32(0); i < h.NumRecords; i++ {
		if _, err := io.ReadFull(r, recBuf); err != nil {
			return nil, codecerr.Wrap(codecerr.ShortRead, err, "record")
		}

		if recBuf[0] != activeFlag {
			logging.Info("dbf: record %d deleted, skipping", i)
			continue
		}

		row, err := decodeRow(recBuf, fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return &Table{Fields: fields, Rows: rows}, nil
}

func fieldDefFromDescriptor(d descriptor) FieldDef {
	kind := FieldKind(d.Type)
	if kind == Numeric && d.Decimals > 0 {
		kind = Float // promotion per spec §4.1 / §9
	}
	return FieldDef{
		Name:     nameString(d.Name),
		Kind:     kind,
		Length:   int(d.Length),
		Decimals: int(d.Decimals),
	}
}

func decodeRow(recBuf []byte, fields []FieldDef) (Row, error) {
	row := make(Row, len(fields))
	offset := 1 // byte 0 is the delete flag
	for i, fd := range fields {
		span := recBuf[offset : offset+fd.Length]
		offset += fd.Length

		trimmed := strings.Trim(string(span), " ")

		switch fd.Kind {
		case Character:
			row[i] = NewStr(trimmed)
		case Numeric:
			v, err := parseNumeric(trimmed)
			if err != nil {
				return nil, codecerr.Wrap(codecerr.NumericParseFailure, err, fd.Name)
			}
			v.Raw = trimmed
			row[i] = v
		case Float:
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return nil, codecerr.Wrap(codecerr.NumericParseFailure, err, fd.Name)
			}
			row[i] = FieldValue{Kind: KindDbl, Dbl: f, Raw: trimmed}
		default:
			return nil, codecerr.New(codecerr.InvalidFieldDef, fd.Name)
		}
	}
	return row, nil
}

// parseNumeric matches dbfutil.cpp's rule: a '-' anywhere in the trimmed
// text means signed, otherwise unsigned. Both use base-0 (strtol/strtoul)
// semantics, which Go's ParseInt/ParseUint replicate with base 0.
func parseNumeric(trimmed string) (FieldValue, error) {
	if strings.Contains(trimmed, "-") {
		v, err := strconv.ParseInt(trimmed, 0, 32)
		if err != nil {
			return FieldValue{}, err
		}
		return NewSInt32(int32(v)), nil
	}
	v, err := strconv.ParseUint(trimmed, 0, 32)
	if err != nil {
		return FieldValue{}, err
	}
	return NewUInt32(uint32(v)), nil
}
