package dbf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Fields: []FieldDef{
			{Name: "City", Kind: Character, Length: 20},
			{Name: "Country", Kind: Character, Length: 20},
			{Name: "Population", Kind: Numeric, Length: 10},
			{Name: "Longitude", Kind: Float, Length: 19, Decimals: 11},
		},
		Rows: []Row{
			{NewStr("New York"), NewStr("USA"), NewUInt32(8336817), NewDbl(-74.006)},
			{NewStr("London"), NewStr("England"), NewUInt32(8982000), NewDbl(-0.1276)},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.dbf")

	table := sampleTable()
	require.NoError(t, WriteTable(path, table))

	got, err := ReadTable(path)
	require.NoError(t, err)

	require.Len(t, got.Fields, len(table.Fields))
	for i, fd := range table.Fields {
		assert.Equal(t, fd.Name, got.Fields[i].Name)
		assert.Equal(t, fd.Kind, got.Fields[i].Kind)
		assert.Equal(t, fd.Length, got.Fields[i].Length)
	}

	require.Len(t, got.Rows, len(table.Rows))
	assert.Equal(t, "New York", got.Rows[0][0].Str)
	assert.Equal(t, "USA", got.Rows[0][1].Str)
	assert.Equal(t, uint32(8336817), got.Rows[0][2].UInt32)
	assert.InDelta(t, -74.006, got.Rows[0][3].Dbl, 1e-9)
}

func TestWriteTableExactByteCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.dbf")

	table := &Table{
		Fields: []FieldDef{
			{Name: "City", Kind: Character, Length: 50},
			{Name: "Country", Kind: Character, Length: 50},
			{Name: "Longitude", Kind: Float, Length: 19, Decimals: 11},
			{Name: "Latitude", Kind: Float, Length: 19, Decimals: 11},
		},
	}
	cities := []struct {
		city, country        string
		longitude, latitude float64
	}{
		{"New York", "USA", -74.006, 40.7128},
		{"London", "England", -0.1276, 51.5072},
		{"Tokyo", "Japan", 139.6503, 35.6762},
		{"Sydney", "Australia", 151.2093, -33.8688},
		{"Rio de Janeiro", "Brazil", -43.1729, -22.9068},
		{"Cairo", "Egypt", 31.2357, 30.0444},
		{"Honolulu", "USA", -157.8583, 21.3069},
	}
	for _, c := range cities {
		table.Rows = append(table.Rows, Row{
			NewStr(c.city), NewStr(c.country), NewDbl(c.longitude), NewDbl(c.latitude),
		})
	}

	require.NoError(t, WriteTable(path, table))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// header(32) + 4 descriptors(32 each) + terminator(1) + 7 rows*(1+50+50+19+19) + eof(1)
	const recordLength = 1 + 50 + 50 + 19 + 19
	want := int64(32 + 4*32 + 1 + 7*recordLength + 1)
	assert.Equal(t, want, info.Size())
}

func TestReadTableSkipsDeletedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.dbf")

	table := sampleTable()
	require.NoError(t, WriteTable(path, table))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	fieldCount := len(table.Fields)
	headerLength := headerSize + fieldCount*descriptorSize + 1
	recordLength := 1
	for _, fd := range table.Fields {
		recordLength += fd.Length
	}
	raw[headerLength] = deletedFlag
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	got, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "London", got.Rows[0][0].Str)
}

func TestWriteTableRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.dbf")

	err := WriteTable(path, &Table{})
	require.Error(t, err)

	err = WriteTable(path, &Table{Fields: []FieldDef{{Name: "X", Kind: Character, Length: 1}}})
	require.Error(t, err)
}

func TestWriteTableRejectsRowArityMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.dbf")

	table := &Table{
		Fields: []FieldDef{{Name: "X", Kind: Character, Length: 5}},
		Rows:   []Row{{NewStr("a"), NewStr("b")}},
	}
	err := WriteTable(path, table)
	require.Error(t, err)
}

func TestFormatExpMatchesPrintfConvention(t *testing.T) {
	assert.Equal(t, "5.00e-01", formatExp(0.5, 2))
	assert.Equal(t, "1.00e+02", formatExp(100.0, 2))
}

func TestParseNumericSignedVsUnsigned(t *testing.T) {
	v, err := parseNumeric("-42")
	require.NoError(t, err)
	assert.Equal(t, KindSInt32, v.Kind)
	assert.Equal(t, int32(-42), v.SInt32)

	v, err = parseNumeric("42")
	require.NoError(t, err)
	assert.Equal(t, KindUInt32, v.Kind)
	assert.Equal(t, uint32(42), v.UInt32)
}
