package shp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McSnappy/shpdbf/internal/codecerr"
)

func TestWriteReadSinglePointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	shpPath := filepath.Join(dir, "point.shp")

	sf := &ShapeFile{Shapes: []Shape{Point{X: -74.006, Y: 40.7128}}}
	require.NoError(t, WriteShapes(shpPath, sf))

	info, err := os.Stat(shpPath)
	require.NoError(t, err)
	// 100-byte header + 8-byte record header + 20-byte point content
	assert.Equal(t, int64(128), info.Size())

	shxPath := filepath.Join(dir, "point.shx")
	shxInfo, err := os.Stat(shxPath)
	require.NoError(t, err)
	assert.Equal(t, int64(108), shxInfo.Size())

	got, err := ReadShapes(shpPath)
	require.NoError(t, err)
	require.Len(t, got.Shapes, 1)
	p, ok := got.Shapes[0].(Point)
	require.True(t, ok)
	assert.InDelta(t, -74.006, p.X, 1e-12)
	assert.InDelta(t, 40.7128, p.Y, 1e-12)
}

func TestWriteReadSevenCityPoints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.shp")

	coords := [][2]float64{
		{-74.006, 40.7128},
		{-0.1276, 51.5072},
		{139.6503, 35.6762},
		{151.2093, -33.8688},
		{-43.1729, -22.9068},
		{31.2357, 30.0444},
		{-157.8583, 21.3069},
	}
	sf := &ShapeFile{}
	for _, c := range coords {
		sf.Shapes = append(sf.Shapes, Point{X: c[0], Y: c[1]})
	}
	require.NoError(t, WriteShapes(path, sf))

	got, err := ReadShapes(path)
	require.NoError(t, err)
	require.Len(t, got.Shapes, 7)
	for i, c := range coords {
		p := got.Shapes[i].(Point)
		assert.InDelta(t, c[0], p.X, 1e-9)
		assert.InDelta(t, c[1], p.Y, 1e-9)
	}
}

func TestWriteReadPolylineTwoParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "line.shp")

	sf := &ShapeFile{Shapes: []Shape{Polyline{Parts: []PolyPart{
		{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{Points: []Point{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}}},
	}}}}
	require.NoError(t, WriteShapes(path, sf))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// record header content_length is in 16-bit words at bytes [104:108)
	// (100-byte main header + 4-byte record number)
	contentWords := endianReadI32BE(raw[104:108])
	assert.Equal(t, int32(66), contentWords) // 132 bytes / 2

	got, err := ReadShapes(path)
	require.NoError(t, err)
	require.Len(t, got.Shapes, 1)
	pl, ok := got.Shapes[0].(Polyline)
	require.True(t, ok)
	require.Len(t, pl.Parts, 2)
	assert.Len(t, pl.Parts[0].Points, 2)
	assert.Len(t, pl.Parts[1].Points, 3)
	assert.Equal(t, Point{X: 4, Y: 4}, pl.Parts[1].Points[2])
}

// TestReadShapesSkipsNullShapeMidStream hand-crafts a .shp whose main
// header declares PointType but whose middle record is a NullShape (a
// bare shape_type=0, no coordinates) — the reader must skip it silently
// and recover the points on either side, in order.
func TestReadShapesSkipsNullShapeMidStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "withnull.shp")

	point1 := encodePoint(Point{X: 1, Y: 1})
	nullContent := make([]byte, 4) // shape_type field left at zero: NullShapeType
	point2 := encodePoint(Point{X: 3, Y: 3})
	contents := [][]byte{point1, nullContent, point2}

	fileLengthWords := int32(mainHeaderSize / 2)
	for _, c := range contents {
		fileLengthWords += recordHeaderSize/2 + int32(len(c))/2
	}

	var buf bytes.Buffer
	require.NoError(t, writeMainHeader(&buf, mainHeader{FileLength: fileLengthWords, ShapeType: PointType}))
	for i, c := range contents {
		require.NoError(t, writeRecordHeader(&buf, recordHeader{
			Number:        int32(i + 1),
			ContentLength: int32(len(c)) / 2,
		}))
		buf.Write(c)
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := ReadShapes(path)
	require.NoError(t, err)
	require.Len(t, got.Shapes, 2)
	assert.Equal(t, Point{X: 1, Y: 1}, got.Shapes[0])
	assert.Equal(t, Point{X: 3, Y: 3}, got.Shapes[1])
}

// TestReadShapesRejectsRecordAgainstHeader hand-crafts a .shp whose main
// header declares PointType but whose sole record is a Polyline, and
// confirms the reader rejects it against the header rather than trusting
// whatever kind the first non-null record happens to carry.
func TestReadShapesRejectsRecordAgainstHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mismatched.shp")

	content := encodePolyParts(PolylineType, []PolyPart{{Points: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}})

	var buf bytes.Buffer
	fileLengthWords := int32(mainHeaderSize/2) + recordHeaderSize/2 + int32(len(content))/2
	require.NoError(t, writeMainHeader(&buf, mainHeader{FileLength: fileLengthWords, ShapeType: PointType}))
	require.NoError(t, writeRecordHeader(&buf, recordHeader{Number: 1, ContentLength: int32(len(content)) / 2}))
	buf.Write(content)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := ReadShapes(path)
	require.Error(t, err)
	assert.True(t, codecerr.Is(err, codecerr.UnexpectedShapeType))
}

func TestWriteRejectsMixedShapeTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.shp")

	sf := &ShapeFile{Shapes: []Shape{
		Point{X: 0, Y: 0},
		MultiPoint{Points: []Point{{X: 1, Y: 1}}},
	}}
	err := WriteShapes(path, sf)
	require.Error(t, err)
}

func TestWriteRejectsEmptyShapes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.shp")
	err := WriteShapes(path, &ShapeFile{})
	require.Error(t, err)
}

func TestWriteRejectsNonShpExtension(t *testing.T) {
	err := WriteShapes("/tmp/whatever.txt", &ShapeFile{Shapes: []Shape{Point{}}})
	require.Error(t, err)
}

func TestBoundingBoxSeededByFirstPoint(t *testing.T) {
	mp := MultiPoint{Points: []Point{{X: 5, Y: 5}, {X: 1, Y: 9}, {X: 3, Y: -2}}}
	box := pointsBoundingBox(mp.Points)
	assert.Equal(t, 1.0, box.XMin)
	assert.Equal(t, 5.0, box.XMax)
	assert.Equal(t, -2.0, box.YMin)
	assert.Equal(t, 9.0, box.YMax)
}

// endianReadI32BE is a tiny local helper so this test file doesn't need to
// import the internal endian package just to read one field back.
func endianReadI32BE(b []byte) int32 {
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}
