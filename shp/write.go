package shp

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/McSnappy/shpdbf/internal/codecerr"
	"github.com/McSnappy/shpdbf/internal/endian"
	"github.com/McSnappy/shpdbf/internal/logging"
)

// WriteShapes writes sf to path (which must end in ".shp") and its
// companion ".shx" index, derived by replacing the trailing extension.
// Every shape in sf must share one shape kind; an empty shape set is
// rejected.
func WriteShapes(path string, sf *ShapeFile) error {
	if !strings.HasSuffix(path, ".shp") {
		return codecerr.New(codecerr.BadOutputPath, path)
	}
	shxPath := strings.TrimSuffix(path, ".shp") + ".shx"

	kind, err := determineShapeKind(sf.Shapes)
	if err != nil {
		return err
	}

	contents := make([][]byte, len(sf.Shapes))
	box := BoundingBox{}
	first := true
	for i, s := range sf.Shapes {
		c, err := encodeShape(s)
		if err != nil {
			return err
		}
		contents[i] = c
		extendBoundingBox(&box, s, &first)
	}

	var fileLengthWords int32 = mainHeaderSize / 2
	for _, c := range contents {
		fileLengthWords += recordHeaderSize/2 + int32(len(c))/2
	}

	shpFile, err := os.Create(path)
	if err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, path)
	}
	defer shpFile.Close()
	shxFile, err := os.Create(shxPath)
	if err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, shxPath)
	}
	defer shxFile.Close()

	shpw := bufio.NewWriter(shpFile)
	shxw := bufio.NewWriter(shxFile)

	mh := mainHeader{FileLength: fileLengthWords, ShapeType: kind, BBox: box}
	if err := writeMainHeader(shpw, mh); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, "shp header")
	}

	shxFileLengthWords := int32(mainHeaderSize/2) + int32(len(contents))*(recordHeaderSize/2)
	shxMH := mainHeader{FileLength: shxFileLengthWords, ShapeType: kind, BBox: box}
	if err := writeMainHeader(shxw, shxMH); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, "shx header")
	}

	offsetWords := int32(mainHeaderSize / 2)
	for i, c := range contents {
		contentWords := int32(len(c)) / 2

		if err := writeRecordHeader(shxw, recordHeader{Number: offsetWords, ContentLength: contentWords}); err != nil {
			return codecerr.Wrap(codecerr.IoWrite, err, "shx entry")
		}

		recNum := int32(i + 1)
		if err := writeRecordHeader(shpw, recordHeader{Number: recNum, ContentLength: contentWords}); err != nil {
			return codecerr.Wrap(codecerr.IoWrite, err, "shp record header")
		}
		if _, err := shpw.Write(c); err != nil {
			return codecerr.Wrap(codecerr.IoWrite, err, "shp record content")
		}

		offsetWords += recordHeaderSize/2 + contentWords
	}

	if err := shpw.Flush(); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, path)
	}
	if err := shxw.Flush(); err != nil {
		return codecerr.Wrap(codecerr.IoWrite, err, shxPath)
	}

	logging.Info("shp: wrote %d shapes to %s", len(sf.Shapes), path)
	return nil
}

// determineShapeKind finds the file's single shape kind: the first
// shape's kind wins, and every other shape must match it. An empty shape
// set is rejected.
func determineShapeKind(shapes []Shape) (ShapeType, error) {
	kind := NullShapeType
	for _, s := range shapes {
		k := ShapeKindOf(s)
		if kind == NullShapeType {
			kind = k
		} else if k != kind {
			return 0, codecerr.New(codecerr.MixedShapeTypes, fmt.Sprintf("%s vs %s", k, kind))
		}
	}
	if kind == NullShapeType {
		return 0, codecerr.New(codecerr.BadShapeKind, "no shapes")
	}
	return kind, nil
}

func encodeShape(s Shape) ([]byte, error) {
	switch v := s.(type) {
	case Point:
		return encodePoint(v), nil
	case MultiPoint:
		return encodeMultiPoint(v), nil
	case Polyline:
		return encodePolyParts(PolylineType, v.Parts), nil
	case Polygon:
		return encodePolyParts(PolygonType, v.Rings), nil
	default:
		return nil, codecerr.New(codecerr.BadShapeKind, "unknown shape type")
	}
}

func encodePoint(p Point) []byte {
	buf := make([]byte, 20)
	endian.WriteI32LE(buf[0:4], int32(PointType))
	endian.WriteF64LE(buf[4:12], p.X)
	endian.WriteF64LE(buf[12:20], p.Y)
	return buf
}

func encodeMultiPoint(mp MultiPoint) []byte {
	n := len(mp.Points)
	buf := make([]byte, 40+n*16)
	endian.WriteI32LE(buf[0:4], int32(MultiPointType))
	box := pointsBoundingBox(mp.Points)
	endian.WriteF64LE(buf[4:12], box.XMin)
	endian.WriteF64LE(buf[12:20], box.YMin)
	endian.WriteF64LE(buf[20:28], box.XMax)
	endian.WriteF64LE(buf[28:36], box.YMax)
	endian.WriteI32LE(buf[36:40], int32(n))
	off := 40
	for _, p := range mp.Points {
		endian.WriteF64LE(buf[off:off+8], p.X)
		endian.WriteF64LE(buf[off+8:off+16], p.Y)
		off += 16
	}
	return buf
}

// encodePolyParts writes the shared Polyline/Polygon layout: bbox, part
// start indices as a cumulative prefix sum over part lengths, then every
// point flattened in part order.
func encodePolyParts(t ShapeType, parts []PolyPart) []byte {
	numParts := len(parts)
	numPoints := 0
	for _, p := range parts {
		numPoints += len(p.Points)
	}

	buf := make([]byte, 44+numParts*4+numPoints*16)
	endian.WriteI32LE(buf[0:4], int32(t))

	var allPoints []Point
	for _, p := range parts {
		allPoints = append(allPoints, p.Points...)
	}
	box := pointsBoundingBox(allPoints)
	endian.WriteF64LE(buf[4:12], box.XMin)
	endian.WriteF64LE(buf[12:20], box.YMin)
	endian.WriteF64LE(buf[20:28], box.XMax)
	endian.WriteF64LE(buf[28:36], box.YMax)

	endian.WriteI32LE(buf[36:40], int32(numParts))
	endian.WriteI32LE(buf[40:44], int32(numPoints))

	partsOff := 44
	start := 0
	for i, p := range parts {
		endian.WriteI32LE(buf[partsOff+i*4:partsOff+i*4+4], int32(start))
		start += len(p.Points)
	}

	pointsOff := partsOff + numParts*4
	off := pointsOff
	for _, p := range parts {
		for _, pt := range p.Points {
			endian.WriteF64LE(buf[off:off+8], pt.X)
			endian.WriteF64LE(buf[off+8:off+16], pt.Y)
			off += 16
		}
	}

	return buf
}

func pointsBoundingBox(points []Point) BoundingBox {
	var box BoundingBox
	for i, p := range points {
		if i == 0 {
			box = BoundingBox{XMin: p.X, YMin: p.Y, XMax: p.X, YMax: p.Y}
			continue
		}
		if p.X < box.XMin {
			box.XMin = p.X
		}
		if p.X > box.XMax {
			box.XMax = p.X
		}
		if p.Y < box.YMin {
			box.YMin = p.Y
		}
		if p.Y > box.YMax {
			box.YMax = p.Y
		}
	}
	return box
}

// extendBoundingBox folds one shape's own point extent into the running
// file-level box, seeded by the first point encountered across all shapes.
func extendBoundingBox(box *BoundingBox, s Shape, first *bool) {
	var points []Point
	switch v := s.(type) {
	case Point:
		points = []Point{v}
	case MultiPoint:
		points = v.Points
	case Polyline:
		for _, p := range v.Parts {
			points = append(points, p.Points...)
		}
	case Polygon:
		for _, r := range v.Rings {
			points = append(points, r.Points...)
		}
	}
	for _, p := range points {
		if *first {
			box.XMin, box.XMax = p.X, p.X
			box.YMin, box.YMax = p.Y, p.Y
			*first = false
			continue
		}
		if p.X < box.XMin {
			box.XMin = p.X
		}
		if p.X > box.XMax {
			box.XMax = p.X
		}
		if p.Y < box.YMin {
			box.YMin = p.Y
		}
		if p.Y > box.YMax {
			box.YMax = p.Y
		}
	}
}
