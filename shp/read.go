package shp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/McSnappy/shpdbf/internal/codecerr"
	"github.com/McSnappy/shpdbf/internal/endian"
	"github.com/McSnappy/shpdbf/internal/logging"
)

// ReadShapes opens path (a .shp file) and reads every shape record in one
// pass, streaming from the file-length budget declared in the main header
// rather than trusting EOF. NullShape records are skipped; a non-null
// record whose type disagrees with the main header's declared shape_type is
// an error.
func ReadShapes(path string) (*ShapeFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.IoRead, err, path)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	mh, err := readMainHeader(r)
	if err != nil {
		return nil, err
	}
	logging.Info("shp: header file_length=%d words shape_type=%s bbox=(%g,%g)-(%g,%g)",
		mh.FileLength, mh.ShapeType, mh.BBox.XMin, mh.BBox.YMin, mh.BBox.XMax, mh.BBox.YMax)

	// file_length is in 16-bit words and includes the 100-byte header;
	// the remaining budget is what's left to read after the header.
	remaining := int64(mh.FileLength)*2 - mainHeaderSize
	if remaining < 0 {
		return nil, codecerr.New(codecerr.BadRecordLength, "file_length shorter than header")
	}

	var shapes []Shape

	for remaining > 0 {
		if remaining < recordHeaderSize {
			return nil, codecerr.New(codecerr.ShortRead, "truncated record header")
		}
		rh, err := readRecordHeader(r)
		if err != nil {
			return nil, codecerr.Wrap(codecerr.ShortRead, err, "record header")
		}
		remaining -= recordHeaderSize

		contentBytes := int64(rh.ContentLength) * 2
		if contentBytes < 4 || contentBytes > remaining {
			return nil, codecerr.New(codecerr.BadRecordLength, fmt.Sprintf("record %d", rh.Number))
		}

		content := make([]byte, contentBytes)
		if _, err := io.ReadFull(r, content); err != nil {
			return nil, codecerr.Wrap(codecerr.ShortRead, err, fmt.Sprintf("record %d content", rh.Number))
		}
		remaining -= contentBytes

		shapeType := ShapeType(endian.ReadI32LE(content[0:4]))
		if shapeType == NullShapeType {
			logging.Info("shp: record %d is NullShape, skipping", rh.Number)
			continue
		}

		if shapeType != mh.ShapeType {
			return nil, codecerr.New(codecerr.UnexpectedShapeType,
				fmt.Sprintf("record %d is %s, header declares %s", rh.Number, shapeType, mh.ShapeType))
		}

		shape, err := decodeShape(shapeType, content)
		if err != nil {
			kind := codecerr.BadRecordLength
			var ce *codecerr.Error
			if errors.As(err, &ce) {
				kind = ce.Kind
			}
			return nil, codecerr.Wrap(kind, err, fmt.Sprintf("record %d", rh.Number))
		}
		logging.Info("shp: record %d decoded as %s", rh.Number, shapeType)
		shapes = append(shapes, shape)
	}

	logging.Info("shp: read %d shapes from %s", len(shapes), path)
	return &ShapeFile{Shapes: shapes}, nil
}

func decodeShape(t ShapeType, content []byte) (Shape, error) {
	switch t {
	case PointType:
		return decodePoint(content)
	case MultiPointType:
		return decodeMultiPoint(content)
	case PolylineType:
		parts, err := decodePolyParts(content)
		if err != nil {
			return nil, err
		}
		return Polyline{Parts: parts}, nil
	case PolygonType:
		parts, err := decodePolyParts(content)
		if err != nil {
			return nil, err
		}
		return Polygon{Rings: parts}, nil
	default:
		return nil, codecerr.New(codecerr.BadShapeKind, t.String())
	}
}

// decodePoint reads a 20-byte Point record: shape_type(4) + x(8) + y(8).
func decodePoint(content []byte) (Shape, error) {
	if len(content) < 20 {
		return nil, codecerr.New(codecerr.ShortRead, "point content")
	}
	return Point{
		X: endian.ReadF64LE(content[4:12]),
		Y: endian.ReadF64LE(content[12:20]),
	}, nil
}

// decodeMultiPoint reads shape_type(4) + bbox(32) + numpoints(4) + points.
func decodeMultiPoint(content []byte) (Shape, error) {
	if len(content) < 40 {
		return nil, codecerr.New(codecerr.ShortRead, "multipoint content")
	}
	numPoints := int(endian.ReadI32LE(content[36:40]))
	if numPoints < 0 || 40+numPoints*16 > len(content) {
		return nil, codecerr.New(codecerr.ShortRead, "multipoint numpoints")
	}
	points := make([]Point, numPoints)
	off := 40
	for i := 0; i < numPoints; i++ {
		points[i] = Point{
			X: endian.ReadF64LE(content[off : off+8]),
			Y: endian.ReadF64LE(content[off+8 : off+16]),
		}
		off += 16
	}
	return MultiPoint{Points: points}, nil
}

// decodePolyParts reads the layout shared by Polyline and Polygon:
// shape_type(4) + bbox(32) + numparts(4) + numpoints(4) + parts[numparts]
// (each a 4-byte starting point index) + points[numpoints].
func decodePolyParts(content []byte) ([]PolyPart, error) {
	if len(content) < 44 {
		return nil, codecerr.New(codecerr.ShortRead, "polyline/polygon content")
	}
	numParts := int(endian.ReadI32LE(content[36:40]))
	numPoints := int(endian.ReadI32LE(content[40:44]))
	if numParts <= 0 || numPoints < 0 {
		return nil, codecerr.New(codecerr.BadRecordLength, "numparts/numpoints")
	}

	partsOff := 44
	pointsOff := partsOff + numParts*4
	if pointsOff+numPoints*16 > len(content) {
		return nil, codecerr.New(codecerr.ShortRead, "part/point table")
	}

	starts := make([]int, numParts)
	for i := 0; i < numParts; i++ {
		starts[i] = int(endian.ReadI32LE(content[partsOff+i*4 : partsOff+i*4+4]))
	}

	allPoints := make([]Point, numPoints)
	off := pointsOff
	for i := 0; i < numPoints; i++ {
		allPoints[i] = Point{
			X: endian.ReadF64LE(content[off : off+8]),
			Y: endian.ReadF64LE(content[off+8 : off+16]),
		}
		off += 16
	}

	parts := make([]PolyPart, numParts)
	for i := 0; i < numParts; i++ {
		start := starts[i]
		end := numPoints
		if i+1 < numParts {
			end = starts[i+1]
		}
		if start < 0 || end > numPoints || start > end {
			return nil, codecerr.New(codecerr.BadRecordLength, fmt.Sprintf("part %d bounds", i))
		}
		parts[i] = PolyPart{Points: allPoints[start:end]}
	}

	return parts, nil
}
