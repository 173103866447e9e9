// Package shp reads and writes ESRI shapefile geometry (.shp) together
// with its positional index (.shx): a mixed-endianness binary container
// with variable-length shape records, multi-part polyline/polygon layout,
// per-record bounding boxes, and a .shx index whose entries are derived
// from the byte offset the .shp writer has emitted so far.
package shp

import "fmt"

// ShapeType is the on-disk shape_type code. Z/M variants are recognized
// for round-trip tolerance of the type code but are never decoded or
// encoded (see spec §1 Non-goals).
type ShapeType int32

const (
	NullShapeType    ShapeType = 0
	PointType        ShapeType = 1
	PolylineType     ShapeType = 3
	PolygonType      ShapeType = 5
	MultiPointType   ShapeType = 8
	PointZType       ShapeType = 11
	PolylineZType    ShapeType = 13
	PolygonZType     ShapeType = 15
	MultiPointZType  ShapeType = 18
	PointMType       ShapeType = 21
	PolylineMType    ShapeType = 23
	MultiPointMType  ShapeType = 28
	MultiPatchType   ShapeType = 31
)

func (t ShapeType) String() string {
	switch t {
	case NullShapeType:
		return "NullShape"
	case PointType:
		return "Point"
	case PolylineType:
		return "Polyline"
	case PolygonType:
		return "Polygon"
	case MultiPointType:
		return "MultiPoint"
	default:
		return fmt.Sprintf("ShapeType(%d)", int32(t))
	}
}

// Point is a single x,y coordinate.
type Point struct {
	X, Y float64
}

// MultiPoint is an unordered-on-disk sequence of points sharing one
// record.
type MultiPoint struct {
	Points []Point
}

// PolyPart is one contiguous run of points within a polyline or polygon:
// an open chain for a polyline, a closed ring for a polygon.
type PolyPart struct {
	Points []Point
}

// Polyline is a non-empty sequence of open-chain parts.
type Polyline struct {
	Parts []PolyPart
}

// Polygon is a non-empty sequence of ring parts. The codec does not
// enforce ring closure or orientation.
type Polygon struct {
	Rings []PolyPart
}

// Shape is a tagged variant over the four supported geometries. Concrete
// types implement it with an unexported method, closing the set: Point,
// MultiPoint, Polyline, Polygon. NullShape has no in-memory form:
// ReadShapes skips NullShape records, and WriteShapes does not handle a
// nil Shape.
type Shape interface {
	shapeType() ShapeType
}

func (Point) shapeType() ShapeType      { return PointType }
func (MultiPoint) shapeType() ShapeType { return MultiPointType }
func (Polyline) shapeType() ShapeType   { return PolylineType }
func (Polygon) shapeType() ShapeType    { return PolygonType }

// ShapeKindOf returns the shape_type code a Shape would be written with.
func ShapeKindOf(s Shape) ShapeType { return s.shapeType() }

// BoundingBox is an axis-aligned box, optionally carrying z/m ranges that
// this codec always writes as zero.
type BoundingBox struct {
	XMin, YMin, XMax, YMax float64
	ZMin, ZMax, MMin, MMax float64
}

// ShapeFile is an ordered list of shapes. All shapes in one file must
// share one shape kind (enforced at write time, not at construction).
type ShapeFile struct {
	Shapes []Shape
}
