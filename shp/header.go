package shp

import (
	"io"

	"github.com/McSnappy/shpdbf/internal/codecerr"
	"github.com/McSnappy/shpdbf/internal/endian"
)

const (
	fileCode         = 9994
	fileVersion      = 1000
	mainHeaderSize   = 100 // 50 words: base block (unused fields skipped) + bbox block
	recordHeaderSize = 8

	// base block layout offsets, in bytes, within the 100-byte header
	offFileCode   = 0
	offFileLength = 24 // int32 BE, at word offset 12
	offVersion    = 28 // int32 LE
	offShapeType  = 32 // int32 LE
	offBBox       = 36 // 8 little-endian doubles follow
)

// mainHeader is the 100-byte header shared by .shp and .shx: a base block
// (file_code, five unused words, file_length, version, shape_type) and a
// bounding-box block of eight little-endian doubles. Byte order is fixed
// per field, not per file, matching spec §4.2.
type mainHeader struct {
	FileLength int32 // 16-bit words, including this 100-byte header
	ShapeType  ShapeType
	BBox       BoundingBox
}

func readMainHeader(r io.Reader) (mainHeader, error) {
	buf := make([]byte, mainHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return mainHeader{}, codecerr.Wrap(codecerr.ShortRead, err, "shp header")
	}

	code := endian.ReadI32BE(buf[offFileCode:])
	if code != fileCode {
		return mainHeader{}, codecerr.New(codecerr.BadMagic, "file_code mismatch")
	}

	fileLength := endian.ReadI32BE(buf[offFileLength:])
	version := endian.ReadI32LE(buf[offVersion:])
	if version != fileVersion {
		return mainHeader{}, codecerr.New(codecerr.UnsupportedVersion, "version mismatch")
	}
	shapeType := ShapeType(endian.ReadI32LE(buf[offShapeType:]))

	bb := BoundingBox{
		XMin: endian.ReadF64LE(buf[offBBox+0:]),
		YMin: endian.ReadF64LE(buf[offBBox+8:]),
		XMax: endian.ReadF64LE(buf[offBBox+16:]),
		YMax: endian.ReadF64LE(buf[offBBox+24:]),
		ZMin: endian.ReadF64LE(buf[offBBox+32:]),
		ZMax: endian.ReadF64LE(buf[offBBox+40:]),
		MMin: endian.ReadF64LE(buf[offBBox+48:]),
		MMax: endian.ReadF64LE(buf[offBBox+56:]),
	}

	return mainHeader{FileLength: fileLength, ShapeType: shapeType, BBox: bb}, nil
}

func writeMainHeader(w io.Writer, h mainHeader) error {
	buf := make([]byte, mainHeaderSize)

	endian.WriteI32BE(buf[offFileCode:], fileCode)
	// bytes [4:24) are the five unused BE words, left zero.
	endian.WriteI32BE(buf[offFileLength:], h.FileLength)
	endian.WriteI32LE(buf[offVersion:], fileVersion)
	endian.WriteI32LE(buf[offShapeType:], int32(h.ShapeType))

	endian.WriteF64LE(buf[offBBox+0:], h.BBox.XMin)
	endian.WriteF64LE(buf[offBBox+8:], h.BBox.YMin)
	endian.WriteF64LE(buf[offBBox+16:], h.BBox.XMax)
	endian.WriteF64LE(buf[offBBox+24:], h.BBox.YMax)
	endian.WriteF64LE(buf[offBBox+32:], h.BBox.ZMin)
	endian.WriteF64LE(buf[offBBox+40:], h.BBox.ZMax)
	endian.WriteF64LE(buf[offBBox+48:], h.BBox.MMin)
	endian.WriteF64LE(buf[offBBox+56:], h.BBox.MMax)

	_, err := w.Write(buf)
	return err
}

// recordHeader is the 8-byte header preceding every .shp record's content
// and every .shx entry (same layout, reused).
type recordHeader struct {
	Number        int32 // BE; 1-based in .shp, offset-in-words in .shx
	ContentLength int32 // BE, 16-bit words
}

func readRecordHeader(r io.Reader) (recordHeader, error) {
	var buf [recordHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return recordHeader{}, err
	}
	return recordHeader{
		Number:        endian.ReadI32BE(buf[0:]),
		ContentLength: endian.ReadI32BE(buf[4:]),
	}, nil
}

func writeRecordHeader(w io.Writer, h recordHeader) error {
	var buf [recordHeaderSize]byte
	endian.WriteI32BE(buf[0:], h.Number)
	endian.WriteI32BE(buf[4:], h.ContentLength)
	_, err := w.Write(buf[:])
	return err
}
