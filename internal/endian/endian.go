// Package endian provides little- and big-endian primitives over raw byte
// buffers. The dBASE and shapefile formats mix byte orders field by field,
// so callers must be explicit about which order applies at each offset
// rather than relying on host order.
package endian

import (
	"encoding/binary"
	"math"
)

var (
	// LE is the byte order used by shapefile geometry fields and the
	// dBASE header/record layout.
	LE = binary.LittleEndian
	// BE is the byte order used by shapefile file-level fields
	// (file_code, file_length) and every .shp/.shx record header.
	BE = binary.BigEndian
)

// ReadI32LE reads a little-endian int32 from the front of b.
func ReadI32LE(b []byte) int32 { return int32(LE.Uint32(b)) }

// ReadI32BE reads a big-endian int32 from the front of b.
func ReadI32BE(b []byte) int32 { return int32(BE.Uint32(b)) }

// ReadF64LE reads a little-endian IEEE-754 double from the front of b.
func ReadF64LE(b []byte) float64 { return math.Float64frombits(LE.Uint64(b)) }

// WriteI32LE writes v to the front of b in little-endian order.
func WriteI32LE(b []byte, v int32) { LE.PutUint32(b, uint32(v)) }

// WriteI32BE writes v to the front of b in big-endian order.
func WriteI32BE(b []byte, v int32) { BE.PutUint32(b, uint32(v)) }

// WriteF64LE writes v to the front of b in little-endian order.
func WriteF64LE(b []byte, v float64) { LE.PutUint64(b, math.Float64bits(v)) }
