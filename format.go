package glstage

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glstage/hal"
)

// componentBytes returns the byte size of one component of a vertex type, or
// 0 for types the debugger does not read.
func componentBytes(t hal.Enum) int32 {
	switch t {
	case hal.Byte, hal.UnsignedByte:
		return 1
	case hal.Short, hal.UnsignedShort, hal.HalfFloat:
		return 2
	case hal.Int, hal.UnsignedInt, hal.Float, hal.Fixed:
		return 4
	case hal.Double:
		return 8
	}
	return 0
}

// packedVertexType reports types that pack all components into one 32-bit word.
func packedVertexType(t hal.Enum) bool {
	switch t {
	case hal.UnsignedInt2101010Rev, hal.Int2101010Rev, hal.UnsignedInt10f11f11fRev:
		return true
	}
	return false
}

// NaturalStride returns the tightly packed byte size of one vertex of
// components values of type t, or 0 for an unknown type.
func NaturalStride(components int32, t hal.Enum) int32 {
	if packedVertexType(t) {
		return 4
	}
	return components * componentBytes(t)
}

// ResolveStride returns stride, or the natural packed size when the device
// reports 0.
func ResolveStride(stride, components int32, t hal.Enum) int32 {
	if stride != 0 {
		return stride
	}
	return NaturalStride(components, t)
}

type vertexKey struct {
	components int32
	typ        hal.Enum
	normalized bool
}

var vertexFormats = map[vertexKey]gputypes.VertexFormat{
	{1, hal.Float, false}:                gputypes.VertexFormatFloat32,
	{2, hal.Float, false}:                gputypes.VertexFormatFloat32x2,
	{3, hal.Float, false}:                gputypes.VertexFormatFloat32x3,
	{4, hal.Float, false}:                gputypes.VertexFormatFloat32x4,
	{2, hal.HalfFloat, false}:            gputypes.VertexFormatFloat16x2,
	{4, hal.HalfFloat, false}:            gputypes.VertexFormatFloat16x4,
	{2, hal.UnsignedByte, false}:         gputypes.VertexFormatUint8x2,
	{4, hal.UnsignedByte, false}:         gputypes.VertexFormatUint8x4,
	{2, hal.Byte, false}:                 gputypes.VertexFormatSint8x2,
	{4, hal.Byte, false}:                 gputypes.VertexFormatSint8x4,
	{2, hal.UnsignedByte, true}:          gputypes.VertexFormatUnorm8x2,
	{4, hal.UnsignedByte, true}:          gputypes.VertexFormatUnorm8x4,
	{2, hal.Byte, true}:                  gputypes.VertexFormatSnorm8x2,
	{4, hal.Byte, true}:                  gputypes.VertexFormatSnorm8x4,
	{2, hal.UnsignedShort, false}:        gputypes.VertexFormatUint16x2,
	{4, hal.UnsignedShort, false}:        gputypes.VertexFormatUint16x4,
	{2, hal.Short, false}:                gputypes.VertexFormatSint16x2,
	{4, hal.Short, false}:                gputypes.VertexFormatSint16x4,
	{2, hal.UnsignedShort, true}:         gputypes.VertexFormatUnorm16x2,
	{4, hal.UnsignedShort, true}:         gputypes.VertexFormatUnorm16x4,
	{2, hal.Short, true}:                 gputypes.VertexFormatSnorm16x2,
	{4, hal.Short, true}:                 gputypes.VertexFormatSnorm16x4,
	{1, hal.UnsignedInt, false}:          gputypes.VertexFormatUint32,
	{2, hal.UnsignedInt, false}:          gputypes.VertexFormatUint32x2,
	{3, hal.UnsignedInt, false}:          gputypes.VertexFormatUint32x3,
	{4, hal.UnsignedInt, false}:          gputypes.VertexFormatUint32x4,
	{1, hal.Int, false}:                  gputypes.VertexFormatSint32,
	{2, hal.Int, false}:                  gputypes.VertexFormatSint32x2,
	{3, hal.Int, false}:                  gputypes.VertexFormatSint32x3,
	{4, hal.Int, false}:                  gputypes.VertexFormatSint32x4,
	{4, hal.UnsignedInt2101010Rev, true}: gputypes.VertexFormatUnorm1010102,
}

// vertexFormat maps a GL attribute layout onto the WebGPU vertex format
// vocabulary. Layouts without an equivalent map to VertexFormatUndefined.
func vertexFormat(components int32, t hal.Enum, normalized, integer bool) gputypes.VertexFormat {
	if integer || t == hal.Float {
		normalized = false
	}
	return vertexFormats[vertexKey{components, t, normalized}]
}

// indexFormat maps a GL index type onto the WebGPU index format.
// Unsigned bytes have no equivalent.
func indexFormat(t hal.Enum) gputypes.IndexFormat {
	switch t {
	case hal.UnsignedShort:
		return gputypes.IndexFormatUint16
	case hal.UnsignedInt:
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUndefined
}

// indexBytes returns the size of one index of type t.
func indexBytes(t hal.Enum) int64 {
	switch t {
	case hal.UnsignedByte:
		return 1
	case hal.UnsignedShort:
		return 2
	case hal.UnsignedInt:
		return 4
	}
	return 0
}

// topologyName names a GL topology with the WebGPU vocabulary where one exists.
func topologyName(mode hal.Enum) string {
	switch mode {
	case hal.Points:
		return gputypes.PrimitiveTopologyPointList.String()
	case hal.Lines:
		return gputypes.PrimitiveTopologyLineList.String()
	case hal.LineStrip:
		return gputypes.PrimitiveTopologyLineStrip.String()
	case hal.Triangles:
		return gputypes.PrimitiveTopologyTriangleList.String()
	case hal.TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip.String()
	}
	return mode.String()
}

// filledTopology reports whether mode rasterizes polygons, which is when face
// culling has any effect.
func filledTopology(mode hal.Enum) bool {
	switch mode {
	case hal.Triangles, hal.TriangleStrip, hal.TriangleFan,
		hal.TrianglesAdjacency, hal.TriangleStripAdjacency:
		return true
	}
	return false
}
