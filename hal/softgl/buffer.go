package softgl

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/glstage/hal"
)

type bufferObject struct {
	data  []byte
	usage hal.Enum
}

type vertexAttrib struct {
	enabled    bool
	size       int32
	typ        hal.Enum
	normalized bool
	integer    bool
	stride     int32
	divisor    int32
	buffer     uint32
	offset     int64
}

type vertexArray struct {
	attribs [MaxVertexAttribs]vertexAttrib
	element uint32
}

func newVertexArray() *vertexArray {
	va := &vertexArray{}
	for i := range va.attribs {
		va.attribs[i] = vertexAttrib{size: 4, typ: hal.Float}
	}
	return va
}

func (d *Device) GenBuffer() uint32 {
	id := d.genID()
	d.buffers[id] = &bufferObject{}
	return id
}

// DeleteBuffer frees buffer and resets every binding that names it.
func (d *Device) DeleteBuffer(buffer uint32) {
	if _, ok := d.buffers[buffer]; !ok || buffer == 0 {
		return
	}
	delete(d.buffers, buffer)
	if d.arrayBuffer == buffer {
		d.arrayBuffer = 0
	}
	if d.feedbackBuffer == buffer {
		d.feedbackBuffer = 0
	}
	for i := range d.feedback {
		if d.feedback[i].buffer == buffer {
			d.feedback[i] = feedbackBinding{}
		}
	}
	if va := d.arrays[d.vertexArray]; va.element == buffer {
		va.element = 0
	}
}

// BufferBytes returns the content of buffer, or nil if it does not exist.
func (d *Device) BufferBytes(buffer uint32) []byte {
	if b, ok := d.buffers[buffer]; ok {
		return b.data
	}
	return nil
}

func (d *Device) validBuffer(buffer uint32) bool {
	if buffer == 0 {
		return true
	}
	if _, ok := d.buffers[buffer]; !ok {
		d.setError(hal.InvalidOperation)
		return false
	}
	return true
}

func (d *Device) BindBuffer(target hal.Enum, buffer uint32) {
	if !d.validBuffer(buffer) {
		return
	}
	switch target {
	case hal.ArrayBuffer:
		d.arrayBuffer = buffer
	case hal.ElementArrayBuffer:
		d.arrays[d.vertexArray].element = buffer
	case hal.TransformFeedbackBuffer:
		d.feedbackBuffer = buffer
	default:
		d.setError(hal.InvalidEnum)
	}
}

func (d *Device) bindIndexed(target hal.Enum, index, buffer uint32) bool {
	if target != hal.TransformFeedbackBuffer {
		d.setError(hal.InvalidEnum)
		return false
	}
	if index >= MaxTransformFeedbackBuffers {
		d.setError(hal.InvalidValue)
		return false
	}
	if d.feedbackActive {
		d.setError(hal.InvalidOperation)
		return false
	}
	return d.validBuffer(buffer)
}

// BindBufferBase binds the whole buffer. The indexed size reads back as zero,
// as on real drivers.
func (d *Device) BindBufferBase(target hal.Enum, index, buffer uint32) {
	if !d.bindIndexed(target, index, buffer) {
		return
	}
	d.feedback[index] = feedbackBinding{buffer: buffer}
	d.feedbackBuffer = buffer
}

func (d *Device) BindBufferRange(target hal.Enum, index, buffer uint32, offset, size int64) {
	if !d.bindIndexed(target, index, buffer) {
		return
	}
	if buffer != 0 && (size <= 0 || offset < 0 || offset%4 != 0) {
		d.setError(hal.InvalidValue)
		return
	}
	d.feedback[index] = feedbackBinding{buffer: buffer, start: offset, size: size}
	d.feedbackBuffer = buffer
}

func (d *Device) boundBuffer(target hal.Enum) *bufferObject {
	var id uint32
	switch target {
	case hal.ArrayBuffer:
		id = d.arrayBuffer
	case hal.ElementArrayBuffer:
		id = d.arrays[d.vertexArray].element
	case hal.TransformFeedbackBuffer:
		id = d.feedbackBuffer
	default:
		d.setError(hal.InvalidEnum)
		return nil
	}
	if id == 0 {
		d.setError(hal.InvalidOperation)
		return nil
	}
	return d.buffers[id]
}

func (d *Device) BufferData(target hal.Enum, size int64, data []byte, usage hal.Enum) {
	if size < 0 {
		d.setError(hal.InvalidValue)
		return
	}
	b := d.boundBuffer(target)
	if b == nil {
		return
	}
	b.data = make([]byte, size)
	copy(b.data, data)
	b.usage = usage
}

func (d *Device) GetBufferParameteri64(target, pname hal.Enum) int64 {
	b := d.boundBuffer(target)
	if b == nil {
		return 0
	}
	if pname != hal.BufferSize {
		d.setError(hal.InvalidEnum)
		return 0
	}
	return int64(len(b.data))
}

func (d *Device) GetBufferSubData(target hal.Enum, offset int64, data []byte) {
	b := d.boundBuffer(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+int64(len(data)) > int64(len(b.data)) {
		d.setError(hal.InvalidValue)
		return
	}
	copy(data, b.data[offset:])
}

func (d *Device) GenVertexArray() uint32 {
	id := d.genID()
	d.arrays[id] = newVertexArray()
	return id
}

// DeleteVertexArray frees array; deleting the bound array binds 0.
func (d *Device) DeleteVertexArray(array uint32) {
	if array == 0 {
		return
	}
	if _, ok := d.arrays[array]; !ok {
		return
	}
	delete(d.arrays, array)
	if d.vertexArray == array {
		d.vertexArray = 0
	}
}

func (d *Device) BindVertexArray(array uint32) {
	if _, ok := d.arrays[array]; !ok {
		d.setError(hal.InvalidOperation)
		return
	}
	d.vertexArray = array
}

func (d *Device) attrib(index uint32) *vertexAttrib {
	if index >= MaxVertexAttribs {
		d.setError(hal.InvalidValue)
		return nil
	}
	return &d.arrays[d.vertexArray].attribs[index]
}

func (d *Device) GetVertexAttribiv(index uint32, pname hal.Enum) int32 {
	a := d.attrib(index)
	if a == nil {
		return 0
	}
	switch pname {
	case hal.VertexAttribArrayEnabled:
		return boolInt(a.enabled)
	case hal.VertexAttribArraySize:
		return a.size
	case hal.VertexAttribArrayStride:
		return a.stride
	case hal.VertexAttribArrayType:
		return int32(a.typ)
	case hal.VertexAttribArrayNormalized:
		return boolInt(a.normalized)
	case hal.VertexAttribArrayInteger:
		return boolInt(a.integer)
	case hal.VertexAttribArrayDivisor:
		return a.divisor
	case hal.VertexAttribArrayBufferBinding:
		return int32(a.buffer)
	}
	d.setError(hal.InvalidEnum)
	return 0
}

func (d *Device) GetVertexAttribOffset(index uint32) int64 {
	if a := d.attrib(index); a != nil {
		return a.offset
	}
	return 0
}

func (d *Device) VertexAttribPointer(index uint32, size int32, componentType hal.Enum, normalized bool, stride int32, offset int64) {
	a := d.attrib(index)
	if a == nil {
		return
	}
	if size < 1 || size > 4 || stride < 0 {
		d.setError(hal.InvalidValue)
		return
	}
	if componentSize(componentType) == 0 {
		d.setError(hal.InvalidEnum)
		return
	}
	if packedType(componentType) && size != 4 {
		d.setError(hal.InvalidOperation)
		return
	}
	if d.arrayBuffer == 0 && d.vertexArray != 0 {
		d.setError(hal.InvalidOperation)
		return
	}
	*a = vertexAttrib{
		enabled:    a.enabled,
		size:       size,
		typ:        componentType,
		normalized: normalized,
		stride:     stride,
		divisor:    a.divisor,
		buffer:     d.arrayBuffer,
		offset:     offset,
	}
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	if a := d.attrib(index); a != nil {
		a.enabled = true
	}
}

func (d *Device) DisableVertexAttribArray(index uint32) {
	if a := d.attrib(index); a != nil {
		a.enabled = false
	}
}

// SetVertexAttribInteger marks an attribute as sourced through
// VertexAttribIPointer, which the hal.Device subset does not expose.
func (d *Device) SetVertexAttribInteger(index uint32, integer bool) {
	if a := d.attrib(index); a != nil {
		a.integer = integer
	}
}

// SetVertexAttribDivisor sets the instancing divisor of an attribute.
func (d *Device) SetVertexAttribDivisor(index uint32, divisor int32) {
	if a := d.attrib(index); a != nil {
		a.divisor = divisor
	}
}

func componentSize(t hal.Enum) int {
	switch t {
	case hal.Byte, hal.UnsignedByte:
		return 1
	case hal.Short, hal.UnsignedShort, hal.HalfFloat:
		return 2
	case hal.Int, hal.UnsignedInt, hal.Float, hal.Fixed,
		hal.UnsignedInt2101010Rev, hal.Int2101010Rev, hal.UnsignedInt10f11f11fRev:
		return 4
	case hal.Double:
		return 8
	}
	return 0
}

func packedType(t hal.Enum) bool {
	return t == hal.UnsignedInt2101010Rev || t == hal.Int2101010Rev || t == hal.UnsignedInt10f11f11fRev
}

// fetch reads the vertex input at location for vertex index v as xyzw. Missing
// components default to (0, 0, 0, 1); disabled arrays read the default value.
func (d *Device) fetch(a *vertexAttrib, v int64) ([4]float32, bool) {
	out := [4]float32{0, 0, 0, 1}
	if !a.enabled {
		return out, true
	}
	b, ok := d.buffers[a.buffer]
	if !ok {
		return out, false
	}
	cs := int64(componentSize(a.typ))
	stride := int64(a.stride)
	if stride == 0 {
		if packedType(a.typ) {
			stride = 4
		} else {
			stride = cs * int64(a.size)
		}
	}
	base := a.offset + v*stride
	if packedType(a.typ) {
		if base < 0 || base+4 > int64(len(b.data)) {
			return out, false
		}
		return unpackPacked(a.typ, a.normalized, binary.LittleEndian.Uint32(b.data[base:])), true
	}
	if base < 0 || base+cs*int64(a.size) > int64(len(b.data)) {
		return out, false
	}
	for c := int64(0); c < int64(a.size); c++ {
		out[c] = decodeComponent(a.typ, a.normalized && !a.integer, b.data[base+c*cs:])
	}
	return out, true
}

func decodeComponent(t hal.Enum, normalized bool, p []byte) float32 {
	switch t {
	case hal.Byte:
		v := int8(p[0])
		if normalized {
			return max(float32(v)/127, -1)
		}
		return float32(v)
	case hal.UnsignedByte:
		if normalized {
			return float32(p[0]) / 255
		}
		return float32(p[0])
	case hal.Short:
		v := int16(binary.LittleEndian.Uint16(p))
		if normalized {
			return max(float32(v)/32767, -1)
		}
		return float32(v)
	case hal.UnsignedShort:
		v := binary.LittleEndian.Uint16(p)
		if normalized {
			return float32(v) / 65535
		}
		return float32(v)
	case hal.Int:
		v := int32(binary.LittleEndian.Uint32(p))
		if normalized {
			return float32(max(float64(v)/math.MaxInt32, -1))
		}
		return float32(v)
	case hal.UnsignedInt:
		v := binary.LittleEndian.Uint32(p)
		if normalized {
			return float32(float64(v) / math.MaxUint32)
		}
		return float32(v)
	case hal.Fixed:
		return float32(int32(binary.LittleEndian.Uint32(p))) / 65536
	case hal.Float:
		return math.Float32frombits(binary.LittleEndian.Uint32(p))
	case hal.HalfFloat:
		return halfToFloat(binary.LittleEndian.Uint16(p))
	case hal.Double:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(p)))
	}
	return 0
}

func unpackPacked(t hal.Enum, normalized bool, w uint32) [4]float32 {
	var out [4]float32
	switch t {
	case hal.UnsignedInt2101010Rev:
		for i := 0; i < 3; i++ {
			out[i] = float32((w >> (10 * i)) & 0x3ff)
		}
		out[3] = float32(w >> 30)
		if normalized {
			out[0], out[1], out[2], out[3] = out[0]/1023, out[1]/1023, out[2]/1023, out[3]/3
		}
	case hal.Int2101010Rev:
		for i := 0; i < 3; i++ {
			out[i] = float32(int32(w<<(22-10*i)) >> 22)
		}
		out[3] = float32(int32(w) >> 30)
		if normalized {
			for i := 0; i < 3; i++ {
				out[i] = max(out[i]/511, -1)
			}
			out[3] = max(out[3], -1)
		}
	default:
		out[3] = 1
	}
	return out
}

func halfToFloat(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff
	switch {
	case exp == 0 && frac == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		v := float32(frac) / 1024 / (1 << 14)
		if sign != 0 {
			return -v
		}
		return v
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | frac<<13)
	}
	return math.Float32frombits(sign | (exp+112)<<23 | frac<<13)
}

func (d *Device) BeginTransformFeedback(primitiveMode hal.Enum) {
	if d.feedbackActive {
		d.setError(hal.InvalidOperation)
		return
	}
	switch primitiveMode {
	case hal.Points, hal.Lines, hal.Triangles:
	default:
		d.setError(hal.InvalidEnum)
		return
	}
	p, ok := d.programs[d.currentProgram]
	if !ok || len(p.varyings) == 0 || d.feedback[0].buffer == 0 {
		d.setError(hal.InvalidOperation)
		return
	}
	d.feedbackActive = true
	d.feedbackMode = primitiveMode
}

func (d *Device) EndTransformFeedback() {
	if !d.feedbackActive {
		d.setError(hal.InvalidOperation)
		return
	}
	d.feedbackActive = false
}

func feedbackCompatible(feedback, mode hal.Enum) bool {
	switch feedback {
	case hal.Points:
		return mode == hal.Points
	case hal.Lines:
		return mode == hal.Lines || mode == hal.LineLoop || mode == hal.LineStrip
	case hal.Triangles:
		return mode == hal.Triangles || mode == hal.TriangleStrip || mode == hal.TriangleFan
	}
	return false
}

func (d *Device) checkDraw(mode hal.Enum, count int32) bool {
	if mode > hal.Patches || (mode > hal.TriangleFan && mode < hal.LinesAdjacency) {
		d.setError(hal.InvalidEnum)
		return false
	}
	if count < 0 {
		d.setError(hal.InvalidValue)
		return false
	}
	p, ok := d.programs[d.currentProgram]
	if !ok || !p.linked {
		d.setError(hal.InvalidOperation)
		return false
	}
	if mode == hal.Patches && !p.hasStage[hal.TessEvaluationShader] {
		d.setError(hal.InvalidOperation)
		return false
	}
	if d.feedbackActive && !feedbackCompatible(d.feedbackMode, mode) {
		d.setError(hal.InvalidOperation)
		return false
	}
	return true
}

func (d *Device) record(mode hal.Enum, first, count int32, indexType hal.Enum, offset int64) *DrawRecord {
	d.Draws = append(d.Draws, DrawRecord{
		Mode:              mode,
		First:             first,
		Count:             count,
		Indexed:           indexType != 0,
		IndexType:         indexType,
		Offset:            offset,
		Program:           d.currentProgram,
		VertexArray:       d.vertexArray,
		Framebuffer:       d.drawFramebuffer,
		Viewport:          d.viewport,
		Scissor:           d.scissor,
		ScissorTest:       d.caps[hal.ScissorTest],
		PolygonMode:       d.polygonMode,
		CullFace:          d.caps[hal.CullFace],
		RasterizerDiscard: d.caps[hal.RasterizerDiscard],
	})
	return &d.Draws[len(d.Draws)-1]
}

// capture writes the xyz of the location-0 input of every vertex into
// feedback binding 0 until it runs out of space.
func (d *Device) capture(vertices []int64) int {
	if !d.feedbackActive {
		return 0
	}
	fb := d.feedback[0]
	b, ok := d.buffers[fb.buffer]
	if !ok {
		return 0
	}
	limit := int64(len(b.data))
	if fb.size > 0 {
		limit = min(limit, fb.start+fb.size)
	}
	a := &d.arrays[d.vertexArray].attribs[0]
	written := 0
	for _, v := range vertices {
		pos := fb.start + int64(written)*12
		if pos+12 > limit {
			break
		}
		xyzw, _ := d.fetch(a, v)
		for c := 0; c < 3; c++ {
			binary.LittleEndian.PutUint32(b.data[pos+int64(c)*4:], math.Float32bits(xyzw[c]))
		}
		written++
	}
	return written
}

func (d *Device) DrawArrays(mode hal.Enum, first, count int32) {
	if first < 0 {
		d.setError(hal.InvalidValue)
		return
	}
	if !d.checkDraw(mode, count) {
		return
	}
	r := d.record(mode, first, count, 0, 0)
	if d.feedbackActive {
		vertices := make([]int64, count)
		for i := range vertices {
			vertices[i] = int64(first) + int64(i)
		}
		r.Captured = d.capture(vertices)
	}
}

func (d *Device) DrawElements(mode hal.Enum, count int32, indexType hal.Enum, offset int64) {
	var size int64
	switch indexType {
	case hal.UnsignedByte:
		size = 1
	case hal.UnsignedShort:
		size = 2
	case hal.UnsignedInt:
		size = 4
	default:
		d.setError(hal.InvalidEnum)
		return
	}
	if !d.checkDraw(mode, count) {
		return
	}
	eb, ok := d.buffers[d.arrays[d.vertexArray].element]
	if !ok {
		d.setError(hal.InvalidOperation)
		return
	}
	r := d.record(mode, 0, count, indexType, offset)
	if !d.feedbackActive {
		return
	}
	var vertices []int64
	for i := int64(0); i < int64(count); i++ {
		p := offset + i*size
		if p+size > int64(len(eb.data)) {
			break
		}
		switch size {
		case 1:
			vertices = append(vertices, int64(eb.data[p]))
		case 2:
			vertices = append(vertices, int64(binary.LittleEndian.Uint16(eb.data[p:])))
		default:
			vertices = append(vertices, int64(binary.LittleEndian.Uint32(eb.data[p:])))
		}
	}
	r.Captured = d.capture(vertices)
}
