package glstage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/shaders"
)

// pointBytes is the size of one captured xyz position.
const pointBytes = 12

// BoundingBox is an axis-aligned box. A box with Min > Max on any axis holds
// no points.
type BoundingBox struct {
	Min, Max mgl32.Vec3
}

// EmptyBox returns the inverted box that any point extends.
func EmptyBox() BoundingBox {
	inf := float32(math.Inf(1))
	return BoundingBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether the box is inverted on any axis.
func (b BoundingBox) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Center returns the midpoint of the corners.
func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ComputeBounds returns the box around points in a single pass. No points
// yield EmptyBox.
func ComputeBounds(points []mgl32.Vec3) BoundingBox {
	box := EmptyBox()
	for _, p := range points {
		for axis := 0; axis < 3; axis++ {
			box.Min[axis] = min(box.Min[axis], p[axis])
			box.Max[axis] = max(box.Max[axis], p[axis])
		}
	}
	return box
}

// ExtractedPoints are the positions read from one attribute array.
type ExtractedPoints struct {
	Points []mgl32.Vec3
	Bounds BoundingBox
}

// Extractor reads an attribute array of any layout back as xyz float
// positions. It runs the array through a vertex stage that forwards it to a
// transform feedback capture with rasterization off, so the driver performs
// every format conversion.
//
// The extraction program, its vertex array and the capture buffer are built
// on first use and reused; the buffer grows and never shrinks.
type Extractor struct {
	dev hal.Device
	lib *shaders.Library

	program  uint32
	matrix   int32
	vao      uint32
	buffer   uint32
	capacity int64
}

// NewExtractor returns an extractor for dev. No device objects are created
// until the first extraction.
func NewExtractor(dev hal.Device, lib *shaders.Library) *Extractor {
	return &Extractor{dev: dev, lib: lib}
}

func (e *Extractor) init() error {
	if e.program != 0 {
		return nil
	}
	program, err := hal.CreateProgram(e.dev, map[hal.Enum]string{
		hal.VertexShader:   e.lib.Extract.Text,
		hal.FragmentShader: e.lib.Display.Text,
	}, func(p uint32) {
		e.dev.TransformFeedbackVaryings(p, []string{shaders.ExtractVarying}, hal.SeparateAttribs)
	})
	switch {
	case err == nil:
	case errors.Is(err, hal.ErrCompile):
		return fmt.Errorf("%w: extraction program: %w", ErrCompileFailed, err)
	default:
		return fmt.Errorf("%w: extraction program: %w", ErrLinkFailed, err)
	}
	e.program = program
	e.matrix = e.dev.GetUniformLocation(program, shaders.ExtractMatrix)
	e.vao = e.dev.GenVertexArray()
	e.buffer = e.dev.GenBuffer()
	return nil
}

// ExtractByName extracts the attribute called name.
func (e *Extractor) ExtractByName(snap *Snapshot, name string) (ExtractedPoints, error) {
	index, ok := snap.Attribute(name)
	if !ok {
		return ExtractedPoints{Bounds: EmptyBox()}, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	return e.Extract(snap, index)
}

// Extract reads every vertex of the array behind attribute index, from its
// byte offset to the end of its buffer, whether or not the array is enabled.
// A built-in attribute, an array without a buffer or an empty buffer yields
// no points and no error.
//
// Bindings touched by the capture pass (program, vertex array, array buffer,
// transform feedback bindings and rasterizer discard) are put back before
// returning.
func (e *Extractor) Extract(snap *Snapshot, index int) (ExtractedPoints, error) {
	none := ExtractedPoints{Bounds: EmptyBox()}
	if index < 0 || index >= len(snap.Attributes) {
		return none, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(snap.Attributes))
	}
	a := snap.Attributes[index]
	if a.builtin() || a.Buffer == 0 || a.BufferLength == 0 {
		return none, nil
	}
	if a.Stride <= 0 {
		return none, fmt.Errorf("%w: attribute %q has component type %v", ErrUnsupportedType, a.Name, a.Type)
	}
	count := (a.BufferLength - a.Offset) / int64(a.Stride)
	if count <= 0 {
		return none, nil
	}
	if err := e.init(); err != nil {
		return none, err
	}

	dev := e.dev
	var v [1]int32
	dev.GetIntegerv(hal.CurrentProgram, v[:])
	prevProgram := uint32(v[0])
	dev.GetIntegerv(hal.VertexArrayBinding, v[:])
	prevVAO := uint32(v[0])
	dev.GetIntegerv(hal.ArrayBufferBinding, v[:])
	prevArray := uint32(v[0])
	prevCapture := captureFeedbackBinding(dev)
	discard := dev.IsEnabled(hal.RasterizerDiscard)

	size := count * pointBytes
	dev.BindBuffer(hal.TransformFeedbackBuffer, e.buffer)
	if size > e.capacity {
		dev.BufferData(hal.TransformFeedbackBuffer, size, nil, hal.DynamicCopy)
		e.capacity = size
	}

	e.bindArray(a)
	dev.UseProgram(e.program)
	dev.BindBufferRange(hal.TransformFeedbackBuffer, 0, e.buffer, 0, size)
	if !discard {
		dev.Enable(hal.RasterizerDiscard)
	}
	dev.BeginTransformFeedback(hal.Points)
	dev.DrawArrays(hal.Points, 0, int32(count))
	dev.EndTransformFeedback()
	if !discard {
		dev.Disable(hal.RasterizerDiscard)
	}

	data := make([]byte, size)
	dev.GetBufferSubData(hal.TransformFeedbackBuffer, 0, data)

	prevCapture.restore(dev)
	dev.UseProgram(prevProgram)
	dev.BindVertexArray(prevVAO)
	dev.BindBuffer(hal.ArrayBuffer, prevArray)

	points := make([]mgl32.Vec3, count)
	for i := range points {
		for c := 0; c < 3; c++ {
			bits := binary.LittleEndian.Uint32(data[i*pointBytes+c*4:])
			points[i][c] = math.Float32frombits(bits)
		}
	}
	return ExtractedPoints{Points: points, Bounds: ComputeBounds(points)}, nil
}

// bindArray points location 0 of the extraction vertex array at a's array.
// The pointer carries the attribute's byte offset, so vertex indices of the
// application's draw address the same vertices.
func (e *Extractor) bindArray(a AttributeDescriptor) {
	dev := e.dev
	dev.BindVertexArray(e.vao)
	dev.BindBuffer(hal.ArrayBuffer, a.Buffer)
	dev.VertexAttribPointer(0, a.Components, a.Type, a.Normalized, a.Stride, a.Offset)
	dev.EnableVertexAttribArray(0)
}

// DrawAttributeRegion draws call with the extraction program seen through
// cam, in wireframe with culling off, into the current viewport. An indexed
// call reads the application's index buffer. Program, vertex array, array
// buffer, polygon mode and culling are left changed.
func (e *Extractor) DrawAttributeRegion(snap *Snapshot, index int, call DrawCall, cam Camera) error {
	if index < 0 || index >= len(snap.Attributes) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(snap.Attributes))
	}
	if err := e.init(); err != nil {
		return err
	}
	dev := e.dev
	e.bindArray(snap.Attributes[index])
	if call.Indexed() {
		dev.BindBuffer(hal.ElementArrayBuffer, snap.IndexBuffer)
	}
	dev.UseProgram(e.program)
	mvp := cam.MVP()
	dev.UniformMatrixfv(e.matrix, 4, 4, 1, false, mvp[:])
	dev.PolygonMode(hal.FrontAndBack, hal.Line)
	dev.Disable(hal.CullFace)
	call.issue(dev)
	return nil
}

// Release deletes the extraction program, vertex array and buffer. The next
// extraction builds them again.
func (e *Extractor) Release() {
	if e.program == 0 {
		return
	}
	e.dev.DeleteProgram(e.program)
	e.dev.DeleteVertexArray(e.vao)
	e.dev.DeleteBuffer(e.buffer)
	e.program, e.matrix, e.vao, e.buffer, e.capacity = 0, -1, 0, 0, 0
}

// feedbackBinding is the state of transform feedback binding point 0 plus the
// generic TRANSFORM_FEEDBACK_BUFFER binding.
type feedbackBinding struct {
	buffer  uint32
	start   int64
	size    int64
	generic uint32
}

func captureFeedbackBinding(dev hal.Device) feedbackBinding {
	var v [1]int32
	dev.GetIntegerv(hal.TransformFeedbackBufferBinding, v[:])
	return feedbackBinding{
		buffer:  uint32(dev.GetIntegeri(hal.TransformFeedbackBufferBinding, 0)),
		start:   dev.GetInteger64i(hal.TransformFeedbackBufferStart, 0),
		size:    dev.GetInteger64i(hal.TransformFeedbackBufferSize, 0),
		generic: uint32(v[0]),
	}
}

// restore rebinds the captured state. A binding without a buffer or made with
// BindBufferBase reports size 0, and binding a zero-size range is an error,
// so those use the base form.
func (f feedbackBinding) restore(dev hal.Device) {
	if f.buffer == 0 || f.size == 0 {
		dev.BindBufferBase(hal.TransformFeedbackBuffer, 0, f.buffer)
	} else {
		dev.BindBufferRange(hal.TransformFeedbackBuffer, 0, f.buffer, f.start, f.size)
	}
	dev.BindBuffer(hal.TransformFeedbackBuffer, f.generic)
}
