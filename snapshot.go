package glstage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glstage/hal"
)

// AttributeDescriptor is one active vertex input of the bound program together
// with the array that feeds it.
type AttributeDescriptor struct {
	Name     string
	Location int32 // -1 for built-ins, which have no array
	Size     int32 // declared array size
	GLSLType hal.Enum

	Buffer     uint32
	Enabled    bool
	Components int32
	Type       hal.Enum
	// Stride is never zero for a known Type: a tightly packed array reports
	// 0 and is resolved to its natural size during capture.
	Stride       int32
	Normalized   bool
	Integer      bool
	Divisor      int32
	BufferLength int64
	Offset       int64
}

// Format returns the WebGPU vertex format equivalent of the array layout.
func (a AttributeDescriptor) Format() gputypes.VertexFormat {
	return vertexFormat(a.Components, a.Type, a.Normalized, a.Integer)
}

func (a AttributeDescriptor) builtin() bool {
	return a.Location < 0 || strings.HasPrefix(a.Name, "gl_")
}

// Snapshot is the pipeline state captured at the start of an intercepted
// call. It is never updated; a new one is captured for every call.
type Snapshot struct {
	Program      uint32
	Shaders      [StageCount]uint32
	ActiveStages int
	Attributes   []AttributeDescriptor

	VertexArray uint32
	ArrayBuffer uint32
	IndexBuffer uint32
	Framebuffer uint32

	// GeometryOutput is the declared output topology of the geometry stage.
	// It is only meaningful when Has(StageGeometry) is true; zero is also
	// GL_POINTS.
	GeometryOutput    hal.Enum
	CullFace          bool
	RasterizerDiscard bool
	PolygonMode       hal.Enum
}

// Has reports whether the program has a shader object for stage s.
func (s *Snapshot) Has(stage Stage) bool {
	return s.Shaders[stage] != 0
}

// Attribute returns the index of the attribute called name.
func (s *Snapshot) Attribute(name string) (int, bool) {
	for i, a := range s.Attributes {
		if a.Name == name {
			return i, true
		}
	}
	return -1, false
}

// CaptureSnapshot reads the bound program, its shader objects, its active
// attributes and their arrays, and the raster toggles the mosaic depends on.
// The device is left as it was found.
func CaptureSnapshot(dev hal.Device) (*Snapshot, error) {
	var v [4]int32
	dev.GetIntegerv(hal.CurrentProgram, v[:1])
	program := uint32(v[0])
	if program == 0 {
		return nil, ErrNoActiveProgram
	}
	if dev.GetProgramiv(program, hal.LinkStatus) != int32(hal.True) {
		return nil, fmt.Errorf("%w: program %d", ErrProgramNotLinked, program)
	}
	attached := dev.GetAttachedShaders(program)
	if len(attached) == 0 {
		return nil, fmt.Errorf("%w: program %d", ErrNoAttachedShaders, program)
	}

	snap := &Snapshot{Program: program}
	for _, shader := range attached {
		stage, ok := StageOf(hal.Enum(dev.GetShaderiv(shader, hal.ShaderType)))
		if !ok {
			continue
		}
		if snap.Shaders[stage] == 0 {
			snap.ActiveStages++
		}
		snap.Shaders[stage] = shader
	}

	dev.GetIntegerv(hal.VertexArrayBinding, v[:1])
	snap.VertexArray = uint32(v[0])
	dev.GetIntegerv(hal.ArrayBufferBinding, v[:1])
	snap.ArrayBuffer = uint32(v[0])
	dev.GetIntegerv(hal.ElementArrayBufferBinding, v[:1])
	snap.IndexBuffer = uint32(v[0])
	dev.GetIntegerv(hal.DrawFramebufferBinding, v[:1])
	snap.Framebuffer = uint32(v[0])

	// Some drivers write front and back modes separately.
	var mode [2]int32
	dev.GetIntegerv(hal.PolygonMode, mode[:])
	snap.PolygonMode = hal.Enum(mode[0])
	snap.CullFace = dev.IsEnabled(hal.CullFace)
	snap.RasterizerDiscard = dev.IsEnabled(hal.RasterizerDiscard)

	if snap.Has(StageGeometry) {
		snap.GeometryOutput = hal.Enum(dev.GetProgramiv(program, hal.GeometryOutputType))
	}

	snap.Attributes = captureAttributes(dev, program)
	captureBufferBindings(dev, snap.Attributes, snap.ArrayBuffer)
	return snap, nil
}

// captureAttributes lists the program's active attributes and their
// locations. A program without attributes yields an empty slice.
func captureAttributes(dev hal.Device, program uint32) []AttributeDescriptor {
	n := dev.GetProgramiv(program, hal.ActiveAttributes)
	if n <= 0 {
		return nil
	}
	attrs := make([]AttributeDescriptor, 0, n)
	for i := uint32(0); i < uint32(n); i++ {
		name, size, glslType := dev.GetActiveAttrib(program, i)
		a := AttributeDescriptor{Name: name, Size: size, GLSLType: glslType, Location: -1}
		if !strings.HasPrefix(name, "gl_") {
			a.Location = dev.GetAttribLocation(program, name)
		}
		attrs = append(attrs, a)
	}
	return attrs
}

// captureBufferBindings fills in the array layout of every attribute from the
// bound vertex array. Buffer sizes need the buffer bound to ARRAY_BUFFER, so
// arrayBuffer is rebound before returning.
func captureBufferBindings(dev hal.Device, attrs []AttributeDescriptor, arrayBuffer uint32) {
	if len(attrs) == 0 {
		return
	}
	rebound := false
	for i := range attrs {
		a := &attrs[i]
		if a.builtin() {
			continue
		}
		loc := uint32(a.Location)
		a.Buffer = uint32(dev.GetVertexAttribiv(loc, hal.VertexAttribArrayBufferBinding))
		a.Enabled = dev.GetVertexAttribiv(loc, hal.VertexAttribArrayEnabled) != 0
		a.Components = dev.GetVertexAttribiv(loc, hal.VertexAttribArraySize)
		a.Type = hal.Enum(dev.GetVertexAttribiv(loc, hal.VertexAttribArrayType))
		a.Normalized = dev.GetVertexAttribiv(loc, hal.VertexAttribArrayNormalized) != 0
		a.Integer = dev.GetVertexAttribiv(loc, hal.VertexAttribArrayInteger) != 0
		a.Divisor = dev.GetVertexAttribiv(loc, hal.VertexAttribArrayDivisor)
		a.Stride = ResolveStride(dev.GetVertexAttribiv(loc, hal.VertexAttribArrayStride), a.Components, a.Type)
		a.Offset = dev.GetVertexAttribOffset(loc)

		if a.Buffer != 0 {
			dev.BindBuffer(hal.ArrayBuffer, a.Buffer)
			a.BufferLength = dev.GetBufferParameteri64(hal.ArrayBuffer, hal.BufferSize)
			rebound = true
		}
	}
	if rebound {
		dev.BindBuffer(hal.ArrayBuffer, arrayBuffer)
	}
}

// LogValue implements slog.LogValuer for debug dumps.
func (s *Snapshot) LogValue() slog.Value {
	stages := make([]string, 0, s.ActiveStages)
	for st := Stage(0); st < StageCount; st++ {
		if s.Has(st) {
			stages = append(stages, fmt.Sprintf("%s=%d", st, s.Shaders[st]))
		}
	}
	attrs := make([]string, 0, len(s.Attributes))
	for _, a := range s.Attributes {
		if a.builtin() {
			attrs = append(attrs, a.Name+"(builtin)")
			continue
		}
		attrs = append(attrs, fmt.Sprintf("%s@%d buffer=%d %s stride=%d offset=%d length=%d",
			a.Name, a.Location, a.Buffer, a.Format(), a.Stride, a.Offset, a.BufferLength))
	}
	return slog.GroupValue(
		slog.Int("program", int(s.Program)),
		slog.String("stages", strings.Join(stages, " ")),
		slog.Any("attributes", attrs),
		slog.Int("vao", int(s.VertexArray)),
		slog.Int("index_buffer", int(s.IndexBuffer)),
		slog.Bool("cull", s.CullFace),
		slog.String("polygon_mode", s.PolygonMode.String()),
	)
}
