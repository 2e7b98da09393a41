package softgl

import (
	"github.com/gogpu/glstage/hal"
)

// MaxVertexAttribs is the number of vertex attribute slots per vertex array.
const MaxVertexAttribs = 16

// MaxTransformFeedbackBuffers is the number of indexed capture bindings.
const MaxTransformFeedbackBuffers = 4

// DrawRecord is one draw call as the device saw it, together with the raster
// state that was current when it was issued.
type DrawRecord struct {
	Mode              hal.Enum
	First             int32
	Count             int32
	Indexed           bool
	IndexType         hal.Enum
	Offset            int64
	Program           uint32
	VertexArray       uint32
	Framebuffer       uint32
	Viewport          [4]int32
	Scissor           [4]int32
	ScissorTest       bool
	PolygonMode       hal.Enum
	CullFace          bool
	RasterizerDiscard bool
	Captured          int // vertices written to transform feedback
}

// ClearRecord is one Clear call.
type ClearRecord struct {
	Mask        hal.Enum
	Color       [4]float32
	Framebuffer uint32
	Viewport    [4]int32
	Scissor     [4]int32
	ScissorTest bool
}

type feedbackBinding struct {
	buffer uint32
	start  int64
	size   int64
}

// Device is a software hal.Device. The zero value is not usable; call New.
type Device struct {
	// PolygonModeValues is how many values a POLYGON_MODE query writes.
	// Several drivers write front and back separately, so the default is 2.
	PolygonModeValues int

	// FailLinks makes every LinkProgram call fail.
	FailLinks bool

	// Vendor and Renderer are reported through GetString.
	Vendor   string
	Renderer string

	// Draws and Clears log every draw and clear in issue order.
	Draws  []DrawRecord
	Clears []ClearRecord

	// LinkCount and CompileCount count LinkProgram and CompileShader calls.
	LinkCount    int
	CompileCount int

	errs   []hal.Enum
	nextID uint32

	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
	buffers  map[uint32]*bufferObject
	arrays   map[uint32]*vertexArray

	currentProgram  uint32
	arrayBuffer     uint32
	feedbackBuffer  uint32
	feedback        [MaxTransformFeedbackBuffers]feedbackBinding
	vertexArray     uint32
	drawFramebuffer uint32
	readFramebuffer uint32

	viewport    [4]int32
	scissor     [4]int32
	clearColor  [4]float32
	polygonMode hal.Enum
	caps        map[hal.Enum]bool

	feedbackActive bool
	feedbackMode   hal.Enum
}

// New returns a device with GL default state and a 1280x256 default framebuffer.
func New() *Device {
	d := &Device{
		PolygonModeValues: 2,
		Vendor:            "softgl",
		Renderer:          "softgl software rasterizer",
		shaders:           make(map[uint32]*shaderObject),
		programs:          make(map[uint32]*programObject),
		buffers:           make(map[uint32]*bufferObject),
		arrays:            make(map[uint32]*vertexArray),
		viewport:          [4]int32{0, 0, 1280, 256},
		scissor:           [4]int32{0, 0, 1280, 256},
		polygonMode:       hal.Fill,
		caps:              make(map[hal.Enum]bool),
	}
	d.arrays[0] = newVertexArray()
	return d
}

var _ hal.Device = (*Device)(nil)
var _ hal.StringQuerier = (*Device)(nil)

func (d *Device) genID() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) setError(e hal.Enum) {
	for _, pending := range d.errs {
		if pending == e {
			return
		}
	}
	d.errs = append(d.errs, e)
}

// GetError returns and clears the oldest recorded error.
func (d *Device) GetError() hal.Enum {
	if len(d.errs) == 0 {
		return hal.NoError
	}
	e := d.errs[0]
	d.errs = d.errs[1:]
	return e
}

// GetString reports the vendor, renderer and version strings.
func (d *Device) GetString(name hal.Enum) string {
	switch name {
	case hal.Vendor:
		return d.Vendor
	case hal.Renderer:
		return d.Renderer
	case hal.Version:
		return "4.1 softgl"
	}
	d.setError(hal.InvalidEnum)
	return ""
}

func put(data []int32, values ...int32) {
	copy(data, values)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (d *Device) GetIntegerv(pname hal.Enum, data []int32) {
	switch pname {
	case hal.CurrentProgram:
		put(data, int32(d.currentProgram))
	case hal.ArrayBufferBinding:
		put(data, int32(d.arrayBuffer))
	case hal.ElementArrayBufferBinding:
		put(data, int32(d.arrays[d.vertexArray].element))
	case hal.VertexArrayBinding:
		put(data, int32(d.vertexArray))
	case hal.DrawFramebufferBinding:
		put(data, int32(d.drawFramebuffer))
	case hal.TransformFeedbackBufferBinding:
		put(data, int32(d.feedbackBuffer))
	case hal.Viewport:
		put(data, d.viewport[:]...)
	case hal.ScissorBox:
		put(data, d.scissor[:]...)
	case hal.PolygonMode:
		if d.PolygonModeValues >= 2 {
			put(data, int32(d.polygonMode), int32(d.polygonMode))
		} else {
			put(data, int32(d.polygonMode))
		}
	case hal.ScissorTest, hal.CullFace, hal.RasterizerDiscard, hal.DepthTest:
		put(data, boolInt(d.caps[pname]))
	case hal.MajorVersion:
		put(data, 4)
	case hal.MinorVersion:
		put(data, 1)
	default:
		d.setError(hal.InvalidEnum)
	}
}

func (d *Device) GetIntegeri(target hal.Enum, index uint32) int32 {
	if index >= MaxTransformFeedbackBuffers {
		d.setError(hal.InvalidValue)
		return 0
	}
	if target != hal.TransformFeedbackBufferBinding {
		d.setError(hal.InvalidEnum)
		return 0
	}
	return int32(d.feedback[index].buffer)
}

func (d *Device) GetInteger64i(target hal.Enum, index uint32) int64 {
	if index >= MaxTransformFeedbackBuffers {
		d.setError(hal.InvalidValue)
		return 0
	}
	switch target {
	case hal.TransformFeedbackBufferBinding:
		return int64(d.feedback[index].buffer)
	case hal.TransformFeedbackBufferStart:
		return d.feedback[index].start
	case hal.TransformFeedbackBufferSize:
		return d.feedback[index].size
	}
	d.setError(hal.InvalidEnum)
	return 0
}

func (d *Device) GetFloatv(pname hal.Enum, data []float32) {
	switch pname {
	case hal.ColorClearValue:
		copy(data, d.clearColor[:])
	case hal.Viewport:
		for i := 0; i < len(data) && i < 4; i++ {
			data[i] = float32(d.viewport[i])
		}
	default:
		d.setError(hal.InvalidEnum)
	}
}

func validCap(c hal.Enum) bool {
	switch c {
	case hal.ScissorTest, hal.CullFace, hal.RasterizerDiscard, hal.DepthTest:
		return true
	}
	return false
}

func (d *Device) IsEnabled(capability hal.Enum) bool {
	if !validCap(capability) {
		d.setError(hal.InvalidEnum)
		return false
	}
	return d.caps[capability]
}

func (d *Device) Enable(capability hal.Enum) {
	if !validCap(capability) {
		d.setError(hal.InvalidEnum)
		return
	}
	d.caps[capability] = true
}

func (d *Device) Disable(capability hal.Enum) {
	if !validCap(capability) {
		d.setError(hal.InvalidEnum)
		return
	}
	d.caps[capability] = false
}

// BindFramebuffer accepts any name; softgl does not model framebuffer
// attachments.
func (d *Device) BindFramebuffer(target hal.Enum, framebuffer uint32) {
	switch target {
	case hal.Framebuffer:
		d.drawFramebuffer = framebuffer
		d.readFramebuffer = framebuffer
	case hal.DrawFramebuffer:
		d.drawFramebuffer = framebuffer
	default:
		d.setError(hal.InvalidEnum)
	}
}

func (d *Device) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		d.setError(hal.InvalidValue)
		return
	}
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) Scissor(x, y, width, height int32) {
	if width < 0 || height < 0 {
		d.setError(hal.InvalidValue)
		return
	}
	d.scissor = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clearColor = [4]float32{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func (d *Device) Clear(mask hal.Enum) {
	if mask&^(hal.ColorBufferBit|hal.DepthBufferBit) != 0 {
		d.setError(hal.InvalidValue)
		return
	}
	d.Clears = append(d.Clears, ClearRecord{
		Mask:        mask,
		Color:       d.clearColor,
		Framebuffer: d.drawFramebuffer,
		Viewport:    d.viewport,
		Scissor:     d.scissor,
		ScissorTest: d.caps[hal.ScissorTest],
	})
}

func (d *Device) PolygonMode(face, mode hal.Enum) {
	if face != hal.FrontAndBack {
		d.setError(hal.InvalidEnum)
		return
	}
	switch mode {
	case hal.Point, hal.Line, hal.Fill:
		d.polygonMode = mode
	default:
		d.setError(hal.InvalidEnum)
	}
}

// ResetLog forgets recorded draws, clears and pending errors.
func (d *Device) ResetLog() {
	d.Draws = nil
	d.Clears = nil
	d.errs = nil
}
