package glstage

import "github.com/gogpu/glstage/hal"

// DeviceState is every piece of device state the mosaic changes. Values are
// comparable, so two captures can be checked with ==.
type DeviceState struct {
	Framebuffer uint32
	VertexArray uint32
	Program     uint32
	ArrayBuffer uint32
	feedback    feedbackBinding

	ScissorTest       bool
	Scissor           [4]int32
	Viewport          [4]int32
	ClearColor        [4]float32
	PolygonMode       hal.Enum
	CullFace          bool
	RasterizerDiscard bool
}

// CaptureDeviceState reads the state Restore puts back.
func CaptureDeviceState(dev hal.Device) DeviceState {
	var s DeviceState
	var v [1]int32
	dev.GetIntegerv(hal.DrawFramebufferBinding, v[:])
	s.Framebuffer = uint32(v[0])
	dev.GetIntegerv(hal.VertexArrayBinding, v[:])
	s.VertexArray = uint32(v[0])
	dev.GetIntegerv(hal.CurrentProgram, v[:])
	s.Program = uint32(v[0])
	dev.GetIntegerv(hal.ArrayBufferBinding, v[:])
	s.ArrayBuffer = uint32(v[0])
	s.feedback = captureFeedbackBinding(dev)

	s.ScissorTest = dev.IsEnabled(hal.ScissorTest)
	dev.GetIntegerv(hal.ScissorBox, s.Scissor[:])
	dev.GetIntegerv(hal.Viewport, s.Viewport[:])
	dev.GetFloatv(hal.ColorClearValue, s.ClearColor[:])
	var mode [2]int32
	dev.GetIntegerv(hal.PolygonMode, mode[:])
	s.PolygonMode = hal.Enum(mode[0])
	s.CullFace = dev.IsEnabled(hal.CullFace)
	s.RasterizerDiscard = dev.IsEnabled(hal.RasterizerDiscard)
	return s
}

// Restore puts s back on dev: bindings first, then raster state.
func (s DeviceState) Restore(dev hal.Device) {
	dev.BindFramebuffer(hal.DrawFramebuffer, s.Framebuffer)
	dev.BindVertexArray(s.VertexArray)
	dev.UseProgram(s.Program)
	dev.BindBuffer(hal.ArrayBuffer, s.ArrayBuffer)
	s.feedback.restore(dev)

	setCapability(dev, hal.ScissorTest, s.ScissorTest)
	dev.Scissor(s.Scissor[0], s.Scissor[1], s.Scissor[2], s.Scissor[3])
	dev.Viewport(s.Viewport[0], s.Viewport[1], s.Viewport[2], s.Viewport[3])
	dev.ClearColor(s.ClearColor[0], s.ClearColor[1], s.ClearColor[2], s.ClearColor[3])
	if s.PolygonMode != 0 {
		dev.PolygonMode(hal.FrontAndBack, s.PolygonMode)
	}
	setCapability(dev, hal.CullFace, s.CullFace)
	setCapability(dev, hal.RasterizerDiscard, s.RasterizerDiscard)
}

func setCapability(dev hal.Device, capability hal.Enum, on bool) {
	if on {
		dev.Enable(capability)
	} else {
		dev.Disable(capability)
	}
}
