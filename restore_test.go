package glstage

import (
	"testing"

	"github.com/gogpu/glstage/hal"
)

func TestDeviceStateRestore(t *testing.T) {
	s := newScene(t, vertexFragment())
	dev := s.dev
	dev.BindFramebuffer(hal.DrawFramebuffer, 7)
	dev.Enable(hal.CullFace)
	dev.Scissor(10, 20, 30, 40)
	dev.Viewport(1, 2, 300, 400)
	dev.ClearColor(0.25, 0.5, 0.75, 1)
	dev.PolygonMode(hal.FrontAndBack, hal.Point)
	capture := hal.CreateBuffer(dev, hal.TransformFeedbackBuffer, make([]byte, 48), hal.StaticDraw)
	dev.BindBufferRange(hal.TransformFeedbackBuffer, 0, capture, 8, 24)
	dev.BindBuffer(hal.ArrayBuffer, s.vbo)

	saved := CaptureDeviceState(dev)
	want := DeviceState{
		Framebuffer: 7,
		VertexArray: s.vao,
		Program:     s.program,
		ArrayBuffer: s.vbo,
		feedback:    feedbackBinding{buffer: capture, start: 8, size: 24, generic: capture},
		Scissor:     [4]int32{10, 20, 30, 40},
		Viewport:    [4]int32{1, 2, 300, 400},
		ClearColor:  [4]float32{0.25, 0.5, 0.75, 1},
		PolygonMode: hal.Point,
		CullFace:    true,
	}
	if saved != want {
		t.Fatalf("CaptureDeviceState = %+v\nwant %+v", saved, want)
	}

	other := hal.CreateBuffer(dev, hal.ArrayBuffer, make([]byte, 12), hal.StaticDraw)
	dev.BindFramebuffer(hal.DrawFramebuffer, 0)
	dev.BindVertexArray(0)
	dev.UseProgram(0)
	dev.BindBufferBase(hal.TransformFeedbackBuffer, 0, other)
	dev.Enable(hal.ScissorTest)
	dev.Enable(hal.RasterizerDiscard)
	dev.Disable(hal.CullFace)
	dev.Scissor(0, 0, 1, 1)
	dev.Viewport(0, 0, 1, 1)
	dev.ClearColor(1, 0, 0, 1)
	dev.PolygonMode(hal.FrontAndBack, hal.Line)

	saved.Restore(dev)
	if got := CaptureDeviceState(dev); got != saved {
		t.Errorf("after Restore = %+v\nwant %+v", got, saved)
	}
	if e := dev.GetError(); e != hal.NoError {
		t.Errorf("GetError() = %v", e)
	}
}

func TestDeviceStateRestoreBaseBinding(t *testing.T) {
	s := newScene(t, vertexFragment())
	dev := s.dev
	capture := hal.CreateBuffer(dev, hal.TransformFeedbackBuffer, make([]byte, 48), hal.StaticDraw)
	dev.BindBufferBase(hal.TransformFeedbackBuffer, 0, capture)

	saved := CaptureDeviceState(dev)
	dev.BindBufferBase(hal.TransformFeedbackBuffer, 0, 0)
	saved.Restore(dev)

	if got := uint32(dev.GetIntegeri(hal.TransformFeedbackBufferBinding, 0)); got != capture {
		t.Errorf("capture binding = %d, want %d", got, capture)
	}
	if e := dev.GetError(); e != hal.NoError {
		t.Errorf("GetError() = %v, want no error from a zero-size range", e)
	}
}
