package hal_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/hal/softgl"
)

const vertexSource = "#version 330 core\nlayout(location = 0) in vec3 position;\nvoid main() {}\n"

func TestCompileShaderError(t *testing.T) {
	dev := softgl.New()
	_, err := hal.CompileShader(dev, hal.VertexShader, "#error nope\n")
	if !errors.Is(err, hal.ErrCompile) {
		t.Fatalf("err = %v, want ErrCompile", err)
	}
	var ie *hal.InfoLogError
	if !errors.As(err, &ie) || !strings.Contains(ie.Log, "#error") {
		t.Errorf("info log missing from %v", err)
	}
	if dev.IsShader(ie.Object) {
		t.Error("failed shader object was not deleted")
	}
}

func TestCreateProgram(t *testing.T) {
	dev := softgl.New()
	var configured uint32
	program, err := hal.CreateProgram(dev, map[hal.Enum]string{hal.VertexShader: vertexSource}, func(p uint32) {
		configured = p
	})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if configured != program {
		t.Errorf("configure saw program %d, want %d", configured, program)
	}
	if got := len(dev.GetAttachedShaders(program)); got != 1 {
		t.Errorf("attached shaders = %d, want 1", got)
	}
}

func TestCreateProgramLinkError(t *testing.T) {
	dev := softgl.New()
	dev.FailLinks = true
	program, err := hal.CreateProgram(dev, map[hal.Enum]string{hal.VertexShader: vertexSource}, nil)
	if !errors.Is(err, hal.ErrLink) {
		t.Fatalf("err = %v, want ErrLink", err)
	}
	if program != 0 {
		t.Errorf("program = %d, want 0", program)
	}
}

func TestCreateVertexArray(t *testing.T) {
	dev := softgl.New()
	vbo := hal.CreateBuffer(dev, hal.ArrayBuffer, make([]byte, 36), hal.StaticDraw)
	ibo := hal.CreateBuffer(dev, hal.ElementArrayBuffer, make([]byte, 6), hal.StaticDraw)
	vao := hal.CreateVertexArray(dev, ibo, hal.VertexLayout{Location: 0, Buffer: vbo, Components: 3, Type: hal.Float})

	var got [1]int32
	dev.GetIntegerv(hal.VertexArrayBinding, got[:])
	if uint32(got[0]) != vao {
		t.Errorf("VertexArrayBinding = %d, want %d", got[0], vao)
	}
	dev.GetIntegerv(hal.ElementArrayBufferBinding, got[:])
	if uint32(got[0]) != ibo {
		t.Errorf("ElementArrayBufferBinding = %d, want %d", got[0], ibo)
	}
	if dev.GetVertexAttribiv(0, hal.VertexAttribArrayEnabled) != 1 {
		t.Error("attribute 0 not enabled")
	}
	if e := dev.GetError(); e != hal.NoError {
		t.Errorf("GetError() = %v", e)
	}
}
