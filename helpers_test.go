package glstage

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/hal/softgl"
)

const sceneVertex = `#version 330 core
layout(location = 0) in vec3 position;
in vec3 normal;
uniform mat4 mvp;
uniform vec4 tint;
out vec3 vNormal;
void main() { vNormal = normal; gl_Position = mvp * vec4(position, 1.0); }
`

const sceneFragment = `#version 330 core
in vec3 vNormal;
uniform float alpha;
out vec4 color;
void main() { color = vec4(vNormal, alpha); }
`

func geometrySource(output string) string {
	return "#version 330 core\nlayout(triangles) in;\nlayout(" + output + ", max_vertices = 3) out;\nvoid main() {}\n"
}

// triangle holds three xyz float positions.
var triangle = []float32{
	-1, -1, 0,
	1, -1, 0,
	0, 1, 0.5,
}

func floatBytes(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

func vertexFragment() map[hal.Enum]string {
	return map[hal.Enum]string{
		hal.VertexShader:   sceneVertex,
		hal.FragmentShader: sceneFragment,
	}
}

func withGeometry(output string) map[hal.Enum]string {
	s := vertexFragment()
	s[hal.GeometryShader] = geometrySource(output)
	return s
}

type scene struct {
	dev     *softgl.Device
	program uint32
	vao     uint32
	vbo     uint32
}

// newScene links sources, feeds position from triangle and leaves the
// program and vertex array bound, the way an application would right before
// its draw call.
func newScene(t *testing.T, sources map[hal.Enum]string) *scene {
	t.Helper()
	dev := softgl.New()
	program, err := hal.CreateProgram(dev, sources, nil)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	vbo := hal.CreateBuffer(dev, hal.ArrayBuffer, floatBytes(triangle), hal.StaticDraw)
	vao := hal.CreateVertexArray(dev, 0, hal.VertexLayout{
		Location: 0, Buffer: vbo, Components: 3, Type: hal.Float,
	})
	dev.UseProgram(program)
	if e := dev.GetError(); e != hal.NoError {
		t.Fatalf("scene setup error %v", e)
	}
	return &scene{dev: dev, program: program, vao: vao, vbo: vbo}
}

// addIndices binds an element array buffer with the given indices to the
// scene's vertex array.
func (s *scene) addIndices(indices ...uint16) uint32 {
	b := make([]byte, 2*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return hal.CreateBuffer(s.dev, hal.ElementArrayBuffer, b, hal.StaticDraw)
}

func newDebugger(t *testing.T, s *scene, opts ...Option) *Debugger {
	t.Helper()
	d, err := New(s.dev, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func mustSnapshot(t *testing.T, dev hal.Device) *Snapshot {
	t.Helper()
	snap, err := CaptureSnapshot(dev)
	if err != nil {
		t.Fatalf("CaptureSnapshot: %v", err)
	}
	return snap
}
