package main

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glstage/hal"
)

const vertexSource = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
uniform mat4 mvp;
uniform mat4 model;
out vec3 vNormal;
void main() {
	vNormal = mat3(model) * normal;
	gl_Position = mvp * vec4(position, 1.0);
}
`

// geometrySource pushes every triangle out along its face normal.
const geometrySource = `#version 410 core
layout(triangles) in;
layout(triangle_strip, max_vertices = 3) out;
in vec3 vNormal[];
out vec3 fNormal;
uniform float explode;
void main() {
	vec3 n = normalize(vNormal[0] + vNormal[1] + vNormal[2]);
	for (int i = 0; i < 3; i++) {
		fNormal = vNormal[i];
		gl_Position = gl_in[i].gl_Position + vec4(n * explode, 0.0);
		EmitVertex();
	}
	EndPrimitive();
}
`

func fragmentSource(input string) string {
	return `#version 410 core
in vec3 ` + input + `;
out vec4 color;
void main() {
	float light = max(dot(normalize(` + input + `), normalize(vec3(0.4, 0.6, 1.0))), 0.0);
	color = vec4(vec3(0.2, 0.5, 0.9) * (0.25 + 0.75 * light), 1.0);
}
`
}

// scene is the application the debugger watches: one program, one mesh.
type scene struct {
	dev      hal.Device
	program  uint32
	vao      uint32
	count    int32
	mvp      int32
	model    int32
	explode  int32
	geometry bool
}

func newScene(dev hal.Device, m mesh, geometry bool) (*scene, error) {
	sources := map[hal.Enum]string{
		hal.VertexShader:   vertexSource,
		hal.FragmentShader: fragmentSource("vNormal"),
	}
	if geometry {
		sources[hal.GeometryShader] = geometrySource
		sources[hal.FragmentShader] = fragmentSource("fNormal")
	}
	program, err := hal.CreateProgram(dev, sources, nil)
	if err != nil {
		return nil, err
	}

	vbo := hal.CreateBuffer(dev, hal.ArrayBuffer, floatBytes(m.vertices), hal.StaticDraw)
	ibo := hal.CreateBuffer(dev, hal.ElementArrayBuffer, indexBytes(m.indices), hal.StaticDraw)
	stride := int32(vertexFloats * 4)
	vao := hal.CreateVertexArray(dev, ibo,
		hal.VertexLayout{Location: 0, Buffer: vbo, Components: 3, Type: hal.Float, Stride: stride},
		hal.VertexLayout{Location: 1, Buffer: vbo, Components: 3, Type: hal.Float, Stride: stride, Offset: 12},
	)
	return &scene{
		dev:      dev,
		program:  program,
		vao:      vao,
		count:    int32(len(m.indices)),
		mvp:      dev.GetUniformLocation(program, "mvp"),
		model:    dev.GetUniformLocation(program, "model"),
		explode:  dev.GetUniformLocation(program, "explode"),
		geometry: geometry,
	}, nil
}

// bind sets up the state for the draw call at time t: program, vertex array,
// uniforms and culling.
func (s *scene) bind(t float64, aspect float32, cull bool) {
	dev := s.dev
	dev.UseProgram(s.program)
	dev.BindVertexArray(s.vao)

	model := mgl32.HomogRotate3DY(float32(t) * 0.7).Mul4(mgl32.HomogRotate3DX(float32(t) * 0.3))
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 100)
	mvp := proj.Mul4(view).Mul4(model)
	dev.UniformMatrixfv(s.mvp, 4, 4, 1, false, mvp[:])
	dev.UniformMatrixfv(s.model, 4, 4, 1, false, model[:])
	if s.geometry {
		dev.Uniformfv(s.explode, 1, 1, []float32{0.1 + 0.1*float32(math.Sin(t))})
	}
	if cull {
		dev.Enable(hal.CullFace)
	} else {
		dev.Disable(hal.CullFace)
	}
}

func floatBytes(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

func indexBytes(v []uint16) []byte {
	b := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(b[2*i:], x)
	}
	return b
}
