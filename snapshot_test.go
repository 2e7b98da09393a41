package glstage

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/hal/softgl"
)

func TestCaptureSnapshot(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)

	if snap.Program != s.program {
		t.Errorf("Program = %d, want %d", snap.Program, s.program)
	}
	if snap.ActiveStages != 2 || !snap.Has(StageVertex) || !snap.Has(StageFragment) || snap.Has(StageGeometry) {
		t.Errorf("stages = %v (%d active)", snap.Shaders, snap.ActiveStages)
	}
	if snap.VertexArray != s.vao || snap.ArrayBuffer != s.vbo || snap.IndexBuffer != 0 {
		t.Errorf("bindings vao=%d array=%d index=%d", snap.VertexArray, snap.ArrayBuffer, snap.IndexBuffer)
	}
	if snap.PolygonMode != hal.Fill || snap.CullFace || snap.RasterizerDiscard || snap.GeometryOutput != 0 {
		t.Errorf("raster state = %+v", snap)
	}

	if len(snap.Attributes) != 2 {
		t.Fatalf("attributes = %+v", snap.Attributes)
	}
	pos := snap.Attributes[0]
	want := AttributeDescriptor{
		Name: "position", Location: 0, Size: 1, GLSLType: hal.FloatVec3,
		Buffer: s.vbo, Enabled: true, Components: 3, Type: hal.Float,
		Stride: 12, BufferLength: 36,
	}
	if pos != want {
		t.Errorf("position = %+v\nwant %+v", pos, want)
	}
	if pos.Format() != gputypes.VertexFormatFloat32x3 {
		t.Errorf("Format() = %v", pos.Format())
	}
	normal := snap.Attributes[1]
	if normal.Name != "normal" || normal.Location != 1 || normal.Enabled || normal.Buffer != 0 {
		t.Errorf("normal = %+v", normal)
	}
	if i, ok := snap.Attribute("normal"); !ok || i != 1 {
		t.Errorf("Attribute(normal) = %d, %v", i, ok)
	}
	if _, ok := snap.Attribute("color"); ok {
		t.Error("Attribute(color) found")
	}
}

func TestCaptureSnapshotGeometry(t *testing.T) {
	s := newScene(t, withGeometry("line_strip"))
	snap := mustSnapshot(t, s.dev)
	if !snap.Has(StageGeometry) || snap.ActiveStages != 3 {
		t.Errorf("stages = %v", snap.Shaders)
	}
	if snap.GeometryOutput != hal.LineStrip {
		t.Errorf("GeometryOutput = %v, want GL_LINE_STRIP", snap.GeometryOutput)
	}
}

func TestCaptureSnapshotPolygonModeSingleValue(t *testing.T) {
	s := newScene(t, vertexFragment())
	s.dev.PolygonModeValues = 1
	s.dev.PolygonMode(hal.FrontAndBack, hal.Line)
	if got := mustSnapshot(t, s.dev).PolygonMode; got != hal.Line {
		t.Errorf("PolygonMode = %v, want GL_LINE", got)
	}
}

func TestCaptureSnapshotNoSideEffects(t *testing.T) {
	s := newScene(t, vertexFragment())
	s.dev.BindBuffer(hal.ArrayBuffer, 0)
	before := CaptureDeviceState(s.dev)
	snap := mustSnapshot(t, s.dev)
	if snap.ArrayBuffer != 0 {
		t.Errorf("ArrayBuffer = %d, want 0", snap.ArrayBuffer)
	}
	if after := CaptureDeviceState(s.dev); after != before {
		t.Errorf("state changed:\nbefore %+v\nafter  %+v", before, after)
	}
	if e := s.dev.GetError(); e != hal.NoError {
		t.Errorf("GetError() = %v", e)
	}
}

func TestCaptureSnapshotErrors(t *testing.T) {
	t.Run("no program", func(t *testing.T) {
		if _, err := CaptureSnapshot(softgl.New()); !errors.Is(err, ErrNoActiveProgram) {
			t.Errorf("err = %v, want ErrNoActiveProgram", err)
		}
	})
	t.Run("not linked", func(t *testing.T) {
		s := newScene(t, vertexFragment())
		s.dev.FailLinks = true
		s.dev.LinkProgram(s.program)
		if _, err := CaptureSnapshot(s.dev); !errors.Is(err, ErrProgramNotLinked) {
			t.Errorf("err = %v, want ErrProgramNotLinked", err)
		}
	})
	t.Run("no shaders", func(t *testing.T) {
		s := newScene(t, vertexFragment())
		for _, shader := range s.dev.GetAttachedShaders(s.program) {
			s.dev.DetachShader(s.program, shader)
		}
		if _, err := CaptureSnapshot(s.dev); !errors.Is(err, ErrNoAttachedShaders) {
			t.Errorf("err = %v, want ErrNoAttachedShaders", err)
		}
	})
}

func TestCaptureSnapshotBuiltinAttribute(t *testing.T) {
	s := newScene(t, map[hal.Enum]string{
		hal.VertexShader:   "#version 330 core\nvoid main() { gl_Position = vec4(float(gl_VertexID)); }\n",
		hal.FragmentShader: sceneFragment,
	})
	snap := mustSnapshot(t, s.dev)
	if len(snap.Attributes) != 0 {
		t.Errorf("attributes = %+v, want none", snap.Attributes)
	}
}
