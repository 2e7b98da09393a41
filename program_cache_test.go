package glstage

import (
	"errors"
	"testing"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/shaders"
)

func testLibrary(t *testing.T) *shaders.Library {
	t.Helper()
	lib, err := shaders.NewLibrary(defaultOptions().version)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return lib
}

func TestProgramCacheHit(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)
	c := NewProgramCache(s.dev)

	first, err := c.Get(snap, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	links := s.dev.LinkCount
	second, err := c.Get(snap, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second != first {
		t.Errorf("second Get = %d, want cached %d", second, first)
	}
	if s.dev.LinkCount != links {
		t.Errorf("cache hit linked %d more times", s.dev.LinkCount-links)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1, 1", hits, misses)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	e := c.Entries()[0]
	if e.Mask != MaskVertex || e.Fragment != lib.Display || e.Shaders[StageVertex] != snap.Shaders[StageVertex] {
		t.Errorf("entry = %+v", e)
	}
	if e.Shaders[StageFragment] != 0 {
		t.Errorf("entry keeps fragment shader %d outside its mask", e.Shaders[StageFragment])
	}
}

func TestProgramCacheMiss(t *testing.T) {
	s := newScene(t, withGeometry("triangle_strip"))
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)

	tests := []struct {
		name   string
		change func() (*Snapshot, StageMask, *shaders.Source)
	}{
		{"mask", func() (*Snapshot, StageMask, *shaders.Source) {
			return snap, MaskTransform, lib.Display
		}},
		{"fragment source identity", func() (*Snapshot, StageMask, *shaders.Source) {
			same := *lib.Display
			return snap, MaskVertex, &same
		}},
		{"shader object", func() (*Snapshot, StageMask, *shaders.Source) {
			vs, err := hal.CompileShader(s.dev, hal.VertexShader, sceneVertex)
			if err != nil {
				t.Fatalf("CompileShader: %v", err)
			}
			other := *snap
			other.Shaders[StageVertex] = vs
			return &other, MaskVertex, lib.Display
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewProgramCache(s.dev)
			base, err := c.Get(snap, MaskVertex, lib.Display)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			links := s.dev.LinkCount
			got, err := c.Get(tt.change())
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == base {
				t.Errorf("changed key returned cached program %d", base)
			}
			if s.dev.LinkCount != links+1 {
				t.Errorf("links = %d, want one more than %d", s.dev.LinkCount, links)
			}
			if c.Len() != 2 {
				t.Errorf("Len() = %d, want 2", c.Len())
			}
		})
	}
}

func TestProgramCacheIgnoresStagesOutsideMask(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)
	c := NewProgramCache(s.dev)

	first, err := c.Get(snap, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	other := *snap
	other.Shaders[StageFragment] = 0
	second, err := c.Get(&other, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second != first {
		t.Errorf("fragment slot outside mask changed the key: %d != %d", second, first)
	}
}

func TestProgramCacheLinkFailureNotCached(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)
	c := NewProgramCache(s.dev)

	s.dev.FailLinks = true
	program, err := c.Get(snap, MaskVertex, lib.Display)
	if !errors.Is(err, ErrLinkFailed) || !errors.Is(err, hal.ErrLink) {
		t.Fatalf("err = %v, want ErrLinkFailed wrapping hal.ErrLink", err)
	}
	if program != 0 || c.Len() != 0 {
		t.Errorf("failed link returned %d and cached %d entries", program, c.Len())
	}

	s.dev.FailLinks = false
	program, err = c.Get(snap, MaskVertex, lib.Display)
	if err != nil || program == 0 {
		t.Fatalf("retry = %d, %v", program, err)
	}
	if _, misses := c.Stats(); misses != 2 {
		t.Errorf("misses = %d, want 2", misses)
	}
}

func TestProgramCacheCompileFailure(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)
	c := NewProgramCache(s.dev)
	broken := &shaders.Source{Name: "broken", Stage: hal.FragmentShader, Text: "#error broken\n"}
	if _, err := c.Get(snap, MaskVertex, broken); !errors.Is(err, ErrCompileFailed) {
		t.Errorf("err = %v, want ErrCompileFailed", err)
	}
}

func TestProgramCacheKeepsAttributeLocations(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)
	program, err := NewProgramCache(s.dev).Get(snap, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for _, a := range snap.Attributes {
		if got := s.dev.GetAttribLocation(program, a.Name); got != a.Location {
			t.Errorf("%s location = %d, want %d", a.Name, got, a.Location)
		}
	}
}

func TestProgramCacheReset(t *testing.T) {
	s := newScene(t, vertexFragment())
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)
	c := NewProgramCache(s.dev)
	program, err := c.Get(snap, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Reset", c.Len())
	}
	if s.dev.IsProgram(program) {
		t.Error("program still alive after Reset")
	}
	if !s.dev.IsProgram(s.program) || len(s.dev.GetAttachedShaders(s.program)) != 2 {
		t.Error("Reset touched the application's program")
	}
}

func TestProgramCacheEviction(t *testing.T) {
	s := newScene(t, withGeometry("triangle_strip"))
	snap := mustSnapshot(t, s.dev)
	lib := testLibrary(t)
	c := NewProgramCacheLimit(s.dev, 2)

	vertex, err := c.Get(snap, MaskVertex, lib.Display)
	if err != nil {
		t.Fatalf("Get(vertex): %v", err)
	}
	transform, err := c.Get(snap, MaskTransform, lib.Display)
	if err != nil {
		t.Fatalf("Get(transform): %v", err)
	}
	// vertex becomes the most recently used
	if _, err := c.Get(snap, MaskVertex, lib.Display); err != nil {
		t.Fatalf("Get(vertex) again: %v", err)
	}

	other := *lib.Display
	third, err := c.Get(snap, MaskVertex, &other)
	if err != nil {
		t.Fatalf("Get(other fragment): %v", err)
	}
	if c.Len() != 2 || c.Evictions() != 1 {
		t.Errorf("Len() = %d, Evictions() = %d, want 2, 1", c.Len(), c.Evictions())
	}
	if s.dev.IsProgram(transform) {
		t.Error("least recently used program was not deleted")
	}
	if !s.dev.IsProgram(vertex) || !s.dev.IsProgram(third) {
		t.Error("live programs were deleted")
	}
	entries := c.Entries()
	if entries[0].Program != vertex || entries[1].Program != third {
		t.Errorf("Entries() = %+v, want vertex then the new program", entries)
	}
}
