// Package shaders holds the fixed shader sources the stage debugger links
// into its display and extraction programs.
//
// The display fragment is authored in WGSL and translated to GLSL with naga
// for the GLSL version of the target context. The extraction vertex stage is
// GLSL: it needs a plain `uniform mat4` and a named output for transform
// feedback capture, which a translated module would wrap in a uniform block.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/glstage/hal"
)

//go:embed display.wgsl
var displayWGSL string

//go:embed extract.vert
var extractGLSL string

// ExtractVarying is the output of the extraction vertex stage captured by
// transform feedback: the xyz of the attribute read at location 0.
const ExtractVarying = "extractedPosition"

// ExtractMatrix is the uniform the extraction stage transforms points with.
const ExtractMatrix = "mvpMatrix"

// ErrUnsupportedVersion is returned for GLSL versions the debugger cannot target.
var ErrUnsupportedVersion = errors.New("shaders: unsupported GLSL version")

// Source is a shader source for one stage. Programs built from a Source are
// cached by the address of the Source, not by its text: two Sources with the
// same text are distinct cache keys.
type Source struct {
	Name  string
	Stage hal.Enum
	Text  string
}

func (s *Source) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

// Library is the set of fixed sources for one GLSL version.
type Library struct {
	Version glsl.Version

	// Display shades front faces white and back faces gray.
	Display *Source

	// Extract forwards the location-0 attribute to ExtractVarying.
	Extract *Source
}

// NewLibrary translates the display fragment and prepares the extraction
// stage for version. Only desktop GLSL 3.30 and later is supported.
func NewLibrary(version glsl.Version) (*Library, error) {
	if version.ES || version.Major < 3 || (version.Major == 3 && version.Minor < 30) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}
	display, err := TranslateWGSL("display", displayWGSL, hal.FragmentShader, version, "fs_main")
	if err != nil {
		return nil, err
	}
	return &Library{
		Version: version,
		Display: display,
		Extract: &Source{
			Name:  "extract",
			Stage: hal.VertexShader,
			Text:  "#version " + version.String() + "\n" + extractGLSL,
		},
	}, nil
}

// TranslateWGSL compiles one entry point of a WGSL module to GLSL.
func TranslateWGSL(name, source string, stage hal.Enum, version glsl.Version, entryPoint string) (*Source, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: %w", name, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: %w", name, err)
	}
	text, _, err := glsl.Compile(module, glsl.Options{
		LangVersion: version,
		EntryPoint:  entryPoint,
	})
	if err != nil {
		return nil, fmt.Errorf("shaders: %s: glsl: %w", name, err)
	}
	return &Source{Name: name, Stage: stage, Text: text}, nil
}
