package hal

import (
	"errors"
	"fmt"
)

var (
	// ErrCompile is returned when a shader object fails to compile.
	ErrCompile = errors.New("hal: shader compilation failed")

	// ErrLink is returned when a program object fails to link.
	ErrLink = errors.New("hal: program link failed")
)

// InfoLogError carries the driver info log of a failed compile or link.
// It unwraps to ErrCompile or ErrLink.
type InfoLogError struct {
	Kind   error
	Object uint32
	Log    string
}

func (e *InfoLogError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("%v (object %d)", e.Kind, e.Object)
	}
	return fmt.Sprintf("%v (object %d): %s", e.Kind, e.Object, e.Log)
}

func (e *InfoLogError) Unwrap() error { return e.Kind }

// CompileShader creates and compiles a shader object. On failure the object
// is deleted and the returned error holds its info log.
func CompileShader(dev Device, shaderType Enum, source string) (uint32, error) {
	shader := dev.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("%w: cannot create %v object", ErrCompile, shaderType)
	}
	dev.ShaderSource(shader, source)
	dev.CompileShader(shader)
	if dev.GetShaderiv(shader, CompileStatus) != int32(True) {
		log := dev.GetShaderInfoLog(shader)
		dev.DeleteShader(shader)
		return 0, &InfoLogError{Kind: ErrCompile, Object: shader, Log: log}
	}
	return shader, nil
}

// LinkProgram links program and reports the info log on failure. The program
// is left alive; deleting it is up to the caller.
func LinkProgram(dev Device, program uint32) error {
	dev.LinkProgram(program)
	if dev.GetProgramiv(program, LinkStatus) != int32(True) {
		return &InfoLogError{Kind: ErrLink, Object: program, Log: dev.GetProgramInfoLog(program)}
	}
	return nil
}

// CreateProgram compiles one shader per source, attaches them to a new program
// and links it. configure, when non-nil, runs before linking so callers can
// bind attribute locations or declare capture varyings. Shader objects are
// flagged for deletion once attached; they go away with the program.
func CreateProgram(dev Device, sources map[Enum]string, configure func(program uint32)) (uint32, error) {
	program := dev.CreateProgram()
	for _, kind := range []Enum{VertexShader, TessControlShader, TessEvaluationShader, GeometryShader, FragmentShader} {
		src, ok := sources[kind]
		if !ok {
			continue
		}
		shader, err := CompileShader(dev, kind, src)
		if err != nil {
			dev.DeleteProgram(program)
			return 0, err
		}
		dev.AttachShader(program, shader)
		dev.DeleteShader(shader)
	}
	if configure != nil {
		configure(program)
	}
	if err := LinkProgram(dev, program); err != nil {
		dev.DeleteProgram(program)
		return 0, err
	}
	return program, nil
}

// CreateBuffer creates a buffer object on target and fills it with data.
// The target binding is left pointing at the new buffer.
func CreateBuffer(dev Device, target Enum, data []byte, usage Enum) uint32 {
	buffer := dev.GenBuffer()
	dev.BindBuffer(target, buffer)
	dev.BufferData(target, int64(len(data)), data, usage)
	return buffer
}

// VertexLayout describes one attribute array fed by CreateVertexArray.
type VertexLayout struct {
	Location   uint32
	Buffer     uint32
	Components int32
	Type       Enum
	Normalized bool
	Stride     int32
	Offset     int64
}

// CreateVertexArray creates a vertex array with the given attribute arrays
// enabled and an optional index buffer (0 for none). The new vertex array
// stays bound.
func CreateVertexArray(dev Device, index uint32, layouts ...VertexLayout) uint32 {
	vao := dev.GenVertexArray()
	dev.BindVertexArray(vao)
	for _, l := range layouts {
		dev.BindBuffer(ArrayBuffer, l.Buffer)
		dev.VertexAttribPointer(l.Location, l.Components, l.Type, l.Normalized, l.Stride, l.Offset)
		dev.EnableVertexAttribArray(l.Location)
	}
	if index != 0 {
		dev.BindBuffer(ElementArrayBuffer, index)
	}
	return vao
}
