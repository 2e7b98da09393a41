package hal

// Device is the subset of an OpenGL 4.1 core context used by the stage
// debugger. Every method is a blocking call on the thread that owns the
// context; implementations are not safe for concurrent use.
//
// Method semantics follow the GL entry points of the same name. Integer and
// float queries write into caller-provided slices so that queries returning a
// variable number of values (POLYGON_MODE on some drivers) never overrun.
type Device interface {
	// GetError returns and clears the oldest recorded error.
	GetError() Enum
	GetIntegerv(pname Enum, data []int32)
	GetIntegeri(target Enum, index uint32) int32
	GetInteger64i(target Enum, index uint32) int64
	GetFloatv(pname Enum, data []float32)
	IsEnabled(capability Enum) bool
	Enable(capability Enum)
	Disable(capability Enum)

	CreateProgram() uint32
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	GetAttachedShaders(program uint32) []uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	GetAttribLocation(program uint32, name string) int32
	TransformFeedbackVaryings(program uint32, varyings []string, bufferMode Enum)

	CreateShader(shaderType Enum) uint32
	DeleteShader(shader uint32)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string

	// GetActiveAttrib and GetActiveUniform return the reflected name, array
	// size and GLSL type of the active variable at index.
	GetActiveAttrib(program, index uint32) (name string, size int32, glslType Enum)
	GetActiveUniform(program, index uint32) (name string, size int32, glslType Enum)
	GetUniformLocation(program uint32, name string) int32
	GetUniformfv(program uint32, location int32, params []float32)
	GetUniformiv(program uint32, location int32, params []int32)
	GetUniformuiv(program uint32, location int32, params []uint32)

	// Uniform uploads target the program in use. components is the vector
	// width (1..4); value holds count*components elements.
	Uniformfv(location int32, components, count int32, value []float32)
	Uniformiv(location int32, components, count int32, value []int32)
	Uniformuiv(location int32, components, count int32, value []uint32)
	// UniformMatrixfv uploads count column-major matrices of columns x rows.
	UniformMatrixfv(location int32, columns, rows, count int32, transpose bool, value []float32)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target Enum, buffer uint32)
	BindBufferBase(target Enum, index, buffer uint32)
	BindBufferRange(target Enum, index, buffer uint32, offset, size int64)
	// BufferData allocates size bytes for the bound buffer; data may be nil
	// or shorter than size, in which case the remainder is zeroed.
	BufferData(target Enum, size int64, data []byte, usage Enum)
	GetBufferParameteri64(target, pname Enum) int64
	GetBufferSubData(target Enum, offset int64, data []byte)

	GenVertexArray() uint32
	DeleteVertexArray(array uint32)
	BindVertexArray(array uint32)
	GetVertexAttribiv(index uint32, pname Enum) int32
	// GetVertexAttribOffset returns VERTEX_ATTRIB_ARRAY_POINTER as a byte offset.
	GetVertexAttribOffset(index uint32) int64
	VertexAttribPointer(index uint32, size int32, componentType Enum, normalized bool, stride int32, offset int64)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)

	BindFramebuffer(target Enum, framebuffer uint32)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	PolygonMode(face, mode Enum)

	BeginTransformFeedback(primitiveMode Enum)
	EndTransformFeedback()
	DrawArrays(mode Enum, first, count int32)
	// DrawElements reads indices from the bound element array buffer at offset.
	DrawElements(mode Enum, count int32, indexType Enum, offset int64)
}

// StringQuerier is implemented by devices that expose GL_VENDOR/GL_RENDERER.
type StringQuerier interface {
	GetString(name Enum) string
}
