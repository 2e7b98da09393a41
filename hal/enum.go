package hal

import "fmt"

// Enum is an OpenGL enumerant. Values match the GL headers so backends can
// pass them through without translation.
type Enum uint32

// Boolean values as returned by integer queries.
const (
	False Enum = 0
	True  Enum = 1
)

// Errors reported by GetError.
const (
	NoError          Enum = 0
	InvalidEnum      Enum = 0x0500
	InvalidValue     Enum = 0x0501
	InvalidOperation Enum = 0x0502
)

// Primitive topologies.
const (
	Points                 Enum = 0x0000
	Lines                  Enum = 0x0001
	LineLoop               Enum = 0x0002
	LineStrip              Enum = 0x0003
	Triangles              Enum = 0x0004
	TriangleStrip          Enum = 0x0005
	TriangleFan            Enum = 0x0006
	LinesAdjacency         Enum = 0x000A
	LineStripAdjacency     Enum = 0x000B
	TrianglesAdjacency     Enum = 0x000C
	TriangleStripAdjacency Enum = 0x000D
	Patches                Enum = 0x000E
)

// Component and index types.
const (
	Byte                    Enum = 0x1400
	UnsignedByte            Enum = 0x1401
	Short                   Enum = 0x1402
	UnsignedShort           Enum = 0x1403
	Int                     Enum = 0x1404
	UnsignedInt             Enum = 0x1405
	Float                   Enum = 0x1406
	Double                  Enum = 0x140A
	HalfFloat               Enum = 0x140B
	Fixed                   Enum = 0x140C
	UnsignedInt2101010Rev   Enum = 0x8368
	UnsignedInt10f11f11fRev Enum = 0x8C3B
	Int2101010Rev           Enum = 0x8D9F
)

// GLSL types reported by program reflection.
const (
	FloatVec2   Enum = 0x8B50
	FloatVec3   Enum = 0x8B51
	FloatVec4   Enum = 0x8B52
	IntVec2     Enum = 0x8B53
	IntVec3     Enum = 0x8B54
	IntVec4     Enum = 0x8B55
	Bool        Enum = 0x8B56
	BoolVec2    Enum = 0x8B57
	BoolVec3    Enum = 0x8B58
	BoolVec4    Enum = 0x8B59
	FloatMat2   Enum = 0x8B5A
	FloatMat3   Enum = 0x8B5B
	FloatMat4   Enum = 0x8B5C
	FloatMat2x3 Enum = 0x8B65
	FloatMat2x4 Enum = 0x8B66
	FloatMat3x2 Enum = 0x8B67
	FloatMat3x4 Enum = 0x8B68
	FloatMat4x2 Enum = 0x8B69
	FloatMat4x3 Enum = 0x8B6A

	UnsignedIntVec2 Enum = 0x8DC6
	UnsignedIntVec3 Enum = 0x8DC7
	UnsignedIntVec4 Enum = 0x8DC8

	DoubleVec2 Enum = 0x8FFC
	DoubleVec3 Enum = 0x8FFD
	DoubleVec4 Enum = 0x8FFE
	DoubleMat2 Enum = 0x8F46
	DoubleMat3 Enum = 0x8F47
	DoubleMat4 Enum = 0x8F48

	Sampler1D                    Enum = 0x8B5D
	Sampler2D                    Enum = 0x8B5E
	Sampler3D                    Enum = 0x8B5F
	SamplerCube                  Enum = 0x8B60
	Sampler1DShadow              Enum = 0x8B61
	Sampler2DShadow              Enum = 0x8B62
	Sampler2DRect                Enum = 0x8B63
	Sampler1DArray               Enum = 0x8DC0
	Sampler2DArray               Enum = 0x8DC1
	SamplerBuffer                Enum = 0x8DC2
	SamplerCubeShadow            Enum = 0x8DC5
	IntSampler1D                 Enum = 0x8DC9
	IntSampler2D                 Enum = 0x8DCA
	IntSampler3D                 Enum = 0x8DCB
	IntSamplerCube               Enum = 0x8DCC
	IntSampler1DArray            Enum = 0x8DCE
	IntSampler2DArray            Enum = 0x8DCF
	UnsignedIntSampler1D         Enum = 0x8DD1
	UnsignedIntSampler2D         Enum = 0x8DD2
	UnsignedIntSampler3D         Enum = 0x8DD3
	UnsignedIntSamplerCube       Enum = 0x8DD4
	UnsignedIntSampler1DArray    Enum = 0x8DD6
	UnsignedIntSampler2DArray    Enum = 0x8DD7
	Sampler2DMultisample         Enum = 0x9108
	IntSampler2DMultisample      Enum = 0x9109
	UnsignedSampler2DMultisample Enum = 0x910A
)

// Shader object types.
const (
	FragmentShader       Enum = 0x8B30
	VertexShader         Enum = 0x8B31
	GeometryShader       Enum = 0x8DD9
	TessEvaluationShader Enum = 0x8E87
	TessControlShader    Enum = 0x8E88
)

// Shader and program parameters.
const (
	ShaderType                     Enum = 0x8B4F
	CompileStatus                  Enum = 0x8B81
	LinkStatus                     Enum = 0x8B82
	InfoLogLength                  Enum = 0x8B84
	AttachedShaders                Enum = 0x8B85
	ActiveUniforms                 Enum = 0x8B86
	ActiveUniformMaxLength         Enum = 0x8B87
	ActiveAttributes               Enum = 0x8B89
	ActiveAttributeMaxLength       Enum = 0x8B8A
	GeometryOutputType             Enum = 0x8918
	TransformFeedbackVaryingsParam Enum = 0x8C83
	InterleavedAttribs             Enum = 0x8C8C
	SeparateAttribs                Enum = 0x8C8D
)

// Vertex attribute parameters.
const (
	VertexAttribArrayEnabled       Enum = 0x8622
	VertexAttribArraySize          Enum = 0x8623
	VertexAttribArrayStride        Enum = 0x8624
	VertexAttribArrayType          Enum = 0x8625
	VertexAttribArrayNormalized    Enum = 0x886A
	VertexAttribArrayPointer       Enum = 0x8645
	VertexAttribArrayBufferBinding Enum = 0x889F
	VertexAttribArrayInteger       Enum = 0x88FD
	VertexAttribArrayDivisor       Enum = 0x88FE
)

// Buffer targets, bindings and parameters.
const (
	ArrayBuffer                    Enum = 0x8892
	ElementArrayBuffer             Enum = 0x8893
	ArrayBufferBinding             Enum = 0x8894
	ElementArrayBufferBinding      Enum = 0x8895
	TransformFeedbackBuffer        Enum = 0x8C8E
	TransformFeedbackBufferBinding Enum = 0x8C8F
	TransformFeedbackBufferStart   Enum = 0x8C84
	TransformFeedbackBufferSize    Enum = 0x8C85
	BufferSize                     Enum = 0x8764
	StaticDraw                     Enum = 0x88E4
	DynamicCopy                    Enum = 0x88EA
	VertexArrayBinding             Enum = 0x85B5
)

// Global state queries and capabilities.
const (
	CurrentProgram         Enum = 0x8B8D
	Framebuffer            Enum = 0x8D40
	DrawFramebuffer        Enum = 0x8CA9
	DrawFramebufferBinding Enum = 0x8CA6
	Viewport               Enum = 0x0BA2
	ScissorBox             Enum = 0x0C10
	ScissorTest            Enum = 0x0C11
	ColorClearValue        Enum = 0x0C22
	CullFace               Enum = 0x0B44
	PolygonMode            Enum = 0x0B40
	RasterizerDiscard      Enum = 0x8C89
	DepthTest              Enum = 0x0B71
	Vendor                 Enum = 0x1F00
	Renderer               Enum = 0x1F01
	Version                Enum = 0x1F02
	MajorVersion           Enum = 0x821B
	MinorVersion           Enum = 0x821C
)

// Polygon modes and faces.
const (
	FrontAndBack Enum = 0x0408
	Point        Enum = 0x1B00
	Line         Enum = 0x1B01
	Fill         Enum = 0x1B02
)

// Clear mask bits.
const (
	DepthBufferBit Enum = 0x00000100
	ColorBufferBit Enum = 0x00004000
)

var enumNames = map[Enum]string{
	Points:                 "GL_POINTS",
	Lines:                  "GL_LINES",
	LineLoop:               "GL_LINE_LOOP",
	LineStrip:              "GL_LINE_STRIP",
	Triangles:              "GL_TRIANGLES",
	TriangleStrip:          "GL_TRIANGLE_STRIP",
	TriangleFan:            "GL_TRIANGLE_FAN",
	LinesAdjacency:         "GL_LINES_ADJACENCY",
	LineStripAdjacency:     "GL_LINE_STRIP_ADJACENCY",
	TrianglesAdjacency:     "GL_TRIANGLES_ADJACENCY",
	TriangleStripAdjacency: "GL_TRIANGLE_STRIP_ADJACENCY",
	Patches:                "GL_PATCHES",
	Byte:                   "GL_BYTE",
	UnsignedByte:           "GL_UNSIGNED_BYTE",
	Short:                  "GL_SHORT",
	UnsignedShort:          "GL_UNSIGNED_SHORT",
	Int:                    "GL_INT",
	UnsignedInt:            "GL_UNSIGNED_INT",
	Float:                  "GL_FLOAT",
	Double:                 "GL_DOUBLE",
	HalfFloat:              "GL_HALF_FLOAT",
	Fixed:                  "GL_FIXED",
	FloatVec2:              "GL_FLOAT_VEC2",
	FloatVec3:              "GL_FLOAT_VEC3",
	FloatVec4:              "GL_FLOAT_VEC4",
	FloatMat4:              "GL_FLOAT_MAT4",
	FragmentShader:         "GL_FRAGMENT_SHADER",
	VertexShader:           "GL_VERTEX_SHADER",
	GeometryShader:         "GL_GEOMETRY_SHADER",
	TessEvaluationShader:   "GL_TESS_EVALUATION_SHADER",
	TessControlShader:      "GL_TESS_CONTROL_SHADER",
	Point:                  "GL_POINT",
	Line:                   "GL_LINE",
	Fill:                   "GL_FILL",
}

// String returns the GL name of well-known enumerants and the hex value otherwise.
func (e Enum) String() string {
	if name, ok := enumNames[e]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint32(e))
}
