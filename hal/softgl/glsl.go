package softgl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/glstage/hal"
)

// Variable is a shader interface declaration.
type Variable struct {
	Name     string
	Type     hal.Enum
	Size     int32 // array length, 1 for scalars
	Location int32 // explicit layout location, -1 when absent
}

// declarations is what the scanner extracts from one shader source.
type declarations struct {
	inputs         []Variable
	outputs        []Variable
	uniforms       []Variable
	geometryOutput hal.Enum
	// hasGeometryOutput is set when an output layout was found; GL_POINTS
	// is zero.
	hasGeometryOutput bool
}

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	declPattern  = regexp.MustCompile(`^(?:layout\s*\(([^)]*)\)\s*)?(?:(?:flat|smooth|noperspective|centroid)\s+)*(in|out|uniform|attribute|varying)\s+(?:(?:highp|mediump|lowp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	locPattern   = regexp.MustCompile(`location\s*=\s*(\d+)`)
	geomOut      = regexp.MustCompile(`layout\s*\(\s*(points|line_strip|triangle_strip)\b[^)]*\)\s*out\s*;`)
)

var glslTypes = map[string]hal.Enum{
	"float": hal.Float, "vec2": hal.FloatVec2, "vec3": hal.FloatVec3, "vec4": hal.FloatVec4,
	"int": hal.Int, "ivec2": hal.IntVec2, "ivec3": hal.IntVec3, "ivec4": hal.IntVec4,
	"uint": hal.UnsignedInt, "uvec2": hal.UnsignedIntVec2, "uvec3": hal.UnsignedIntVec3, "uvec4": hal.UnsignedIntVec4,
	"bool": hal.Bool, "bvec2": hal.BoolVec2, "bvec3": hal.BoolVec3, "bvec4": hal.BoolVec4,
	"mat2": hal.FloatMat2, "mat3": hal.FloatMat3, "mat4": hal.FloatMat4,
	"mat2x2": hal.FloatMat2, "mat3x3": hal.FloatMat3, "mat4x4": hal.FloatMat4,
	"mat2x3": hal.FloatMat2x3, "mat2x4": hal.FloatMat2x4, "mat3x2": hal.FloatMat3x2,
	"mat3x4": hal.FloatMat3x4, "mat4x2": hal.FloatMat4x2, "mat4x3": hal.FloatMat4x3,
	"double": hal.Double, "dvec2": hal.DoubleVec2, "dvec3": hal.DoubleVec3, "dvec4": hal.DoubleVec4,
	"dmat2": hal.DoubleMat2, "dmat3": hal.DoubleMat3, "dmat4": hal.DoubleMat4,
	"sampler1D": hal.Sampler1D, "sampler2D": hal.Sampler2D, "sampler3D": hal.Sampler3D,
	"samplerCube": hal.SamplerCube, "sampler2DArray": hal.Sampler2DArray, "sampler2DRect": hal.Sampler2DRect,
	"isampler2D": hal.IntSampler2D, "usampler2D": hal.UnsignedIntSampler2D,
}

var geometryTopologies = map[string]hal.Enum{
	"points":         hal.Points,
	"line_strip":     hal.LineStrip,
	"triangle_strip": hal.TriangleStrip,
}

func scanSource(source string) declarations {
	src := blockComment.ReplaceAllString(source, "")
	src = lineComment.ReplaceAllString(src, "")

	var d declarations
	if m := geomOut.FindStringSubmatch(src); m != nil {
		d.geometryOutput, d.hasGeometryOutput = geometryTopologies[m[1]]
	}

	for _, stmt := range strings.Split(src, "\n") {
		m := declPattern.FindStringSubmatch(strings.TrimSpace(stmt))
		if m == nil {
			continue
		}
		typ, ok := glslTypes[m[3]]
		if !ok {
			continue
		}
		v := Variable{Name: m[4], Type: typ, Size: 1, Location: -1}
		if m[5] != "" {
			n, _ := strconv.Atoi(m[5])
			v.Size = int32(n)
		}
		if lm := locPattern.FindStringSubmatch(m[1]); lm != nil {
			n, _ := strconv.Atoi(lm[1])
			v.Location = int32(n)
		}
		switch m[2] {
		case "in", "attribute":
			d.inputs = append(d.inputs, v)
		case "out", "varying":
			d.outputs = append(d.outputs, v)
		case "uniform":
			d.uniforms = append(d.uniforms, v)
		}
	}
	return d
}

// typeWords returns the number of 32-bit words one element of a GLSL type
// occupies in uniform storage. Doubles count as two words per component.
func typeWords(t hal.Enum) int {
	switch t {
	case hal.FloatVec2, hal.IntVec2, hal.UnsignedIntVec2, hal.BoolVec2:
		return 2
	case hal.FloatVec3, hal.IntVec3, hal.UnsignedIntVec3, hal.BoolVec3:
		return 3
	case hal.FloatVec4, hal.IntVec4, hal.UnsignedIntVec4, hal.BoolVec4, hal.FloatMat2:
		return 4
	case hal.FloatMat2x3, hal.FloatMat3x2:
		return 6
	case hal.FloatMat2x4, hal.FloatMat4x2:
		return 8
	case hal.FloatMat3:
		return 9
	case hal.FloatMat3x4, hal.FloatMat4x3:
		return 12
	case hal.FloatMat4:
		return 16
	case hal.Double:
		return 2
	case hal.DoubleVec2:
		return 4
	case hal.DoubleVec3:
		return 6
	case hal.DoubleVec4, hal.DoubleMat2:
		return 8
	case hal.DoubleMat3:
		return 18
	case hal.DoubleMat4:
		return 32
	default:
		return 1
	}
}
