package glstage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/glstage/hal"
)

type uniformKind int

const (
	uniformFloat uniformKind = iota + 1
	uniformInt
	uniformUint
	uniformMatrix
)

// uniformShape classifies a GLSL uniform type. Vectors report their width in
// rows with one column; matrices report columns and rows.
func uniformShape(t hal.Enum) (kind uniformKind, columns, rows int32, ok bool) {
	switch t {
	case hal.Float:
		return uniformFloat, 1, 1, true
	case hal.FloatVec2:
		return uniformFloat, 1, 2, true
	case hal.FloatVec3:
		return uniformFloat, 1, 3, true
	case hal.FloatVec4:
		return uniformFloat, 1, 4, true
	case hal.Int, hal.Bool:
		return uniformInt, 1, 1, true
	case hal.IntVec2, hal.BoolVec2:
		return uniformInt, 1, 2, true
	case hal.IntVec3, hal.BoolVec3:
		return uniformInt, 1, 3, true
	case hal.IntVec4, hal.BoolVec4:
		return uniformInt, 1, 4, true
	case hal.UnsignedInt:
		return uniformUint, 1, 1, true
	case hal.UnsignedIntVec2:
		return uniformUint, 1, 2, true
	case hal.UnsignedIntVec3:
		return uniformUint, 1, 3, true
	case hal.UnsignedIntVec4:
		return uniformUint, 1, 4, true
	case hal.FloatMat2:
		return uniformMatrix, 2, 2, true
	case hal.FloatMat3:
		return uniformMatrix, 3, 3, true
	case hal.FloatMat4:
		return uniformMatrix, 4, 4, true
	case hal.FloatMat2x3:
		return uniformMatrix, 2, 3, true
	case hal.FloatMat2x4:
		return uniformMatrix, 2, 4, true
	case hal.FloatMat3x2:
		return uniformMatrix, 3, 2, true
	case hal.FloatMat3x4:
		return uniformMatrix, 3, 4, true
	case hal.FloatMat4x2:
		return uniformMatrix, 4, 2, true
	case hal.FloatMat4x3:
		return uniformMatrix, 4, 3, true
	}
	if samplerType(t) {
		return uniformInt, 1, 1, true
	}
	return 0, 0, 0, false
}

func samplerType(t hal.Enum) bool {
	switch t {
	case hal.Sampler1D, hal.Sampler2D, hal.Sampler3D, hal.SamplerCube,
		hal.Sampler1DShadow, hal.Sampler2DShadow, hal.Sampler2DRect,
		hal.Sampler1DArray, hal.Sampler2DArray, hal.SamplerBuffer, hal.SamplerCubeShadow,
		hal.IntSampler1D, hal.IntSampler2D, hal.IntSampler3D, hal.IntSamplerCube,
		hal.IntSampler1DArray, hal.IntSampler2DArray,
		hal.UnsignedIntSampler1D, hal.UnsignedIntSampler2D, hal.UnsignedIntSampler3D,
		hal.UnsignedIntSamplerCube, hal.UnsignedIntSampler1DArray, hal.UnsignedIntSampler2DArray,
		hal.Sampler2DMultisample, hal.IntSampler2DMultisample, hal.UnsignedSampler2DMultisample:
		return true
	}
	return false
}

// activeUniforms maps each active uniform's base name to its type.
func activeUniforms(dev hal.Device, program uint32) map[string]hal.Enum {
	n := dev.GetProgramiv(program, hal.ActiveUniforms)
	out := make(map[string]hal.Enum, max(n, 0))
	for i := uint32(0); i < uint32(max(n, 0)); i++ {
		name, _, t := dev.GetActiveUniform(program, i)
		out[strings.TrimSuffix(name, "[0]")] = t
	}
	return out
}

// copyUniforms copies the value of every active uniform of src into the
// uniform of the same name in dst, which must be the program in use. Arrays
// are copied element by element. Uniforms dst does not have belong to stages
// it does not include and are skipped silently; uniforms of a type that
// cannot be copied, or whose type differs in dst, are logged and skipped.
// It returns the number of values copied.
func copyUniforms(dev hal.Device, src, dst uint32, log *slog.Logger) int {
	targets := activeUniforms(dev, dst)
	copied := 0

	n := dev.GetProgramiv(src, hal.ActiveUniforms)
	var fbuf [16]float32
	var ibuf [4]int32
	var ubuf [4]uint32
	for i := uint32(0); i < uint32(max(n, 0)); i++ {
		name, size, t := dev.GetActiveUniform(src, i)
		base := strings.TrimSuffix(name, "[0]")
		dt, ok := targets[base]
		if !ok {
			continue
		}
		if dt != t {
			log.Warn("glstage: uniform type differs in display program",
				"uniform", base, "application", t, "display", dt)
			continue
		}
		kind, cols, rows, ok := uniformShape(t)
		if !ok {
			log.Error("glstage: cannot copy uniform", "uniform", base, "type", t, "err", ErrUnsupportedType)
			continue
		}

		for e := int32(0); e < max(size, 1); e++ {
			elem := base
			if size > 1 {
				elem = fmt.Sprintf("%s[%d]", base, e)
			}
			from := dev.GetUniformLocation(src, elem)
			to := dev.GetUniformLocation(dst, elem)
			if from < 0 || to < 0 {
				continue
			}
			switch kind {
			case uniformFloat:
				dev.GetUniformfv(src, from, fbuf[:rows])
				dev.Uniformfv(to, rows, 1, fbuf[:rows])
			case uniformMatrix:
				dev.GetUniformfv(src, from, fbuf[:cols*rows])
				dev.UniformMatrixfv(to, cols, rows, 1, false, fbuf[:cols*rows])
			case uniformInt:
				dev.GetUniformiv(src, from, ibuf[:rows])
				dev.Uniformiv(to, rows, 1, ibuf[:rows])
			case uniformUint:
				dev.GetUniformuiv(src, from, ubuf[:rows])
				dev.Uniformuiv(to, rows, 1, ubuf[:rows])
			}
			copied++
		}
	}
	return copied
}
