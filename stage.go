package glstage

import (
	"strings"

	"github.com/gogpu/glstage/hal"
)

// Stage is a programmable pipeline stage. Stages are totally ordered in
// pipeline order; the order indexes shader slots, mask bits and cache keys.
type Stage int

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageFragment
)

// StageCount is the number of stages.
const StageCount = 5

var stageTable = [StageCount]struct {
	shaderType hal.Enum
	name       string
}{
	StageVertex:         {hal.VertexShader, "vertex"},
	StageTessControl:    {hal.TessControlShader, "tess-control"},
	StageTessEvaluation: {hal.TessEvaluationShader, "tess-evaluation"},
	StageGeometry:       {hal.GeometryShader, "geometry"},
	StageFragment:       {hal.FragmentShader, "fragment"},
}

// ShaderType returns the shader object type of s.
func (s Stage) ShaderType() hal.Enum {
	if s < 0 || s >= StageCount {
		return 0
	}
	return stageTable[s].shaderType
}

func (s Stage) String() string {
	if s < 0 || s >= StageCount {
		return "unknown"
	}
	return stageTable[s].name
}

// Mask returns the single-stage mask of s.
func (s Stage) Mask() StageMask {
	return 1 << uint(s)
}

// StageOf maps a shader object type onto its stage.
func StageOf(shaderType hal.Enum) (Stage, bool) {
	for s := Stage(0); s < StageCount; s++ {
		if stageTable[s].shaderType == shaderType {
			return s, true
		}
	}
	return 0, false
}

// StageMask selects a subset of stages.
type StageMask uint8

// Stage masks used by the mosaic.
const (
	MaskVertex       = StageMask(1 << StageVertex)
	MaskTessellation = StageMask(1<<StageTessControl | 1<<StageTessEvaluation)
	MaskTransform    = MaskVertex | MaskTessellation | StageMask(1<<StageGeometry)
	MaskAll          = MaskTransform | StageMask(1<<StageFragment)
)

// Has reports whether s is in m.
func (m StageMask) Has(s Stage) bool {
	return m&s.Mask() != 0
}

func (m StageMask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for s := Stage(0); s < StageCount; s++ {
		if m.Has(s) {
			names = append(names, s.String())
		}
	}
	return strings.Join(names, "|")
}
