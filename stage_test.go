package glstage

import (
	"testing"

	"github.com/gogpu/glstage/hal"
)

func TestStageOrder(t *testing.T) {
	order := []Stage{StageVertex, StageTessControl, StageTessEvaluation, StageGeometry, StageFragment}
	if len(order) != StageCount {
		t.Fatalf("StageCount = %d, want %d", StageCount, len(order))
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Errorf("%v >= %v", order[i-1], order[i])
		}
	}
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		shaderType hal.Enum
		want       Stage
		ok         bool
	}{
		{hal.VertexShader, StageVertex, true},
		{hal.TessControlShader, StageTessControl, true},
		{hal.TessEvaluationShader, StageTessEvaluation, true},
		{hal.GeometryShader, StageGeometry, true},
		{hal.FragmentShader, StageFragment, true},
		{hal.Float, 0, false},
	}
	for _, tt := range tests {
		got, ok := StageOf(tt.shaderType)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StageOf(%v) = %v, %v, want %v, %v", tt.shaderType, got, ok, tt.want, tt.ok)
		}
		if tt.ok && got.ShaderType() != tt.shaderType {
			t.Errorf("%v.ShaderType() = %v, want %v", got, got.ShaderType(), tt.shaderType)
		}
	}
}

func TestStageMask(t *testing.T) {
	tests := []struct {
		mask StageMask
		has  []Stage
		not  []Stage
		name string
	}{
		{MaskVertex, []Stage{StageVertex}, []Stage{StageGeometry, StageFragment}, "vertex"},
		{MaskTessellation, []Stage{StageTessControl, StageTessEvaluation}, []Stage{StageVertex}, "tess-control|tess-evaluation"},
		{MaskTransform, []Stage{StageVertex, StageTessControl, StageTessEvaluation, StageGeometry}, []Stage{StageFragment}, "vertex|tess-control|tess-evaluation|geometry"},
		{MaskAll, []Stage{StageVertex, StageFragment}, nil, "vertex|tess-control|tess-evaluation|geometry|fragment"},
		{0, nil, []Stage{StageVertex}, "none"},
	}
	for _, tt := range tests {
		for _, s := range tt.has {
			if !tt.mask.Has(s) {
				t.Errorf("%v.Has(%v) = false", tt.mask, s)
			}
		}
		for _, s := range tt.not {
			if tt.mask.Has(s) {
				t.Errorf("%v.Has(%v) = true", tt.mask, s)
			}
		}
		if got := tt.mask.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestStageStringOutOfRange(t *testing.T) {
	if got := Stage(StageCount).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
	if got := Stage(-1).ShaderType(); got != 0 {
		t.Errorf("ShaderType() = %v, want 0", got)
	}
}
