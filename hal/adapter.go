package hal

import (
	"strings"

	"github.com/gogpu/gpucontext"
)

var softwareRenderers = []string{"llvmpipe", "softpipe", "swiftshader", "software", "swrast", "lavapipe"}

var integratedRenderers = []string{"intel", "iris", "uhd graphics", "hd graphics", "apple m", "mali", "adreno", "vega 8", "radeon graphics"}

var discreteRenderers = []string{"nvidia", "geforce", "quadro", "rtx", "radeon", "amd", "ati "}

// ClassifyAdapter maps the GL_VENDOR and GL_RENDERER strings onto an adapter
// description. Software rasterizers are checked first because Mesa reports
// them under a hardware vendor string.
func ClassifyAdapter(vendor, renderer string) gpucontext.AdapterInfo {
	name := strings.TrimSpace(renderer)
	if name == "" {
		name = strings.TrimSpace(vendor)
	}
	info := gpucontext.AdapterInfo{Name: name, Type: gpucontext.AdapterTypeUnknown}

	r := strings.ToLower(renderer)
	v := strings.ToLower(vendor)
	switch {
	case containsAny(r, softwareRenderers):
		info.Type = gpucontext.AdapterTypeSoftware
	case containsAny(r, integratedRenderers):
		info.Type = gpucontext.AdapterTypeIntegrated
	case containsAny(r, discreteRenderers), containsAny(v, discreteRenderers):
		info.Type = gpucontext.AdapterTypeDiscrete
	case strings.Contains(v, "intel"):
		info.Type = gpucontext.AdapterTypeIntegrated
	}
	return info
}

// QueryAdapter describes the adapter behind dev, or returns an Unknown
// adapter when the device cannot report its strings.
func QueryAdapter(dev Device) gpucontext.AdapterInfo {
	sq, ok := dev.(StringQuerier)
	if !ok {
		return gpucontext.AdapterInfo{Name: "unknown", Type: gpucontext.AdapterTypeUnknown}
	}
	return ClassifyAdapter(sq.GetString(Vendor), sq.GetString(Renderer))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
