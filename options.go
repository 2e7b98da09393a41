package glstage

import (
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/glsl"
)

// Default mosaic geometry and camera.
const (
	DefaultRegionSize  = 256
	DefaultFieldOfView = 25 // degrees
)

// Colors are the clear colors of the mosaic.
type Colors struct {
	// Background clears every active region before it is drawn.
	Background gputypes.Color
	// VertexPlaceholder fills the vertex region when there is no vertex stage.
	VertexPlaceholder gputypes.Color
	// Placeholder fills the geometry, culling and fragment regions when skipped.
	Placeholder gputypes.Color
}

// DefaultColors returns the stock mosaic palette.
func DefaultColors() Colors {
	return Colors{
		Background:        gputypes.NewColorRGB(0.05, 0.05, 0.05),
		VertexPlaceholder: gputypes.NewColorRGB(0.15, 0, 0.15),
		Placeholder:       gputypes.NewColorRGB(0.5, 0, 0.5),
	}
}

// Option configures a Debugger during creation.
//
// Example:
//
//	dbg, err := glstage.New(dev,
//	    glstage.WithRegionSize(192),
//	    glstage.WithGLSLVersion(glsl.Version410))
type Option func(*options)

type options struct {
	regionSize  int32
	fieldOfView float32
	version     glsl.Version
	logger      *slog.Logger
	colors      Colors
	cacheLimit  int
	centered    bool
}

func defaultOptions() options {
	return options{
		regionSize:  DefaultRegionSize,
		fieldOfView: DefaultFieldOfView,
		version:     glsl.Version330,
		colors:      DefaultColors(),
		cacheLimit:  DefaultProgramCacheLimit,
	}
}

// WithRegionSize sets the edge length in pixels of each square mosaic region.
// Non-positive values are ignored.
func WithRegionSize(size int32) Option {
	return func(o *options) {
		if size > 0 {
			o.regionSize = size
		}
	}
}

// WithFieldOfView sets the half-angle in degrees used to frame the attribute
// region. The camera sits inside the framed sphere from 45 degrees on, so
// values outside (0, 45) are ignored.
func WithFieldOfView(degrees float32) Option {
	return func(o *options) {
		if degrees > 0 && degrees < 45 {
			o.fieldOfView = degrees
		}
	}
}

// WithCenteredFraming frames the attribute region from the +z axis of the
// bounding box center instead of from (0, 0, distance). Meshes far from the
// origin then stay between the near and far planes.
func WithCenteredFraming() Option {
	return func(o *options) {
		o.centered = true
	}
}

// WithGLSLVersion selects the GLSL version the fixed display shaders are
// generated for. It must match what the context accepts.
func WithGLSLVersion(v glsl.Version) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithLogger gives the Debugger its own logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithColors replaces the mosaic palette.
func WithColors(c Colors) Option {
	return func(o *options) {
		o.colors = c
	}
}

// WithProgramCacheLimit bounds the number of display programs kept linked.
// 0 keeps every program; negative values are ignored.
func WithProgramCacheLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.cacheLimit = n
		}
	}
}
