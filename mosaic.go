package glstage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glstage/hal"
)

// Region is one square of the mosaic. Regions are laid out left to right in
// pipeline order.
type Region int

const (
	RegionAttribute Region = iota
	RegionVertex
	RegionGeometry
	RegionCulling
	RegionFragment
)

// RegionCount is the number of mosaic regions.
const RegionCount = 5

var regionNames = [RegionCount]string{"attribute", "vertex", "geometry", "culling", "fragment"}

func (r Region) String() string {
	if r < 0 || r >= RegionCount {
		return "unknown"
	}
	return regionNames[r]
}

// Outcome is what happened in a region during one intercepted call.
type Outcome int

const (
	// NotRun means the mosaic was not drawn at all.
	NotRun Outcome = iota
	// Drawn means the region was cleared and the call replayed into it.
	Drawn
	// Placeholder means the stage does not apply and the region was filled
	// with a placeholder color.
	Placeholder
	// Skipped means nothing was written to the region.
	Skipped
	// Failed means the region could not be drawn; Err says why.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case NotRun:
		return "not-run"
	case Drawn:
		return "drawn"
	case Placeholder:
		return "placeholder"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// RegionResult is the outcome of one region.
type RegionResult struct {
	Region  Region
	Outcome Outcome
	Err     error
}

// Report describes one intercepted call. Drew tells whether the
// application's draw was issued; Err is set when the whole mosaic was
// abandoned, per-region failures are in Regions.
type Report struct {
	Drew     bool
	Snapshot *Snapshot
	Regions  [RegionCount]RegionResult
	Err      error
}

// Count returns the number of regions with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Regions {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

func newReport() Report {
	var rep Report
	for i := range rep.Regions {
		rep.Regions[i].Region = Region(i)
	}
	return rep
}

// mosaic draws every region for call. The caller restores device state.
func (d *Debugger) mosaic(snap *Snapshot, call DrawCall, attribute string, rep *Report) {
	rep.Regions[RegionAttribute] = d.attributeRegion(snap, call, attribute)
	rep.Regions[RegionVertex] = d.vertexRegion(snap, call)
	rep.Regions[RegionGeometry] = d.geometryRegion(snap, call)
	rep.Regions[RegionCulling] = d.cullingRegion(snap, call)
	rep.Regions[RegionFragment] = d.fragmentRegion(snap, call)

	log := d.logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		for _, res := range rep.Regions {
			log.Debug("glstage: region", "region", res.Region.String(), "outcome", res.Outcome.String())
		}
	}
}

// RegionRect returns the viewport of region r as x, y, width, height.
func (d *Debugger) RegionRect(r Region) [4]int32 {
	size := d.opts.regionSize
	return [4]int32{int32(r) * size, 0, size, size}
}

// enterRegion confines rendering to r.
func (d *Debugger) enterRegion(r Region) {
	rect := d.RegionRect(r)
	d.dev.Viewport(rect[0], rect[1], rect[2], rect[3])
	d.dev.Scissor(rect[0], rect[1], rect[2], rect[3])
	d.dev.Enable(hal.ScissorTest)
}

func (d *Debugger) clear(c gputypes.Color) {
	d.dev.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	d.dev.Clear(hal.ColorBufferBit | hal.DepthBufferBit)
}

func (d *Debugger) placeholder(r Region, c gputypes.Color) RegionResult {
	d.enterRegion(r)
	d.clear(c)
	return RegionResult{Region: r, Outcome: Placeholder}
}

func (d *Debugger) failed(r Region, err error) RegionResult {
	d.logger().Error("glstage: cannot draw region", "region", r.String(), "err", err)
	return RegionResult{Region: r, Outcome: Failed, Err: err}
}

// attributeRegion draws the raw positions of the selected attribute. With no
// data the region is left as the application drew it.
func (d *Debugger) attributeRegion(snap *Snapshot, call DrawCall, attribute string) RegionResult {
	const r = RegionAttribute
	index := 0
	if attribute != "" {
		i, ok := snap.Attribute(attribute)
		if !ok {
			return d.failed(r, fmt.Errorf("%w: %q", ErrAttributeNotFound, attribute))
		}
		index = i
	} else if len(snap.Attributes) == 0 {
		return RegionResult{Region: r, Outcome: Skipped}
	}

	points, err := d.extractor.Extract(snap, index)
	if err != nil {
		return d.failed(r, err)
	}
	if len(points.Points) == 0 {
		return RegionResult{Region: r, Outcome: Skipped}
	}
	d.logger().Debug("glstage: extracted attribute",
		"attribute", snap.Attributes[index].Name,
		"points", len(points.Points),
		"min", points.Bounds.Min, "max", points.Bounds.Max)

	cam := FrameBounds(points.Bounds, d.opts.fieldOfView)
	if d.opts.centered {
		cam = FrameBoundsCentered(points.Bounds, d.opts.fieldOfView)
	}
	d.enterRegion(r)
	d.clear(d.opts.colors.Background)
	if err := d.extractor.DrawAttributeRegion(snap, index, call, cam); err != nil {
		return d.failed(r, err)
	}
	return RegionResult{Region: r, Outcome: Drawn}
}

// displayPass replays call through the display program for mask, in
// wireframe, with the application's uniforms and vertex array.
func (d *Debugger) displayPass(r Region, snap *Snapshot, call DrawCall, mask StageMask, cull bool) RegionResult {
	d.enterRegion(r)
	d.clear(d.opts.colors.Background)

	program, err := d.cache.Get(snap, mask, d.lib.Display)
	if err != nil {
		return d.failed(r, err)
	}
	dev := d.dev
	dev.BindVertexArray(snap.VertexArray)
	dev.UseProgram(program)
	copyUniforms(dev, snap.Program, program, d.logger())
	dev.PolygonMode(hal.FrontAndBack, hal.Line)
	if cull {
		dev.Enable(hal.CullFace)
	} else {
		dev.Disable(hal.CullFace)
	}
	call.issue(dev)
	return RegionResult{Region: r, Outcome: Drawn}
}

func (d *Debugger) vertexRegion(snap *Snapshot, call DrawCall) RegionResult {
	if !snap.Has(StageVertex) {
		return d.placeholder(RegionVertex, d.opts.colors.VertexPlaceholder)
	}
	return d.displayPass(RegionVertex, snap, call, MaskVertex, false)
}

func (d *Debugger) geometryRegion(snap *Snapshot, call DrawCall) RegionResult {
	if !snap.Has(StageGeometry) {
		return d.placeholder(RegionGeometry, d.opts.colors.Placeholder)
	}
	return d.displayPass(RegionGeometry, snap, call, MaskTransform, false)
}

// cullsPrimitives reports whether face culling can discard anything for call:
// culling is on, the call draws polygons, and a geometry stage, if any,
// emits triangle strips.
func cullsPrimitives(snap *Snapshot, call DrawCall) bool {
	if !snap.CullFace || !filledTopology(call.Mode) {
		return false
	}
	return !snap.Has(StageGeometry) || snap.GeometryOutput == hal.TriangleStrip
}

func (d *Debugger) cullingRegion(snap *Snapshot, call DrawCall) RegionResult {
	if !cullsPrimitives(snap, call) {
		return d.placeholder(RegionCulling, d.opts.colors.Placeholder)
	}
	return d.displayPass(RegionCulling, snap, call, MaskTransform, true)
}

// fragmentRegion replays call with the application's own program and raster
// state.
func (d *Debugger) fragmentRegion(snap *Snapshot, call DrawCall) RegionResult {
	const r = RegionFragment
	if snap.RasterizerDiscard {
		return d.placeholder(r, d.opts.colors.Placeholder)
	}
	d.enterRegion(r)
	d.clear(d.opts.colors.Background)

	dev := d.dev
	dev.BindVertexArray(snap.VertexArray)
	dev.UseProgram(snap.Program)
	mode := snap.PolygonMode
	if mode == 0 {
		mode = hal.Fill
	}
	dev.PolygonMode(hal.FrontAndBack, mode)
	if snap.CullFace {
		dev.Enable(hal.CullFace)
	} else {
		dev.Disable(hal.CullFace)
	}
	call.issue(dev)
	return RegionResult{Region: r, Outcome: Drawn}
}
