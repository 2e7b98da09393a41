package glstage

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/shaders"
)

// Debugger intercepts draw calls on one GL context and paints the stage
// mosaic after each of them. It owns the display program cache and the
// attribute extractor; both live as long as the Debugger.
//
// A Debugger is not safe for concurrent use.
type Debugger struct {
	dev       hal.Device
	opts      options
	lib       *shaders.Library
	cache     *ProgramCache
	extractor *Extractor
	adapter   gpucontext.AdapterInfo
}

// New creates a Debugger for dev. It generates the display shaders for the
// configured GLSL version; device objects are created on first use.
func New(dev hal.Device, opts ...Option) (*Debugger, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	lib, err := shaders.NewLibrary(o.version)
	if err != nil {
		return nil, fmt.Errorf("glstage: display shaders: %w", err)
	}
	d := &Debugger{
		dev:       dev,
		opts:      o,
		lib:       lib,
		cache:     NewProgramCacheLimit(dev, o.cacheLimit),
		extractor: NewExtractor(dev, lib),
		adapter:   hal.QueryAdapter(dev),
	}
	d.logger().Info("glstage: debugger created",
		"adapter", d.adapter.Name,
		"adapter_type", d.adapter.Type.String(),
		"glsl", o.version.String(),
		"region_size", o.regionSize)
	return d, nil
}

func (d *Debugger) logger() *slog.Logger {
	if d.opts.logger != nil {
		return d.opts.logger
	}
	return Logger()
}

// Adapter describes the GPU behind the device.
func (d *Debugger) Adapter() gpucontext.AdapterInfo { return d.adapter }

// Cache returns the display program cache.
func (d *Debugger) Cache() *ProgramCache { return d.cache }

// Extractor returns the attribute extractor.
func (d *Debugger) Extractor() *Extractor { return d.extractor }

// Shaders returns the generated display shaders.
func (d *Debugger) Shaders() *shaders.Library { return d.lib }

// DrawArrays issues glDrawArrays(mode, first, count) and then paints the
// mosaic. attribute names the vertex input shown in the attribute region;
// an empty name selects the first active attribute.
func (d *Debugger) DrawArrays(mode hal.Enum, first, count int32, attribute string) Report {
	call := DrawCall{Mode: mode, First: first, Count: count}
	call.issue(d.dev)
	return d.intercept(call, attribute)
}

// DrawElements issues glDrawElements(mode, count, indexType, indexOffset)
// and then paints the mosaic. Without a bound element array buffer nothing
// is drawn and the Report carries ErrNoIndexBuffer.
func (d *Debugger) DrawElements(mode hal.Enum, count int32, indexType hal.Enum, indexOffset int64, attribute string) Report {
	var v [1]int32
	d.dev.GetIntegerv(hal.ElementArrayBufferBinding, v[:])
	if v[0] == 0 {
		rep := newReport()
		rep.Err = ErrNoIndexBuffer
		d.logger().Error("glstage: DrawElements without index buffer", "err", rep.Err)
		return rep
	}
	call := DrawCall{Mode: mode, Count: count, IndexType: indexType, IndexOffset: indexOffset}
	call.issue(d.dev)
	return d.intercept(call, attribute)
}

// intercept runs the mosaic for a call that was already issued. Device state
// is restored on every path that changed it.
func (d *Debugger) intercept(call DrawCall, attribute string) Report {
	rep := newReport()
	rep.Drew = true
	log := d.logger()

	if call.Mode == hal.Patches {
		rep.Err = fmt.Errorf("%w: %s", ErrUnsupportedTopology, topologyName(call.Mode))
		log.Error("glstage: cannot display patches", "err", rep.Err)
		return rep
	}

	snap, err := CaptureSnapshot(d.dev)
	if err != nil {
		rep.Err = err
		log.Error("glstage: cannot capture pipeline state", "err", err)
		return rep
	}
	rep.Snapshot = snap
	log.Debug("glstage: intercepted draw", "call", call, "snapshot", snap)

	state := CaptureDeviceState(d.dev)
	defer state.Restore(d.dev)
	if state.Framebuffer != 0 {
		log.Warn("glstage: drawing mosaic into application framebuffer", "framebuffer", state.Framebuffer)
	}

	d.mosaic(snap, call, attribute, &rep)
	return rep
}

// Close deletes the display programs and extraction objects. The Debugger
// can still be used; objects are created again on demand.
func (d *Debugger) Close() {
	d.cache.Reset()
	d.extractor.Release()
}
