package glstage

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glstage/hal"
)

// DrawCall is one intercepted draw. IndexType is zero for DrawArrays; every
// component branches on Indexed rather than on which entry point was used.
type DrawCall struct {
	Mode        hal.Enum
	First       int32
	Count       int32
	IndexType   hal.Enum
	IndexOffset int64
}

// Indexed reports whether the call reads an element array buffer.
func (c DrawCall) Indexed() bool { return c.IndexType != 0 }

// IndexFormat returns the WebGPU index format of an indexed call.
func (c DrawCall) IndexFormat() gputypes.IndexFormat { return indexFormat(c.IndexType) }

// FirstIndex returns the position in the index buffer an indexed call starts
// at, or -1 when the offset is not a whole number of indices of its type.
func (c DrawCall) FirstIndex() int64 {
	size := indexBytes(c.IndexType)
	if size == 0 || c.IndexOffset%size != 0 {
		return -1
	}
	return c.IndexOffset / size
}

// issue replays the call on dev with whatever state is current.
func (c DrawCall) issue(dev hal.Device) {
	if c.Indexed() {
		dev.DrawElements(c.Mode, c.Count, c.IndexType, c.IndexOffset)
		return
	}
	dev.DrawArrays(c.Mode, c.First, c.Count)
}

// LogValue implements slog.LogValuer.
func (c DrawCall) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("mode", topologyName(c.Mode)),
		slog.Int("count", int(c.Count)),
	}
	if c.Indexed() {
		attrs = append(attrs,
			slog.String("index", c.IndexType.String()),
			slog.Int64("offset", c.IndexOffset),
			slog.Int64("first", c.FirstIndex()))
	} else {
		attrs = append(attrs, slog.Int("first", int(c.First)))
	}
	return slog.GroupValue(attrs...)
}
