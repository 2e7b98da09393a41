package glstage

import "errors"

// Errors returned by the debugger's components. The Debugger logs them and
// degrades the affected region; they are surfaced to callers only through
// Report and the component APIs.
var (
	// ErrNilDevice is returned by New without a device.
	ErrNilDevice = errors.New("glstage: nil device")

	// ErrNoActiveProgram is returned when no program is bound.
	ErrNoActiveProgram = errors.New("glstage: no active program")

	// ErrProgramNotLinked is returned when the bound program failed to link.
	ErrProgramNotLinked = errors.New("glstage: active program is not linked")

	// ErrNoAttachedShaders is returned when the bound program has no shader objects.
	ErrNoAttachedShaders = errors.New("glstage: active program has no attached shaders")

	// ErrAttributeNotFound is returned when an attribute name is not active in the program.
	ErrAttributeNotFound = errors.New("glstage: attribute not found")

	// ErrIndexOutOfRange is returned when an attribute index exceeds the captured attributes.
	ErrIndexOutOfRange = errors.New("glstage: attribute index out of range")

	// ErrNoIndexBuffer is returned for an indexed draw without a bound element array buffer.
	ErrNoIndexBuffer = errors.New("glstage: no index buffer bound")

	// ErrLinkFailed is returned when a display program fails to link.
	ErrLinkFailed = errors.New("glstage: display program link failed")

	// ErrCompileFailed is returned when a fixed display shader fails to compile.
	ErrCompileFailed = errors.New("glstage: display shader compilation failed")

	// ErrUnsupportedType is returned for a vertex or uniform type the debugger cannot handle.
	ErrUnsupportedType = errors.New("glstage: unsupported type")

	// ErrUnsupportedTopology is returned when the mosaic cannot be drawn for a
	// primitive mode. Patches need tessellation stages no display program has.
	ErrUnsupportedTopology = errors.New("glstage: unsupported primitive mode")
)
