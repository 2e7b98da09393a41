package backend

import (
	"errors"

	"github.com/gogpu/glstage/hal"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or was compiled out.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNoContext is returned by backends that need a current GL context
	// when none is current on the calling thread.
	ErrNoContext = errors.New("backend: no current GL context")
)

// Backend opens hal devices on one GL implementation.
//
// Backends are registered via Register() and are selected via Get() or
// Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "gl41", "soft").
	Name() string

	// Open returns a device bound to the GL context current on the calling
	// thread. GL contexts are thread-affine: the device must only be used
	// from that thread.
	Open() (hal.Device, error)
}
