package backend

import (
	"github.com/gogpu/glstage/hal"
	"github.com/gogpu/glstage/hal/softgl"
)

// Backend name constants.
const (
	// BackendSoft is the name of the CPU model of the GL state machine.
	BackendSoft = "soft"
	// BackendGL41 is the name of the native OpenGL 4.1 core backend.
	BackendGL41 = "gl41"
)

// SoftBackend opens softgl devices. It needs no GL context and never draws
// pixels; it records draw calls for inspection.
type SoftBackend struct{}

// init registers the soft backend on package import.
func init() {
	Register(BackendSoft, func() Backend {
		return &SoftBackend{}
	})
}

// NewSoftBackend creates a new soft backend.
func NewSoftBackend() *SoftBackend {
	return &SoftBackend{}
}

// Name returns the backend identifier.
func (b *SoftBackend) Name() string {
	return BackendSoft
}

// Open returns a fresh softgl device with a 1280x256 default framebuffer.
func (b *SoftBackend) Open() (hal.Device, error) {
	return softgl.New(), nil
}
