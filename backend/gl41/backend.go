//go:build !nogl

package gl41

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/glstage/backend"
	"github.com/gogpu/glstage/hal"
)

// ErrVersion is returned when the current context is older than 4.1.
var ErrVersion = errors.New("gl41: OpenGL 4.1 core required")

// init registers the gl41 backend on package import.
func init() {
	backend.Register(backend.BackendGL41, func() backend.Backend {
		return &Backend{}
	})
}

var (
	loadMu sync.Mutex
	loaded bool
)

// Backend opens devices on the native OpenGL driver.
type Backend struct{}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendGL41
}

// Open loads the GL entry points on first use and checks the context
// version. A context must be current on the calling thread.
func (b *Backend) Open() (hal.Device, error) {
	loadMu.Lock()
	defer loadMu.Unlock()
	if !loaded {
		if err := gl.Init(); err != nil {
			return nil, fmt.Errorf("%w: %w", backend.ErrNoContext, err)
		}
		loaded = true
	}

	dev := &Device{}
	var major, minor [1]int32
	dev.GetIntegerv(hal.MajorVersion, major[:])
	dev.GetIntegerv(hal.MinorVersion, minor[:])
	if major[0] < 4 || (major[0] == 4 && minor[0] < 1) {
		return nil, fmt.Errorf("%w: context is %d.%d (%s)", ErrVersion, major[0], minor[0], dev.GetString(hal.Version))
	}
	return dev, nil
}
