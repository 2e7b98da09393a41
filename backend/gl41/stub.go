//go:build nogl

package gl41

import "github.com/gogpu/glstage/backend"

// init registers a nil-returning factory when built with nogl, so
// backend.Get(backend.BackendGL41) returns nil and Default falls back.
func init() {
	backend.Register(backend.BackendGL41, func() backend.Backend {
		return nil
	})
}
