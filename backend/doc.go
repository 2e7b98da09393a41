// Package backend selects the GL implementation a debugger runs on.
//
// Backends are registered via init() functions and selected at runtime.
// The soft backend is automatically registered on import:
//
//	import _ "github.com/gogpu/glstage/backend"
//
// The native backend lives in its own package because it needs cgo and an
// OpenGL 4.1 core driver:
//
//	import _ "github.com/gogpu/glstage/backend/gl41"
//
// Building with the nogl tag compiles the native backend out; its name stays
// registered but Get returns nil for it.
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b := backend.Default() // gl41 when linked in, soft otherwise
//	dev, err := b.Open()   // on the thread owning the GL context
//
// # Available Backends
//
// - "gl41": OpenGL 4.1 core through go-gl (needs a current context)
// - "soft": CPU model of the GL state machine (always available)
package backend
