// Package gl41 implements hal.Device on an OpenGL 4.1 core context through
// go-gl. Importing the package registers the "gl41" backend:
//
//	import _ "github.com/gogpu/glstage/backend/gl41"
//
// The package needs cgo. Build with the nogl tag to compile it out.
package gl41
