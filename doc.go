// Package glstage is a pipeline-stage debug visualizer for OpenGL.
//
// # Overview
//
// A Debugger intercepts the two draw-call shapes, DrawArrays and
// DrawElements. It performs the application's draw unmodified and then
// paints a mosaic of five regions that show the data flowing through each
// stage of the pipeline:
//
//   - attribute: the raw positions of one vertex attribute, framed by a
//     synthesized camera
//   - vertex: the draw with only the application's vertex stage
//   - geometry: the draw through the geometry stage
//   - culling: as above with face culling enabled
//   - fragment: the draw with the application's own program
//
// Stages that are absent or do not apply paint a placeholder color instead.
// The application does not change its shaders: the Debugger reads the bound
// program, its shader objects and the vertex array layout from the device,
// links display programs from subsets of those shader objects, and restores
// every piece of state it touched before returning.
//
// # Quick Start
//
//	dbg, err := glstage.New(dev)
//	if err != nil {
//	    return err
//	}
//	// instead of gl.DrawElements(gl.TRIANGLES, n, gl.UNSIGNED_INT, nil)
//	dbg.DrawElements(hal.Triangles, n, hal.UnsignedInt, 0, "position")
//
// # Devices
//
// The Debugger talks to OpenGL through [hal.Device]. The backend/gl41
// package implements it over go-gl for a live context; hal/softgl is a
// software model used by the tests.
//
// # Threading
//
// A Debugger belongs to one GL context and must be used from the thread
// that owns that context. Only the package logger is safe for concurrent use.
package glstage
