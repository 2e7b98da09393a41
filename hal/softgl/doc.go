// Package softgl is a CPU model of the OpenGL state the stage debugger reads
// and writes.
//
// It is not a rasterizer. It tracks the objects and bindings a real context
// would hold (programs, shader objects, buffers, vertex arrays, transform
// feedback bindings, viewport/scissor/clear/polygon/cull state) and records
// every draw and clear so callers can assert on what would have reached the
// GPU. Transform feedback is emulated for the single-varying case used by
// attribute extraction: each processed vertex captures the xyz of its
// location-0 input.
//
// Shader sources are scanned at declaration level only: `in`, `out` and
// `uniform` declarations (with optional layout qualifiers and array sizes)
// and the geometry output layout. A source containing "#error" fails to
// compile, which is enough to exercise every failure path in the debugger.
//
//	dev := softgl.New()
//	vs := dev.CreateShader(hal.VertexShader)
//	dev.ShaderSource(vs, "#version 330\nin vec3 position;\nvoid main() {}\n")
//	dev.CompileShader(vs)
package softgl
