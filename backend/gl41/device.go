//go:build !nogl

package gl41

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/glstage/hal"
)

// Device forwards hal.Device calls to the OpenGL 4.1 core context current
// on the calling thread.
type Device struct{}

var _ hal.Device = (*Device)(nil)
var _ hal.StringQuerier = (*Device)(nil)

func (*Device) GetError() hal.Enum { return hal.Enum(gl.GetError()) }

func (*Device) GetIntegerv(pname hal.Enum, data []int32) {
	if len(data) == 0 {
		return
	}
	gl.GetIntegerv(uint32(pname), &data[0])
}

func (*Device) GetIntegeri(target hal.Enum, index uint32) int32 {
	var v int32
	gl.GetIntegeri_v(uint32(target), index, &v)
	return v
}

func (*Device) GetInteger64i(target hal.Enum, index uint32) int64 {
	var v int64
	gl.GetInteger64i_v(uint32(target), index, &v)
	return v
}

func (*Device) GetFloatv(pname hal.Enum, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.GetFloatv(uint32(pname), &data[0])
}

func (*Device) GetString(name hal.Enum) string {
	return gl.GoStr(gl.GetString(uint32(name)))
}

func (*Device) IsEnabled(capability hal.Enum) bool { return gl.IsEnabled(uint32(capability)) }
func (*Device) Enable(capability hal.Enum)         { gl.Enable(uint32(capability)) }
func (*Device) Disable(capability hal.Enum)        { gl.Disable(uint32(capability)) }

func (*Device) CreateProgram() uint32          { return gl.CreateProgram() }
func (*Device) DeleteProgram(program uint32)   { gl.DeleteProgram(program) }
func (*Device) UseProgram(program uint32)      { gl.UseProgram(program) }
func (*Device) LinkProgram(program uint32)     { gl.LinkProgram(program) }
func (*Device) AttachShader(program, s uint32) { gl.AttachShader(program, s) }

func (*Device) GetProgramiv(program uint32, pname hal.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, uint32(pname), &v)
	return v
}

func (d *Device) GetProgramInfoLog(program uint32) string {
	n := d.GetProgramiv(program, hal.InfoLogLength)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n)
	var length int32
	gl.GetProgramInfoLog(program, n, &length, &buf[0])
	return string(buf[:length])
}

func (d *Device) GetAttachedShaders(program uint32) []uint32 {
	n := d.GetProgramiv(program, hal.AttachedShaders)
	if n <= 0 {
		return nil
	}
	out := make([]uint32, n)
	var count int32
	gl.GetAttachedShaders(program, n, &count, &out[0])
	return out[:count]
}

func (*Device) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (*Device) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (*Device) TransformFeedbackVaryings(program uint32, varyings []string, bufferMode hal.Enum) {
	if len(varyings) == 0 {
		gl.TransformFeedbackVaryings(program, 0, nil, uint32(bufferMode))
		return
	}
	terminated := make([]string, len(varyings))
	for i, v := range varyings {
		terminated[i] = v + "\x00"
	}
	cstrs, free := gl.Strs(terminated...)
	defer free()
	gl.TransformFeedbackVaryings(program, int32(len(varyings)), cstrs, uint32(bufferMode))
}

func (*Device) CreateShader(shaderType hal.Enum) uint32 { return gl.CreateShader(uint32(shaderType)) }
func (*Device) DeleteShader(shader uint32)              { gl.DeleteShader(shader) }
func (*Device) CompileShader(shader uint32)             { gl.CompileShader(shader) }

func (*Device) ShaderSource(shader uint32, source string) {
	cstrs, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, cstrs, nil)
}

func (*Device) GetShaderiv(shader uint32, pname hal.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, uint32(pname), &v)
	return v
}

func (d *Device) GetShaderInfoLog(shader uint32) string {
	n := d.GetShaderiv(shader, hal.InfoLogLength)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n)
	var length int32
	gl.GetShaderInfoLog(shader, n, &length, &buf[0])
	return string(buf[:length])
}

func (d *Device) GetActiveAttrib(program, index uint32) (string, int32, hal.Enum) {
	n := max(d.GetProgramiv(program, hal.ActiveAttributeMaxLength), 1)
	buf := make([]uint8, n)
	var length, size int32
	var typ uint32
	gl.GetActiveAttrib(program, index, n, &length, &size, &typ, &buf[0])
	return string(buf[:length]), size, hal.Enum(typ)
}

func (d *Device) GetActiveUniform(program, index uint32) (string, int32, hal.Enum) {
	n := max(d.GetProgramiv(program, hal.ActiveUniformMaxLength), 1)
	buf := make([]uint8, n)
	var length, size int32
	var typ uint32
	gl.GetActiveUniform(program, index, n, &length, &size, &typ, &buf[0])
	return string(buf[:length]), size, hal.Enum(typ)
}

func (*Device) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Device) GetUniformfv(program uint32, location int32, params []float32) {
	if len(params) > 0 {
		gl.GetUniformfv(program, location, &params[0])
	}
}

func (*Device) GetUniformiv(program uint32, location int32, params []int32) {
	if len(params) > 0 {
		gl.GetUniformiv(program, location, &params[0])
	}
}

func (*Device) GetUniformuiv(program uint32, location int32, params []uint32) {
	if len(params) > 0 {
		gl.GetUniformuiv(program, location, &params[0])
	}
}

func (*Device) Uniformfv(location int32, components, count int32, value []float32) {
	if len(value) == 0 {
		return
	}
	switch components {
	case 1:
		gl.Uniform1fv(location, count, &value[0])
	case 2:
		gl.Uniform2fv(location, count, &value[0])
	case 3:
		gl.Uniform3fv(location, count, &value[0])
	case 4:
		gl.Uniform4fv(location, count, &value[0])
	}
}

func (*Device) Uniformiv(location int32, components, count int32, value []int32) {
	if len(value) == 0 {
		return
	}
	switch components {
	case 1:
		gl.Uniform1iv(location, count, &value[0])
	case 2:
		gl.Uniform2iv(location, count, &value[0])
	case 3:
		gl.Uniform3iv(location, count, &value[0])
	case 4:
		gl.Uniform4iv(location, count, &value[0])
	}
}

func (*Device) Uniformuiv(location int32, components, count int32, value []uint32) {
	if len(value) == 0 {
		return
	}
	switch components {
	case 1:
		gl.Uniform1uiv(location, count, &value[0])
	case 2:
		gl.Uniform2uiv(location, count, &value[0])
	case 3:
		gl.Uniform3uiv(location, count, &value[0])
	case 4:
		gl.Uniform4uiv(location, count, &value[0])
	}
}

var matrixUploads = map[[2]int32]func(location, count int32, transpose bool, value *float32){
	{2, 2}: gl.UniformMatrix2fv,
	{3, 3}: gl.UniformMatrix3fv,
	{4, 4}: gl.UniformMatrix4fv,
	{2, 3}: gl.UniformMatrix2x3fv,
	{2, 4}: gl.UniformMatrix2x4fv,
	{3, 2}: gl.UniformMatrix3x2fv,
	{3, 4}: gl.UniformMatrix3x4fv,
	{4, 2}: gl.UniformMatrix4x2fv,
	{4, 3}: gl.UniformMatrix4x3fv,
}

func (*Device) UniformMatrixfv(location int32, columns, rows, count int32, transpose bool, value []float32) {
	upload, ok := matrixUploads[[2]int32{columns, rows}]
	if !ok || len(value) == 0 {
		return
	}
	upload(location, count, transpose, &value[0])
}

func (*Device) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (*Device) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*Device) BindBuffer(target hal.Enum, buffer uint32) { gl.BindBuffer(uint32(target), buffer) }

func (*Device) BindBufferBase(target hal.Enum, index, buffer uint32) {
	gl.BindBufferBase(uint32(target), index, buffer)
}

func (*Device) BindBufferRange(target hal.Enum, index, buffer uint32, offset, size int64) {
	gl.BindBufferRange(uint32(target), index, buffer, int(offset), int(size))
}

func (*Device) BufferData(target hal.Enum, size int64, data []byte, usage hal.Enum) {
	if int64(len(data)) < size && len(data) > 0 {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(uint32(target), int(size), ptr, uint32(usage))
}

func (*Device) GetBufferParameteri64(target, pname hal.Enum) int64 {
	var v int64
	gl.GetBufferParameteri64v(uint32(target), uint32(pname), &v)
	return v
}

func (*Device) GetBufferSubData(target hal.Enum, offset int64, data []byte) {
	if len(data) > 0 {
		gl.GetBufferSubData(uint32(target), int(offset), len(data), gl.Ptr(data))
	}
}

func (*Device) GenVertexArray() uint32 {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return a
}

func (*Device) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }
func (*Device) BindVertexArray(array uint32)   { gl.BindVertexArray(array) }

func (*Device) GetVertexAttribiv(index uint32, pname hal.Enum) int32 {
	var v int32
	gl.GetVertexAttribiv(index, uint32(pname), &v)
	return v
}

func (*Device) GetVertexAttribOffset(index uint32) int64 {
	var p unsafe.Pointer
	gl.GetVertexAttribPointerv(index, uint32(hal.VertexAttribArrayPointer), &p)
	return int64(uintptr(p))
}

func (*Device) VertexAttribPointer(index uint32, size int32, componentType hal.Enum, normalized bool, stride int32, offset int64) {
	gl.VertexAttribPointerWithOffset(index, size, uint32(componentType), normalized, stride, uintptr(offset))
}

func (*Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*Device) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (*Device) BindFramebuffer(target hal.Enum, framebuffer uint32) {
	gl.BindFramebuffer(uint32(target), framebuffer)
}

func (*Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*Device) Scissor(x, y, width, height int32)  { gl.Scissor(x, y, width, height) }
func (*Device) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (*Device) Clear(mask hal.Enum)                { gl.Clear(uint32(mask)) }
func (*Device) PolygonMode(face, mode hal.Enum)    { gl.PolygonMode(uint32(face), uint32(mode)) }

func (*Device) BeginTransformFeedback(primitiveMode hal.Enum) {
	gl.BeginTransformFeedback(uint32(primitiveMode))
}

func (*Device) EndTransformFeedback() { gl.EndTransformFeedback() }

func (*Device) DrawArrays(mode hal.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (*Device) DrawElements(mode hal.Enum, count int32, indexType hal.Enum, offset int64) {
	gl.DrawElementsWithOffset(uint32(mode), count, uint32(indexType), uintptr(offset))
}

// ReadPixels reads a width x height RGBA8 rectangle of the read framebuffer,
// bottom row first.
func (*Device) ReadPixels(x, y, width, height int32) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, 4*int(width)*int(height))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
