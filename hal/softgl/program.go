package softgl

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/glstage/hal"
)

type shaderObject struct {
	kind     hal.Enum
	source   string
	compiled bool
	log      string
	decl     declarations
	deleted  bool
}

type uniformSlot struct {
	typ   hal.Enum
	words []uint32
}

type programObject struct {
	attached     []uint32
	bindings     map[string]uint32
	varyings     []string
	varyingsMode hal.Enum

	linked   bool
	log      string
	deleted  bool
	hasStage map[hal.Enum]bool

	attribs        []Variable
	uniforms       []Variable
	uniformBase    map[string]int32
	slots          map[int32]*uniformSlot
	geometryOutput hal.Enum
}

func (d *Device) CreateShader(shaderType hal.Enum) uint32 {
	switch shaderType {
	case hal.VertexShader, hal.TessControlShader, hal.TessEvaluationShader, hal.GeometryShader, hal.FragmentShader:
	default:
		d.setError(hal.InvalidEnum)
		return 0
	}
	id := d.genID()
	d.shaders[id] = &shaderObject{kind: shaderType}
	return id
}

func (d *Device) shader(id uint32) *shaderObject {
	s, ok := d.shaders[id]
	if !ok {
		d.setError(hal.InvalidValue)
		return nil
	}
	return s
}

func (d *Device) DeleteShader(shader uint32) {
	if shader == 0 {
		return
	}
	s := d.shader(shader)
	if s == nil {
		return
	}
	s.deleted = true
	d.collectShader(shader)
}

// collectShader frees a shader flagged for deletion once no program holds it.
func (d *Device) collectShader(id uint32) {
	s, ok := d.shaders[id]
	if !ok || !s.deleted {
		return
	}
	for _, p := range d.programs {
		for _, a := range p.attached {
			if a == id {
				return
			}
		}
	}
	delete(d.shaders, id)
}

func (d *Device) ShaderSource(shader uint32, source string) {
	if s := d.shader(shader); s != nil {
		s.source = source
	}
}

func (d *Device) CompileShader(shader uint32) {
	s := d.shader(shader)
	if s == nil {
		return
	}
	d.CompileCount++
	s.compiled = false
	s.decl = declarations{}
	switch {
	case strings.TrimSpace(s.source) == "":
		s.log = "0:0(0): error: empty shader source"
	case strings.Contains(s.source, "#error"):
		s.log = "0:1(1): error: #error directive"
	default:
		s.log = ""
		s.compiled = true
		s.decl = scanSource(s.source)
	}
}

func (d *Device) GetShaderiv(shader uint32, pname hal.Enum) int32 {
	s := d.shader(shader)
	if s == nil {
		return 0
	}
	switch pname {
	case hal.ShaderType:
		return int32(s.kind)
	case hal.CompileStatus:
		return boolInt(s.compiled)
	case hal.InfoLogLength:
		if s.log == "" {
			return 0
		}
		return int32(len(s.log) + 1)
	}
	d.setError(hal.InvalidEnum)
	return 0
}

func (d *Device) GetShaderInfoLog(shader uint32) string {
	if s := d.shader(shader); s != nil {
		return s.log
	}
	return ""
}

func (d *Device) CreateProgram() uint32 {
	id := d.genID()
	d.programs[id] = &programObject{bindings: make(map[string]uint32)}
	return id
}

func (d *Device) program(id uint32) *programObject {
	p, ok := d.programs[id]
	if !ok {
		d.setError(hal.InvalidValue)
		return nil
	}
	return p
}

// IsProgram reports whether id names a live program object.
func (d *Device) IsProgram(id uint32) bool {
	p, ok := d.programs[id]
	return ok && !p.deleted
}

// IsShader reports whether id names a live shader object.
func (d *Device) IsShader(id uint32) bool {
	s, ok := d.shaders[id]
	return ok && !s.deleted
}

// DeleteProgram frees the program, or flags it while it is still current.
func (d *Device) DeleteProgram(program uint32) {
	if program == 0 {
		return
	}
	p := d.program(program)
	if p == nil {
		return
	}
	p.deleted = true
	if d.currentProgram != program {
		d.freeProgram(program)
	}
}

func (d *Device) freeProgram(id uint32) {
	p := d.programs[id]
	delete(d.programs, id)
	for _, s := range p.attached {
		d.collectShader(s)
	}
}

func (d *Device) UseProgram(program uint32) {
	if program != 0 {
		p := d.program(program)
		if p == nil {
			return
		}
		if !p.linked {
			d.setError(hal.InvalidOperation)
			return
		}
	}
	prev := d.currentProgram
	d.currentProgram = program
	if prev != 0 && prev != program {
		if p, ok := d.programs[prev]; ok && p.deleted {
			d.freeProgram(prev)
		}
	}
}

func (d *Device) AttachShader(program, shader uint32) {
	p := d.program(program)
	s := d.shader(shader)
	if p == nil || s == nil {
		return
	}
	for _, a := range p.attached {
		if a == shader {
			d.setError(hal.InvalidOperation)
			return
		}
	}
	p.attached = append(p.attached, shader)
}

// DetachShader removes shader from program. It is not part of hal.Device; tests
// use it to build programs the debugger must reject.
func (d *Device) DetachShader(program, shader uint32) {
	p := d.program(program)
	if p == nil {
		return
	}
	for i, a := range p.attached {
		if a == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			d.collectShader(shader)
			return
		}
	}
	d.setError(hal.InvalidOperation)
}

func (d *Device) GetAttachedShaders(program uint32) []uint32 {
	p := d.program(program)
	if p == nil {
		return nil
	}
	out := make([]uint32, len(p.attached))
	copy(out, p.attached)
	return out
}

func (d *Device) BindAttribLocation(program, index uint32, name string) {
	if index >= MaxVertexAttribs {
		d.setError(hal.InvalidValue)
		return
	}
	if strings.HasPrefix(name, "gl_") {
		d.setError(hal.InvalidOperation)
		return
	}
	if p := d.program(program); p != nil {
		p.bindings[name] = index
	}
}

func (d *Device) TransformFeedbackVaryings(program uint32, varyings []string, bufferMode hal.Enum) {
	if bufferMode != hal.InterleavedAttribs && bufferMode != hal.SeparateAttribs {
		d.setError(hal.InvalidEnum)
		return
	}
	if p := d.program(program); p != nil {
		p.varyings = append([]string(nil), varyings...)
		p.varyingsMode = bufferMode
	}
}

func (d *Device) LinkProgram(program uint32) {
	p := d.program(program)
	if p == nil {
		return
	}
	d.LinkCount++
	p.linked = false
	p.attribs = nil
	p.uniforms = nil
	p.uniformBase = nil
	p.slots = nil
	p.geometryOutput = 0

	if err := d.link(p); err != nil {
		p.log = "error: " + err.Error()
		return
	}
	p.log = ""
	p.linked = true
}

func (d *Device) link(p *programObject) error {
	if d.FailLinks {
		return errors.New("linking disabled on this device")
	}
	if len(p.attached) == 0 {
		return errors.New("no shaders attached")
	}

	stages := make(map[hal.Enum]*shaderObject)
	for _, id := range p.attached {
		s := d.shaders[id]
		if !s.compiled {
			return fmt.Errorf("%v object %d is not compiled", s.kind, id)
		}
		if _, dup := stages[s.kind]; dup {
			return fmt.Errorf("multiple %v objects", s.kind)
		}
		stages[s.kind] = s
	}
	vs, ok := stages[hal.VertexShader]
	if !ok {
		return errors.New("program lacks a vertex shader")
	}
	if _, te := stages[hal.TessEvaluationShader]; !te {
		if _, tc := stages[hal.TessControlShader]; tc {
			return errors.New("tessellation control shader without evaluation shader")
		}
	}

	last := vs
	for _, k := range []hal.Enum{hal.TessEvaluationShader, hal.GeometryShader} {
		if s, ok := stages[k]; ok {
			last = s
		}
	}
	for _, v := range p.varyings {
		if !hasVariable(last.decl.outputs, v) {
			return fmt.Errorf("transform feedback varying %q is not an output of the last vertex processing stage", v)
		}
	}

	attribs, err := assignLocations(vs.decl.inputs, p.bindings)
	if err != nil {
		return err
	}

	p.hasStage = make(map[hal.Enum]bool, len(stages))
	for k := range stages {
		p.hasStage[k] = true
	}
	if gs, ok := stages[hal.GeometryShader]; ok {
		if !gs.decl.hasGeometryOutput {
			return errors.New("geometry shader lacks an output primitive layout")
		}
		p.geometryOutput = gs.decl.geometryOutput
	}
	p.attribs = attribs
	p.uniformBase = make(map[string]int32)
	p.slots = make(map[int32]*uniformSlot)

	var next int32
	for _, id := range p.attached {
		for _, u := range d.shaders[id].decl.uniforms {
			if _, seen := p.uniformBase[u.Name]; seen {
				continue
			}
			u.Location = next
			p.uniformBase[u.Name] = next
			p.uniforms = append(p.uniforms, u)
			for i := int32(0); i < u.Size; i++ {
				p.slots[next+i] = &uniformSlot{typ: u.Type, words: make([]uint32, typeWords(u.Type))}
			}
			next += u.Size
		}
	}
	return nil
}

func hasVariable(vars []Variable, name string) bool {
	for _, v := range vars {
		if v.Name == name {
			return true
		}
	}
	return false
}

func locationSlots(t hal.Enum) int32 {
	switch t {
	case hal.FloatMat2, hal.FloatMat2x3, hal.FloatMat2x4, hal.DoubleMat2:
		return 2
	case hal.FloatMat3, hal.FloatMat3x2, hal.FloatMat3x4, hal.DoubleMat3:
		return 3
	case hal.FloatMat4, hal.FloatMat4x2, hal.FloatMat4x3, hal.DoubleMat4:
		return 4
	}
	return 1
}

// assignLocations resolves vertex input locations: explicit layout first, then
// BindAttribLocation, then the lowest free slot.
func assignLocations(inputs []Variable, bindings map[string]uint32) ([]Variable, error) {
	var used [MaxVertexAttribs]bool
	out := make([]Variable, len(inputs))
	claim := func(loc, n int32, name string) error {
		if loc < 0 || loc+n > MaxVertexAttribs {
			return fmt.Errorf("attribute %q location %d out of range", name, loc)
		}
		for i := loc; i < loc+n; i++ {
			if used[i] {
				return fmt.Errorf("attribute %q aliases location %d", name, i)
			}
			used[i] = true
		}
		return nil
	}

	for i, in := range inputs {
		out[i] = in
		n := locationSlots(in.Type) * in.Size
		loc := in.Location
		if loc < 0 {
			b, ok := bindings[in.Name]
			if !ok {
				continue
			}
			loc = int32(b)
		}
		if err := claim(loc, n, in.Name); err != nil {
			return nil, err
		}
		out[i].Location = loc
	}
	for i := range out {
		if out[i].Location >= 0 {
			continue
		}
		n := locationSlots(out[i].Type) * out[i].Size
		placed := false
		for loc := int32(0); loc+n <= MaxVertexAttribs && !placed; loc++ {
			free := true
			for j := loc; j < loc+n; j++ {
				free = free && !used[j]
			}
			if free {
				_ = claim(loc, n, out[i].Name)
				out[i].Location = loc
				placed = true
			}
		}
		if !placed {
			return nil, errors.New("too many vertex attributes")
		}
	}
	return out, nil
}

func (d *Device) GetProgramiv(program uint32, pname hal.Enum) int32 {
	p := d.program(program)
	if p == nil {
		return 0
	}
	switch pname {
	case hal.LinkStatus:
		return boolInt(p.linked)
	case hal.AttachedShaders:
		return int32(len(p.attached))
	case hal.ActiveAttributes:
		return int32(len(p.attribs))
	case hal.ActiveUniforms:
		return int32(len(p.uniforms))
	case hal.InfoLogLength:
		if p.log == "" {
			return 0
		}
		return int32(len(p.log) + 1)
	case hal.TransformFeedbackVaryingsParam:
		return int32(len(p.varyings))
	case hal.ActiveAttributeMaxLength:
		n := 0
		for _, a := range p.attribs {
			n = max(n, len(a.Name)+1)
		}
		return int32(n)
	case hal.ActiveUniformMaxLength:
		n := 0
		for _, u := range p.uniforms {
			n = max(n, len(uniformName(u))+1)
		}
		return int32(n)
	case hal.GeometryOutputType:
		if !p.linked || !p.hasStage[hal.GeometryShader] {
			d.setError(hal.InvalidOperation)
			return 0
		}
		return int32(p.geometryOutput)
	}
	d.setError(hal.InvalidEnum)
	return 0
}

func (d *Device) GetProgramInfoLog(program uint32) string {
	if p := d.program(program); p != nil {
		return p.log
	}
	return ""
}

func (d *Device) GetActiveAttrib(program, index uint32) (string, int32, hal.Enum) {
	p := d.program(program)
	if p == nil {
		return "", 0, 0
	}
	if index >= uint32(len(p.attribs)) {
		d.setError(hal.InvalidValue)
		return "", 0, 0
	}
	a := p.attribs[index]
	return a.Name, a.Size, a.Type
}

func uniformName(u Variable) string {
	if u.Size > 1 {
		return u.Name + "[0]"
	}
	return u.Name
}

// GetActiveUniform reports arrays under their first element name, "name[0]".
func (d *Device) GetActiveUniform(program, index uint32) (string, int32, hal.Enum) {
	p := d.program(program)
	if p == nil {
		return "", 0, 0
	}
	if index >= uint32(len(p.uniforms)) {
		d.setError(hal.InvalidValue)
		return "", 0, 0
	}
	u := p.uniforms[index]
	return uniformName(u), u.Size, u.Type
}

func (d *Device) GetAttribLocation(program uint32, name string) int32 {
	p := d.program(program)
	if p == nil {
		return -1
	}
	if !p.linked {
		d.setError(hal.InvalidOperation)
		return -1
	}
	for _, a := range p.attribs {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

func (d *Device) GetUniformLocation(program uint32, name string) int32 {
	p := d.program(program)
	if p == nil {
		return -1
	}
	if !p.linked {
		d.setError(hal.InvalidOperation)
		return -1
	}
	base, element := name, 0
	if i := strings.IndexByte(name, '['); i >= 0 && strings.HasSuffix(name, "]") {
		n, err := strconv.Atoi(name[i+1 : len(name)-1])
		if err != nil || n < 0 {
			return -1
		}
		base, element = name[:i], n
	}
	loc, ok := p.uniformBase[base]
	if !ok {
		return -1
	}
	for _, u := range p.uniforms {
		if u.Name == base && int32(element) >= u.Size {
			return -1
		}
	}
	return loc + int32(element)
}

func (d *Device) uniformSlot(program uint32, location int32) *uniformSlot {
	p := d.program(program)
	if p == nil {
		return nil
	}
	if !p.linked {
		d.setError(hal.InvalidOperation)
		return nil
	}
	s, ok := p.slots[location]
	if !ok {
		d.setError(hal.InvalidOperation)
		return nil
	}
	return s
}

func (d *Device) GetUniformfv(program uint32, location int32, params []float32) {
	s := d.uniformSlot(program, location)
	if s == nil {
		return
	}
	for i := 0; i < len(params) && i < len(s.words); i++ {
		if isFloatType(s.typ) {
			params[i] = math.Float32frombits(s.words[i])
		} else {
			params[i] = float32(int32(s.words[i]))
		}
	}
}

func (d *Device) GetUniformiv(program uint32, location int32, params []int32) {
	s := d.uniformSlot(program, location)
	if s == nil {
		return
	}
	for i := 0; i < len(params) && i < len(s.words); i++ {
		if isFloatType(s.typ) {
			params[i] = int32(math.Float32frombits(s.words[i]))
		} else {
			params[i] = int32(s.words[i])
		}
	}
}

func (d *Device) GetUniformuiv(program uint32, location int32, params []uint32) {
	s := d.uniformSlot(program, location)
	if s == nil {
		return
	}
	for i := 0; i < len(params) && i < len(s.words); i++ {
		if isFloatType(s.typ) {
			params[i] = uint32(math.Float32frombits(s.words[i]))
		} else {
			params[i] = s.words[i]
		}
	}
}

func isFloatType(t hal.Enum) bool {
	switch t {
	case hal.Float, hal.FloatVec2, hal.FloatVec3, hal.FloatVec4,
		hal.FloatMat2, hal.FloatMat3, hal.FloatMat4,
		hal.FloatMat2x3, hal.FloatMat2x4, hal.FloatMat3x2,
		hal.FloatMat3x4, hal.FloatMat4x2, hal.FloatMat4x3:
		return true
	}
	return false
}

func isDoubleType(t hal.Enum) bool {
	switch t {
	case hal.Double, hal.DoubleVec2, hal.DoubleVec3, hal.DoubleVec4,
		hal.DoubleMat2, hal.DoubleMat3, hal.DoubleMat4:
		return true
	}
	return false
}

func isMatrixType(t hal.Enum) bool {
	switch t {
	case hal.FloatMat2, hal.FloatMat3, hal.FloatMat4,
		hal.FloatMat2x3, hal.FloatMat2x4, hal.FloatMat3x2,
		hal.FloatMat3x4, hal.FloatMat4x2, hal.FloatMat4x3:
		return true
	}
	return false
}

func isBoolType(t hal.Enum) bool {
	switch t {
	case hal.Bool, hal.BoolVec2, hal.BoolVec3, hal.BoolVec4:
		return true
	}
	return false
}

func isUnsignedType(t hal.Enum) bool {
	switch t {
	case hal.UnsignedInt, hal.UnsignedIntVec2, hal.UnsignedIntVec3, hal.UnsignedIntVec4:
		return true
	}
	return false
}

// upload writes count elements of width words starting at location into the
// current program, after checking that kind is compatible with every slot.
func (d *Device) upload(location int32, width, count int32, accept func(hal.Enum) bool, word func(i int) uint32) {
	if location == -1 {
		return
	}
	if d.currentProgram == 0 {
		d.setError(hal.InvalidOperation)
		return
	}
	if count < 0 {
		d.setError(hal.InvalidValue)
		return
	}
	p := d.programs[d.currentProgram]
	for k := int32(0); k < count; k++ {
		s, ok := p.slots[location+k]
		if !ok || !accept(s.typ) || int32(len(s.words)) != width {
			d.setError(hal.InvalidOperation)
			return
		}
	}
	for k := int32(0); k < count; k++ {
		s := p.slots[location+k]
		for c := range s.words {
			s.words[c] = word(int(k*width) + c)
		}
	}
}

func (d *Device) Uniformfv(location int32, components, count int32, value []float32) {
	if int32(len(value)) < components*count {
		d.setError(hal.InvalidValue)
		return
	}
	accept := func(t hal.Enum) bool { return (isFloatType(t) && !isMatrixType(t)) || isBoolType(t) }
	d.upload(location, components, count, accept, func(i int) uint32 {
		return math.Float32bits(value[i])
	})
}

func (d *Device) Uniformiv(location int32, components, count int32, value []int32) {
	if int32(len(value)) < components*count {
		d.setError(hal.InvalidValue)
		return
	}
	accept := func(t hal.Enum) bool { return !isFloatType(t) && !isUnsignedType(t) && !isDoubleType(t) }
	d.upload(location, components, count, accept, func(i int) uint32 {
		return uint32(value[i])
	})
}

func (d *Device) Uniformuiv(location int32, components, count int32, value []uint32) {
	if int32(len(value)) < components*count {
		d.setError(hal.InvalidValue)
		return
	}
	accept := func(t hal.Enum) bool { return isUnsignedType(t) || isBoolType(t) }
	d.upload(location, components, count, accept, func(i int) uint32 {
		return value[i]
	})
}

func (d *Device) UniformMatrixfv(location int32, columns, rows, count int32, transpose bool, value []float32) {
	width := columns * rows
	if int32(len(value)) < width*count {
		d.setError(hal.InvalidValue)
		return
	}
	d.upload(location, width, count, isMatrixType, func(i int) uint32 {
		if transpose {
			m, e := i/int(width), i%int(width)
			c, r := e/int(rows), e%int(rows)
			return math.Float32bits(value[m*int(width)+r*int(columns)+c])
		}
		return math.Float32bits(value[i])
	})
}
