package glbuild

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gluniform"
)

const VersionStr = "#version 430\n"

// ShaderFunction is a GLSL function definition a fragment program may call.
type ShaderFunction struct {
	// Name of the GLSL function as it is called in shader source.
	Name string
	src  []byte
}

// MakeShaderFunction parses the name of a GLSL function from its definition.
func MakeShaderFunction(shaderDef []byte) (sf ShaderFunction, err error) {
	shaderDef = bytes.TrimSpace(shaderDef)
	fnNameEnd := bytes.IndexByte(shaderDef, '(')
	fnNameStart := bytes.IndexByte(shaderDef, ' ')
	if fnNameEnd < 0 || fnNameStart < 0 || fnNameStart > fnNameEnd {
		return ShaderFunction{}, errors.New("unable to parse function name")
	}
	name := bytes.TrimSpace(shaderDef[fnNameStart:fnNameEnd])
	if len(name) == 0 {
		return ShaderFunction{}, errors.New("empty function name")
	}
	return ShaderFunction{Name: string(name), src: shaderDef}, nil
}

// AppendSource appends the function definition to b.
func (sf ShaderFunction) AppendSource(b []byte) []byte {
	b = append(b, sf.src...)
	return append(b, '\n')
}

// Programmer writes GLSL declarations and programs for sets of variables.
type Programmer struct {
	scratch []byte
	header  []byte
	// names tracks written function names to skip duplicates.
	names map[string]struct{}
}

// NewDefaultProgrammer returns a Programmer with reasonable default parameters
// for use with glgl package on the local machine. Programs it writes are in the
// combined format read by glgl.ParseCombined.
func NewDefaultProgrammer() *Programmer {
	return NewProgrammer("#shader fragment\n" + VersionStr)
}

// NewProgrammer returns a Programmer that starts fragment programs with header,
// which must include the #version directive.
func NewProgrammer(header string) *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 1024),
		header:  []byte(header),
		names:   make(map[string]struct{}),
	}
}

// WriteUniforms writes a uniform declaration for every variable in set in name order.
// Array lengths are also defined as NAME_LEN macros.
func (p *Programmer) WriteUniforms(w io.Writer, set *gluniform.Set) (n int, err error) {
	p.scratch = p.scratch[:0]
	for _, name := range set.Names() {
		v, _ := set.Lookup(name)
		p.scratch, err = AppendUniformDecl(p.scratch, v)
		if err != nil {
			return 0, err
		}
		if v.IsArray() {
			p.scratch = AppendDefineDecl(p.scratch, name+"_LEN", strconv.Itoa(v.Len()))
		}
	}
	return w.Write(p.scratch)
}

// WriteConsts writes the current value of every readable variable in set as
// a const declaration. Variables that can not be read are skipped and their
// errors returned joined after writing.
func (p *Programmer) WriteConsts(w io.Writer, set *gluniform.Set) (int, error) {
	p.scratch = p.scratch[:0]
	var errs []error
	var err error
	for _, name := range set.Names() {
		v, _ := set.Lookup(name)
		start := len(p.scratch)
		p.scratch = append(p.scratch, "const "...)
		p.scratch, err = AppendValueDecl(p.scratch, v)
		if err != nil {
			p.scratch = p.scratch[:start]
			errs = append(errs, err)
		}
	}
	n, err := w.Write(p.scratch)
	if err != nil {
		return n, err
	}
	return n, errors.Join(errs...)
}

// WriteFragmentProgram writes a complete fragment shader: the version header,
// the uniform declarations of set, the helper functions and finally body,
// which is expected to define main.
func (p *Programmer) WriteFragmentProgram(w io.Writer, set *gluniform.Set, funcs []ShaderFunction, body []byte) (int, error) {
	n, err := w.Write(p.header)
	if err != nil {
		return n, err
	}
	ngot, err := p.WriteUniforms(w, set)
	n += ngot
	if err != nil {
		return n, err
	}
	clear(p.names)
	p.scratch = p.scratch[:0]
	for _, fn := range funcs {
		if _, dup := p.names[fn.Name]; dup {
			continue
		}
		p.names[fn.Name] = struct{}{}
		p.scratch = fn.AppendSource(p.scratch)
	}
	p.scratch = append(p.scratch, body...)
	ngot, err = w.Write(p.scratch)
	n += ngot
	return n, err
}

// AppendUniformDecl appends "uniform <type> <name>;" or its array form.
func AppendUniformDecl(b []byte, v *gluniform.Variable) ([]byte, error) {
	typename := v.GLSLType()
	if typename == "" {
		return b, fmt.Errorf("%s: no GLSL type", v.Name())
	}
	if err := ValidateName(v.Name()); err != nil {
		return b, err
	}
	b = append(b, "uniform "...)
	b = append(b, typename...)
	b = append(b, ' ')
	b = append(b, v.Name()...)
	if v.IsArray() {
		b = append(b, '[')
		b = strconv.AppendInt(b, int64(v.Len()), 10)
		b = append(b, ']')
	}
	b = append(b, ';', '\n')
	return b, nil
}

// AppendValueDecl appends a declaration of v initialized to its current value.
func AppendValueDecl(b []byte, v *gluniform.Variable) ([]byte, error) {
	typename := v.GLSLType()
	if err := ValidateName(v.Name()); err != nil {
		return b, err
	}
	shape := v.Shape()
	var vals []float64
	var err error
	if v.IsArray() {
		for i := 0; i < v.Len(); i++ {
			vals, err = v.Floats(vals, i)
			if err != nil {
				return b, err
			}
		}
		size := shape.Size()
		return AppendGenericSliceDecl(b, typename, v.Name(), v.Len(), func(b []byte, i int) []byte {
			return appendValue(b, typename, v.Elem(), shape, vals[i*size:(i+1)*size])
		}), nil
	}
	vals, err = v.Floats(vals, 0)
	if err != nil {
		return b, err
	}
	elem := v.Elem()
	switch {
	case elem == gluniform.ElemFloat && shape == gluniform.ShapeScalar:
		return AppendFloatDecl(b, v.Name(), float32(vals[0])), nil
	case elem == gluniform.ElemInt && shape == gluniform.ShapeScalar:
		return AppendIntDecl(b, v.Name(), int(vals[0])), nil
	case elem == gluniform.ElemFloat && shape == gluniform.ShapeVec2:
		return AppendVec2Decl(b, v.Name(), ms2.Vec{X: float32(vals[0]), Y: float32(vals[1])}), nil
	case elem == gluniform.ElemFloat && shape == gluniform.ShapeVec3:
		return AppendVec3Decl(b, v.Name(), ms3.Vec{X: float32(vals[0]), Y: float32(vals[1]), Z: float32(vals[2])}), nil
	}
	b = append(b, typename...)
	b = append(b, ' ')
	b = append(b, v.Name()...)
	b = append(b, '=')
	b = appendValue(b, typename, elem, shape, vals)
	b = append(b, ';', '\n')
	return b, nil
}

// appendValue appends a GLSL constructor for one shape worth of row-major values.
func appendValue(b []byte, typename string, elem gluniform.Elem, shape gluniform.Shape, vals []float64) []byte {
	if shape == gluniform.ShapeScalar {
		return appendElem(b, elem, vals[0])
	}
	b = append(b, typename...)
	b = append(b, '(')
	rows, cols := shape.Rows(), shape.Cols()
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			b = appendElem(b, elem, vals[i*cols+j]) // Column major, as per OpenGL standard.
			if i != rows-1 || j != cols-1 {
				b = append(b, ',')
			}
		}
	}
	return append(b, ')')
}

func appendElem(b []byte, elem gluniform.Elem, v float64) []byte {
	switch elem {
	case gluniform.ElemInt:
		return strconv.AppendInt(b, int64(v), 10)
	case gluniform.ElemUint:
		b = strconv.AppendUint(b, uint64(v), 10)
		return append(b, 'u')
	}
	return AppendFloat(b, '-', '.', float32(v))
}

// ValidateName checks name is usable as a GLSL identifier.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("empty GLSL identifier")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		letter := c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		digit := c >= '0' && c <= '9'
		if !letter && (i == 0 || !digit) {
			return fmt.Errorf("invalid character %q in GLSL identifier %q", c, name)
		}
	}
	if len(name) >= 3 && name[:3] == "gl_" {
		return fmt.Errorf("GLSL identifier %q uses reserved prefix gl_", name)
	}
	if _, reserved := reservedWords[name]; reserved {
		return fmt.Errorf("%q is a reserved GLSL word", name)
	}
	return nil
}

var reservedWords = map[string]struct{}{
	"attribute": {}, "const": {}, "uniform": {}, "varying": {}, "buffer": {}, "shared": {},
	"layout": {}, "centroid": {}, "flat": {}, "smooth": {}, "in": {}, "out": {}, "inout": {},
	"break": {}, "continue": {}, "do": {}, "for": {}, "while": {}, "switch": {}, "case": {},
	"default": {}, "if": {}, "else": {}, "discard": {}, "return": {}, "struct": {}, "void": {},
	"true": {}, "false": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},
	"vec2": {}, "vec3": {}, "vec4": {}, "ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {}, "mat2": {}, "mat3": {}, "mat4": {}, "main": {},
}

func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	b = append(b, ' ')
	b = append(b, aliasReplace...)
	b = append(b, '\n')
	return b
}

func AppendVec3Decl(b []byte, vec3Varname string, v ms3.Vec) []byte {
	b = append(b, "vec3 "...)
	b = append(b, vec3Varname...)
	b = append(b, "=vec3("...)
	arr := v.Array()
	b = AppendFloats(b, ',', '-', '.', arr[:]...)
	b = append(b, ')', ';', '\n')
	return b
}

func AppendVec2Decl(b []byte, vec2Varname string, v ms2.Vec) []byte {
	b = append(b, "vec2 "...)
	b = append(b, vec2Varname...)
	b = append(b, "=vec2("...)
	arr := v.Array()
	b = AppendFloats(b, ',', '-', '.', arr[:]...)
	b = append(b, ')', ';', '\n')
	return b
}

func AppendFloatDecl(b []byte, floatVarname string, v float32) []byte {
	b = append(b, "float "...)
	b = append(b, floatVarname...)
	b = append(b, '=')
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ';', '\n')
	return b
}

func AppendIntDecl(b []byte, intVarname string, v int) []byte {
	b = append(b, "int "...)
	b = append(b, intVarname...)
	b = append(b, '=')
	b = strconv.AppendInt(b, int64(v), 10)
	b = append(b, ';', '\n')
	return b
}

const decimalDigits = 9

func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Trim trailing zeroes but keep one decimal so the literal stays a float.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

const maxLineLim = 500

func AppendGenericSliceDecl(b []byte, typename, varname string, nelem int, appendElement func(b []byte, i int) []byte) []byte {
	lineStart := len(b)
	b = appendStartSliceDecl(b, typename, varname, nelem)
	for i := 0; i < nelem; i++ {
		last := i == nelem-1
		b = appendElement(b, i)
		if !last {
			b = append(b, ',')
			lineLen := len(b) - lineStart
			if lineLen > maxLineLim {
				b = append(b, '\n') // Break up very long arrays.
				lineStart = len(b)
			}
		}
	}
	b = append(b, ");\n"...)
	return b
}

func appendStartSliceDecl(b []byte, typeName, varName string, length int) []byte {
	l := int64(length)
	typeStart := len(b)
	b = append(b, typeName...)
	b = append(b, "["...)
	b = strconv.AppendInt(b, l, 10)
	b = append(b, ']')
	typeEnd := len(b)
	b = append(b, ' ')
	b = append(b, varName...)
	b = append(b, '=')
	b = append(b, b[typeStart:typeEnd]...) // Reuse typename appended earlier.
	b = append(b, '(')
	return b
}
