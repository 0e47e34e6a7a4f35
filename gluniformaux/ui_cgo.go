//go:build !tinygo && cgo

package gluniformaux

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/glreact"
)

func ui(set *gluniform.Set, cfg UIConfig) error {
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()

	watch := stopwatch()
	fragSrc, err := FragmentSource(set, cfg)
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource + "\x00",
		Fragment: fragSrc,
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%w", fragSrc, err)
	}
	prog.Bind()
	log("compiled shader in", watch())

	// Quad covering the screen.
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	resUniform, err := prog.UniformLocation("gluResolution\x00")
	if err != nil {
		return err
	}
	// Variables unused by the shader are optimized out and have no location.
	var uniforms []uniformData
	for _, name := range set.Names() {
		v, _ := set.Lookup(name)
		loc, err := prog.UniformLocation(name + "\x00")
		if err != nil {
			log("skipping uniform", name+":", err)
			continue
		}
		uniforms = append(uniforms, uniformData{v: v, loc: loc})
	}

	sched := NewScheduler(set, SchedulerConfig{MaxCatchUp: cfg.MaxCatchUp})
	var pressed glreact.ButtonSet
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeySpace && action == glfw.Press {
			set.ResetAll()
			return
		}
		b, ok := ButtonForKey(rune(key))
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			set.ToggleAction(b)
			pressed = pressed.With(b)
		case glfw.Release:
			pressed = pressed.Without(b)
		}
	})

	ctx := cfg.Context
	previousTime := glfw.GetTime()
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		currentTime := glfw.GetTime()
		elapsed := time.Duration((currentTime - previousTime) * float64(time.Second))
		previousTime = currentTime
		sched.Advance(elapsed, pressed)

		width, height := window.GetSize()
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		prog.Bind()
		gl.Uniform2f(resUniform, float32(width), float32(height))
		for i := range uniforms {
			u := &uniforms[i]
			err = u.fill()
			if err != nil && !u.failed {
				log(err)
			}
			u.failed = err != nil
			upload(u)
		}
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// upload sends the values of u to its uniform. Matrices are uploaded
// transposed since variables store them in row-major order.
func upload(u *uniformData) {
	count := int32(u.v.Len())
	shape := u.v.Shape()
	switch u.v.Elem() {
	case gluniform.ElemInt:
		p := &u.i32[0]
		switch shape {
		case gluniform.ShapeScalar:
			gl.Uniform1iv(u.loc, count, p)
		case gluniform.ShapeVec2:
			gl.Uniform2iv(u.loc, count, p)
		case gluniform.ShapeVec3:
			gl.Uniform3iv(u.loc, count, p)
		case gluniform.ShapeVec4:
			gl.Uniform4iv(u.loc, count, p)
		}
		return
	case gluniform.ElemUint:
		p := &u.u32[0]
		switch shape {
		case gluniform.ShapeScalar:
			gl.Uniform1uiv(u.loc, count, p)
		case gluniform.ShapeVec2:
			gl.Uniform2uiv(u.loc, count, p)
		case gluniform.ShapeVec3:
			gl.Uniform3uiv(u.loc, count, p)
		case gluniform.ShapeVec4:
			gl.Uniform4uiv(u.loc, count, p)
		}
		return
	}
	p := &u.f32[0]
	switch shape {
	case gluniform.ShapeScalar:
		gl.Uniform1fv(u.loc, count, p)
	case gluniform.ShapeVec2:
		gl.Uniform2fv(u.loc, count, p)
	case gluniform.ShapeVec3:
		gl.Uniform3fv(u.loc, count, p)
	case gluniform.ShapeVec4:
		gl.Uniform4fv(u.loc, count, p)
	case gluniform.ShapeMat2:
		gl.UniformMatrix2fv(u.loc, count, true, p)
	case gluniform.ShapeMat3:
		gl.UniformMatrix3fv(u.loc, count, true, p)
	case gluniform.ShapeMat4:
		gl.UniformMatrix4fv(u.loc, count, true, p)
	case gluniform.ShapeMat2x3:
		gl.UniformMatrix2x3fv(u.loc, count, true, p)
	case gluniform.ShapeMat2x4:
		gl.UniformMatrix2x4fv(u.loc, count, true, p)
	case gluniform.ShapeMat3x2:
		gl.UniformMatrix3x2fv(u.loc, count, true, p)
	case gluniform.ShapeMat3x4:
		gl.UniformMatrix3x4fv(u.loc, count, true, p)
	case gluniform.ShapeMat4x2:
		gl.UniformMatrix4x2fv(u.loc, count, true, p)
	case gluniform.ShapeMat4x3:
		gl.UniformMatrix4x3fv(u.loc, count, true, p)
	}
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
