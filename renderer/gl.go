package renderer

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/bubble.vert
var vertexSource string

//go:embed shaders/bubble.frag
var fragmentSource string

// GL renders through an OpenGL 4.3 context owned by a glfw window.
//
// The pipeline draws into a framebuffer with no attachments; the fragment
// stage stores packed samples straight into the presentable texture bound
// as a write-only r32ui image. Present blits that texture to the default
// framebuffer and swaps with vsync disabled.
type GL struct {
	window *glfw.Window

	program       uint32
	windowUniform int32
	timeUniform   int32

	vao         uint32
	instanceVBO uint32
	instances   int32

	tex       uint32
	blitFBO   uint32
	renderFBO uint32

	clear         mgl32.Vec4
	width, height int

	regenerate bool
}

// NewGL creates the window, loads the API and builds the bubble pipeline.
// Must be called from the main OS thread.
func NewGL(title string, width, height int, clear mgl32.Vec4) (*GL, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Samples, 0)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("loading OpenGL: %w", err)
	}

	slog.Info("opengl context",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
	)

	g := &GL{window: window, clear: clear}

	g.program, err = buildProgram(vertexSource, fragmentSource)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	gl.UseProgram(g.program)
	g.windowUniform = gl.GetUniformLocation(g.program, gl.Str("window\x00"))
	g.timeUniform = gl.GetUniformLocation(g.program, gl.Str("T\x00"))

	g.initVertexState()

	gl.GenFramebuffers(1, &g.blitFBO)
	gl.GenFramebuffers(1, &g.renderFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.renderFBO)
	gl.Disable(gl.DITHER)

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyR && action == glfw.Press {
			g.regenerate = true
		}
	})

	return g, nil
}

// initVertexState sets up the instance attribute layout. The quad corners
// come from gl_VertexID, so the VAO carries only per-instance attributes.
func (g *GL) initVertexState() {
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.instanceVBO)

	stride := int32(floatsPerInstance * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.VertexAttribDivisor(0, 1)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.VertexAttribDivisor(1, 1)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.VertexAttribDivisor(2, 1)
}

// Upload replaces the instance buffer with a new bubble set.
func (g *GL) Upload(instances []Instance) {
	data := flattenInstances(instances)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.instanceVBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	g.instances = int32(len(instances))
}

// FramebufferSize reports the window's framebuffer dimensions in pixels.
func (g *GL) FramebufferSize() (int, int) {
	return g.window.GetFramebufferSize()
}

// Resize swaps the frame target for new output dimensions: the old
// presentable texture is released, a fresh one is allocated and bound both
// to the blit framebuffer and as the render pass's image unit, and the
// attachment-less render framebuffer takes on the new extent.
func (g *GL) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width, g.height = width, height

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Uniform2f(g.windowUniform, float32(width), float32(height))

	if g.tex != 0 {
		gl.DeleteTextures(1, &g.tex)
	}
	gl.GenTextures(1, &g.tex)
	gl.BindTexture(gl.TEXTURE_2D, g.tex)
	gl.TexStorage2D(gl.TEXTURE_2D, 1, gl.RGBA8, int32(width), int32(height))

	gl.BindFramebuffer(gl.FRAMEBUFFER, g.blitFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, g.tex, 0)
	gl.ClearColor(g.clear.X(), g.clear.Y(), g.clear.Z(), g.clear.W())
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BindFramebuffer(gl.FRAMEBUFFER, g.renderFBO)
	gl.DrawBuffers(0, nil)
	gl.FramebufferParameteri(gl.DRAW_FRAMEBUFFER, gl.FRAMEBUFFER_DEFAULT_WIDTH, int32(width))
	gl.FramebufferParameteri(gl.DRAW_FRAMEBUFFER, gl.FRAMEBUFFER_DEFAULT_HEIGHT, int32(height))
	gl.BindImageTexture(0, g.tex, 0, false, 0, gl.WRITE_ONLY, gl.R32UI)

	slog.Info("frame target resized", "width", width, "height", height)
}

// Draw issues the instanced draw for the whole bubble set at time t.
func (g *GL) Draw(t float32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.renderFBO)
	gl.Uniform1f(g.timeUniform, t)
	gl.BindVertexArray(g.vao)
	gl.DrawArraysInstanced(gl.TRIANGLE_STRIP, 0, 4, g.instances)
}

// Present blits the rendered image to the default framebuffer, swaps, and
// polls window events.
func (g *GL) Present() {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, g.blitFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(
		0, 0, int32(g.width), int32(g.height),
		0, 0, int32(g.width), int32(g.height),
		gl.COLOR_BUFFER_BIT, gl.NEAREST,
	)
	g.window.SwapBuffers()
	glfw.PollEvents()
}

// ShouldClose reports whether the window close was requested.
func (g *GL) ShouldClose() bool {
	return g.window.ShouldClose()
}

// ConsumeRegenerate reports whether a bubble regeneration was requested
// since the last call, clearing the request.
func (g *GL) ConsumeRegenerate() bool {
	requested := g.regenerate
	g.regenerate = false
	return requested
}

// Close releases GL objects and tears down the window.
func (g *GL) Close() {
	if g.tex != 0 {
		gl.DeleteTextures(1, &g.tex)
	}
	gl.DeleteFramebuffers(1, &g.blitFBO)
	gl.DeleteFramebuffers(1, &g.renderFBO)
	gl.DeleteBuffers(1, &g.instanceVBO)
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteProgram(g.program)
	g.window.Destroy()
	glfw.Terminate()
}
