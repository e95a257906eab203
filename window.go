package ombra

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window owns the GLFW window and the OpenGL context the backend renders
// through. Everything graphics-related must stay on the thread that created
// it.
type Window struct {
	window *glfw.Window
	Width  int
	Height int
	Title  string
}

// NewWindow creates a window with a current OpenGL 4.1 core context. Zero
// sizes and an empty title get sensible defaults.
func NewWindow(width, height int, title string) (*Window, error) {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Ombra"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	return &Window{
		window: win,
		Width:  width,
		Height: height,
		Title:  title,
	}, nil
}

// Extent returns the framebuffer extent in physical pixels, which can differ
// from the window size on high-DPI displays.
func (w *Window) Extent() Extent2D {
	fbWidth, fbHeight := w.window.GetFramebufferSize()
	return NewExtent2D(uint32(fbWidth), uint32(fbHeight))
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

// SwapBuffers presents the default framebuffer and pumps window events.
func (w *Window) SwapBuffers() {
	w.window.SwapBuffers()
	glfw.PollEvents()
}

// Close destroys the window and shuts GLFW down.
func (w *Window) Close() {
	w.window.Destroy()
	glfw.Terminate()
}
