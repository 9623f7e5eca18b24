// Package display implements the monochrome display on top of OpenGL.
// It mirrors the emulator's framebuffer from screen events and draws it
// as a single scaled texture.
package display

import (
	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/event"
	"github.com/hexaflex/chip8/screen"
)

// Window is the surface the display presents to.
type Window interface {
	SwapBuffers()
	ToggleFullscreen()
}

// Colors used by the display, as RGBA.
var (
	Foreground = [4]float32{0.85, 0.85, 0.80, 1}
	Background = [4]float32{0.08, 0.08, 0.10, 1}
	Overlay    = [4]float32{0.10, 0.10, 0.35, 1}
)

// Device defines all internal doodads for the display.
type Device struct {
	window      Window
	events      <-chan event.Event
	fb          *screen.Framebuffer
	pixels      [screen.Width * screen.Height]byte
	paused      bool
	dirty       bool // Texture needs an upload.
	present     bool // A frame should be drawn.
	shader      uint32
	vao         uint32
	vbo         uint32
	tex         uint32
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device presenting to the given window.
func New(window Window) *Device {
	return &Device{
		window: window,
		fb:     screen.New(nil),
	}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Builtin, 0x0002)
}

func (d *Device) Interests() []event.Pattern {
	return []event.Pattern{
		event.Of(event.ScreenKind),
		event.Of(event.PauseKind),
		event.Of(event.AppKind),
	}
}

// Startup initializes device resources.
// It must be called from the thread owning the GL context.
func (d *Device) Startup(_ devices.SendFunc, events <-chan event.Event) error {
	var err error

	d.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(d.shader)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("foreground")), 1, &Foreground[0])
	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("background")), 1, &Background[0])
	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("overlay")), 1, &Overlay[0])

	d.tex = makeTexture()
	d.events = events
	d.dirty = true
	d.present = true
	d.initialized = true
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if !d.initialized {
		return nil
	}

	d.initialized = false
	gl.DeleteTextures(1, &d.tex)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.shader)
	return nil
}

// Update handles pending events and presents a frame when one was
// requested. It must be called from the thread owning the GL context.
func (d *Device) Update() {
	if !d.initialized {
		return
	}

drain:
	for {
		select {
		case ev, ok := <-d.events:
			if !ok {
				d.events = nil
				break drain
			}
			d.handle(ev)
		default:
			break drain
		}
	}

	if d.present {
		d.present = false
		d.draw()
		d.window.SwapBuffers()
	}
}

func (d *Device) handle(ev event.Event) {
	switch ev := ev.(type) {
	case event.Screen:
		switch ev.Op {
		case event.Update:
			d.present = true
		case event.ToggleFullscreen:
			d.window.ToggleFullscreen()
			d.present = true
		default:
			if ev.Apply(d.fb) {
				d.dirty = true
			}
		}

	case event.Pause:
		d.paused = ev.Paused
		d.present = true

	case event.App:
		if ev.Op == event.WindowSizeChange && d.initialized {
			gl.Viewport(0, 0, int32(ev.Width), int32(ev.Height))
		}
		d.present = true
	}
}

// fill converts the framebuffer into texture data.
func fill(dst []byte, fb *screen.Framebuffer) {
	for y := 0; y < screen.Height; y++ {
		for x := 0; x < screen.Width; x++ {
			var v byte
			if fb.Pixel(x, y) {
				v = 0xff
			}
			dst[y*screen.Width+x] = v
		}
	}
}

// draw renders the display contents.
func (d *Device) draw() {
	if d.dirty {
		fill(d.pixels[:], d.fb)
		uploadTexture(d.tex, screen.Width, screen.Height, d.pixels[:])
		d.dirty = false
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(d.shader)

	gl.Uniform2f(gl.GetUniformLocation(d.shader, glStr("scroll")),
		float32(d.fb.ScrollSide())/screen.Width,
		float32(d.fb.ScrollDown())/screen.Height)

	var paused float32
	if d.paused {
		paused = 1
	}
	gl.Uniform1f(gl.GetUniformLocation(d.shader, glStr("paused")), paused)

	gl.BindVertexArray(d.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
