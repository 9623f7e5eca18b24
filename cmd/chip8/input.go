package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/chip8/event"
	"github.com/hexaflex/chip8/screen"
)

// hostKey translates a GLFW key.
func hostKey(key glfw.Key) event.Key {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9:
		return event.Key0 + event.Key(key-glfw.Key0)
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return event.KeyA + event.Key(key-glfw.KeyA)
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return event.KeyFromFunction(int(key-glfw.KeyF1) + 1)
	}

	switch key {
	case glfw.KeyEscape:
		return event.KeyEscape
	case glfw.KeySpace:
		return event.KeySpace
	case glfw.KeyEnter:
		return event.KeyEnter
	}
	return event.KeyUnknown
}

// hostButton translates a GLFW mouse button.
func hostButton(button glfw.MouseButton) (event.Button, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return event.ButtonLeft, true
	case glfw.MouseButtonRight:
		return event.ButtonRight, true
	case glfw.MouseButtonMiddle:
		return event.ButtonMiddle, true
	}
	return 0, false
}

// screenPoint converts a window coordinate into a screen pixel coordinate.
func screenPoint(x, y float64, width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return -1, -1
	}
	return int(x * screen.Width / float64(width)), int(y * screen.Height / float64(height))
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := hostKey(key)
	if k == event.KeyUnknown {
		return
	}

	switch action {
	case glfw.Press:
		a.router.Send(event.Input{Op: event.KeyDown, Key: k})
	case glfw.Release:
		a.router.Send(event.Input{Op: event.KeyUp, Key: k})
	}
}

func (a *App) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := hostButton(button)
	if !ok {
		return
	}

	switch action {
	case glfw.Press:
		a.router.Send(event.Input{Op: event.MouseButtonDown, Button: b})
		a.router.Send(event.Input{Op: event.MouseButtonPress, Button: b})
	case glfw.Release:
		a.router.Send(event.Input{Op: event.MouseButtonUp, Button: b})
	}
}

func (a *App) cursorPosCallback(w *glfw.Window, x, y float64) {
	width, height := w.GetSize()
	sx, sy := screenPoint(x, y, width, height)
	a.router.Send(event.Input{Op: event.MouseMove, X: sx, Y: sy})
}

func (a *App) focusCallback(_ *glfw.Window, focused bool) {
	if !focused {
		a.router.Send(event.Input{Op: event.ClearKeys})
		a.router.Send(event.Input{Op: event.ClearMouseButtons})
	}
	a.router.Send(event.App{Op: event.SetFocus, Focused: focused})
}

func (a *App) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	a.router.Send(event.App{Op: event.WindowSizeChange, Width: width, Height: height})
}
