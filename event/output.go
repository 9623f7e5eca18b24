package event

import "github.com/hexaflex/chip8/screen"

// InterpreterOp identifies an interpreter command variant.
type InterpreterOp int

// Known interpreter commands.
const (
	SetPixel InterpreterOp = iota
	RedrawAll
	QuickSave
	QuickLoad
	Save
	Load
)

// Interpreter is a command for the emulator.
//
// SetPixel carries a screen pixel coordinate and the desired state.
// Save and Load carry an optional file path.
type Interpreter struct {
	Op   InterpreterOp
	X, Y int
	Lit  bool
	Path string
}

func (e Interpreter) Pattern() Pattern { return Pattern{Kind: InterpreterKind, Variant: int(e.Op)} }

// ScreenOp identifies a screen event variant.
type ScreenOp int

// Known screen operations.
const (
	Clear ScreenOp = iota
	Update
	ToggleFullscreen
	Redraw
	DrawPixel
	ScrollDown
	ScrollSide
)

// Screen is a drawing instruction for the renderer.
//
// DrawPixel carries a screen pixel coordinate and its new state.
// ScrollDown and ScrollSide carry the scroll delta in Amount.
// Redraw carries every lit pixel, with X and Y holding the accumulated
// horizontal and vertical scroll offsets.
type Screen struct {
	Op     ScreenOp
	X, Y   int
	Lit    bool
	Amount int
	Pixels []screen.Point
}

func (e Screen) Pattern() Pattern { return Pattern{Kind: ScreenKind, Variant: int(e.Op)} }

// Apply mirrors the effect of e on fb. Returns true if the displayed
// image may have changed.
func (e Screen) Apply(fb *screen.Framebuffer) bool {
	switch e.Op {
	case Clear:
		fb.Clear()
	case Redraw:
		fb.Restore(e.Pixels)
		fb.SetScroll(e.Y, e.X)
	case DrawPixel:
		return fb.SetPixel(e.X, e.Y, e.Lit)
	case ScrollDown:
		fb.AddScroll(e.Amount, 0)
	case ScrollSide:
		fb.AddScroll(0, e.Amount)
	default:
		return false
	}
	return true
}

// Audio turns the buzzer on or off.
type Audio struct {
	Buzz bool
}

func (Audio) Pattern() Pattern { return Pattern{Kind: AudioKind} }

// AppOp identifies an application event variant.
type AppOp int

// Known application events.
const (
	WindowSizeChange AppOp = iota
	SetFocus
)

// App describes a change to the host window.
type App struct {
	Op            AppOp
	Width, Height int
	Focused       bool
}

func (e App) Pattern() Pattern { return Pattern{Kind: AppKind, Variant: int(e.Op)} }
