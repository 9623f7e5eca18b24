package router

import "github.com/hexaflex/chip8/event"

// App reacts to changes of the host window. The screen is redrawn when
// the window is resized or regains focus; losing focus pauses emulation.
type App struct{}

var _ Policy = App{}

// NewApp creates a new app policy.
func NewApp() App { return App{} }

func (App) Interests() []event.Pattern {
	return []event.Pattern{event.Of(event.AppKind)}
}

func (App) Update(e event.Event) event.Event {
	ae, ok := e.(event.App)
	if !ok {
		return nil
	}

	switch ae.Op {
	case event.WindowSizeChange:
		return event.Interpreter{Op: event.RedrawAll}
	case event.SetFocus:
		if ae.Focused {
			return event.Interpreter{Op: event.RedrawAll}
		}
		return event.Pause{Paused: true}
	}
	return nil
}
