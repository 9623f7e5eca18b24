package router

import (
	"log"

	"github.com/hexaflex/chip8/event"
)

// Input translates host key and mouse input into emulator commands.
type Input struct {
	config Config
	paused bool
	speed  int8
	cheat  bool
	mouseX int
	mouseY int
}

var _ Policy = &Input{}

// NewInput creates a new input policy.
func NewInput(config Config) *Input {
	return &Input{config: config}
}

func (p *Input) Interests() []event.Pattern {
	return []event.Pattern{
		event.Of(event.PauseKind),
		event.Of(event.SpeedKind),
		event.Of(event.CheatModeKind),
		{Kind: event.InputKind, Variant: int(event.KeyDown)},
		{Kind: event.InputKind, Variant: int(event.MouseMove)},
		{Kind: event.InputKind, Variant: int(event.MouseButtonPress)},
	}
}

func (p *Input) Update(e event.Event) event.Event {
	switch e := e.(type) {
	case event.Pause:
		p.paused = e.Paused
	case event.SetSpeed:
		p.speed = e.Exponent
	case event.SetCheatMode:
		p.cheat = e.Enabled
	case event.Input:
		switch e.Op {
		case event.KeyDown:
			return p.keyDown(e.Key)
		case event.MouseMove:
			p.mouseX, p.mouseY = e.X, e.Y
		case event.MouseButtonPress:
			return p.mousePress(e.Button)
		}
	}
	return nil
}

func (p *Input) keyDown(k event.Key) event.Event {
	switch k {
	case event.KeyEscape:
		return event.Pause{Paused: !p.paused}
	case event.KeyF1:
		return event.SetSpeed{Exponent: 0}
	case event.KeyF2:
		if p.speed <= p.config.MinSpeed {
			log.Println("warning: reached minimum speed")
			return nil
		}
		return event.SetSpeed{Exponent: p.speed - 1}
	case event.KeyF3:
		if p.speed >= p.config.MaxSpeed {
			log.Println("warning: reached maximum speed")
			return nil
		}
		return event.SetSpeed{Exponent: p.speed + 1}
	case event.KeyF4:
		return event.SetCheatMode{Enabled: !p.cheat}
	case event.KeyF5:
		return event.Interpreter{Op: event.QuickSave}
	case event.KeyF6:
		return event.Restart{}
	case event.KeyF7:
		return event.NewProgram{}
	case event.KeyF8:
		return event.Interpreter{Op: event.QuickLoad}
	case event.KeyF9:
		return event.Interpreter{Op: event.Save}
	case event.KeyF10:
		return event.Interpreter{Op: event.Load}
	case event.KeyF11:
		return event.Screen{Op: event.ToggleFullscreen}
	}
	return nil
}

func (p *Input) mousePress(b event.Button) event.Event {
	if !p.cheat {
		return nil
	}

	switch b {
	case event.ButtonLeft:
		return event.Interpreter{Op: event.SetPixel, X: p.mouseX, Y: p.mouseY, Lit: true}
	case event.ButtonRight:
		return event.Interpreter{Op: event.SetPixel, X: p.mouseX, Y: p.mouseY, Lit: false}
	}
	return nil
}
