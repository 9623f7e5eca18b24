package router

import (
	"log"
	"math"

	"github.com/hexaflex/chip8/event"
)

// Logger reports state changes worth telling the user about.
type Logger struct {
	out  *log.Logger
	step float64
}

var _ Policy = &Logger{}

// NewLogger creates a logger policy writing to out.
// The standard logger is used if out is nil.
func NewLogger(config Config, out *log.Logger) *Logger {
	if out == nil {
		out = log.Default()
	}
	return &Logger{out: out, step: config.SpeedStep}
}

func (p *Logger) Interests() []event.Pattern {
	return []event.Pattern{event.Any()}
}

func (p *Logger) Update(e event.Event) event.Event {
	switch e := e.(type) {
	case event.Pause:
		if e.Paused {
			p.out.Println("Paused emulation.")
		} else {
			p.out.Println("Un-paused emulation.")
		}
	case event.SetCheatMode:
		if e.Enabled {
			p.out.Println("warning: cheat mode enabled; mouse clicks edit the screen")
		} else {
			p.out.Println("warning: cheat mode disabled")
		}
	case event.SetSpeed:
		p.out.Printf("Changed speed to %d%%", int(math.Round(e.Factor(p.step)*100)))
	}
	return nil
}
