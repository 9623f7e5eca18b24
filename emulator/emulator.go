// Package emulator drives a CPU in real time. It paces instruction
// execution, advances the timers once per frame and services the
// commands arriving from the router.
package emulator

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/hexaflex/chip8/cpu"
	"github.com/hexaflex/chip8/event"
)

// End describes why Run returned.
type End int

// Known run outcomes.
const (
	Quit End = iota
	Restart
	NewProgram
)

func (e End) String() string {
	switch e {
	case Quit:
		return "quit"
	case Restart:
		return "restart"
	case NewProgram:
		return "new program"
	}
	return "unknown"
}

// Interests returns the event patterns the emulator consumes.
func Interests() []event.Pattern {
	return []event.Pattern{
		event.Of(event.TerminateKind),
		event.Of(event.PauseKind),
		event.Of(event.SpeedKind),
		event.Of(event.RestartKind),
		event.Of(event.NewProgramKind),
		event.Of(event.InterpreterKind),
		event.Of(event.InputKind),
	}
}

// Emulator owns a CPU and runs it against a command stream.
type Emulator struct {
	config   Config
	cpu      *cpu.CPU
	saves    *Saves
	send     func(event.Event)
	commands <-chan event.Event
	pressed  map[event.Key]bool
	keys     cpu.Keypad
	speed    float64
	paused   bool
	counter  uint64
}

// New creates an emulator. Events produced by the CPU and the emulator
// go to send. Commands are read from the commands channel.
func New(config Config, send func(event.Event), commands <-chan event.Event, trace cpu.TraceFunc) *Emulator {
	if send == nil {
		send = func(event.Event) { /* nop */ }
	}

	return &Emulator{
		config:   config,
		cpu:      cpu.New(cpu.EmitFunc(send), trace),
		saves:    NewSaves(config.SavesDir),
		send:     send,
		commands: commands,
		pressed:  make(map[event.Key]bool),
		speed:    1,
	}
}

// CPU returns the emulated CPU. It must not be used while Run is active.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// Load resets the CPU and loads the given program at cpu.ProgramAddress.
func (e *Emulator) Load(program []byte) error {
	e.cpu.Reset()
	e.counter = 0

	if err := e.cpu.LoadMemory(program, cpu.ProgramAddress); err != nil {
		return err
	}

	e.cpu.RedrawAll()
	return nil
}

// Run executes the loaded program until a command ends it, the command
// channel is closed or ctx is done. An error is returned only for fatal
// CPU faults.
func (e *Emulator) Run(ctx context.Context) (End, error) {
	e.paused = false
	e.send(event.Pause{Paused: false})

	last := time.Now()

	for {
		if e.paused {
			select {
			case <-ctx.Done():
				return Quit, nil
			case ev, ok := <-e.commands:
				if !ok {
					return Quit, nil
				}
				if end, done := e.handle(ev); done {
					return end, nil
				}
			}
			last = time.Now()
			continue
		}

		if end, done := e.poll(ctx); done {
			return end, nil
		}

		if e.paused {
			continue
		}

		budget := e.cycleBudget()
		for time.Since(last) < budget {
			// Spin for precise pacing.
		}
		last = time.Now()

		if err := e.step(); err != nil {
			return Quit, err
		}
	}
}

// poll handles all pending commands without blocking.
func (e *Emulator) poll(ctx context.Context) (End, bool) {
	for {
		select {
		case <-ctx.Done():
			return Quit, true
		case ev, ok := <-e.commands:
			if !ok {
				return Quit, true
			}
			if end, done := e.handle(ev); done {
				return end, true
			}
		default:
			return 0, false
		}
	}
}

// cycleBudget returns the time allotted to a single instruction.
func (e *Emulator) cycleBudget() time.Duration {
	rate := float64(e.config.FPS*e.config.OpcodesPerFrame) * e.speed
	if rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / rate)
}

// step runs a single cycle. Timers advance at the start of each frame.
func (e *Emulator) step() error {
	opf := uint64(e.config.OpcodesPerFrame)
	if opf == 0 || e.counter%opf == 0 {
		e.cpu.NextFrame()
	}
	e.counter++

	err := e.cpu.Step(e.keys)
	if err == io.EOF {
		return nil
	}
	return err
}

// handle applies a single command. It returns true if Run should return
// with the given outcome.
func (e *Emulator) handle(ev event.Event) (End, bool) {
	switch ev := ev.(type) {
	case event.Terminate:
		return Quit, true
	case event.Restart:
		return Restart, true
	case event.NewProgram:
		return NewProgram, true
	case event.Pause:
		e.paused = ev.Paused
	case event.SetSpeed:
		e.speed = ev.Factor(e.config.SpeedStep)
	case event.Input:
		e.input(ev)
	case event.Interpreter:
		e.interpret(ev)
	}
	return 0, false
}

func (e *Emulator) input(ev event.Input) {
	switch ev.Op {
	case event.KeyDown:
		e.pressed[ev.Key] = true
	case event.KeyUp:
		delete(e.pressed, ev.Key)
	case event.ClearKeys:
		e.pressed = make(map[event.Key]bool)
	default:
		return
	}

	e.keys = cpu.KeypadFromKeys(e.pressed)
}

func (e *Emulator) interpret(ev event.Interpreter) {
	switch ev.Op {
	case event.SetPixel:
		if !e.cpu.SetPixel(ev.X, ev.Y, ev.Lit) {
			log.Printf("warning: pixel %d,%d is off screen", ev.X, ev.Y)
		}

	case event.RedrawAll:
		e.cpu.RedrawAll()

	case event.QuickSave:
		e.save(e.saves.QuickPath())

	case event.QuickLoad:
		path, err := e.saves.Latest()
		if err != nil {
			log.Println("warning:", err)
			return
		}
		e.load(path)

	case event.Save:
		e.save(e.pathOrDefault(ev.Path))

	case event.Load:
		e.load(e.pathOrDefault(ev.Path))
	}
}

func (e *Emulator) pathOrDefault(path string) string {
	if path == "" {
		return e.saves.DefaultPath()
	}
	return path
}

func (e *Emulator) save(path string) {
	if err := e.saves.Write(path, e.cpu); err != nil {
		log.Println("warning:", err)
		return
	}
	log.Println("Saved state to", path)
}

// load restores the snapshot at path. The emulator is paused afterwards
// so the user can get their bearings.
func (e *Emulator) load(path string) {
	if err := e.saves.Read(path, e.cpu); err != nil {
		log.Println("warning:", err)
		return
	}

	log.Println("Loaded state from", path)
	e.cpu.RedrawAll()
	e.paused = true
	e.send(event.Pause{Paused: true})
}
