// Package term implements a display and keyboard on a text terminal,
// for use without a window system.
//
// Terminals report key presses but no releases. A key counts as held
// until no repeat of it has arrived for Config.KeyHold.
package term

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/event"
	"github.com/hexaflex/chip8/screen"
)

// Config defines the terminal streams and key timing.
type Config struct {
	In      *os.File
	Out     *os.File
	KeyHold time.Duration
}

// DefaultConfig returns a configuration for the process' standard streams.
func DefaultConfig() Config {
	return Config{
		In:      os.Stdin,
		Out:     os.Stdout,
		KeyHold: 150 * time.Millisecond,
	}
}

// Device defines all internal doodads for the terminal.
type Device struct {
	config   Config
	out      io.Writer
	send     devices.SendFunc
	fb       *screen.Framebuffer
	held     map[event.Key]time.Time // Release deadline for each held key.
	paused   bool
	dirty    bool
	oldState *term.State
	input    chan []byte
	endPoll  chan struct{}
	done     chan struct{}
}

var _ devices.Device = &Device{}

// New creates a new device.
func New(config Config) *Device {
	if config.KeyHold <= 0 {
		config.KeyHold = DefaultConfig().KeyHold
	}

	return &Device{
		config: config,
		out:    config.Out,
		send:   func(event.Event) { /* nop */ },
		fb:     screen.New(nil),
		held:   make(map[event.Key]time.Time),
	}
}

func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Builtin, 0x0007)
}

func (d *Device) Interests() []event.Pattern {
	return []event.Pattern{
		event.Of(event.ScreenKind),
		event.Of(event.PauseKind),
	}
}

// Startup puts the terminal into raw mode and starts reading keys.
func (d *Device) Startup(send devices.SendFunc, events <-chan event.Event) error {
	fd := int(d.config.In.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrapf(err, "failed to set raw mode")
		}
		d.oldState = state
	} else {
		log.Println(d.ID(), "warning: input is not a terminal")
	}

	if _, err := io.WriteString(d.out, "\x1b[2J\x1b[?25l"); err != nil {
		d.restore()
		return errors.Wrapf(err, "failed to clear terminal")
	}

	d.send = send
	d.input = make(chan []byte, 16)
	d.endPoll = make(chan struct{})
	d.done = make(chan struct{})

	go d.read()
	go d.poll(events)
	return nil
}

// Shutdown restores the terminal. The reader goroutine stays blocked on
// input until the process exits.
func (d *Device) Shutdown() error {
	if d.endPoll == nil {
		return nil
	}

	close(d.endPoll)
	<-d.done
	d.endPoll = nil

	_, err := io.WriteString(d.out, "\x1b[?25h\r\n")
	d.restore()
	return errors.Wrapf(err, "failed to reset terminal")
}

func (d *Device) restore() {
	if d.oldState != nil {
		term.Restore(int(d.config.In.Fd()), d.oldState)
		d.oldState = nil
	}
}

// read forwards raw input to the poll loop.
func (d *Device) read() {
	buf := make([]byte, 64)

	for {
		n, err := d.config.In.Read(buf)
		if n > 0 {
			p := append([]byte(nil), buf[:n]...)
			select {
			case d.input <- p:
			case <-d.endPoll:
				return
			}
		}

		if err != nil {
			return
		}
	}
}

func (d *Device) poll(events <-chan event.Event) {
	defer close(d.done)

	ticker := time.NewTicker(d.config.KeyHold / 4)
	defer ticker.Stop()

	for {
		select {
		case <-d.endPoll:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handle(ev)
		case p := <-d.input:
			d.keys(p, time.Now())
		case now := <-ticker.C:
			d.release(now)
		}
	}
}

func (d *Device) handle(ev event.Event) {
	switch ev := ev.(type) {
	case event.Pause:
		d.paused = ev.Paused
		d.dirty = true

	case event.Screen:
		if ev.Op != event.Update {
			d.dirty = ev.Apply(d.fb) || d.dirty
			return
		}

		if !d.dirty {
			return
		}

		if err := render(d.out, d.fb, d.columns(), d.paused); err != nil {
			log.Println(d.ID(), "warning:", err)
		}
		d.dirty = false
	}
}

// columns returns the terminal width, or 0 if it is unknown.
func (d *Device) columns() int {
	f, ok := d.out.(*os.File)
	if !ok {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (d *Device) keys(p []byte, now time.Time) {
	keys, quit := decodeKeys(p)
	if quit {
		d.send(event.Terminate{})
	}

	for _, k := range keys {
		if _, ok := d.held[k]; !ok {
			d.send(event.Input{Op: event.KeyDown, Key: k})
		}
		d.held[k] = now.Add(d.config.KeyHold)
	}
}

func (d *Device) release(now time.Time) {
	for k, deadline := range d.held {
		if now.After(deadline) {
			delete(d.held, k)
			d.send(event.Input{Op: event.KeyUp, Key: k})
		}
	}
}
