// Package vsync implements the frame clock. It requests a presentation
// of the display at a fixed rate.
package vsync

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/event"
)

// Device defines all internal doodads for the frame clock.
type Device struct {
	fps     int              // Frames per second.
	send    devices.SendFunc // Event handler.
	endPoll chan struct{}    // poll exit signaller.
	done    chan struct{}    // closed when poll returns.
}

var _ devices.Device = &Device{}

// New creates a clock ticking fps times per second.
func New(fps int) *Device {
	return &Device{fps: fps}
}

func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Builtin, 0x0005)
}

func (d *Device) Interests() []event.Pattern {
	return nil
}

func (d *Device) Startup(send devices.SendFunc, _ <-chan event.Event) error {
	if d.fps <= 0 {
		return errors.Errorf("invalid frame rate %d", d.fps)
	}

	d.send = send
	d.endPoll = make(chan struct{})
	d.done = make(chan struct{})
	go d.poll()
	return nil
}

func (d *Device) Shutdown() error {
	if d.endPoll == nil {
		return nil
	}

	close(d.endPoll)
	<-d.done
	d.endPoll = nil
	return nil
}

// poll emits a screen update on every tick.
func (d *Device) poll() {
	defer close(d.done)

	timer := time.NewTicker(time.Second / time.Duration(d.fps))
	defer timer.Stop()

	for {
		select {
		case <-d.endPoll:
			return
		case <-timer.C:
			d.send(event.Screen{Op: event.Update})
		}
	}
}
