// Package buzzer implements the sound device: a single square wave tone
// which is switched on and off by the sound timer.
package buzzer

import (
	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/event"
)

// Config defines the tone.
type Config struct {
	SampleRate int     // Output sample rate in Hz.
	Frequency  float64 // Tone frequency at normal speed, in Hz.
	Volume     float64 // Amplitude in the range [0, 1].
	SpeedStep  float64 // Multiplier applied per speed exponent step.
}

// DefaultConfig returns the default buzzer configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Frequency:  440,
		Volume:     0.25,
		SpeedStep:  1.2,
	}
}

// Device plays the tone while the buzzer is on. The pitch follows the
// emulation speed.
type Device struct {
	config  Config
	wave    *wave
	context *oto.Context
	player  *oto.Player
	endPoll chan struct{}
	done    chan struct{}
}

var _ devices.Device = &Device{}

// New creates a new device.
func New(config Config) *Device {
	d := &Device{
		config: config,
		wave:   newWave(config.Volume),
	}
	d.wave.setFrequency(config.Frequency, config.SampleRate)
	return d
}

func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Builtin, 0x0006)
}

func (d *Device) Interests() []event.Pattern {
	return []event.Pattern{
		event.Of(event.AudioKind),
		event.Of(event.SpeedKind),
	}
}

// Startup opens the audio output and starts playback of the (silent)
// wave.
func (d *Device) Startup(_ devices.SendFunc, events <-chan event.Event) error {
	if d.context == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   d.config.SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to open audio output")
		}
		<-ready
		d.context = ctx
	}

	d.player = d.context.NewPlayer(d.wave)
	d.player.Play()

	d.endPoll = make(chan struct{})
	d.done = make(chan struct{})
	go d.poll(events)
	return nil
}

// Shutdown stops playback. The audio context stays open since it can
// only be created once per process.
func (d *Device) Shutdown() error {
	if d.endPoll == nil {
		return nil
	}

	close(d.endPoll)
	<-d.done
	d.endPoll = nil

	d.wave.on.Store(false)
	err := d.player.Close()
	d.player = nil
	return errors.Wrapf(err, "failed to close audio player")
}

func (d *Device) poll(events <-chan event.Event) {
	defer close(d.done)

	for {
		select {
		case <-d.endPoll:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handle(ev)
		}
	}
}

func (d *Device) handle(ev event.Event) {
	switch ev := ev.(type) {
	case event.Audio:
		d.wave.on.Store(ev.Buzz)
	case event.SetSpeed:
		d.wave.setFrequency(d.config.Frequency*ev.Factor(d.config.SpeedStep), d.config.SampleRate)
	}
}
