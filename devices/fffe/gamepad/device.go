// Package gamepad maps a connected gamepad onto the hex keypad.
package gamepad

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/chip8/cpu"
	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/event"
)

// buttonCount is the number of gamepad buttons known to GLFW.
const buttonCount = glfw.ButtonLast + 1

// Keys sent for each button. Directions map onto the 2/4/6/8 cross
// most programs use for movement.
var buttons = map[glfw.GamepadButton]event.Key{
	glfw.ButtonDpadUp:      cpu.HostKey(0x2),
	glfw.ButtonDpadLeft:    cpu.HostKey(0x4),
	glfw.ButtonDpadRight:   cpu.HostKey(0x6),
	glfw.ButtonDpadDown:    cpu.HostKey(0x8),
	glfw.ButtonA:           cpu.HostKey(0x5),
	glfw.ButtonB:           cpu.HostKey(0x0),
	glfw.ButtonX:           cpu.HostKey(0x7),
	glfw.ButtonY:           cpu.HostKey(0x9),
	glfw.ButtonLeftBumper:  cpu.HostKey(0x1),
	glfw.ButtonRightBumper: cpu.HostKey(0x3),
	glfw.ButtonStart:       event.KeyEscape,
}

// Device defines all internal doodads for the gamepad.
type Device struct {
	send        devices.SendFunc
	joy         glfw.Joystick
	pressed     [buttonCount]bool
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	return &Device{
		send: func(event.Event) { /* nop */ },
	}
}

// Update polls the gamepad and reports button changes.
// It must be called from the main thread.
func (d *Device) Update() {
	if !d.initialized {
		return
	}

	state := d.joy.GetGamepadState()
	if state == nil {
		return
	}

	var pressed [buttonCount]bool
	for btn, action := range state.Buttons {
		pressed[btn] = action == glfw.Press
	}

	d.apply(pressed)
}

// apply sends a key event for every button whose state changed.
func (d *Device) apply(pressed [buttonCount]bool) {
	for btn, down := range pressed {
		if down == d.pressed[btn] {
			continue
		}

		d.pressed[btn] = down

		key, ok := buttons[glfw.GamepadButton(btn)]
		if !ok {
			continue
		}

		if down {
			d.send(event.Input{Op: event.KeyDown, Key: key})
		} else {
			d.send(event.Input{Op: event.KeyUp, Key: key})
		}
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Builtin, 0x0003)
}

func (d *Device) Interests() []event.Pattern {
	return nil
}

// Startup initializes device resources.
// It detects any connected gamepad.
func (d *Device) Startup(send devices.SendFunc, _ <-chan event.Event) error {
	d.send = send
	glfw.SetJoystickCallback(d.configure)

	// Check if we have a connected gamepad.
	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			d.configure(joy, glfw.Connected)
			break
		}
	}

	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	glfw.SetJoystickCallback(nil)
	d.release()
	return nil
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (d *Device) configure(joy glfw.Joystick, ev glfw.PeripheralEvent) {
	d.initialized = ev == glfw.Connected && joy.IsGamepad()
	d.joy = joy

	if d.initialized {
		log.Println(d.ID(), "gamepad connected:", joy.GetGamepadName())
	} else {
		log.Println(d.ID(), "gamepad disconnected")
	}

	d.release()
}

// release lets go of every held button.
func (d *Device) release() {
	d.apply([buttonCount]bool{})
}
