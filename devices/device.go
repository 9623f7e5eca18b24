// Package devices defines the peripherals attached to the emulator.
// Devices never touch the CPU directly; they exchange events with it
// through the router.
package devices

import (
	"log"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/event"
)

// SendFunc delivers an event to the router.
type SendFunc func(event.Event)

// Bus connects devices to the router.
type Bus interface {
	Send(event.Event)
	Subscribe(...event.Pattern) <-chan event.Event
}

// Device represents a peripheral device.
type Device interface {
	// ID yields the manufacturer and serial number for the device.
	ID() ID

	// Interests returns the event patterns the device wants to receive.
	Interests() []event.Pattern

	// Startup initializes internal resources.
	//
	// The device sends events through send. Events matching its
	// interests arrive on events, which is nil if it has none.
	Startup(send SendFunc, events <-chan event.Event) error

	// Shutdown cleans up internal resources.
	Shutdown() error
}

// Map contains a list of registered peripherals.
type Map []Device

// Connect adds the given device to the device map.
// Returns false if the device type is already present in the set.
func (dm *Map) Connect(dev Device) bool {
	if (*dm).Find(dev.ID()) > -1 {
		return false
	}

	*dm = append(*dm, dev)
	return true
}

// Startup subscribes every device to its events and initializes its
// internal resources.
func (dm Map) Startup(bus Bus) error {
	var errorset ErrorSet

	for _, dev := range dm {
		log.Println(dev.ID(), "startup")

		var events <-chan event.Event
		if p := dev.Interests(); len(p) > 0 {
			events = bus.Subscribe(p...)
		}

		if err := dev.Startup(bus.Send, events); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// Shutdown cleans up internal resources.
func (dm Map) Shutdown() error {
	var errorset ErrorSet

	for _, dev := range dm {
		log.Println(dev.ID(), "shutdown")
		if err := dev.Shutdown(); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// Find returns the index for the device with the given id.
// Returns -1 if it can't be found.
func (dm Map) Find(id ID) int {
	for i, dev := range dm {
		if dev.ID() == id {
			return i
		}
	}
	return -1
}
