package cpu

import "github.com/hexaflex/chip8/event"

// Keypad holds the pressed state of the 16 hex keys.
type Keypad [16]bool

// Pressed returns true if hex key n is down.
// Values outside the keypad are never pressed.
func (k Keypad) Pressed(n int) bool {
	return n >= 0 && n < len(k) && k[n]
}

// Lowest returns the lowest pressed hex key.
// Returns false if no key is down.
func (k Keypad) Lowest() (int, bool) {
	for n, down := range k {
		if down {
			return n, true
		}
	}
	return 0, false
}

// layout maps hex keys onto the left hand side of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  =>  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var layout = [16]event.Key{
	0x0: event.KeyX,
	0x1: event.Key1,
	0x2: event.Key2,
	0x3: event.Key3,
	0x4: event.KeyQ,
	0x5: event.KeyW,
	0x6: event.KeyE,
	0x7: event.KeyA,
	0x8: event.KeyS,
	0x9: event.KeyD,
	0xa: event.KeyZ,
	0xb: event.KeyC,
	0xc: event.Key4,
	0xd: event.KeyR,
	0xe: event.KeyF,
	0xf: event.KeyV,
}

// HexKey returns the hex key mapped to the given host key.
// Returns false if the key is not part of the layout.
func HexKey(k event.Key) (int, bool) {
	for n, key := range layout {
		if key == k {
			return n, true
		}
	}
	return 0, false
}

// HostKey returns the host key mapped to hex key n.
func HostKey(n int) event.Key {
	if n < 0 || n >= len(layout) {
		return event.KeyUnknown
	}
	return layout[n]
}

// KeypadFromKeys builds a keypad snapshot from a set of pressed host keys.
func KeypadFromKeys(pressed map[event.Key]bool) Keypad {
	var k Keypad
	for key, down := range pressed {
		if n, ok := HexKey(key); ok && down {
			k[n] = true
		}
	}
	return k
}
