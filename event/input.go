package event

import "strconv"

// InputOp identifies an input event variant.
type InputOp int

// Known input operations.
const (
	KeyDown InputOp = iota
	KeyPress
	KeyUp
	ClearKeys
	MouseButtonDown
	MouseButtonPress
	MouseButtonUp
	ClearMouseButtons
	MouseMove
)

// Input describes a keyboard or mouse transition.
// X and Y are screen pixel coordinates for MouseMove.
type Input struct {
	Op     InputOp
	Key    Key
	Button Button
	X, Y   int
}

func (e Input) Pattern() Pattern { return Pattern{Kind: InputKind, Variant: int(e.Op)} }

// Button identifies a mouse button.
type Button int

// Known mouse buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key identifies a host key, independent of the windowing toolkit.
type Key int

// Known keys.
const (
	KeyUnknown Key = iota
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEscape
	KeySpace
	KeyEnter
)

// KeyFromRune returns the key for the given digit or letter.
// Returns KeyUnknown for anything else.
func KeyFromRune(r rune) Key {
	switch {
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0')
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A')
	case r == ' ':
		return KeySpace
	case r == '\r' || r == '\n':
		return KeyEnter
	case r == 0x1b:
		return KeyEscape
	}
	return KeyUnknown
}

// KeyFromFunction returns the key for function key Fn.
// Returns KeyUnknown if n is not in the range [1, 12].
func KeyFromFunction(n int) Key {
	if n < 1 || n > 12 {
		return KeyUnknown
	}
	return KeyF1 + Key(n-1)
}

func (k Key) String() string {
	switch {
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	switch k {
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyEnter:
		return "Enter"
	}
	return "Unknown"
}
