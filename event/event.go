// Package event defines the messages exchanged between the emulator,
// the router and the hardware facing devices.
//
// Every event has a Pattern made up of its Kind and, for kinds with
// sub-operations, a Variant. Subscriptions are expressed as patterns
// which may use AnyKind or AnyVariant as wildcards. Payloads never take
// part in matching.
package event

import "math"

// Kind identifies the category of an event.
type Kind int

// Known event kinds.
const (
	AnyKind Kind = iota
	TerminateKind
	PauseKind
	SpeedKind
	CheatModeKind
	RestartKind
	NewProgramKind
	InputKind
	InterpreterKind
	ScreenKind
	AudioKind
	AppKind
)

func (k Kind) String() string {
	switch k {
	case AnyKind:
		return "any"
	case TerminateKind:
		return "terminate"
	case PauseKind:
		return "pause"
	case SpeedKind:
		return "speed"
	case CheatModeKind:
		return "cheat-mode"
	case RestartKind:
		return "restart"
	case NewProgramKind:
		return "new-program"
	case InputKind:
		return "input"
	case InterpreterKind:
		return "interpreter"
	case ScreenKind:
		return "screen"
	case AudioKind:
		return "audio"
	case AppKind:
		return "app"
	}
	return "unknown"
}

// AnyVariant matches every variant of a kind.
const AnyVariant = -1

// Pattern describes an event's kind and variant.
type Pattern struct {
	Kind    Kind
	Variant int
}

// Any returns the pattern matching every event.
func Any() Pattern {
	return Pattern{Kind: AnyKind, Variant: AnyVariant}
}

// Of returns a pattern matching every event of the given kind.
func Of(k Kind) Pattern {
	return Pattern{Kind: k, Variant: AnyVariant}
}

// Match returns true if a and b describe the same event category.
// Either side may be a wildcard.
func Match(a, b Pattern) bool {
	if a.Kind == AnyKind || b.Kind == AnyKind {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	return a.Variant == AnyVariant || b.Variant == AnyVariant || a.Variant == b.Variant
}

// MatchAny returns true if p matches at least one of the given patterns.
func MatchAny(p Pattern, set []Pattern) bool {
	for _, q := range set {
		if Match(p, q) {
			return true
		}
	}
	return false
}

// Event is implemented by every message type.
type Event interface {
	Pattern() Pattern
}

// Terminate requests that the emulator stops.
type Terminate struct{}

func (Terminate) Pattern() Pattern { return Pattern{Kind: TerminateKind} }

// Pause pauses or resumes emulation.
type Pause struct {
	Paused bool
}

func (Pause) Pattern() Pattern { return Pattern{Kind: PauseKind} }

// SetSpeed sets the emulation speed to step^Exponent for a configured
// step size.
type SetSpeed struct {
	Exponent int8
}

func (SetSpeed) Pattern() Pattern { return Pattern{Kind: SpeedKind} }

// Factor returns the speed multiplier for the given step size.
func (e SetSpeed) Factor(step float64) float64 {
	return math.Pow(step, float64(e.Exponent))
}

// SetCheatMode toggles whether mouse input edits pixels directly.
type SetCheatMode struct {
	Enabled bool
}

func (SetCheatMode) Pattern() Pattern { return Pattern{Kind: CheatModeKind} }

// Restart requests that the current program is restarted.
type Restart struct{}

func (Restart) Pattern() Pattern { return Pattern{Kind: RestartKind} }

// NewProgram requests that the next program is loaded.
type NewProgram struct{}

func (NewProgram) Pattern() Pattern { return Pattern{Kind: NewProgramKind} }
