package gamepad

import (
	"reflect"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/chip8/event"
)

type recorder struct {
	events []event.Event
}

func (r *recorder) send(e event.Event) {
	r.events = append(r.events, e)
}

func TestApply(t *testing.T) {
	var rec recorder
	d := New()
	d.send = rec.send

	var state [buttonCount]bool
	state[glfw.ButtonDpadUp] = true
	state[glfw.ButtonA] = true
	state[glfw.ButtonBack] = true
	d.apply(state)

	want := []event.Event{
		event.Input{Op: event.KeyDown, Key: event.KeyW},
		event.Input{Op: event.KeyDown, Key: event.Key2},
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("have %v, want %v", rec.events, want)
	}

	rec.events = nil
	d.apply(state)
	if len(rec.events) != 0 {
		t.Fatalf("unchanged state sent %v", rec.events)
	}

	d.release()
	want = []event.Event{
		event.Input{Op: event.KeyUp, Key: event.KeyW},
		event.Input{Op: event.KeyUp, Key: event.Key2},
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("have %v, want %v", rec.events, want)
	}
}
