package term

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hexaflex/chip8/event"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []event.Key
		quit bool
	}{
		{"", nil, false},
		{"1qv", []event.Key{event.Key1, event.KeyQ, event.KeyV}, false},
		{"W ", []event.Key{event.KeyW, event.KeySpace}, false},
		{"\x1b", []event.Key{event.KeyEscape}, false},
		{"\x1bOP\x1bOS", []event.Key{event.KeyF1, event.KeyF4}, false},
		{"\x1b[15~\x1b[24~", []event.Key{event.KeyF5, event.KeyF12}, false},
		{"\x1b[11~", []event.Key{event.KeyF1}, false},
		{"\x1b[A2", []event.Key{event.Key2}, false},
		{"\x1b[99~", nil, false},
		{"a\x03", []event.Key{event.KeyA}, true},
		{"\x7f#", nil, false},
	}

	for _, tt := range tests {
		keys, quit := decodeKeys([]byte(tt.in))
		if !reflect.DeepEqual(keys, tt.want) || quit != tt.quit {
			t.Fatalf("%q: have %v/%v, want %v/%v", tt.in, keys, quit, tt.want, tt.quit)
		}
	}
}

func TestRender(t *testing.T) {
	d := New(DefaultConfig())
	d.fb.SetPixel(0, 0, true)
	d.fb.SetPixel(1, 1, true)
	d.fb.SetPixel(2, 0, true)
	d.fb.SetPixel(2, 1, true)

	var buf bytes.Buffer
	if err := render(&buf, d.fb, 4, true); err != nil {
		t.Fatalf("render failure: %v", err)
	}

	out := strings.TrimPrefix(buf.String(), "\x1b[H")
	lines := strings.Split(out, "\r\n")
	if len(lines) != 33 {
		t.Fatalf("have %d lines, want 33", len(lines))
	}
	if lines[0] != "▀▄█ " {
		t.Fatalf("have first line %q", lines[0])
	}
	if lines[1] != "    " {
		t.Fatalf("have second line %q", lines[1])
	}
	if lines[32] != "PAUSED\x1b[K" {
		t.Fatalf("have status line %q", lines[32])
	}
}

type recorder struct {
	events []event.Event
}

func (r *recorder) send(e event.Event) {
	r.events = append(r.events, e)
}

func TestScreenEvents(t *testing.T) {
	var buf bytes.Buffer
	d := New(DefaultConfig())
	d.out = &buf

	d.handle(event.Screen{Op: event.Update})
	if buf.Len() != 0 {
		t.Fatalf("rendered a clean screen")
	}

	d.handle(event.Screen{Op: event.DrawPixel, X: 0, Y: 0, Lit: true})
	d.handle(event.Screen{Op: event.Update})
	if !strings.HasPrefix(buf.String(), "\x1b[H▀") {
		t.Fatalf("have %q", buf.String())
	}

	buf.Reset()
	d.handle(event.Screen{Op: event.Update})
	if buf.Len() != 0 {
		t.Fatalf("rendered twice without changes")
	}

	d.handle(event.Pause{Paused: true})
	d.handle(event.Screen{Op: event.Update})
	if !strings.Contains(buf.String(), "PAUSED") {
		t.Fatalf("pause not shown")
	}
}

func TestKeyHold(t *testing.T) {
	var rec recorder
	d := New(Config{KeyHold: 100 * time.Millisecond})
	d.send = rec.send

	start := time.Now()
	d.keys([]byte("w"), start)
	d.keys([]byte("w"), start.Add(50*time.Millisecond))
	d.release(start.Add(120 * time.Millisecond))

	want := []event.Event{event.Input{Op: event.KeyDown, Key: event.KeyW}}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("have %v, want %v", rec.events, want)
	}

	d.release(start.Add(151 * time.Millisecond))
	want = append(want, event.Input{Op: event.KeyUp, Key: event.KeyW})
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("have %v, want %v", rec.events, want)
	}

	d.keys([]byte{ctrlC}, start)
	if rec.events[len(rec.events)-1] != (event.Terminate{}) {
		t.Fatalf("ctrl-c did not terminate")
	}
}
