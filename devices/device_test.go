package devices

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/event"
)

type fakeDevice struct {
	id        ID
	interests []event.Pattern
	fail      bool
	send      SendFunc
	events    <-chan event.Event
	started   bool
	stopped   bool
}

func (d *fakeDevice) ID() ID                     { return d.id }
func (d *fakeDevice) Interests() []event.Pattern { return d.interests }

func (d *fakeDevice) Startup(send SendFunc, events <-chan event.Event) error {
	d.send = send
	d.events = events
	d.started = true
	if d.fail {
		return errors.New("startup failed")
	}
	return nil
}

func (d *fakeDevice) Shutdown() error {
	d.stopped = true
	if d.fail {
		return errors.New("shutdown failed")
	}
	return nil
}

type fakeBus struct {
	sent          []event.Event
	subscriptions [][]event.Pattern
}

func (b *fakeBus) Send(e event.Event) { b.sent = append(b.sent, e) }

func (b *fakeBus) Subscribe(p ...event.Pattern) <-chan event.Event {
	b.subscriptions = append(b.subscriptions, p)
	return make(chan event.Event)
}

func TestID(t *testing.T) {
	id := NewID(Builtin, 0x12345)
	if id.Manufacturer() != 0xfffe || id.Serial() != 0x2345 {
		t.Fatalf("have %04x/%04x, want fffe/2345", id.Manufacturer(), id.Serial())
	}
	if have := id.String(); have != "fffe:2345" {
		t.Fatalf("have %q, want %q", have, "fffe:2345")
	}
}

func TestConnect(t *testing.T) {
	var dm Map

	if !dm.Connect(&fakeDevice{id: NewID(Builtin, 1)}) {
		t.Fatalf("first connect failed")
	}
	if !dm.Connect(&fakeDevice{id: NewID(Builtin, 2)}) {
		t.Fatalf("second connect failed")
	}
	if dm.Connect(&fakeDevice{id: NewID(Builtin, 1)}) {
		t.Fatalf("duplicate connect succeeded")
	}

	if have := dm.Find(NewID(Builtin, 2)); have != 1 {
		t.Fatalf("have index %d, want 1", have)
	}
	if have := dm.Find(NewID(Builtin, 3)); have != -1 {
		t.Fatalf("have index %d, want -1", have)
	}
}

func TestStartup(t *testing.T) {
	listener := &fakeDevice{
		id:        NewID(Builtin, 1),
		interests: []event.Pattern{event.Of(event.AudioKind)},
	}
	sender := &fakeDevice{id: NewID(Builtin, 2)}

	dm := Map{listener, sender}
	bus := &fakeBus{}

	if err := dm.Startup(bus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !listener.started || !sender.started {
		t.Fatalf("devices not started")
	}
	if listener.events == nil || sender.events != nil {
		t.Fatalf("unexpected subscriptions")
	}

	want := [][]event.Pattern{{event.Of(event.AudioKind)}}
	if !reflect.DeepEqual(bus.subscriptions, want) {
		t.Fatalf("have %v, want %v", bus.subscriptions, want)
	}

	sender.send(event.Terminate{})
	if len(bus.sent) != 1 || bus.sent[0] != (event.Terminate{}) {
		t.Fatalf("have %v, want terminate", bus.sent)
	}
}

func TestStartupErrors(t *testing.T) {
	dm := Map{
		&fakeDevice{id: NewID(Builtin, 1), fail: true},
		&fakeDevice{id: NewID(Builtin, 2)},
		&fakeDevice{id: NewID(Builtin, 3), fail: true},
	}

	err := dm.Startup(&fakeBus{})
	set, ok := err.(ErrorSet)
	if !ok || set.Len() != 2 {
		t.Fatalf("have %v, want two errors", err)
	}

	lines := strings.Split(set.Error(), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "fffe:0001") || !strings.HasPrefix(lines[1], "fffe:0003") {
		t.Fatalf("have %q", set.Error())
	}

	for _, dev := range dm {
		if !dev.(*fakeDevice).started {
			t.Fatalf("%s not started", dev.ID())
		}
	}

	if err := dm.Shutdown(); err == nil {
		t.Fatalf("expected shutdown errors")
	}
	for _, dev := range dm {
		if !dev.(*fakeDevice).stopped {
			t.Fatalf("%s not stopped", dev.ID())
		}
	}
}
