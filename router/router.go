// Package router implements the message bus connecting the emulator
// with its peripherals. Events sent to the router are delivered to every
// subscriber with a matching pattern and passed through a set of policies
// which may translate them into new events.
package router

import (
	"context"
	"sync"

	"github.com/hexaflex/chip8/event"
)

// Policy reacts to events on the router goroutine. Update is called for
// every event matching one of the policy's interests. A non-nil return
// value is routed as a new event after everything already pending.
type Policy interface {
	Interests() []event.Pattern
	Update(event.Event) event.Event
}

type subscriber struct {
	interests []event.Pattern
	box       *mailbox
}

// Router routes events between subscribers.
type Router struct {
	inbox    *queue
	policies []Policy
	m        sync.Mutex
	subs     []subscriber
	done     bool
}

// New creates a router with the standard input, app and logger policies.
func New(config Config) *Router {
	return NewWithPolicies(
		NewInput(config),
		NewApp(),
		NewLogger(config, nil),
	)
}

// NewWithPolicies creates a router with only the given policies.
func NewWithPolicies(policies ...Policy) *Router {
	return &Router{
		inbox:    newQueue(),
		policies: policies,
	}
}

// Subscribe returns a channel receiving every event matching at least
// one of the given patterns. The channel is closed when Run returns.
func (r *Router) Subscribe(patterns ...event.Pattern) <-chan event.Event {
	s := subscriber{
		interests: append([]event.Pattern(nil), patterns...),
		box:       newMailbox(),
	}

	r.m.Lock()
	defer r.m.Unlock()

	if r.done {
		s.box.close()
	} else {
		r.subs = append(r.subs, s)
	}

	return s.box.out
}

// Send queues e for routing. It never blocks and may be called from any
// goroutine. Events sent after Run has returned are dropped.
func (r *Router) Send(e event.Event) {
	if e != nil {
		r.inbox.put(e)
	}
}

// Run routes events until ctx is done. It then closes all subscriber
// channels.
func (r *Router) Run(ctx context.Context) {
	defer r.shutdown()

	var pending []event.Event

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.inbox.signal:
		}

		pending = append(pending, r.inbox.take()...)

		for len(pending) > 0 {
			e := pending[0]
			pending[0] = nil
			pending = pending[1:]

			if derived := r.dispatch(e); len(derived) > 0 {
				pending = append(pending, derived...)
			}
		}
	}
}

// dispatch delivers e to subscribers and policies. It returns any
// events derived by the policies.
func (r *Router) dispatch(e event.Event) []event.Event {
	p := e.Pattern()

	r.m.Lock()
	for _, s := range r.subs {
		if event.MatchAny(p, s.interests) {
			s.box.put(e)
		}
	}
	r.m.Unlock()

	var derived []event.Event
	for _, pol := range r.policies {
		if !event.MatchAny(p, pol.Interests()) {
			continue
		}
		if de := pol.Update(e); de != nil {
			derived = append(derived, de)
		}
	}

	return derived
}

func (r *Router) shutdown() {
	r.inbox.close()

	r.m.Lock()
	defer r.m.Unlock()

	r.done = true
	for _, s := range r.subs {
		s.box.close()
	}
	r.subs = nil
}
