// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"testing"

	"texwm/internal/x"
)

type recordingSink struct {
	BaseSink
	filter  []uint8
	accept  bool
	events  []x.Event
	signals []Signal
	order   *[]SinkID // shared call-order log, for ordering assertions
}

func newRecordingSink(filter []uint8, accept bool) *recordingSink {
	return &recordingSink{BaseSink: NewBaseSink(filter), filter: filter, accept: accept}
}

func (s *recordingSink) Accept(ev x.Event) bool {
	s.events = append(s.events, ev)
	if s.order != nil {
		*s.order = append(*s.order, s.ID())
	}
	return s.accept
}

func (s *recordingSink) Signal(sig Signal) {
	s.signals = append(s.signals, sig)
}

func TestDispatchStopsAtFirstAcceptingSink(t *testing.T) {
	r := NewRouter()
	first := newRecordingSink([]uint8{x.ButtonPressNumber}, true)
	second := newRecordingSink([]uint8{x.ButtonPressNumber}, true)
	r.Add(first)
	r.Add(second)

	r.Dispatch(x.Event{Number: x.ButtonPressNumber})

	if len(first.events) != 1 {
		t.Fatalf("first sink got %d events, want 1", len(first.events))
	}
	if len(second.events) != 0 {
		t.Fatalf("second sink got %d events, want 0 (first sink already accepted)", len(second.events))
	}
}

func TestDispatchIgnoresSinksWithoutMatchingFilter(t *testing.T) {
	r := NewRouter()
	keySink := newRecordingSink([]uint8{x.KeyPressNumber}, false)
	r.Add(keySink)

	r.Dispatch(x.Event{Number: x.ButtonPressNumber})

	if len(keySink.events) != 0 {
		t.Fatalf("sink filtered on KeyPress received a ButtonPress event")
	}
}

func TestMainSinkDispatchedLast(t *testing.T) {
	r := NewRouter()
	var order []SinkID
	main := newRecordingSink([]uint8{x.KeyPressNumber}, false)
	main.order = &order
	a := newRecordingSink([]uint8{x.KeyPressNumber}, false)
	a.order = &order
	// Main sink is added first but must still run last.
	r.Add(main)
	r.Add(a)
	r.SetMainSink(main.ID())

	r.Dispatch(x.Event{Number: x.KeyPressNumber})

	if len(order) != 2 || order[1] != main.ID() {
		t.Fatalf("dispatch order = %v, want the main sink (%d) last", order, main.ID())
	}
}

func TestBroadcastReachesEverySinkRegardlessOfFilter(t *testing.T) {
	r := NewRouter()
	noFilter := newRecordingSink(nil, false)
	r.Add(noFilter)

	r.Broadcast(ResizeSignal())

	if len(noFilter.signals) != 1 || noFilter.signals[0].Kind != SigResize {
		t.Fatalf("sink with empty filter did not receive the broadcast signal: %+v", noFilter.signals)
	}
}

func TestRemoveDuringSignalIsDeferredUntilBroadcastCompletes(t *testing.T) {
	r := NewRouter()
	self := newRecordingSink(nil, false)
	r.Add(self)

	removing := &removingSink{recordingSink: newRecordingSink(nil, false), router: r}
	r.Add(removing)

	r.Broadcast(QuitSignal())
	// The removal should have taken effect only after Broadcast returned.
	r.Dispatch(x.Event{Number: x.ButtonPressNumber})

	found := false
	r.mu.Lock()
	for _, s := range r.sinks {
		if s.ID() == removing.ID() {
			found = true
		}
	}
	r.mu.Unlock()
	if found {
		t.Fatalf("sink that requested removal mid-broadcast is still registered")
	}
}

type removingSink struct {
	*recordingSink
	router *Router
}

func (s *removingSink) Signal(sig Signal) {
	s.recordingSink.Signal(sig)
	s.router.Remove(s.ID())
}
