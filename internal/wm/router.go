// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/router.go
// Summary: The event router: an X-event-number-indexed multiplexer
// distributing events and signals to sinks, per spec §4.6.
// Notes: Grounded on texel/dispatcher.go's Subscribe/Unsubscribe/Broadcast
// shape; extended with the mask-table rebuild-after-dispatch design and
// deferred-removal-during-signal-broadcast the spec requires, since the
// teacher's dispatcher supports neither (it is a flat, single-phase
// broadcast with no per-event-type filtering or insertion-order
// guarantee).

package wm

import (
	"sort"
	"sync"

	"texwm/internal/x"
)

// mutexedSink wraps a Sink whose methods must be called with an external
// mutex held — spec §4.6's "mutex-wrapped" storage shape, for sinks whose
// methods are also called from other goroutines. No sink in this module
// is wrapped in it; the notification server and session manager are not
// Sinks.
type mutexedSink struct {
	mu   *sync.Mutex
	sink Sink
}

func (m mutexedSink) Accept(ev x.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sink.Accept(ev)
}
func (m mutexedSink) Signal(s Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink.Signal(s)
}
func (m mutexedSink) Filter() []uint8 { return m.sink.Filter() }
func (m mutexedSink) ID() SinkID      { return m.sink.ID() }

// NewMutexedSink wraps sink so every call into it is serialized through mu,
// the third of the spec's three sink storage shapes.
func NewMutexedSink(sink Sink, mu *sync.Mutex) Sink {
	return mutexedSink{mu: mu, sink: sink}
}

// Router owns sinks and dispatches X events and signals to them.
//
// Dispatch order: within a single event, filtered sinks run in insertion
// order with the main sink always last (spec §5 "Ordering guarantees").
// Router.SetMainSink marks which sink gets that trailing slot regardless
// of when it was added.
type Router struct {
	mu       sync.Mutex
	sinks    []Sink
	mainSink SinkID
	hasMain  bool

	masks      map[uint8][]int // event number -> indices into sinks, dirty-rebuilt
	masksDirty bool

	pendingRemoval map[SinkID]bool
	inSignal       bool
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		masks:          make(map[uint8][]int),
		pendingRemoval: make(map[SinkID]bool),
		masksDirty:     true,
	}
}

// Add registers a sink. Safe to call from within a Signal handler; the
// new sink only participates starting with the next event, per spec §5.
func (r *Router) Add(s Sink) {
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.masksDirty = true
	r.mu.Unlock()
}

// SetMainSink designates the sink that must run last among those that
// accept a given event (spec §4.7's "ground-truth sink").
func (r *Router) SetMainSink(id SinkID) {
	r.mu.Lock()
	r.mainSink = id
	r.hasMain = true
	r.mu.Unlock()
}

// Remove marks a sink for removal. If called while a signal broadcast is
// in progress, removal is deferred until the broadcast completes so the
// sink slice is never mutated mid-iteration (spec §4.6, §5).
func (r *Router) Remove(id SinkID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inSignal {
		r.pendingRemoval[id] = true
		return
	}
	r.removeLocked(id)
}

func (r *Router) removeLocked(id SinkID) {
	for i, s := range r.sinks {
		if s.ID() == id {
			r.sinks = append(r.sinks[:i], r.sinks[i+1:]...)
			r.masksDirty = true
			return
		}
	}
}

// Update rebuilds the event-number -> sink-index mask table. Called after
// a dispatch round so a sink's Filter() (which may itself acquire a lock)
// is never evaluated while iterating the sink list for dispatch — the two
// phases spec §4.6 calls for.
func (r *Router) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.masksDirty {
		return
	}
	masks := make(map[uint8][]int)
	order := r.dispatchOrderLocked()
	for _, idx := range order {
		for _, num := range r.sinks[idx].Filter() {
			masks[num] = append(masks[num], idx)
		}
	}
	r.masks = masks
	r.masksDirty = false
}

// dispatchOrderLocked returns sink indices in insertion order, with the
// main sink (if registered) moved to the end.
func (r *Router) dispatchOrderLocked() []int {
	order := make([]int, 0, len(r.sinks))
	mainIdx := -1
	for i, s := range r.sinks {
		if r.hasMain && s.ID() == r.mainSink {
			mainIdx = i
			continue
		}
		order = append(order, i)
	}
	if mainIdx >= 0 {
		order = append(order, mainIdx)
	}
	return order
}

// Dispatch routes one X event to filtered sinks, stopping at the first
// that accepts it. Non-X events (Unknown, DBusEventNumber) broadcast to
// every sink instead.
func (r *Router) Dispatch(ev x.Event) {
	r.Update()

	r.mu.Lock()
	var indices []int
	if ev.Unknown != nil {
		indices = r.dispatchOrderLocked()
	} else {
		indices = append([]int(nil), r.masks[ev.Number]...)
	}
	sinks := make([]Sink, 0, len(indices))
	for _, idx := range indices {
		if idx < len(r.sinks) {
			sinks = append(sinks, r.sinks[idx])
		}
	}
	r.mu.Unlock()

	for _, s := range sinks {
		if s.Accept(ev) {
			break
		}
	}
}

// Broadcast delivers a signal to every sink, then applies any removals
// that signal handlers requested mid-broadcast.
func (r *Router) Broadcast(s Signal) {
	r.mu.Lock()
	r.inSignal = true
	sinks := append([]Sink(nil), r.sinks...)
	r.mu.Unlock()

	for _, sink := range sinks {
		sink.Signal(s)
	}

	r.mu.Lock()
	r.inSignal = false
	if len(r.pendingRemoval) > 0 {
		ids := make([]SinkID, 0, len(r.pendingRemoval))
		for id := range r.pendingRemoval {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			r.removeLocked(id)
		}
		r.pendingRemoval = make(map[SinkID]bool)
	}
	r.mu.Unlock()
}

// DrainSignals broadcasts every signal currently queued on bus, in order.
// The main loop calls this after every event, per spec §4.6/§5.
func (r *Router) DrainSignals(bus *SignalBus) {
	for _, s := range bus.Drain() {
		r.Broadcast(s)
	}
}
