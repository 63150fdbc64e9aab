// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/sink.go
// Summary: The Sink capability interface and SinkID, per spec §4.6 and
// §9 Polymorphism.
// Notes: Grounded on texel/dispatcher.go's Listener interface, extended
// with accept/filter/id since our dispatch is per-X-event-number rather
// than a single flat broadcast.

package wm

import "texwm/internal/x"

// SinkID is a process-unique identifier used for deferred removal
// (spec §4.6's signal_remove_event_sink).
type SinkID uint64

// Sink is the fixed capability set every event/signal subscriber
// implements: the bar, dock, split manager, notification server, dialogs,
// window switcher, and the main handler.
type Sink interface {
	// Accept processes an X event and returns true if it consumed it,
	// stopping further propagation to later sinks.
	Accept(ev x.Event) bool
	// Signal receives every broadcast internal signal; no return value.
	Signal(s Signal)
	// Filter lists the X event type numbers this sink cares about.
	Filter() []uint8
	// ID returns this sink's process-unique identifier.
	ID() SinkID
}

var nextSinkID SinkID

// NewSinkID allocates a fresh process-unique sink identifier.
func NewSinkID() SinkID {
	nextSinkID++
	return nextSinkID
}

// BaseSink is embeddable by concrete sinks to get ID() and a Filter()
// built from a fixed list for free.
type BaseSink struct {
	id      SinkID
	filter  []uint8
}

// NewBaseSink stores the sink's identity and event-number filter.
func NewBaseSink(filter []uint8) BaseSink {
	return BaseSink{id: NewSinkID(), filter: filter}
}

func (b BaseSink) ID() SinkID      { return b.id }
func (b BaseSink) Filter() []uint8 { return b.filter }
