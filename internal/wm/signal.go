// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/signal.go
// Summary: The internal broadcast bus decoupling subsystems, per spec §4.6.
// Notes: Grounded on the teacher's texel/dispatcher.go Listener/Broadcast
// shape, generalized from a single fixed StatePayload to the closed tagged
// union spec §4.6 names, and backed by a channel instead of a direct
// synchronous call so the main loop can drain it strictly after the event
// that produced it (spec §5 "Ordering guarantees").

package wm

import (
	"texwm/internal/geometry"
	"texwm/internal/x"
)

// SignalKind is the tag of the internal signal union.
type SignalKind int

const (
	SigNewClient SignalKind = iota
	SigClientRemoved
	SigFocusClient
	SigClientMinimized
	SigUrgencyChanged
	SigClientGeometry
	SigClientMonitorChanged
	SigClientWorkspaceChanged
	SigSnapStateChanged
	SigWorkspaceChanged
	SigActiveWorkspaceEmpty
	SigUpdateBar
	SigResize
	SigQuit
)

// Signal is the plain tagged union spec §4.6 specifies. Only the fields
// relevant to Kind are populated; it is a struct rather than an interface
// so zero-allocation sends are possible on the channel.
type Signal struct {
	Kind SignalKind

	Window  x.Window
	Bool    bool
	OldInt  int
	NewInt  int
	OldRect geometry.Rect
	NewRect geometry.Rect
	OldSnap SnapState
	NewSnap SnapState
}

// NewClientSignal builds a SigNewClient signal.
func NewClientSignal(w x.Window) Signal { return Signal{Kind: SigNewClient, Window: w} }

// ClientRemovedSignal builds a SigClientRemoved signal.
func ClientRemovedSignal(w x.Window) Signal { return Signal{Kind: SigClientRemoved, Window: w} }

// FocusClientSignal builds a SigFocusClient signal.
func FocusClientSignal(w x.Window) Signal { return Signal{Kind: SigFocusClient, Window: w} }

// ClientMinimizedSignal builds a SigClientMinimized signal.
func ClientMinimizedSignal(w x.Window, minimized bool) Signal {
	return Signal{Kind: SigClientMinimized, Window: w, Bool: minimized}
}

// ClientGeometrySignal builds a SigClientGeometry signal.
func ClientGeometrySignal(w x.Window, old, new_ geometry.Rect) Signal {
	return Signal{Kind: SigClientGeometry, Window: w, OldRect: old, NewRect: new_}
}

// UrgencyChangedSignal builds a SigUrgencyChanged signal.
func UrgencyChangedSignal(w x.Window) Signal { return Signal{Kind: SigUrgencyChanged, Window: w} }

// ClientMonitorChangedSignal builds a SigClientMonitorChanged signal.
func ClientMonitorChangedSignal(w x.Window, oldIdx, newIdx int) Signal {
	return Signal{Kind: SigClientMonitorChanged, Window: w, OldInt: oldIdx, NewInt: newIdx}
}

// ClientWorkspaceChangedSignal builds a SigClientWorkspaceChanged signal.
func ClientWorkspaceChangedSignal(w x.Window, oldWs, newWs int) Signal {
	return Signal{Kind: SigClientWorkspaceChanged, Window: w, OldInt: oldWs, NewInt: newWs}
}

// SnapStateChangedSignal builds a SigSnapStateChanged signal.
func SnapStateChangedSignal(w x.Window, old, new_ SnapState) Signal {
	return Signal{Kind: SigSnapStateChanged, Window: w, OldSnap: old, NewSnap: new_}
}

// WorkspaceChangedSignal builds a SigWorkspaceChanged signal.
func WorkspaceChangedSignal(old, new_ int) Signal {
	return Signal{Kind: SigWorkspaceChanged, OldInt: old, NewInt: new_}
}

// ActiveWorkspaceEmptySignal builds a SigActiveWorkspaceEmpty signal.
func ActiveWorkspaceEmptySignal(empty bool) Signal {
	return Signal{Kind: SigActiveWorkspaceEmpty, Bool: empty}
}

// UpdateBarSignal builds a SigUpdateBar signal.
func UpdateBarSignal(invalidate bool) Signal { return Signal{Kind: SigUpdateBar, Bool: invalidate} }

// ResizeSignal builds a SigResize signal.
func ResizeSignal() Signal { return Signal{Kind: SigResize} }

// QuitSignal builds a SigQuit signal.
func QuitSignal() Signal { return Signal{Kind: SigQuit} }

// SignalBus is the multi-producer channel signals are delivered through;
// the main loop drains it after every event (spec §4.6, §5).
type SignalBus struct {
	ch chan Signal
}

// NewSignalBus creates a bus with the given buffer size. A generous buffer
// avoids producers blocking mid-dispatch; the main loop is the sole
// consumer and drains it to empty every iteration.
func NewSignalBus(buffer int) *SignalBus {
	return &SignalBus{ch: make(chan Signal, buffer)}
}

// Send enqueues a signal. If the buffer is full (a sign of a stuck main
// loop) it blocks until there is room, applying backpressure rather than
// silently dropping a signal that other sinks' invariants depend on.
func (b *SignalBus) Send(s Signal) { b.ch <- s }

// Drain returns every signal currently queued, in order, without blocking.
func (b *SignalBus) Drain() []Signal {
	var out []Signal
	for {
		select {
		case s := <-b.ch:
			out = append(out, s)
		default:
			return out
		}
	}
}
