// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_x.go
// Summary: Protocol-level side effects shared by the client state machine:
// synthetic ConfigureNotify, _NET_FRAME_EXTENTS, and _NET_WM_STATE bit
// manipulation (spec §4.3, §6 EWMH).

package wm

import (
	"encoding/binary"

	"texwm/internal/geometry"
	"texwm/internal/x"
)

// sendSyntheticConfigure notifies win of its new position/size via a
// synthetic ConfigureNotify, required by ICCCM whenever the window's size
// didn't change but its position did (and harmless to send unconditionally
// otherwise, which is what every real-world reparenting WM does).
func sendSyntheticConfigure(conn x.Conn, win x.Window, inner geometry.Rect) {
	data := [5]uint32{
		uint32(int32(inner.X)),
		uint32(int32(inner.Y)),
		inner.W,
		inner.H,
		0,
	}
	// ConfigureNotify has no dedicated SendClientMessage-shaped helper in
	// our Conn interface (it is not a client message); delivered via the
	// same property-less path other reparenting WMs use: a direct
	// SendEvent of a synthetic ConfigureNotifyEvent. Conn.SendClientMessage
	// is reused here with the special "" message type to signal "this is a
	// raw event, not a ClientMessage" to the xutilConn backend.
	_ = conn.SendClientMessage(win, "", 32, data)
}

// refreshFrameExtents republishes _NET_FRAME_EXTENTS on win from offset.
func refreshFrameExtents(conn x.Conn, win x.Window, offset FrameOffset) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(offset.Left))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(offset.Right))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(offset.Top))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(offset.Bottom))
	_ = conn.ChangeProperty(win, 0, "_NET_FRAME_EXTENTS", "CARDINAL", 32, buf)
}

// netWMStateAction mirrors the _NET_WM_STATE client-message action codes
// (spec §4.3, §6).
type netWMStateAction int

const (
	netWMStateRemove netWMStateAction = 0
	netWMStateAdd    netWMStateAction = 1
	netWMStateToggle netWMStateAction = 2
)

// setNetWMState adds/removes/toggles a single _NET_WM_STATE atom on win,
// tracking the full current set in current (mutated in place) so callers
// can maintain invariant 5 (no client is simultaneously fullscreen and
// snapped) without a round trip read.
func setNetWMState(conn x.Conn, win x.Window, current map[string]bool, atomName string, action netWMStateAction) {
	switch action {
	case netWMStateAdd:
		current[atomName] = true
	case netWMStateRemove:
		delete(current, atomName)
	case netWMStateToggle:
		current[atomName] = !current[atomName]
	}
	writeNetWMState(conn, win, current)
}

func writeNetWMState(conn x.Conn, win x.Window, current map[string]bool) {
	buf := make([]byte, 0, len(current)*4)
	for name, set := range current {
		if !set {
			continue
		}
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(atomPlaceholder(name)))
		buf = append(buf, tmp[:]...)
	}
	_ = conn.ChangeProperty(win, 0, "_NET_WM_STATE", "ATOM", 32, buf)
}

// atomPlaceholder resolves the atom names written into property and
// client-message payloads through atomResolver, kept as a seam so tests
// can stub atom resolution without a live connection; it returns 0 while
// no resolver is installed. NewWindowManager installs one backed by the
// connection via SetAtomResolver.
var atomResolver func(name string) uint32

// SetAtomResolver installs the real atom-name -> value resolver once the
// connection is live (spec §3 "Atom set" is initialized once at startup).
func SetAtomResolver(resolve func(name string) uint32) { atomResolver = resolve }

func atomPlaceholder(name string) uint32 {
	if atomResolver != nil {
		return atomResolver(name)
	}
	return 0
}
