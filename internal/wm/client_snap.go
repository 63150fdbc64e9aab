// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_snap.go
// Summary: The snap-state machine, per spec §4.3 "Snap state machine".

package wm

import "texwm/internal/geometry"

// SnapGeometry computes the frame rect for state within monitor window
// area a, per spec §4.8's split-geometry table. vertical/left/right are
// the current split handle positions for this (workspace, monitor), as
// offsets from a's origin (vertical along X, left/right along Y).
func SnapGeometry(state SnapState, a geometry.Rect, vertical, left, right int32, gap int32) geometry.Rect {
	switch state {
	case SnapLeft:
		return geometry.NewRect(a.X, a.Y, uint32(vertical), a.H)
	case SnapTopLeft:
		return geometry.NewRect(a.X, a.Y, uint32(vertical), uint32(left))
	case SnapBottomLeft:
		return geometry.NewRect(a.X, a.Y+left, uint32(vertical), a.H-uint32(left))
	case SnapRight:
		return geometry.NewRect(a.X+vertical, a.Y, a.W-uint32(vertical), a.H)
	case SnapTopRight:
		return geometry.NewRect(a.X+vertical, a.Y, a.W-uint32(vertical), uint32(right))
	case SnapBottomRight:
		return geometry.NewRect(a.X+vertical, a.Y+right, a.W-uint32(vertical), a.H-uint32(right))
	case SnapMaximized:
		return geometry.NewRect(a.X-gap, a.Y-gap, a.W+uint32(2*gap), a.H+uint32(2*gap))
	default:
		return a
	}
}

// mirrorToLeft/mirrorToRight map a side-snapped state to its opposite-side
// equivalent, preserving vertical half (top/bottom/full).
func mirrorToLeft(s SnapState) SnapState {
	switch s {
	case SnapRight:
		return SnapLeft
	case SnapTopRight:
		return SnapTopLeft
	case SnapBottomRight:
		return SnapBottomLeft
	default:
		return SnapLeft
	}
}

func mirrorToRight(s SnapState) SnapState {
	switch s {
	case SnapLeft:
		return SnapRight
	case SnapTopLeft:
		return SnapTopRight
	case SnapBottomLeft:
		return SnapBottomRight
	default:
		return SnapRight
	}
}

// SnapLeft transitions the client per spec's table: anything with a
// right-side bit mirrors to its left equivalent; anything else goes to
// the plain Left state.
func (c *Client) SnapLeft() { c.transitionSnap(mirrorToLeft) }

// SnapRight is the symmetric transition.
func (c *Client) SnapRight() { c.transitionSnap(mirrorToRight) }

// SnapUp transitions Left->TopLeft and Right->TopRight. From a bottom-half
// state it collapses to that side's full-height state (see transitionSnap);
// any other current state is left unchanged.
func (c *Client) SnapUp() {
	c.transitionSnap(func(s SnapState) SnapState {
		switch s {
		case SnapLeft, SnapTopLeft, SnapBottomLeft:
			return SnapTopLeft
		case SnapRight, SnapTopRight, SnapBottomRight:
			return SnapTopRight
		default:
			return s
		}
	})
}

// SnapDown is the symmetric transition to the bottom-half variants; from a
// top-half state it collapses to that side's full-height state.
func (c *Client) SnapDown() {
	c.transitionSnap(func(s SnapState) SnapState {
		switch s {
		case SnapLeft, SnapTopLeft, SnapBottomLeft:
			return SnapBottomLeft
		case SnapRight, SnapTopRight, SnapBottomRight:
			return SnapBottomRight
		default:
			return s
		}
	})
}

// ToggleMaximized implements spec's toggle_maximized: from Maximized,
// restores saved_geometry and returns to None; otherwise saves the
// current frame rect and enters Maximized.
func (c *Client) ToggleMaximized() {
	c.mu.Lock()
	old := c.snapState
	c.mu.Unlock()

	if old == SnapMaximized {
		c.restoreFromSnap(SnapNone)
		return
	}
	c.SaveGeometry()
	c.setSnapState(old, SnapMaximized)
}

// Unsnap returns the client to the floating state, restoring the geometry
// saved before it was snapped.
func (c *Client) Unsnap() { c.restoreFromSnap(SnapNone) }

// transitionSnap implements the shared structure of every directional
// snap action: compute the next state from the resolver, entering from
// None calls SaveGeometry first (spec: "Entering any snapped state from
// None first calls save_geometry()"); re-snapping to the same side's
// top/bottom variant from that same side's existing top/bottom variant
// clears the vertical bit, producing the plain full-height state (spec:
// "Any re-snap on same side ... clear vertical bit").
func (c *Client) transitionSnap(resolve func(SnapState) SnapState) {
	c.mu.Lock()
	old := c.snapState
	c.mu.Unlock()

	next := resolve(old)
	if sameSide(old, next) && old != SnapLeft && old != SnapRight && old != next {
		// Re-snapping within the same side's half variants collapses to
		// the full-height state per spec's vertical-bit-clearing rule.
		if old.IsLeftVariant() {
			next = SnapLeft
		} else {
			next = SnapRight
		}
	}

	if old == SnapNone {
		c.SaveGeometry()
	}
	c.setSnapState(old, next)
}

func sameSide(a, b SnapState) bool {
	return (a.IsLeftVariant() && b.IsLeftVariant()) || (a.IsRightVariant() && b.IsRightVariant())
}

// restoreFromSnap moves the client back to target (typically SnapNone),
// restoring saved_geometry, per spec's "Entering None from any snapped
// state restores saved_geometry."
func (c *Client) restoreFromSnap(target SnapState) {
	c.mu.Lock()
	old := c.snapState
	saved := c.savedGeometry
	c.mu.Unlock()

	c.setSnapState(old, target)
	c.MoveAndResize(AsFrame, saved)
}

// setSnapState commits the new state, updates _NET_WM_STATE_MAXIMIZED_*,
// and emits SnapStateChanged, per spec §4.3.
func (c *Client) setSnapState(old, new_ SnapState) {
	if old == new_ {
		return
	}
	c.mu.Lock()
	c.snapState = new_
	win := c.window
	c.mu.Unlock()

	maximized := new_ == SnapMaximized
	c.setNetState("_NET_WM_STATE_MAXIMIZED_HORZ", maximized)
	c.setNetState("_NET_WM_STATE_MAXIMIZED_VERT", maximized)

	if c.bus != nil {
		c.bus.Send(SnapStateChangedSignal(win, old, new_))
	}
}
