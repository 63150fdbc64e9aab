// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_fullscreen.go
// Summary: Fullscreen entry/exit, per spec §4.3 "Fullscreen".

package wm

import "texwm/internal/geometry"

// SetFullscreen enters fullscreen: records the previous snap state,
// reparents the client directly to root, resizes to monitorRect, raises,
// focuses, and sets _NET_WM_STATE_FULLSCREEN. Buttons are implicitly
// disabled and the frame unmapped since input routes to the frame's
// children, which are no longer between the client and the root.
func (c *Client) SetFullscreen(monitorRect geometry.Rect) {
	c.mu.Lock()
	if c.isFullscreen {
		c.mu.Unlock()
		return
	}
	c.prevSnapBeforeFullscreen = c.snapState
	c.isFullscreen = true
	win, frame, ext, hasExt := c.window, c.frame, c.extendedFrame, c.hasExtended
	c.snapState = SnapNone // invariant 5: never simultaneously fullscreen and snapped
	c.mu.Unlock()

	c.conn.UnmapWindow(frame)
	if hasExt {
		c.conn.UnmapWindow(ext)
	}
	c.conn.ReparentWindow(win, c.conn.Root(), monitorRect.X, monitorRect.Y)
	c.conn.MoveResizeWindow(win, monitorRect)
	c.conn.RaiseWindow(win)
	c.conn.SetInputFocus(win)

	c.mu.Lock()
	c.clientGeometry = monitorRect
	c.mu.Unlock()

	c.setNetState("_NET_WM_STATE_FULLSCREEN", true)
}

// UpdateFullscreenGeometry re-fits an already-fullscreen client to
// monitorRect, for the monitor-hotplug/resolution-change path (spec
// §4.7); unlike SetFullscreen it never touches isFullscreen, snapState,
// or reparenting, and is a no-op for a client that isn't fullscreen.
func (c *Client) UpdateFullscreenGeometry(monitorRect geometry.Rect) {
	c.mu.Lock()
	if !c.isFullscreen {
		c.mu.Unlock()
		return
	}
	win := c.window
	c.mu.Unlock()

	c.conn.MoveResizeWindow(win, monitorRect)

	c.mu.Lock()
	c.clientGeometry = monitorRect
	c.mu.Unlock()
}

// ClearFullscreen exits fullscreen: reparents back into the frame, restores
// saved geometry (or the previous snap state's geometry — callers resolve
// that through Unsnap/re-snap since SplitManager owns current split
// positions), and re-focuses.
func (c *Client) ClearFullscreen() {
	c.mu.Lock()
	if !c.isFullscreen {
		c.mu.Unlock()
		return
	}
	c.isFullscreen = false
	win, frame := c.window, c.frame
	offset := c.layout.FrameOffset(c.monitor, c.frameKind)
	saved := c.savedGeometry
	c.mu.Unlock()

	inner := offset.Inverse(saved)
	c.conn.ReparentWindow(win, frame, offset.Left, offset.Top)
	c.conn.MoveResizeWindow(frame, saved)
	c.conn.MoveResizeWindow(win, geometry.NewRect(offset.Left, offset.Top, inner.W, inner.H))
	c.conn.MapWindow(frame)

	c.mu.Lock()
	c.frameGeometry = saved
	c.clientGeometry = inner
	c.mu.Unlock()

	c.setNetState("_NET_WM_STATE_FULLSCREEN", false)
	c.Focus(true)
}

// PreviousSnapState reports what the client's snap state was before it
// entered fullscreen, so the main handler can decide whether to re-snap
// or fall back to the floating saved geometry on exit.
func (c *Client) PreviousSnapState() SnapState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prevSnapBeforeFullscreen
}
