// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_focus.go
// Summary: Focus, urgency, and minimize/unminimize, per spec §4.3 (close
// lives in client_close.go).

package wm

// BorderColorSetter is the narrow interface the (out-of-scope) drawing
// backend exposes for repainting a client's border when its focus or
// urgency state changes.
type BorderColorSetter interface {
	SetBorderColor(frame uint32, colorTag string)
}

var borderPainter BorderColorSetter

// SetBorderPainter installs the drawing-backend seam; nil is valid (tests
// run with no painter and simply skip repaints).
func SetBorderPainter(p BorderColorSetter) { borderPainter = p }

// Focus focuses the client: clears urgency, raises and recolors its
// border unless fullscreen, sets X input focus, sends WM_TAKE_FOCUS, and
// marks it focused. raiseIt controls whether the frame is raised —
// callers restoring focus after an internal operation (e.g. clearing
// fullscreen) still want this true; WindowManager.FocusClient passes its
// own raiseIt argument through.
func (c *Client) Focus(raiseIt bool) {
	c.mu.Lock()
	c.isUrgent = false
	wasFullscreen := c.isFullscreen
	win, frame := c.window, c.frame
	c.isFocused = true
	c.borderColor = "focused"
	c.mu.Unlock()

	if !wasFullscreen {
		if raiseIt {
			c.conn.RaiseWindow(frame)
		}
		if borderPainter != nil {
			borderPainter.SetBorderColor(uint32(frame), "focused")
		}
	}
	c.conn.SetInputFocus(win)
	_ = c.conn.SendClientMessage(win, "WM_PROTOCOLS", 32, [5]uint32{atomPlaceholder("WM_TAKE_FOCUS"), 0, 0, 0, 0})

	if c.bus != nil {
		c.bus.Send(FocusClientSignal(win))
	}
}

// Unfocus clears the focused bit and repaints the border unfocused. It
// does not change X input focus — the caller is expected to be focusing
// a different client in the same breath.
func (c *Client) Unfocus() {
	c.mu.Lock()
	c.isFocused = false
	c.borderColor = "unfocused"
	frame := c.frame
	c.mu.Unlock()
	if borderPainter != nil {
		borderPainter.SetBorderColor(uint32(frame), "unfocused")
	}
}

// SetUrgent sets or clears the urgency bit. Per spec invariant 6, callers
// must never set urgent=true on the focused client of the active
// workspace; WindowManager enforces that at the call site, not here, so
// this stays a pure state setter other code paths (WM_HINTS changes) can
// call directly.
func (c *Client) SetUrgent(urgent bool) {
	c.mu.Lock()
	if c.isUrgent == urgent {
		c.mu.Unlock()
		return
	}
	c.isUrgent = urgent
	frame := c.frame
	win := c.window
	c.mu.Unlock()

	if borderPainter != nil {
		tag := "unfocused"
		if urgent {
			tag = "urgent"
		}
		borderPainter.SetBorderColor(uint32(frame), tag)
	}
	if c.bus != nil {
		c.bus.Send(UrgencyChangedSignal(win))
	}
}

// Minimize unmaps the client and frame, sets _NET_WM_STATE_HIDDEN, and
// emits ClientMinimized(true). The caller (workspace) is responsible for
// re-focusing the next client in LRU order.
func (c *Client) Minimize() {
	c.mu.Lock()
	if c.isMinimized {
		c.mu.Unlock()
		return
	}
	c.isMinimized = true
	win, frame := c.window, c.frame
	c.expectedUnmaps++
	c.mu.Unlock()

	c.conn.UnmapWindow(win)
	c.conn.UnmapWindow(frame)
	c.setNetState("_NET_WM_STATE_HIDDEN", true)

	if c.bus != nil {
		c.bus.Send(ClientMinimizedSignal(win, true))
	}
}

// Unminimize reverses Minimize: remaps, clears HIDDEN, emits
// ClientMinimized(false), and focuses the client.
func (c *Client) Unminimize() {
	c.mu.Lock()
	if !c.isMinimized {
		c.mu.Unlock()
		return
	}
	c.isMinimized = false
	win, frame := c.window, c.frame
	c.mu.Unlock()

	c.conn.MapWindow(frame)
	c.conn.MapWindow(win)
	c.setNetState("_NET_WM_STATE_HIDDEN", false)

	if c.bus != nil {
		c.bus.Send(ClientMinimizedSignal(win, false))
	}
	c.Focus(true)
}

// ExpectUnmap increments the counter of unmaps this client caused itself,
// so the main handler's UnmapNotify handling can distinguish an expected
// unmap (minimize, withdraw-before-destroy) from a client-driven close
// (spec §9 open question 3).
func (c *Client) ExpectUnmap() {
	c.mu.Lock()
	c.expectedUnmaps++
	c.mu.Unlock()
}

// ConsumeExpectedUnmap reports whether an UnmapNotify was expected, and if
// so decrements the counter and returns true (the event should be
// swallowed rather than treated as a close).
func (c *Client) ConsumeExpectedUnmap() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expectedUnmaps > 0 {
		c.expectedUnmaps--
		return true
	}
	return false
}
