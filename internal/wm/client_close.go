// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_close.go
// Summary: Close and destroy, per spec §4.3 "Close" and §3's destruction
// invariant.

package wm

import "texwm/internal/wmlog"

// Protocols records which WM_PROTOCOLS a client advertises. It is set only
// through SetProtocols; nothing in this package reads WM_PROTOCOLS, so a
// client for which SetProtocols was never called advertises neither.
type Protocols struct {
	DeleteWindow bool
	TakeFocus    bool
}

// SupportsDeleteWindow reports whether the client advertises
// WM_DELETE_WINDOW, read from the cached Protocols set by SetProtocols.
func (c *Client) SupportsDeleteWindow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.protocols.DeleteWindow
}

// Close asks the client to close: sends WM_DELETE_WINDOW if supported,
// otherwise issues KillClient. Support is known only from SetProtocols;
// without it Close always issues KillClient. Either way, destruction
// happens later via DestroyNotify or UnmapNotify — Close never removes
// the client itself.
func (c *Client) Close() {
	c.mu.Lock()
	win := c.window
	supportsDelete := c.protocols.DeleteWindow
	c.mu.Unlock()

	if supportsDelete {
		_ = c.conn.SendClientMessage(win, "WM_PROTOCOLS", 32, [5]uint32{atomPlaceholder("WM_DELETE_WINDOW"), 0, 0, 0, 0})
		wmlog.WithWindow(uint32(win)).Debug("client: sent WM_DELETE_WINDOW")
		return
	}
	c.conn.KillClient(win)
	wmlog.WithWindow(uint32(win)).Info("client: killed (no WM_DELETE_WINDOW)")
}

// Destroy tears the client down per spec §3's destruction invariant:
// delete every context-map entry, destroy buttons, extended frame, and
// frame in that order, reparenting the client window back to the root
// first if it still exists.
func (c *Client) Destroy(clientStillExists bool) {
	c.mu.Lock()
	win, frame, ext, hasExt, buttons := c.window, c.frame, c.extendedFrame, c.hasExtended, c.buttons
	c.mu.Unlock()

	c.ctx.Delete(uint32(win))
	c.ctx.Delete(uint32(frame))
	for _, b := range buttons {
		c.ctx.Delete(uint32(b))
	}
	if hasExt {
		c.ctx.Delete(uint32(ext))
	}

	if clientStillExists {
		c.conn.ReparentWindow(win, c.conn.Root(), 0, 0)
	}

	for _, b := range buttons {
		c.conn.DestroyWindow(b)
	}
	if hasExt {
		c.conn.DestroyWindow(ext)
	}
	c.conn.DestroyWindow(frame)

	wmlog.WithWindow(uint32(win)).Info("client: destroyed")
}
