// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_props.go
// Summary: Property change handlers, per spec §4.3 "Properties watched".

package wm

// FocusOrUrgent is the callback the main handler supplies for the
// _NET_WM_USER_TIME rule: focus the client if it is on the active
// workspace, otherwise mark it urgent.
type FocusOrUrgent func(c *Client)

// UpdateWMHints refreshes urgency from the client's WM_HINTS urgency bit.
// Real WM_HINTS parsing happens in the caller (it needs icccm.WmHintsGet
// and the live connection); this takes the already-decoded bit so the
// state machine stays protocol-agnostic and unit-testable.
func (c *Client) UpdateWMHints(urgentBit bool) {
	if c.IsFocused() {
		// Invariant 6: never urgent while focused on the active workspace.
		return
	}
	c.SetUrgent(urgentBit)
}

// UpdateTitle refreshes the cached title (from WM_NAME / _NET_WM_NAME) and
// reports whether it changed, so the caller knows whether to redraw the
// border/title area.
func (c *Client) UpdateTitle(title string) bool {
	c.mu.Lock()
	changed := c.title != title
	c.title = title
	c.mu.Unlock()
	return changed
}

// SetProtocols records which close/focus protocols the client advertises.
// The main handler reads neither WM_PROTOCOLS nor its changes, so nothing
// in this module calls it.
func (c *Client) SetProtocols(deleteWindow, takeFocus bool) {
	c.mu.Lock()
	c.protocols = Protocols{DeleteWindow: deleteWindow, TakeFocus: takeFocus}
	c.mu.Unlock()
}

// SetApplicationID records the WM_CLASS-derived application id used for
// dock matching and icon lookup.
func (c *Client) SetApplicationID(id string) {
	c.mu.Lock()
	c.applicationID = id
	c.mu.Unlock()
}

// ApplicationID returns the cached application id.
func (c *Client) ApplicationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applicationID
}

// OnUserTimeChanged implements spec's _NET_WM_USER_TIME rule: if this
// client is not currently focused, either focus it (if its workspace is
// active) or mark it urgent. isActiveWorkspace and onFocus are supplied by
// the main handler, which alone knows the active workspace index.
func (c *Client) OnUserTimeChanged(isActiveWorkspace bool, focus func()) {
	if c.IsFocused() {
		return
	}
	if isActiveWorkspace {
		focus()
		return
	}
	c.SetUrgent(true)
}
