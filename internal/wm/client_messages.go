// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client_messages.go
// Summary: _NET_WM_STATE and WM_CHANGE_STATE client-message handling that
// only needs the client itself, per spec §4.3 "Client messages accepted".
// _NET_ACTIVE_WINDOW and _NET_WM_MOVERESIZE need workspace/monitor context
// and are handled by the main handler instead.

package wm

import "texwm/internal/geometry"

// HandleNetWMState applies a _NET_WM_STATE client message naming one of
// FULLSCREEN, DEMANDS_ATTENTION, HIDDEN, MAXIMIZED_HORZ, MAXIMIZED_VERT
// with action add=1/remove=0/toggle=2. monitorRect is needed for
// FULLSCREEN; callers resolve it from the client's current monitor before
// calling.
func (c *Client) HandleNetWMState(property string, action int, monitorRect geometry.Rect) {
	switch property {
	case "_NET_WM_STATE_FULLSCREEN":
		want := resolveBit(action, c.IsFullscreen())
		if want {
			c.SetFullscreen(monitorRect)
		} else {
			c.ClearFullscreen()
		}
	case "_NET_WM_STATE_DEMANDS_ATTENTION":
		c.SetUrgent(resolveBit(action, c.IsUrgent()))
	case "_NET_WM_STATE_HIDDEN":
		want := resolveBit(action, c.IsMinimized())
		if want {
			c.Minimize()
		} else {
			c.Unminimize()
		}
	case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
		want := resolveBit(action, c.SnapState() == SnapMaximized)
		if want && c.SnapState() != SnapMaximized {
			c.ToggleMaximized()
		} else if !want && c.SnapState() == SnapMaximized {
			c.ToggleMaximized()
		}
	}
}

// HandleWMChangeState applies WM_CHANGE_STATE(IconicState), minimizing
// the client.
func (c *Client) HandleWMChangeState(iconicState bool) {
	if iconicState {
		c.Minimize()
	}
}

func resolveBit(action int, current bool) bool {
	const (
		actionRemove = 0
		actionAdd    = 1
		actionToggle = 2
	)
	switch action {
	case actionAdd:
		return true
	case actionRemove:
		return false
	case actionToggle:
		return !current
	default:
		return current
	}
}
