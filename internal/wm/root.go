// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/root.go
// Summary: Root object, per spec §4.5: supporting-WM-check window, EWMH
// root property publication, root event mask selection.

package wm

import (
	"texwm/internal/geometry"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

const wmName = "texwm"

// rootEventMask is SubstructureRedirect | SubstructureNotify | ButtonPress
// | ButtonRelease | PointerMotion | StructureNotify | PropertyChange.
const rootEventMask = x.SubstructureRedirect | x.SubstructureNotifyMask |
	x.ButtonPressMask | x.ButtonReleaseMask | x.PointerMotionMask |
	x.StructureNotifyMask | x.PropertyChangeMask

// Root wraps the root window and the handful of EWMH properties that
// describe window-manager-wide state rather than any one client.
type Root struct {
	conn        x.Conn
	window      x.Window
	checkWindow x.Window
}

// NewRoot creates the supporting-WM-check window, publishes the EWMH
// root properties spec §4.5 names, and selects the root event mask.
// Desktops is the initial _NET_NUMBER_OF_DESKTOPS count (one per
// workspace the WM manages).
func NewRoot(conn x.Conn, desktops int) (*Root, error) {
	root := conn.Root()

	check, err := conn.CreateInputOnlyWindow(root, geometry.NewRect(-1, -1, 1, 1))
	if err != nil {
		return nil, err
	}

	r := &Root{conn: conn, window: root, checkWindow: check}

	conn.ChangeProperty(check, 0 /* Replace */, "_NET_WM_NAME", "UTF8_STRING", 8, []byte(wmName))
	conn.ChangeProperty(check, 0, "_NET_SUPPORTING_WM_CHECK", "WINDOW", 32, encodeWindow(check))
	conn.ChangeProperty(root, 0, "_NET_SUPPORTING_WM_CHECK", "WINDOW", 32, encodeWindow(check))

	r.publishSupported()
	r.SetNumberOfDesktops(desktops)
	r.SetCurrentDesktop(0)
	r.SetActiveWindow(x.None)
	r.SetClientList(nil)

	conn.ChangeWindowAttributes(root, false, rootEventMask)

	wmlog.Log.WithField("supporting_wm_check", uint32(check)).Info("root: initialized")
	return r, nil
}

// CheckWindow returns the invisible supporting-WM-check window.
func (r *Root) CheckWindow() x.Window { return r.checkWindow }

func (r *Root) publishSupported() {
	var data []byte
	for _, name := range x.WellKnownAtoms {
		atom, err := r.conn.Atom(name)
		if err != nil {
			continue
		}
		data = append(data, encodeUint32(uint32(atom))...)
	}
	r.conn.ChangeProperty(r.window, 0, "_NET_SUPPORTED", "ATOM", 32, data)
}

// SetNumberOfDesktops publishes _NET_NUMBER_OF_DESKTOPS.
func (r *Root) SetNumberOfDesktops(n int) {
	r.conn.ChangeProperty(r.window, 0, "_NET_NUMBER_OF_DESKTOPS", "CARDINAL", 32, encodeUint32(uint32(n)))
}

// SetCurrentDesktop publishes _NET_CURRENT_DESKTOP.
func (r *Root) SetCurrentDesktop(index int) {
	r.conn.ChangeProperty(r.window, 0, "_NET_CURRENT_DESKTOP", "CARDINAL", 32, encodeUint32(uint32(index)))
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW; pass x.None to clear it.
func (r *Root) SetActiveWindow(w x.Window) {
	r.conn.ChangeProperty(r.window, 0, "_NET_ACTIVE_WINDOW", "WINDOW", 32, encodeWindow(w))
}

// SetClientList publishes _NET_CLIENT_LIST in the given (mapping) order.
func (r *Root) SetClientList(windows []x.Window) {
	var data []byte
	for _, w := range windows {
		data = append(data, encodeWindow(w)...)
	}
	r.conn.ChangeProperty(r.window, 0, "_NET_CLIENT_LIST", "WINDOW", 32, data)
}

func encodeWindow(w x.Window) []byte { return encodeUint32(uint32(w)) }

func encodeUint32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
