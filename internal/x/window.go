// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/window.go
// Summary: Typed window handle (conn + id) with the builder-style
// convenience methods spec §3 "Window handle" describes. Not RAII:
// destruction is explicit, ownership tracked by the owning subsystem.

package x

import "texwm/internal/geometry"

// Handle pairs a window id with the connection that can act on it.
type Handle struct {
	Conn Conn
	Win  Window
}

// NewHandle wraps an existing window id.
func NewHandle(conn Conn, w Window) Handle { return Handle{Conn: conn, Win: w} }

func (h Handle) Map()               { h.Conn.MapWindow(h.Win) }
func (h Handle) Unmap()             { h.Conn.UnmapWindow(h.Win) }
func (h Handle) Raise()             { h.Conn.RaiseWindow(h.Win) }
func (h Handle) Lower()             { h.Conn.LowerWindow(h.Win) }
func (h Handle) MoveResize(r geometry.Rect) { h.Conn.MoveResizeWindow(h.Win, r) }
func (h Handle) Reparent(parent Window, x, y int32) {
	h.Conn.ReparentWindow(h.Win, parent, x, y)
}
func (h Handle) Destroy()    { h.Conn.DestroyWindow(h.Win) }
func (h Handle) KillClient() { h.Conn.KillClient(h.Win) }

func (h Handle) Geometry() (geometry.Rect, error) { return h.Conn.GetGeometry(h.Win) }

func (h Handle) GetProperty(name string) ([]byte, error) {
	data, _, err := h.Conn.GetProperty(h.Win, name)
	return data, err
}

func (h Handle) SetProperty(atomName, typeName string, format byte, data []byte) error {
	return h.Conn.ChangeProperty(h.Win, 0 /* PropModeReplace */, atomName, typeName, format, data)
}

func (h Handle) AppendProperty(atomName, typeName string, format byte, data []byte) error {
	return h.Conn.ChangeProperty(h.Win, 1 /* PropModeAppend */, atomName, typeName, format, data)
}

func (h Handle) DeleteProperty(atomName string) error {
	return h.Conn.DeleteProperty(h.Win, atomName)
}

func (h Handle) SendClientMessage(messageType string, format byte, data [5]uint32) error {
	return h.Conn.SendClientMessage(h.Win, messageType, format, data)
}
