// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/methods.go
// Summary: Property, grab and client-message operations on xutilConn,
// split out of display.go to keep each file near one concern.

package x

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/xprop"
)

func (c *xutilConn) GetProperty(w Window, atomName string) ([]byte, xproto.Atom, error) {
	reply, err := xprop.GetProperty(c.xu, w, atomName)
	if err != nil {
		return nil, 0, err
	}
	return reply.Value, reply.Type, nil
}

func (c *xutilConn) ChangeProperty(w Window, mode byte, atomName, typeName string, format byte, data []byte) error {
	atom, err := c.Atom(atomName)
	if err != nil {
		return err
	}
	typeAtom, err := c.Atom(typeName)
	if err != nil {
		return err
	}
	return xproto.ChangePropertyChecked(c.xu.Conn(), mode, w, atom, typeAtom, format,
		uint32(len(data))/uint32(format/8), data).Check()
}

func (c *xutilConn) DeleteProperty(w Window, atomName string) error {
	atom, err := c.Atom(atomName)
	if err != nil {
		return err
	}
	return xproto.DeletePropertyChecked(c.xu.Conn(), w, atom).Check()
}

func (c *xutilConn) SendClientMessage(w Window, messageType string, format byte, data [5]uint32) error {
	atom, err := c.Atom(messageType)
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: format,
		Window: w,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}
	return xproto.SendEventChecked(c.xu.Conn(), false, w, xproto.EventMaskNoEvent,
		string(ev.Bytes())).Check()
}

func (c *xutilConn) GrabKey(code xproto.Keycode, mods uint16) {
	xproto.GrabKey(c.xu.Conn(), true, c.Root(), mods, code,
		xproto.GrabModeAsync, xproto.GrabModeAsync)
}

func (c *xutilConn) UngrabKey(code xproto.Keycode, mods uint16) {
	xproto.UngrabKey(c.xu.Conn(), code, c.Root(), mods)
}

func (c *xutilConn) GrabButton(button xproto.Button, mods uint16, confine Window) {
	xproto.GrabButton(c.xu.Conn(), false, confine,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, 0, button, mods)
}
