// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/session/session.go
// Summary: The session manager D-Bus service, per spec §6 "D-Bus (session
// bus)" and §4.12's sibling service-thread model (§5 "D-Bus service
// threads").
// Notes: Grounded on other_examples' helix desktop.go for the godbus/dbus/v5
// import and object-path conventions; the Export-based server wiring
// below follows godbus/dbus/v5's own documented introspection pattern,
// since no pack example demonstrates the server side specifically.

package session

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"texwm/internal/wmlog"
)

const (
	busName    = "com.github.texwm.SessionManager"
	objectPath = "/com/github/texwm/SessionManager"
	ifaceName  = "com.github.texwm.SessionManager"
)

// Reason is the Quit method's argument, one of logout/sleep/restart/shutdown.
type Reason string

const (
	ReasonLogout   Reason = "logout"
	ReasonSleep    Reason = "sleep"
	ReasonRestart  Reason = "restart"
	ReasonShutdown Reason = "shutdown"
)

// Handler receives a parsed Quit request. This package performs no
// suspend, exit or re-exec itself; what each reason leads to is decided
// entirely by the Handler the caller supplies.
type Handler func(reason Reason)

// Manager owns the D-Bus connection and exported object. It is not a
// router Sink; Quit runs on a godbus goroutine, outside the main event
// loop, and reaches the loop only through the Handler and postEvent
// callbacks.
type Manager struct {
	conn    *dbus.Conn
	onQuit  Handler
	postEvt func()
}

// quitObject is the exported D-Bus object; its only method is Quit.
type quitObject struct {
	m *Manager
}

// Quit implements the exported com.github.texwm.SessionManager.Quit
// method. godbus calls exported methods with this exact (args..., err
// *dbus.Error) signature.
func (q *quitObject) Quit(reason string) *dbus.Error {
	r := Reason(reason)
	switch r {
	case ReasonLogout, ReasonSleep, ReasonRestart, ReasonShutdown:
	default:
		return dbus.NewError(ifaceName+".InvalidReason", []interface{}{fmt.Sprintf("unknown reason %q", reason)})
	}
	wmlog.Log.WithField("reason", r).Info("session: quit requested")
	if q.m.onQuit != nil {
		q.m.onQuit(r)
	}
	if q.m.postEvt != nil {
		q.m.postEvt()
	}
	return nil
}

// Start connects to the session bus, requests the well-known name, and
// exports the Quit method. postEvent is called after every Quit so the
// caller can post the synthetic event (spec §5's D-Bus bridge, type code
// 254) that wakes the main loop deterministically.
func Start(onQuit Handler, postEvent func()) (*Manager, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session: connect session bus: %w", err)
	}
	m := &Manager{conn: conn, onQuit: onQuit, postEvt: postEvent}

	if err := conn.Export(&quitObject{m: m}, objectPath, ifaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: export object: %w", err)
	}
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("session: request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("session: name %s already owned", busName)
	}
	wmlog.Log.Info("session: manager registered")
	return m, nil
}

// Close releases the bus connection.
func (m *Manager) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}
