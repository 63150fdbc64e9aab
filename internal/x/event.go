// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/event.go
// Summary: Typed event envelope and the X-event-number table the router
// (internal/wm.Router) indexes sinks by.

package x

import "github.com/jezek/xgb/xproto"

// Event-number constants the router's mask table is indexed by. X core
// event codes double as the table index for real X events; synthetic
// internal events use numbers past the core protocol's range, per spec
// §4.1's create_unknown_event and §5's D-Bus bridge (type code 254).
const (
	KeyPressNumber         = xproto.KeyPress
	KeyReleaseNumber       = xproto.KeyRelease
	ButtonPressNumber      = xproto.ButtonPress
	ButtonReleaseNumber    = xproto.ButtonRelease
	MotionNotifyNumber     = xproto.MotionNotify
	EnterNotifyNumber      = xproto.EnterNotify
	LeaveNotifyNumber      = xproto.LeaveNotify
	MapRequestNumber       = xproto.MapRequest
	MapNotifyNumber        = xproto.MapNotify
	UnmapNotifyNumber      = xproto.UnmapNotify
	DestroyNotifyNumber    = xproto.DestroyNotify
	ConfigureRequestNumber = xproto.ConfigureRequest
	ConfigureNotifyNumber  = xproto.ConfigureNotify
	PropertyNotifyNumber   = xproto.PropertyNotify
	ClientMessageNumber    = xproto.ClientMessage
	MappingNotifyNumber    = xproto.MappingNotify
	CreateNotifyNumber     = xproto.CreateNotify

	// DBusEventNumber is the synthetic code spec §5 reserves for posting a
	// D-Bus method call onto the main loop.
	DBusEventNumber uint8 = 254
)

// UnknownEvent is a locally synthesized, non-X event (spec §4.1
// create_unknown_event); the router broadcasts these to every sink rather
// than consulting the mask table.
type UnknownEvent struct {
	TypeCode int
	Payload  interface{}
}

// Event is the envelope every sink receives. Exactly one of the typed
// fields is non-nil except for Unknown events, whose Number is always
// DBusEventNumber or another value past the core protocol's range.
type Event struct {
	Number uint8

	KeyPress         *xproto.KeyPressEvent
	ButtonPress      *xproto.ButtonPressEvent
	ButtonRelease    *xproto.ButtonReleaseEvent
	MotionNotify     *xproto.MotionNotifyEvent
	EnterNotify      *xproto.EnterNotifyEvent
	LeaveNotify      *xproto.LeaveNotifyEvent
	MapRequest       *xproto.MapRequestEvent
	UnmapNotify      *xproto.UnmapNotifyEvent
	DestroyNotify    *xproto.DestroyNotifyEvent
	ConfigureRequest *xproto.ConfigureRequestEvent
	ConfigureNotify  *xproto.ConfigureNotifyEvent
	PropertyNotify   *xproto.PropertyNotifyEvent
	ClientMessage    *xproto.ClientMessageEvent
	MappingNotify    *xproto.MappingNotifyEvent
	CreateNotify     *xproto.CreateNotifyEvent

	Unknown *UnknownEvent
}

// wrapEvent classifies a raw xgb event into our typed envelope, setting
// Number to the event's X protocol code so the router's mask table can
// index it directly.
func wrapEvent(raw interface{ Bytes() []byte }) Event {
	switch ev := raw.(type) {
	case xproto.KeyPressEvent:
		return Event{Number: KeyPressNumber, KeyPress: &ev}
	case xproto.ButtonPressEvent:
		return Event{Number: ButtonPressNumber, ButtonPress: &ev}
	case xproto.ButtonReleaseEvent:
		return Event{Number: ButtonReleaseNumber, ButtonRelease: &ev}
	case xproto.MotionNotifyEvent:
		return Event{Number: MotionNotifyNumber, MotionNotify: &ev}
	case xproto.EnterNotifyEvent:
		return Event{Number: EnterNotifyNumber, EnterNotify: &ev}
	case xproto.LeaveNotifyEvent:
		return Event{Number: LeaveNotifyNumber, LeaveNotify: &ev}
	case xproto.MapRequestEvent:
		return Event{Number: MapRequestNumber, MapRequest: &ev}
	case xproto.UnmapNotifyEvent:
		return Event{Number: UnmapNotifyNumber, UnmapNotify: &ev}
	case xproto.DestroyNotifyEvent:
		return Event{Number: DestroyNotifyNumber, DestroyNotify: &ev}
	case xproto.ConfigureRequestEvent:
		return Event{Number: ConfigureRequestNumber, ConfigureRequest: &ev}
	case xproto.ConfigureNotifyEvent:
		return Event{Number: ConfigureNotifyNumber, ConfigureNotify: &ev}
	case xproto.PropertyNotifyEvent:
		return Event{Number: PropertyNotifyNumber, PropertyNotify: &ev}
	case xproto.ClientMessageEvent:
		return Event{Number: ClientMessageNumber, ClientMessage: &ev}
	case xproto.MappingNotifyEvent:
		return Event{Number: MappingNotifyNumber, MappingNotify: &ev}
	case xproto.CreateNotifyEvent:
		return Event{Number: CreateNotifyNumber, CreateNotify: &ev}
	default:
		return Event{Number: DBusEventNumber, Unknown: &UnknownEvent{TypeCode: int(DBusEventNumber), Payload: raw}}
	}
}
