// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/atoms.go
// Summary: Process-wide, initialized-once atom cache (spec §3 "Atom set").
// Notes: xgbutil already caches atoms internally (xprop.Atm); this wraps it
// with the well-known EWMH/ICCCM/Motif/XEmbed name list the rest of the
// window manager treats as read-only.

package x

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/xprop"
)

// WellKnownAtoms is the full set texwm resolves at startup and advertises
// via _NET_SUPPORTED (spec §4.5, §6).
var WellKnownAtoms = []string{
	"WM_PROTOCOLS", "WM_DELETE_WINDOW", "WM_TAKE_FOCUS", "WM_STATE",
	"WM_CHANGE_STATE", "WM_CLASS", "WM_NAME", "WM_HINTS", "WM_NORMAL_HINTS",

	"_NET_SUPPORTED", "_NET_SUPPORTING_WM_CHECK", "_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP", "_NET_ACTIVE_WINDOW", "_NET_CLIENT_LIST",
	"_NET_WM_NAME", "_NET_WM_STATE", "_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT",
	"_NET_WM_STATE_DEMANDS_ATTENTION", "_NET_WM_STATE_HIDDEN",
	"_NET_WM_WINDOW_TYPE", "_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_UTILITY", "_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU", "_NET_WM_WINDOW_TYPE_NORMAL",
	"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_FRAME_EXTENTS",
	"_NET_WM_WINDOW_OPACITY", "_NET_WM_MOVERESIZE", "_NET_WM_USER_TIME",
	"_NET_WM_ALLOWED_ACTIONS", "_NET_SYSTEM_TRAY_S0",
	"_NET_SYSTEM_TRAY_ORIENTATION", "_NET_SYSTEM_TRAY_OPCODE",

	"_MOTIF_WM_HINTS",
	"_XEMBED", "_XEMBED_INFO",

	"MANAGER", "UTF8_STRING",
}

func xprop_Atom(xu *xgbutil.XUtil, name string) (xproto.Atom, error) {
	return xprop.Atm(xu, name)
}

func xprop_AtomName(xu *xgbutil.XUtil, atom xproto.Atom) (string, error) {
	return xprop.AtomName(xu, atom)
}

// ResolveAll warms the cache for every well-known atom, so the first
// real lookup during event handling never pays a round trip. Errors are
// collected rather than aborting, since a handful of atoms (tray,
// xembed) are optional extensions some servers never define.
func ResolveAll(xu *xgbutil.XUtil) map[string]error {
	failures := make(map[string]error)
	for _, name := range WellKnownAtoms {
		if _, err := xprop.Atm(xu, name); err != nil {
			failures[name] = err
		}
	}
	return failures
}
