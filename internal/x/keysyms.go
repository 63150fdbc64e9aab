// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/keysyms.go
// Summary: Keysym-name to keycode resolution for config-file keybindings.
// Notes: Pairs with modmap.go's existing keybind.ModGet use — same
// package, same xgbutil/keybind surface (StrToKeysym + KeysymToKeycode),
// no pack example binds keys from named strings directly, but this is
// the documented xgbutil idiom for it.

package x

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/keybind"
)

// KeycodeForString resolves a keysym name ("Return", "a", "F1", ...) to
// a keycode on this connection's current keyboard mapping. The zero
// keycode and false are returned for an unknown name.
func (c *xutilConn) KeycodeForString(name string) (xproto.Keycode, bool) {
	sym := keybind.StrToKeysym(name)
	if sym == 0 {
		return 0, false
	}
	code := keybind.KeysymToKeycode(c.xu, sym)
	if code == 0 {
		return 0, false
	}
	return code, true
}
