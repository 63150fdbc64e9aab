// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/modmap.go
// Summary: Resolves NumLock/Alt/Super modifier bits from the server's
// modifier map, per spec §4.2, refreshed on every MappingNotify(Modifier).

package x

import (
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/keybind"
)

// ModMap holds the resolved modifier bits for this session. Zero means
// "not bound to any key on this keyboard".
type ModMap struct {
	NumLock uint16
	Alt     uint16
	Super   uint16
}

// CleanMask returns state with everything except Shift|Control|Alt|Win
// masked out, per spec §4.2's key-binding lookup rule.
func (m ModMap) CleanMask(state uint16) uint16 {
	const shiftControl = 1 | 4 // xproto.ModMaskShift | xproto.ModMaskControl
	return state & (shiftControl | m.Alt | m.Super)
}

// altCandidates and superCandidates list the keysym names tried in
// priority order, per spec §4.2.
var altCandidates = []string{"Alt_L", "Meta_L", "Alt_R", "Meta_R"}
var superCandidates = []string{"Super_L", "Win_L", "Hyper_L", "Super_R", "Win_R"}

// RefreshModMap re-queries the server's modifier mapping and resolves
// NumLock/Alt/Super. Grounded on xgbutil/keybind's ModGet helper, which
// cortile uses the same way for its own binding cleanup.
func RefreshModMap(xu *xgbutil.XUtil) ModMap {
	var m ModMap
	m.NumLock = lookupModBit(xu, "Num_Lock")
	for _, name := range altCandidates {
		if bit := lookupModBit(xu, name); bit != 0 {
			m.Alt = bit
			break
		}
	}
	for _, name := range superCandidates {
		if bit := lookupModBit(xu, name); bit != 0 {
			m.Super = bit
			break
		}
	}
	return m
}

func lookupModBit(xu *xgbutil.XUtil, keysymName string) uint16 {
	mods, err := keybind.ModGet(xu, keysymName)
	if err != nil {
		return 0
	}
	return mods
}
