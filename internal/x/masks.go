// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/x/masks.go
// Summary: Event mask constants re-exported from xproto for callers that
// don't want a direct xproto import (keeps internal/wm's protocol surface
// confined to internal/x).

package x

import "github.com/jezek/xgb/xproto"

const (
	PropertyChangeMask     = xproto.EventMaskPropertyChange
	StructureNotifyMask    = xproto.EventMaskStructureNotify
	SubstructureRedirect   = xproto.EventMaskSubstructureRedirect
	SubstructureNotifyMask = xproto.EventMaskSubstructureNotify
	ButtonPressMask        = xproto.EventMaskButtonPress
	ButtonReleaseMask      = xproto.EventMaskButtonRelease
	PointerMotionMask      = xproto.EventMaskPointerMotion
)
