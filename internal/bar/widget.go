// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/bar/widget.go
// Summary: The bar widget capability set, per spec §4.10 and §9
// "Polymorphism" (a fixed closed variant of update/click/enter/leave).

package bar

// DrawContext is the narrow drawing surface a widget renders into; the
// real font-metrics/pixel-drawing backend is out of scope (spec §1), so
// this stays an opaque handle widgets pass through to backend calls they
// make themselves.
type DrawContext interface{}

// Widget is the fixed capability set every bar widget implements.
// Click/Enter/Leave are optional — a widget that doesn't care simply
// never registers interest, modeled here as nil-safe no-ops the bar
// checks for via the optional interfaces below.
type Widget interface {
	// Update redraws the widget at the given x offset and returns its
	// width and whether its content changed since the last call (so the
	// bar only re-blits when something actually moved).
	Update(dc DrawContext, height int32, x int32) (width int32, changed bool)
}

// Clickable is implemented by widgets that react to a button press.
type Clickable interface {
	Click(button uint8)
}

// Hoverable is implemented by widgets that react to the pointer entering
// or leaving their rect.
type Hoverable interface {
	Enter()
	Leave()
}
