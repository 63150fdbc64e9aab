// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/dock/layout.go
// Summary: Horizontal centering layout for dock items, per spec §4.11.

package dock

import "texwm/internal/geometry"

// Layout computes each item's rect, centered as a group at the bottom of
// monitor, given a fixed itemSize and gap between items.
func Layout(monitor geometry.Rect, count int, itemSize, gap int32) []geometry.Rect {
	if count == 0 {
		return nil
	}
	totalWidth := int32(count)*itemSize + int32(count-1)*gap
	startX := monitor.X + (int32(monitor.W)-totalWidth)/2
	y := monitor.Bottom() - itemSize

	out := make([]geometry.Rect, count)
	x := startX
	for i := 0; i < count; i++ {
		out[i] = geometry.NewRect(x, y, uint32(itemSize), uint32(itemSize))
		x += itemSize + gap
	}
	return out
}
