// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wmconfig/layout.go
// Summary: The configured wm.LayoutProvider — frame offsets, button
// rects, and inter-client gap, all derived from Config rather than real
// font metrics (the drawing backend is out of scope, per spec §1).

package wmconfig

import (
	"texwm/internal/geometry"
	"texwm/internal/wm"
)

const titleBarHeight = 22

// Layout implements wm.LayoutProvider from a Config's border width and
// gap; monitor-specific scaling is left at 1:1 since DPI/scale-aware
// decoration sizing belongs to the drawing backend.
type Layout struct {
	cfg *Config
}

// NewLayout builds a Layout bound to cfg. Later config reloads are picked
// up automatically since Layout only ever reads through the pointer.
func NewLayout(cfg *Config) *Layout { return &Layout{cfg: cfg} }

// FrameOffset returns the border insets, adding a title bar on top for
// decorated frames, per spec §4.3.
func (l *Layout) FrameOffset(monitor int, kind wm.FrameKind) wm.FrameOffset {
	b := l.cfg.BorderWidth
	switch kind {
	case wm.FrameNone:
		return wm.FrameOffset{}
	case wm.FrameBorder:
		return wm.FrameOffset{Top: b, Bottom: b, Left: b, Right: b}
	default: // FrameDecorated
		return wm.FrameOffset{Top: titleBarHeight, Bottom: b, Left: b, Right: b}
	}
}

// ButtonLayout places count equal-width buttons right-aligned along the
// title bar; border/borderless frames carry no buttons.
func (l *Layout) ButtonLayout(frameGeometry geometry.Rect, kind wm.FrameKind, count int) []geometry.Rect {
	if kind != wm.FrameDecorated || count == 0 {
		return nil
	}
	const buttonSize = 16
	out := make([]geometry.Rect, count)
	x := frameGeometry.X + int32(frameGeometry.W) - int32(count)*buttonSize - 4
	for i := 0; i < count; i++ {
		out[i] = geometry.NewRect(x, frameGeometry.Y+3, buttonSize, buttonSize)
		x += buttonSize
	}
	return out
}

// Gap returns the configured inter-client/monitor-edge gap.
func (l *Layout) Gap() int32 { return l.cfg.Gap }
