// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/layout_fake_test.go
// Summary: A fixed-offset LayoutProvider fake for client/split tests; real
// font-metrics layout lives in the out-of-scope drawing backend.

package wm

import "texwm/internal/geometry"

type fakeLayout struct {
	offset FrameOffset
	gap    int32
}

func newFakeLayout() *fakeLayout {
	return &fakeLayout{offset: FrameOffset{Top: 20, Bottom: 2, Left: 2, Right: 2}, gap: 0}
}

func (l *fakeLayout) FrameOffset(monitor int, kind FrameKind) FrameOffset {
	if kind == FrameNone {
		return FrameOffset{}
	}
	return l.offset
}

func (l *fakeLayout) ButtonLayout(frameGeometry geometry.Rect, kind FrameKind, count int) []geometry.Rect {
	out := make([]geometry.Rect, count)
	for i := range out {
		out[i] = geometry.NewRect(frameGeometry.Right()-int32(16*(i+1)), frameGeometry.Y, 14, 14)
	}
	return out
}

func (l *fakeLayout) Gap() int32 { return l.gap }
