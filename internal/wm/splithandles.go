// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/splithandles.go
// Summary: Per-(workspace, monitor) split handle state, per spec §3, §4.8.

package wm

import (
	"texwm/internal/geometry"
	"texwm/internal/x"
)

// handleAxis identifies one of the three split handles a (workspace,
// monitor) pair holds: the vertical divider between left/right halves,
// and the two horizontal dividers splitting each half into top/bottom.
type handleAxis int

const (
	handleVertical handleAxis = iota
	handleLeft
	handleRight
)

const numHandles = 3

// splitKey identifies one (workspace, monitor) pair's split state.
type splitKey struct {
	workspace int
	monitor   int
}

// handleGeometry is the thin rectangular window shape: a dark rounded
// body under a light stripe, drawn by the (out-of-scope) rendering
// backend against the rect this struct tracks.
type handleGeometry struct {
	win     x.Window
	rect    geometry.Rect
	visible bool
}

// splitState holds one (workspace, monitor) pair's three handle windows,
// three positions (as percentages 0..1 along their axis), and three
// counters of snapped clients currently depending on that handle's
// visibility.
type splitState struct {
	key       splitKey
	handles   [numHandles]handleGeometry
	percent   [numHandles]float64 // current split position, 0..1
	saved     [numHandles]float64 // percentages saved at drag start, for Escape-cancel
	counts    [numHandles]int     // number of snapped clients depending on this handle
	dragging  handleAxis
	isDragActive bool
}

// newSplitState creates default-centered split state for one monitor's
// window area, creating the three handle windows.
func newSplitState(conn x.Conn, parent x.Window, key splitKey) *splitState {
	s := &splitState{key: key}
	for i := range s.percent {
		s.percent[i] = 0.5
	}
	for i := 0; i < numHandles; i++ {
		win, err := conn.CreateInputOnlyWindow(parent, geometry.NewRect(0, 0, 1, 1))
		if err == nil {
			s.handles[i].win = win
		}
	}
	return s
}

// countsFor returns the handle axis that owns the counter for a given
// snap state, and whether that state has a counted handle at all (None
// and Maximized do not depend on any split handle).
func countsFor(state SnapState) (handleAxis, bool) {
	switch state {
	case SnapLeft, SnapRight:
		return handleVertical, true
	case SnapTopLeft, SnapBottomLeft:
		return handleLeft, true
	case SnapTopRight, SnapBottomRight:
		return handleRight, true
	default:
		return 0, false
	}
}

// applySnapChange adjusts the counters for a client moving from old to
// new snap state within this split, and re-evaluates each handle's
// visibility (an axis's handle is visible iff its counter is non-zero).
func (s *splitState) applySnapChange(conn x.Conn, old, new_ SnapState) {
	if axis, ok := countsFor(old); ok {
		s.counts[axis]--
		if s.counts[axis] < 0 {
			s.counts[axis] = 0
		}
	}
	if axis, ok := countsFor(new_); ok {
		s.counts[axis]++
	}
	s.refreshVisibility(conn)
}

func (s *splitState) refreshVisibility(conn x.Conn) {
	for i := 0; i < numHandles; i++ {
		want := s.counts[i] > 0
		if want == s.handles[i].visible {
			continue
		}
		s.handles[i].visible = want
		if want {
			conn.MapWindow(s.handles[i].win)
		} else {
			conn.UnmapWindow(s.handles[i].win)
		}
	}
}

// rects computes vertical/left/right split positions in absolute pixels
// for the given window area, using the stored percentages.
func (s *splitState) rects(area geometry.Rect) (vertical, left, right int32) {
	vertical = area.X + int32(float64(area.W)*s.percent[handleVertical])
	leftHeight := area.H
	left = area.Y + int32(float64(leftHeight)*s.percent[handleLeft])
	right = area.Y + int32(float64(leftHeight)*s.percent[handleRight])
	return
}

// beginDrag snapshots current percentages so Escape can restore them, and
// marks the axis as actively dragging.
func (s *splitState) beginDrag(axis handleAxis) {
	s.saved = s.percent
	s.dragging = axis
	s.isDragActive = true
}

// updateDrag moves the dragged handle to newPercent, clamped to
// [minPercent, 1-minPercent], applying stickiness to the nearest
// configured snap point unless sticky is false (Shift held).
func (s *splitState) updateDrag(newPercent, minPercent float64, stickyPoints []float64, sticky bool) {
	if newPercent < minPercent {
		newPercent = minPercent
	}
	if newPercent > 1-minPercent {
		newPercent = 1 - minPercent
	}
	if sticky {
		const stickyRadius = 0.02
		for _, p := range stickyPoints {
			if absDiff(newPercent, p) < stickyRadius {
				newPercent = p
				break
			}
		}
	}
	s.percent[s.dragging] = newPercent
}

// cancelDrag restores the percentages saved at beginDrag.
func (s *splitState) cancelDrag() {
	s.percent = s.saved
	s.isDragActive = false
}

// commitDrag ends the drag, keeping the current percentage.
func (s *splitState) commitDrag() {
	s.isDragActive = false
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
