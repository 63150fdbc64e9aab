// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/monitor.go
// Summary: Physical monitor geometry and DPI/scaling, per spec §3.

package wm

import "texwm/internal/geometry"

// Monitor describes one physical output as enumerated via RandR.
type Monitor struct {
	Index      int
	Name       string
	Geometry   geometry.Rect // full monitor rect
	Padding    Padding       // reserved space (bar, dock) subtracted for WindowArea
	DPI        float64       // dots per millimeter
	ScaleVsPrimary float64   // scaling factor relative to the primary monitor
	Primary    bool
}

// Padding is the inset applied to a monitor's geometry to produce its
// window area (e.g. space reserved for the bar along the top).
type Padding struct {
	Top, Bottom, Left, Right int32
}

// WindowArea returns the monitor's geometry minus Padding - the area
// clients and the split manager may actually place windows within.
func (m Monitor) WindowArea() geometry.Rect {
	g := m.Geometry
	return geometry.Rect{
		X: g.X + m.Padding.Left,
		Y: g.Y + m.Padding.Top,
		W: subClamp(g.W, uint32(m.Padding.Left+m.Padding.Right)),
		H: subClamp(g.H, uint32(m.Padding.Top+m.Padding.Bottom)),
	}
}

func subClamp(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

// Monitors is an ordered monitor list with primary-lookup helpers, shared
// by the main handler's re-query-on-ConfigureNotify(root) path and the
// split manager's per-monitor state rebuild.
type Monitors []Monitor

// Primary returns the primary monitor, falling back to index 0 if none is
// flagged primary (defensive: RandR always reports exactly one in
// practice, but a misbehaving driver should not crash the WM).
func (ms Monitors) Primary() Monitor {
	for _, m := range ms {
		if m.Primary {
			return m
		}
	}
	if len(ms) > 0 {
		return ms[0]
	}
	return Monitor{}
}

// At returns the monitor containing the point, falling back to the
// primary monitor if the point is outside every monitor (e.g. a client
// moved fully off-screen).
func (ms Monitors) At(x, y int32) Monitor {
	for _, m := range ms {
		if m.Geometry.Contains(x, y) {
			return m
		}
	}
	return ms.Primary()
}

// Equal reports whether ms and other describe the same set of outputs at
// the same geometry, used by the root ConfigureNotify path to decide
// whether a hotplug/resolution change actually happened before paying for
// a full resnap sweep.
func (ms Monitors) Equal(other Monitors) bool {
	if len(ms) != len(other) {
		return false
	}
	for i := range ms {
		if ms[i].Name != other[i].Name || ms[i].Geometry != other[i].Geometry || ms[i].Primary != other[i].Primary {
			return false
		}
	}
	return true
}

// ByName finds the monitor whose RandR output name matches. The split
// manager does not use it: split percentages follow the monitor index
// across a Resize event.
func (ms Monitors) ByName(name string) (Monitor, bool) {
	for _, m := range ms {
		if m.Name == name {
			return m, true
		}
	}
	return Monitor{}, false
}
