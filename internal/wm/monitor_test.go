// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"testing"

	"texwm/internal/geometry"
)

func TestMonitorWindowAreaSubtractsPadding(t *testing.T) {
	m := Monitor{
		Geometry: geometry.NewRect(0, 0, 1920, 1080),
		Padding:  Padding{Top: 30, Bottom: 0, Left: 0, Right: 0},
	}
	want := geometry.NewRect(0, 30, 1920, 1050)
	if got := m.WindowArea(); got != want {
		t.Fatalf("window area = %+v, want %+v", got, want)
	}
}

func TestMonitorsEqualDetectsGeometryChange(t *testing.T) {
	a := Monitors{{Name: "eDP-1", Geometry: geometry.NewRect(0, 0, 1920, 1080), Primary: true}}
	b := Monitors{{Name: "eDP-1", Geometry: geometry.NewRect(0, 0, 1920, 1080), Primary: true}}
	if !a.Equal(b) {
		t.Fatalf("identical monitor lists compared unequal")
	}

	b[0].Geometry.W = 2560
	if a.Equal(b) {
		t.Fatalf("monitor lists with different geometry compared equal")
	}
}

func TestMonitorsEqualDetectsCountChange(t *testing.T) {
	a := Monitors{{Name: "eDP-1"}}
	b := Monitors{{Name: "eDP-1"}, {Name: "HDMI-1"}}
	if a.Equal(b) {
		t.Fatalf("monitor lists of different length compared equal")
	}
}

func TestMonitorsAtFallsBackToPrimary(t *testing.T) {
	ms := Monitors{
		{Name: "eDP-1", Geometry: geometry.NewRect(0, 0, 1920, 1080), Primary: true},
		{Name: "HDMI-1", Geometry: geometry.NewRect(1920, 0, 1920, 1080)},
	}
	if got := ms.At(1920+100, 100); got.Name != "HDMI-1" {
		t.Fatalf("At() = %+v, want HDMI-1", got)
	}
	if got := ms.At(-500, -500); got.Name != "eDP-1" {
		t.Fatalf("At() off-screen point = %+v, want primary eDP-1", got)
	}
}
