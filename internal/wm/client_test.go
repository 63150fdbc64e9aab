// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package wm

import (
	"testing"

	"texwm/internal/contextmap"
	"texwm/internal/geometry"
)

func newTestClient(t *testing.T, conn *fakeConn, layout *fakeLayout, bus *SignalBus) *Client {
	t.Helper()
	ctx := contextmap.New()
	win, err := conn.CreateInputOnlyWindow(conn.Root(), geometry.NewRect(0, 0, 1, 1))
	if err != nil {
		t.Fatalf("create client window: %v", err)
	}
	c := NewClient(conn, ctx, layout, bus, win)
	if err := c.CreateFrame(0, FrameDecorated, geometry.NewRect(100, 100, 640, 480), false); err != nil {
		t.Fatalf("create frame: %v", err)
	}
	return c
}

func TestCreateFrameAppliesOffset(t *testing.T) {
	conn := newFakeConn()
	layout := newFakeLayout()
	c := newTestClient(t, conn, layout, NewSignalBus(8))

	want := layout.offset.Apply(geometry.NewRect(100, 100, 640, 480))
	if got := c.FrameGeometry(); got != want {
		t.Fatalf("frame geometry = %+v, want %+v", got, want)
	}
	if got := c.ClientGeometry(); got != geometry.NewRect(100, 100, 640, 480) {
		t.Fatalf("client geometry = %+v", got)
	}
	if !conn.isMapped(c.Frame()) || !conn.isMapped(c.Window()) {
		t.Fatalf("frame/window not mapped after CreateFrame")
	}
}

func TestMoveAndResizeAsClient(t *testing.T) {
	conn := newFakeConn()
	layout := newFakeLayout()
	bus := NewSignalBus(8)
	c := newTestClient(t, conn, layout, bus)

	inner := geometry.NewRect(50, 50, 300, 200)
	c.MoveAndResize(AsClient, inner)

	if got := c.ClientGeometry(); got != inner {
		t.Fatalf("client geometry = %+v, want %+v", got, inner)
	}
	want := layout.offset.Apply(inner)
	if got := c.FrameGeometry(); got != want {
		t.Fatalf("frame geometry = %+v, want %+v", got, want)
	}
	if got := conn.rectOf(c.Frame()); got != want {
		t.Fatalf("frame window not moved on X: got %+v, want %+v", got, want)
	}

	sig := bus.Drain()
	if len(sig) != 1 || sig[0].Kind != SigClientGeometry {
		t.Fatalf("expected one ClientGeometry signal, got %+v", sig)
	}
}

func TestMoveAndResizeAsSnapShrinksByGap(t *testing.T) {
	conn := newFakeConn()
	layout := newFakeLayout()
	layout.gap = 4
	c := newTestClient(t, conn, layout, NewSignalBus(8))

	area := geometry.NewRect(0, 0, 1000, 800)
	c.MoveAndResize(AsSnap, area)

	wantOuter := area.Shrink(layout.gap)
	if got := c.FrameGeometry(); got != wantOuter {
		t.Fatalf("snap frame geometry = %+v, want %+v", got, wantOuter)
	}
	wantInner := layout.offset.Inverse(wantOuter)
	if got := c.ClientGeometry(); got != wantInner {
		t.Fatalf("snap client geometry = %+v, want %+v", got, wantInner)
	}
}

func TestSnapLeftThenUnsnapRestoresSavedGeometry(t *testing.T) {
	conn := newFakeConn()
	layout := newFakeLayout()
	c := newTestClient(t, conn, layout, NewSignalBus(8))

	floating := c.FrameGeometry()

	c.SnapLeft()
	if got := c.SnapState(); got != SnapLeft {
		t.Fatalf("snap state = %v, want left", got)
	}
	if got := c.SavedGeometry(); got != floating {
		t.Fatalf("saved geometry = %+v, want the pre-snap frame rect %+v", got, floating)
	}

	c.MoveAndResize(AsSnap, geometry.NewRect(0, 0, 500, 800))
	if got := c.FrameGeometry(); got == floating {
		t.Fatalf("frame geometry did not change after snapping")
	}

	c.Unsnap()
	if got := c.SnapState(); got != SnapNone {
		t.Fatalf("snap state after unsnap = %v, want none", got)
	}
	if got := c.FrameGeometry(); got != floating {
		t.Fatalf("frame geometry after unsnap = %+v, want restored %+v", got, floating)
	}
}

func TestSnapRightThenSnapUpCollapsesToTopRight(t *testing.T) {
	conn := newFakeConn()
	layout := newFakeLayout()
	c := newTestClient(t, conn, layout, NewSignalBus(8))

	c.SnapRight()
	c.SnapUp()
	if got := c.SnapState(); got != SnapTopRight {
		t.Fatalf("snap state = %v, want top-right", got)
	}

	// Re-snapping right from top-right collapses the vertical bit back to
	// the plain right-half state (spec's same-side re-snap rule).
	c.SnapRight()
	if got := c.SnapState(); got != SnapRight {
		t.Fatalf("snap state after same-side re-snap = %v, want right", got)
	}
}
