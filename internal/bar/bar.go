// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/bar/bar.go
// Summary: The top bar, per spec §4.10.
// Notes: Grounded on the teacher's texel/dispatcher.go Sink-adjacent
// registration pattern for wiring widgets into wm.Router, generalized
// from terminal panes to a fixed-height dock-type X window.

package bar

import (
	"sync"

	"texwm/internal/geometry"
	"texwm/internal/wm"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

// Config carries the tunables spec §4.10 names.
type Config struct {
	Height int32 // resolved, absolute pixels (font-relative resolution happens earlier)
	Gap    int32
}

// Bar is the dock-type window anchored to the top of the primary monitor.
// It holds left and right widget lists and a reference to the tray host,
// whose width it reserves when laying out the right side.
type Bar struct {
	wm.BaseSink

	conn x.Conn
	cfg  Config
	win  x.Window

	mu    sync.Mutex
	left  []Widget
	right []Widget
	tray  *TrayHost
	rect  geometry.Rect
}

// New creates the bar window, unmapped, spanning the primary monitor's
// full width at the top.
func New(conn x.Conn, cfg Config) (*Bar, error) {
	b := &Bar{BaseSink: wm.NewBaseSink(nil), conn: conn, cfg: cfg}
	win, err := conn.CreateFrameWindow(conn.Root(), geometry.NewRect(0, 0, 1, uint32(cfg.Height)), 0)
	if err != nil {
		return nil, err
	}
	b.win = win
	return b, nil
}

// Window returns the bar's own window.
func (b *Bar) Window() x.Window { return b.win }

// SetTray installs the system-tray host whose reserved width is
// subtracted from the right-widget layout area.
func (b *Bar) SetTray(t *TrayHost) {
	b.mu.Lock()
	b.tray = t
	b.mu.Unlock()
}

// AddLeft/AddRight append a widget to the respective side, left-to-right
// and right-to-left layout order matching append order.
func (b *Bar) AddLeft(w Widget)  { b.mu.Lock(); b.left = append(b.left, w); b.mu.Unlock() }
func (b *Bar) AddRight(w Widget) { b.mu.Lock(); b.right = append(b.right, w); b.mu.Unlock() }

// Resize repositions the bar across a new primary-monitor width.
func (b *Bar) Resize(monitor geometry.Rect) {
	b.mu.Lock()
	b.rect = geometry.NewRect(monitor.X, monitor.Y, monitor.W, uint32(b.cfg.Height))
	b.mu.Unlock()
	b.conn.MoveResizeWindow(b.win, b.rect)
	b.Redraw(nil)
}

// Redraw lays out left widgets left-to-right from the left edge and
// right widgets right-to-left from the right edge, minus the tray
// width if present, separated by the configured gap.
func (b *Bar) Redraw(dc DrawContext) {
	b.mu.Lock()
	defer b.mu.Unlock()

	x := b.rect.X
	for _, w := range b.left {
		width, _ := w.Update(dc, b.cfg.Height, x)
		x += width + b.cfg.Gap
	}

	trayWidth := int32(0)
	if b.tray != nil {
		trayWidth = b.tray.Width()
	}
	rightEdge := b.rect.Right() - trayWidth
	for _, w := range b.right {
		width, _ := w.Update(dc, b.cfg.Height, rightEdge-width)
		rightEdge -= width + b.cfg.Gap
	}
}

// Signal reacts to UpdateBar by redrawing.
func (b *Bar) Signal(s wm.Signal) {
	if s.Kind == wm.SigUpdateBar {
		b.Redraw(nil)
	}
	if s.Kind == wm.SigResize {
		wmlog.Log.Debug("bar: resize signal, waiting for explicit Resize() call with new monitor geometry")
	}
}

// Accept the bar never directly claims X events itself beyond what
// widgets need via Click/Enter/Leave, routed in by the main handler's
// button/motion dispatch resolving the bar's window through the context
// map; it returns false so other sinks still see clicks it didn't use.
func (b *Bar) Accept(ev x.Event) bool { return false }
