// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/dock/dock.go
// Summary: The dock, per spec §4.11.
// Notes: Grounded on internal/bar's Sink-adjacent wiring into wm.Router;
// generalized from the bar's fixed widget list to a dynamic item set
// that tracks running clients via signals, since spec §9's "cyclic
// references" note specifically calls this out: items hold strong
// references to clients, and the dock is a plain subscriber with no
// back-pointer held by any item.

package dock

import (
	"os/exec"
	"sync"
	"time"

	"texwm/internal/geometry"
	"texwm/internal/wm"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

const (
	itemSize     = 48
	itemGap      = 8
	showStripH   = 4
	hideDelay    = 800 * time.Millisecond
)

// Config carries the tunables spec §4.11 names.
type Config struct {
	Pinned   []DesktopEntry
	KeepOpen bool // pin the dock open unconditionally (user setting)
}

// Dock is a horizontally-centered window at the bottom of the primary
// monitor, auto-hiding above a thin always-present show strip.
type Dock struct {
	wm.BaseSink

	conn x.Conn
	cfg  Config
	win  x.Window
	strip x.Window

	mu       sync.Mutex
	items    []*Item
	visible  bool
	hideTimer *time.Timer
	monitor  geometry.Rect
}

// New creates the dock and show-strip windows, seeded with the
// configured pinned items.
func New(conn x.Conn, cfg Config) (*Dock, error) {
	win, err := conn.CreateFrameWindow(conn.Root(), geometry.NewRect(0, 0, 1, itemSize), 0)
	if err != nil {
		return nil, err
	}
	strip, err := conn.CreateInputOnlyWindow(conn.Root(), geometry.NewRect(0, 0, 1, showStripH))
	if err != nil {
		return nil, err
	}
	d := &Dock{BaseSink: wm.NewBaseSink(nil), conn: conn, cfg: cfg, win: win, strip: strip}
	for _, entry := range cfg.Pinned {
		d.items = append(d.items, &Item{Entry: entry, Pinned: true})
	}
	conn.MapWindow(strip)
	return d, nil
}

// Resize repositions the dock and strip against the primary monitor and
// relays out every item.
func (d *Dock) Resize(monitor geometry.Rect) {
	d.mu.Lock()
	d.monitor = monitor
	d.mu.Unlock()
	d.conn.MoveResizeWindow(d.strip, geometry.NewRect(monitor.X, monitor.Bottom()-showStripH, monitor.W, showStripH))
	d.relayout()
}

func (d *Dock) relayout() {
	d.mu.Lock()
	rects := Layout(d.monitor, len(d.items), itemSize, itemGap)
	d.mu.Unlock()
	if len(rects) > 0 {
		d.conn.MoveResizeWindow(d.win, geometry.NewRect(rects[0].X, rects[0].Y, uint32(len(rects))*itemSize+uint32(len(rects)-1)*itemGap, itemSize))
	}
}

// itemFor finds the dynamic or pinned item matching a client's
// application id, or nil.
func (d *Dock) itemFor(appID string) *Item {
	for _, it := range d.items {
		if it.Entry.ID == appID {
			return it
		}
	}
	return nil
}

// Signal relays out the dock on NewClient and ClientRemoved. It creates
// and drops no items itself: that is done by Track and Untrack.
func (d *Dock) Signal(s wm.Signal) {
	switch s.Kind {
	case wm.SigNewClient, wm.SigClientRemoved:
		d.relayout()
	}
}

// Track registers c against its application id, creating a dynamic item
// if no pinned entry matches. It takes a *Client because the NewClient
// signal carries only a window id; nothing in this module calls it, so
// running clients get no dock items.
func (d *Dock) Track(c *wm.Client) {
	appID := c.ApplicationID()
	d.mu.Lock()
	defer d.mu.Unlock()
	it := d.itemFor(appID)
	if it == nil {
		it = &Item{Entry: DesktopEntry{ID: appID, Name: appID}}
		d.items = append(d.items, it)
	}
	it.AddInstance(c)
}

// Untrack removes c from whichever item holds it, dropping dynamic items
// that become empty.
func (d *Dock) Untrack(c *wm.Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, it := range d.items {
		it.RemoveInstance(c)
		if !it.Pinned && !it.IsRunning() {
			d.items = append(d.items[:i], d.items[i+1:]...)
			break
		}
	}
}

// Click dispatches a button click on an item: B1 focuses (launching if
// empty), B2 launches a new instance, B3 is left to the caller to open a
// context menu (out of this package's scope — the menu's callbacks are
// provided the selected Item by the caller).
func (d *Dock) Click(it *Item, button uint8, focus func(*wm.Client)) {
	switch button {
	case 1:
		if c, ok := it.FocusedInstance(); ok {
			focus(c)
			return
		}
		d.launch(it.Entry.Exec)
	case 2:
		d.launch(it.Entry.Exec)
	}
}

func (d *Dock) launch(argv []string) {
	if len(argv) == 0 {
		return
	}
	if err := exec.Command(argv[0], argv[1:]...).Start(); err != nil {
		wmlog.Log.WithError(err).WithField("exec", argv).Warn("dock: launch failed")
	}
}

// OnLeave starts the auto-hide timer, per spec §4.11, unless KeepOpen
// pins the dock open or shouldStayOpen (an empty active workspace, or a
// client occluding it) reports true.
func (d *Dock) OnLeave(shouldStayOpen func() bool) {
	if d.cfg.KeepOpen || (shouldStayOpen != nil && shouldStayOpen()) {
		return
	}
	d.mu.Lock()
	if d.hideTimer != nil {
		d.hideTimer.Stop()
	}
	d.hideTimer = time.AfterFunc(hideDelay, d.hide)
	d.mu.Unlock()
}

// OnShowStripEnter cancels any pending hide and reveals the dock.
func (d *Dock) OnShowStripEnter() {
	d.mu.Lock()
	if d.hideTimer != nil {
		d.hideTimer.Stop()
		d.hideTimer = nil
	}
	d.visible = true
	d.mu.Unlock()
	d.conn.MapWindow(d.win)
}

func (d *Dock) hide() {
	d.mu.Lock()
	d.visible = false
	d.mu.Unlock()
	d.conn.UnmapWindow(d.win)
}

// Accept: the dock's button/enter/leave handling is driven by the main
// handler resolving its window through the context map, not by claiming
// raw X events itself.
func (d *Dock) Accept(ev x.Event) bool { return false }
