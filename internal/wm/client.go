// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/client.go
// Summary: Per-managed-window state: frame, buttons, geometry, state
// machines, per spec §3 "Client" and §4.3.
// Notes: Grounded on the teacher's texel/pane.go (one struct per managed
// surface, IsActive bit, geometry recompute on every mutation) generalized
// from a terminal pane to a reparented X11 top-level window, and on
// cortile's store/client.go for the real EWMH/ICCCM property access shape.

package wm

import (
	"fmt"
	"sync"

	"texwm/internal/contextmap"
	"texwm/internal/geometry"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

// FrameOffset is the inset between a client's outer frame rect and its
// inner client rect, derived from the layout for a client's monitor and
// frame kind (spec §4.3 "Geometry model").
type FrameOffset struct {
	Top, Bottom, Left, Right int32
}

// Apply returns the outer frame rect that results from wrapping inner with
// this offset.
func (f FrameOffset) Apply(inner geometry.Rect) geometry.Rect {
	return geometry.Rect{
		X: inner.X - f.Left,
		Y: inner.Y - f.Top,
		W: uint32(int32(inner.W) + f.Left + f.Right),
		H: uint32(int32(inner.H) + f.Top + f.Bottom),
	}
}

// Inverse returns the inner client rect contained within an outer frame
// rect.
func (f FrameOffset) Inverse(outer geometry.Rect) geometry.Rect {
	return geometry.Rect{
		X: outer.X + f.Left,
		Y: outer.Y + f.Top,
		W: uint32(int32(outer.W) - f.Left - f.Right),
		H: uint32(int32(outer.H) - f.Top - f.Bottom),
	}
}

// LayoutProvider resolves the frame offset for a client, given its
// monitor and frame kind. The out-of-scope drawing backend owns the real
// font-metrics-driven computation; this is the narrow interface texwm's
// core depends on (spec §1 external collaborator contract).
type LayoutProvider interface {
	FrameOffset(monitor int, kind FrameKind) FrameOffset
	ButtonLayout(frameGeometry geometry.Rect, kind FrameKind, count int) []geometry.Rect
	Gap() int32
}

// MoveResizeKind selects how move_and_resize interprets its rect argument,
// per spec §4.3.
type MoveResizeKind int

const (
	AsClient MoveResizeKind = iota
	AsFrame
	AsSnap
)

// Client is one record per managed top-level window.
type Client struct {
	mu sync.Mutex

	conn   x.Conn
	ctx    *contextmap.Map
	layout LayoutProvider
	bus    *SignalBus

	window        x.Window
	frame         x.Window
	extendedFrame x.Window
	hasExtended   bool
	buttons       []x.Window

	clientGeometry geometry.Rect
	frameGeometry  geometry.Rect
	savedGeometry  geometry.Rect

	workspace int
	monitor   int

	snapState SnapState

	isFullscreen bool
	isMinimized  bool
	isUrgent     bool
	isDialog     bool
	isFocused    bool

	frameKind FrameKind

	title         string
	applicationID string
	protocols     Protocols

	borderColor string

	prevSnapBeforeFullscreen SnapState

	// netState is the full set of _NET_WM_STATE atoms currently asserted,
	// kept in memory so any single transition (snap, fullscreen, minimize,
	// urgency) can flip its own bit without clobbering the others.
	netState map[string]bool

	// expectedUnmaps counts UnmapNotify events this client caused itself
	// (minimize, withdraw-before-destroy) so the main handler can tell
	// them apart from a client-driven close, per spec §9 open question 3
	// ("track expected unmaps with a counter").
	expectedUnmaps int
}

// NewClient creates the managed-window record for window w: it does not
// perform the X reparenting side effects (creating the frame, selecting
// events, etc.) — callers do that via CreateFrame immediately after, the
// separation keeping this constructor trivially testable.
func NewClient(conn x.Conn, ctx *contextmap.Map, layout LayoutProvider, bus *SignalBus, w x.Window) *Client {
	return &Client{
		conn:     conn,
		ctx:      ctx,
		layout:   layout,
		bus:      bus,
		window:   w,
		netState: make(map[string]bool),
	}
}

// Win returns the client's own window, satisfying contextmap.ClientHandle.
func (c *Client) Win() uint32 { return uint32(c.window) }

// Window/Frame/ExtendedFrame/Buttons are read-only accessors; fields are
// otherwise only mutated through the state-machine methods below so every
// transition can maintain the spec's invariants in one place.
func (c *Client) Window() x.Window { return c.window }
func (c *Client) Frame() x.Window  { return c.frame }

func (c *Client) Buttons() []x.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]x.Window(nil), c.buttons...)
}

func (c *Client) ClientGeometry() geometry.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientGeometry
}

func (c *Client) FrameGeometry() geometry.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameGeometry
}

func (c *Client) SavedGeometry() geometry.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedGeometry
}

func (c *Client) Workspace() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.workspace
}

func (c *Client) Monitor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitor
}

func (c *Client) SnapState() SnapState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapState
}

func (c *Client) IsFullscreen() bool { c.mu.Lock(); defer c.mu.Unlock(); return c.isFullscreen }
func (c *Client) IsMinimized() bool  { c.mu.Lock(); defer c.mu.Unlock(); return c.isMinimized }
func (c *Client) IsUrgent() bool     { c.mu.Lock(); defer c.mu.Unlock(); return c.isUrgent }
func (c *Client) IsFocused() bool    { c.mu.Lock(); defer c.mu.Unlock(); return c.isFocused }
func (c *Client) FrameKind() FrameKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameKind
}
func (c *Client) Title() string { c.mu.Lock(); defer c.mu.Unlock(); return c.title }

// CreateFrame performs the reparenting side of client creation (spec
// §4.3): creates the frame window, reparents the client into it at the
// frame offset's origin, creates decoration buttons, registers every
// created window in the context map, and selects structure/property
// notify on the client.
func (c *Client) CreateFrame(monitor int, kind FrameKind, initial geometry.Rect, extended bool) error {
	c.mu.Lock()
	c.monitor = monitor
	c.frameKind = kind
	offset := c.layout.FrameOffset(monitor, kind)
	frameRect := offset.Apply(initial)
	c.mu.Unlock()

	frame, err := c.conn.CreateFrameWindow(c.conn.Root(), frameRect, 0)
	if err != nil {
		return fmt.Errorf("client: create frame for %d: %w", w32(c.window), err)
	}

	c.conn.ReparentWindow(c.window, frame, offset.Left, offset.Top)
	c.conn.ChangeWindowAttributes(c.window, false,
		uint32(x.PropertyChangeMask|x.StructureNotifyMask))

	var buttons []x.Window
	if kind == FrameDecorated {
		for range c.layout.ButtonLayout(frameRect, kind, 3) {
			btn, berr := c.conn.CreateInputOnlyWindow(frame, geometry.Rect{})
			if berr != nil {
				continue
			}
			buttons = append(buttons, btn)
		}
	}

	var extWin x.Window
	hasExt := false
	if extended {
		extWin, err = c.conn.CreateInputOnlyWindow(c.conn.Root(), frameRect)
		if err == nil {
			hasExt = true
		}
	}

	c.mu.Lock()
	c.frame = frame
	c.buttons = buttons
	c.extendedFrame = extWin
	c.hasExtended = hasExt
	c.clientGeometry = initial
	c.frameGeometry = frameRect
	c.savedGeometry = frameRect
	c.mu.Unlock()

	c.ctx.SetOwner(uint32(c.window), c)
	c.ctx.SetRole(uint32(c.window), contextmap.RoleClient)
	c.ctx.SetOwner(uint32(frame), c)
	c.ctx.SetRole(uint32(frame), contextmap.RoleFrame)
	for _, b := range buttons {
		c.ctx.SetOwner(uint32(b), c)
		c.ctx.SetRole(uint32(b), contextmap.RoleFrameButton)
	}
	if hasExt {
		c.ctx.SetOwner(uint32(extWin), c)
		c.ctx.SetRole(uint32(extWin), contextmap.RoleExtendedFrame)
	}

	c.conn.MapWindow(frame)
	c.conn.MapWindow(c.window)
	for _, b := range buttons {
		c.conn.MapWindow(b)
	}
	if hasExt {
		c.conn.MapWindow(extWin)
	}

	wmlog.WithWindow(uint32(c.window)).Info("client: created frame")
	return nil
}

// MoveAndResize is the single operation every geometry change goes
// through (spec §4.3). rect is interpreted according to kind; after
// mutating in-memory geometry it moves/resizes the frame, re-lays-out
// buttons, moves/resizes the client, notifies the client with a synthetic
// ConfigureNotify and refreshes _NET_FRAME_EXTENTS — those X side effects
// are performed by applyGeometryToX, which MoveAndResize calls itself.
func (c *Client) MoveAndResize(kind MoveResizeKind, rect geometry.Rect) {
	c.mu.Lock()
	offset := c.layout.FrameOffset(c.monitor, c.frameKind)
	var inner, outer geometry.Rect
	switch kind {
	case AsClient:
		inner = rect
		outer = offset.Apply(inner)
	case AsFrame:
		outer = rect
		inner = offset.Inverse(outer)
	case AsSnap:
		outer = rect.Shrink(c.layout.Gap())
		inner = offset.Inverse(outer)
	}
	oldFrame := c.frameGeometry
	c.clientGeometry = inner
	c.frameGeometry = outer
	c.mu.Unlock()

	c.applyGeometryToX(inner, outer)

	if c.bus != nil {
		c.bus.Send(ClientGeometrySignal(c.window, oldFrame, outer))
	}
}

// applyGeometryToX performs the X side effects of a geometry change:
// moving the frame, buttons, client, and extended frame, and sending the
// client a synthetic ConfigureNotify so it learns its new position without
// a real reconfiguration (required since we control the client's
// coordinates via reparenting, not a top-level move).
func (c *Client) applyGeometryToX(inner, outer geometry.Rect) {
	c.mu.Lock()
	frame, win, ext, hasExt, buttons, kind := c.frame, c.window, c.extendedFrame, c.hasExtended, c.buttons, c.frameKind
	c.mu.Unlock()

	c.conn.MoveResizeWindow(frame, outer)
	offset := c.layout.FrameOffset(c.Monitor(), kind)
	innerOrigin := geometry.NewRect(offset.Left, offset.Top, inner.W, inner.H)
	c.conn.MoveResizeWindow(win, innerOrigin)

	for i, rect := range c.layout.ButtonLayout(outer, kind, len(buttons)) {
		if i < len(buttons) {
			c.conn.MoveResizeWindow(buttons[i], rect)
		}
	}
	if hasExt {
		c.conn.MoveResizeWindow(ext, outer)
	}

	sendSyntheticConfigure(c.conn, win, inner)
	refreshFrameExtents(c.conn, win, c.layout.FrameOffset(c.Monitor(), kind))
}

// SaveGeometry records the current frame rect as the floating geometry to
// restore on unsnap (spec §4.3 invariant: saved_geometry = frame_geometry
// after any save_geometry() call).
func (c *Client) SaveGeometry() {
	c.mu.Lock()
	c.savedGeometry = c.frameGeometry
	c.mu.Unlock()
}

// SetWorkspace updates the owning workspace index and emits the
// corresponding signal. Workspace membership itself (the slice in
// Workspace) is managed by the caller; this only updates the client's own
// record of which workspace it believes it is on.
func (c *Client) SetWorkspace(ws int) {
	c.mu.Lock()
	old := c.workspace
	c.workspace = ws
	c.mu.Unlock()
	if old != ws && c.bus != nil {
		c.bus.Send(ClientWorkspaceChangedSignal(c.window, old, ws))
	}
}

// SetMonitor updates the client's recorded monitor and emits the
// corresponding signal.
func (c *Client) SetMonitor(m int) {
	c.mu.Lock()
	old := c.monitor
	c.monitor = m
	c.mu.Unlock()
	if old != m && c.bus != nil {
		c.bus.Send(ClientMonitorChangedSignal(c.window, old, m))
	}
}

func w32(w x.Window) uint32 { return uint32(w) }

// setNetState sets or clears a single _NET_WM_STATE atom in the client's
// in-memory state set and republishes the whole set, so unrelated bits
// (fullscreen, hidden, demands-attention, maximized) are never clobbered
// by an unrelated transition.
func (c *Client) setNetState(atomName string, set bool) {
	c.mu.Lock()
	if set {
		c.netState[atomName] = true
	} else {
		delete(c.netState, atomName)
	}
	snapshot := make(map[string]bool, len(c.netState))
	for k, v := range c.netState {
		snapshot[k] = v
	}
	win := c.window
	c.mu.Unlock()
	writeNetWMState(c.conn, win, snapshot)
}
