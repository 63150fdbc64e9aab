// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/splitmanager.go
// Summary: Coordinates split handle state across every (workspace,
// monitor) pair, per spec §4.8.

package wm

import (
	"sync"

	"texwm/internal/geometry"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

// SplitConfig carries the tunables the split manager needs from settings:
// the minimum split percentage either side of a handle may reach, the
// configured stickiness points, and the gap applied to maximized clients.
type SplitConfig struct {
	MinPercent   float64
	StickyPoints []float64
	SnapGap      int32
}

// SplitManager owns every (workspace, monitor) pair's split state and
// reacts to the signals that change it: SnapStateChanged,
// ClientMonitorChanged, ClientWorkspaceChanged, ClientRemoved,
// WorkspaceChanged, Resize. It is itself a router Sink (spec §4.6) purely
// to receive that broadcast stream — it never consumes raw X events.
type SplitManager struct {
	BaseSink

	conn    x.Conn
	root    x.Window
	cfg     SplitConfig
	clients ClientLookup

	mu     sync.Mutex
	states map[splitKey]*splitState
	// lastSnap tracks each client's most recent snap state so
	// ClientRemoved/ClientMonitorChanged/ClientWorkspaceChanged know which
	// counter to decrement without re-deriving it from the (possibly
	// already-destroyed) client.
	lastSnap map[x.Window]SnapState
	lastKey  map[x.Window]splitKey
}

// ClientLookup is the narrow slice of WindowManager the split manager
// needs: resolving a window to its Client, a monitor's window area, and
// every client sharing a (workspace, monitor) pair, for re-snapping.
type ClientLookup interface {
	ClientByWindow(w x.Window) (*Client, bool)
	MonitorWindowArea(index int) geometry.Rect
	ClientsInSplit(workspace, monitor int) []*Client
}

// NewSplitManager creates an empty split manager bound to conn's root
// window, the parent every handle window is created under.
func NewSplitManager(conn x.Conn, cfg SplitConfig, clients ClientLookup) *SplitManager {
	return &SplitManager{
		BaseSink: NewBaseSink(nil),
		conn:     conn,
		root:     conn.Root(),
		cfg:      cfg,
		clients:  clients,
		states:   make(map[splitKey]*splitState),
		lastSnap: make(map[x.Window]SnapState),
		lastKey:  make(map[x.Window]splitKey),
	}
}

// Accept never consumes an X event directly; split-handle button/motion
// events are routed through mainhandler's drag tracking instead (spec
// §4.8), which calls BeginDrag/UpdateDrag/CommitDrag explicitly.
func (m *SplitManager) Accept(ev x.Event) bool { return false }

// Signal implements wm.Sink, feeding the router's broadcast stream into
// HandleSignal against this manager's own root window.
func (m *SplitManager) Signal(s Signal) { m.HandleSignal(s, m.root) }

func (m *SplitManager) stateFor(key splitKey, parent x.Window) *splitState {
	if s, ok := m.states[key]; ok {
		return s
	}
	s := newSplitState(m.conn, parent, key)
	m.states[key] = s
	return s
}

// HandleSignal applies one signal from the bus, per spec §4.8's reaction
// list. root is the window handles are created as children of.
func (m *SplitManager) HandleSignal(sig Signal, root x.Window) {
	switch sig.Kind {
	case SigSnapStateChanged:
		m.onSnapStateChanged(sig, root)
	case SigClientMonitorChanged:
		m.onClientMonitorChanged(sig, root)
	case SigClientWorkspaceChanged:
		m.onClientWorkspaceChanged(sig, root)
	case SigClientRemoved:
		m.onClientRemoved(sig)
	case SigWorkspaceChanged:
		m.onWorkspaceChanged(sig)
	case SigResize:
		m.onResize()
	}
}

func (m *SplitManager) onSnapStateChanged(sig Signal, root x.Window) {
	c, ok := m.clients.ClientByWindow(sig.Window)
	if !ok {
		return
	}
	key := splitKey{workspace: c.Workspace(), monitor: c.Monitor()}

	m.mu.Lock()
	s := m.stateFor(key, root)
	s.applySnapChange(m.conn, sig.OldSnap, sig.NewSnap)
	m.lastSnap[sig.Window] = sig.NewSnap
	m.lastKey[sig.Window] = key
	m.mu.Unlock()

	m.resnapMonitorWorkspace(key)
}

func (m *SplitManager) onClientMonitorChanged(sig Signal, root x.Window) {
	m.moveCounter(sig, root, true)
}

func (m *SplitManager) onClientWorkspaceChanged(sig Signal, root x.Window) {
	m.moveCounter(sig, root, false)
}

// moveCounter relocates a client's counted handle from its old
// (workspace, monitor) pair to its new one, when either index changes.
func (m *SplitManager) moveCounter(sig Signal, root x.Window, isMonitor bool) {
	m.mu.Lock()
	old, tracked := m.lastKey[sig.Window]
	snap, hasSnap := m.lastSnap[sig.Window]
	if !tracked || !hasSnap {
		m.mu.Unlock()
		return
	}
	next := old
	if isMonitor {
		next.monitor = sig.NewInt
	} else {
		next.workspace = sig.NewInt
	}
	if next == old {
		m.mu.Unlock()
		return
	}
	if oldState, ok := m.states[old]; ok {
		oldState.applySnapChange(m.conn, snap, SnapNone)
	}
	newState := m.stateFor(next, root)
	newState.applySnapChange(m.conn, SnapNone, snap)
	m.lastKey[sig.Window] = next
	m.mu.Unlock()

	m.resnapMonitorWorkspace(next)
}

func (m *SplitManager) onClientRemoved(sig Signal) {
	m.mu.Lock()
	key, tracked := m.lastKey[sig.Window]
	snap, hasSnap := m.lastSnap[sig.Window]
	if tracked && hasSnap {
		if s, ok := m.states[key]; ok {
			s.applySnapChange(m.conn, snap, SnapNone)
		}
	}
	delete(m.lastKey, sig.Window)
	delete(m.lastSnap, sig.Window)
	m.mu.Unlock()
}

// onWorkspaceChanged hides every split handle belonging to the old
// workspace and shows every one belonging to the new workspace.
func (m *SplitManager) onWorkspaceChanged(sig Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.states {
		if key.workspace == sig.OldInt {
			for i := range s.handles {
				if s.handles[i].visible {
					m.conn.UnmapWindow(s.handles[i].win)
					s.handles[i].visible = false
				}
			}
		}
		if key.workspace == sig.NewInt {
			s.refreshVisibility(m.conn)
		}
	}
}

// onResize rebuilds every split's absolute rects from its (unchanged)
// percentages against the new monitor window areas. Split state is keyed
// by monitor index, so the percentages stay with whatever monitor now has
// that index; RandR output names are not consulted.
func (m *SplitManager) onResize() {
	wmlog.Log.Debug("splitmanager: resize, rebuilding handle geometry")
	type job struct {
		key                   splitKey
		area                  geometry.Rect
		vertical, left, right int32
	}
	var jobs []job
	m.mu.Lock()
	for key, s := range m.states {
		area := m.clients.MonitorWindowArea(key.monitor)
		vertical, left, right := s.rects(area)
		m.layoutHandles(s, area, vertical, left, right)
		jobs = append(jobs, job{key, area, vertical, left, right})
	}
	m.mu.Unlock()
	for _, j := range jobs {
		m.resnapClients(j.key, j.area, j.vertical, j.left, j.right)
	}
}

// resnapMonitorWorkspace recomputes every snapped client's geometry on
// the given (workspace, monitor) pair from its split's current
// percentages, per spec §4.8 "every snapped client on that monitor is
// re-snapped by computing its geometry from the new splits."
func (m *SplitManager) resnapMonitorWorkspace(key splitKey) {
	area := m.clients.MonitorWindowArea(key.monitor)
	m.mu.Lock()
	s, ok := m.states[key]
	if !ok {
		m.mu.Unlock()
		return
	}
	vertical, left, right := s.rects(area)
	m.layoutHandles(s, area, vertical, left, right)
	m.mu.Unlock()

	m.resnapClients(key, area, vertical, left, right)
}

// resnapClients applies the split's current geometry to every client on
// (key.workspace, key.monitor) that is currently in a snapped state;
// floating and fullscreen clients are left untouched.
func (m *SplitManager) resnapClients(key splitKey, area geometry.Rect, vertical, left, right int32) {
	for _, c := range m.clients.ClientsInSplit(key.workspace, key.monitor) {
		state := c.SnapState()
		if state == SnapNone {
			continue
		}
		c.MoveAndResize(AsSnap, SnapGeometry(state, area, vertical-area.X, left-area.Y, right-area.Y, m.cfg.SnapGap))
	}
}

func (m *SplitManager) layoutHandles(s *splitState, area geometry.Rect, vertical, left, right int32) {
	const handleThickness = 6
	s.handles[handleVertical].rect = geometry.NewRect(vertical-handleThickness/2, area.Y, handleThickness, area.H)
	s.handles[handleLeft].rect = geometry.NewRect(area.X, left-handleThickness/2, uint32(vertical-area.X), handleThickness)
	s.handles[handleRight].rect = geometry.NewRect(vertical, right-handleThickness/2, area.W-uint32(vertical-area.X), handleThickness)
	for i := range s.handles {
		m.conn.MoveResizeWindow(s.handles[i].win, s.handles[i].rect)
	}
}

// BeginDrag starts an interactive drag of the handle at win, if win is a
// tracked handle window. Returns the (workspace, monitor) pair and axis
// being dragged, and whether the drag started at all.
func (m *SplitManager) BeginDrag(win x.Window) (splitKey, handleAxis, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.states {
		for i := range s.handles {
			if s.handles[i].win == win {
				s.beginDrag(handleAxis(i))
				return key, handleAxis(i), true
			}
		}
	}
	return splitKey{}, 0, false
}

// UpdateDrag applies a new pointer-derived percentage to the
// currently-dragging handle in key's split, if one is dragging.
func (m *SplitManager) UpdateDrag(key splitKey, percent float64, sticky bool) {
	m.mu.Lock()
	s, ok := m.states[key]
	m.mu.Unlock()
	if !ok || !s.isDragActive {
		return
	}
	s.updateDrag(percent, m.cfg.MinPercent, m.cfg.StickyPoints, sticky)
	m.resnapMonitorWorkspace(s.key)
}

// CancelDrag restores the dragging handle's pre-drag percentage
// (Escape-cancel).
func (m *SplitManager) CancelDrag(key splitKey) {
	m.mu.Lock()
	s, ok := m.states[key]
	m.mu.Unlock()
	if !ok {
		return
	}
	s.cancelDrag()
	m.resnapMonitorWorkspace(key)
}

// CommitDrag ends the drag, keeping the current split position and
// re-snapping every dependent client once more for good measure.
func (m *SplitManager) CommitDrag(key splitKey) {
	m.mu.Lock()
	s, ok := m.states[key]
	m.mu.Unlock()
	if !ok {
		return
	}
	s.commitDrag()
	m.resnapMonitorWorkspace(key)
}
