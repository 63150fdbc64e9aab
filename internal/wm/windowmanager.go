// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/windowmanager.go
// Summary: Top-level wiring: owns the connection, root, router, signal
// bus, context map, monitors, workspaces, and split manager, per spec §5.

package wm

import (
	"math/rand"
	"sync"

	"texwm/internal/contextmap"
	"texwm/internal/geometry"
	"texwm/internal/x"
)

// WindowManager is the single process-wide owner of window-manager state.
// Per spec §5, client mutation always goes through its workspace lock;
// the context map and signal bus are independently safe for concurrent
// use from the D-Bus service goroutines.
type WindowManager struct {
	Conn    x.Conn
	Root    *Root
	Ctx     *contextmap.Map
	Bus     *SignalBus
	Router  *Router
	Splits  *SplitManager
	Layout  LayoutProvider
	Place   PlacementConfig
	rng     *rand.Rand

	mu         sync.RWMutex
	monitors   Monitors
	workspaces []*Workspace
	active     int // active workspace index
	clients    map[x.Window]*Client
}

// NewWindowManager wires up every subsystem. workspaceCount is the fixed
// number of virtual desktops texwm manages (_NET_NUMBER_OF_DESKTOPS).
func NewWindowManager(conn x.Conn, layout LayoutProvider, splitCfg SplitConfig, placeCfg PlacementConfig, workspaceCount int) (*WindowManager, error) {
	bus := NewSignalBus(256)
	ctx := contextmap.New()
	SetAtomResolver(func(name string) uint32 {
		atom, err := conn.Atom(name)
		if err != nil {
			return 0
		}
		return uint32(atom)
	})

	root, err := NewRoot(conn, workspaceCount)
	if err != nil {
		return nil, err
	}

	wm := &WindowManager{
		Conn:    conn,
		Root:    root,
		Ctx:     ctx,
		Bus:     bus,
		Layout:  layout,
		Place:   placeCfg,
		rng:     rand.New(rand.NewSource(1)),
		clients: make(map[x.Window]*Client),
	}
	wm.Router = NewRouter()
	wm.Splits = NewSplitManager(conn, splitCfg, wm)
	wm.Router.Add(wm.Splits)

	wm.workspaces = make([]*Workspace, workspaceCount)
	for i := range wm.workspaces {
		wm.workspaces[i] = NewWorkspace(i)
	}
	if workspaceCount > 0 {
		wm.workspaces[0].SetActive(true)
	}
	return wm, nil
}

// SetMonitors replaces the monitor list (RandR query result) and emits
// Resize, per spec §4.5/§4.8.
func (wm *WindowManager) SetMonitors(monitors Monitors) {
	wm.mu.Lock()
	wm.monitors = monitors
	wm.mu.Unlock()
	wm.Bus.Send(ResizeSignal())
}

// Monitors returns a snapshot of the current monitor list.
func (wm *WindowManager) Monitors() Monitors {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	out := make(Monitors, len(wm.monitors))
	copy(out, wm.monitors)
	return out
}

// MonitorWindowArea implements ClientLookup: returns the window area
// (geometry minus padding) for the monitor at index, or a zero rect if
// the index is out of range (e.g. a monitor was unplugged).
func (wm *WindowManager) MonitorWindowArea(index int) geometry.Rect {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	if index < 0 || index >= len(wm.monitors) {
		return geometry.Rect{}
	}
	return wm.monitors[index].WindowArea()
}

// ClientsInSplit implements ClientLookup: every client currently on the
// given (workspace, monitor) pair, for the split manager to re-snap once
// that pair's handle percentages change.
func (wm *WindowManager) ClientsInSplit(workspace, monitor int) []*Client {
	ws := wm.Workspace(workspace)
	if ws == nil {
		return nil
	}
	var out []*Client
	for _, c := range ws.Iter() {
		if c.Monitor() == monitor {
			out = append(out, c)
		}
	}
	return out
}

// ActiveWorkspace returns the index of the currently displayed workspace.
func (wm *WindowManager) ActiveWorkspace() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return wm.active
}

// Workspace returns the workspace at index, or nil if out of range.
func (wm *WindowManager) Workspace(index int) *Workspace {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	if index < 0 || index >= len(wm.workspaces) {
		return nil
	}
	return wm.workspaces[index]
}

// SwitchWorkspace deactivates the current workspace and activates target,
// emitting WorkspaceChanged. Out-of-range target is a no-op.
func (wm *WindowManager) SwitchWorkspace(target int) {
	wm.mu.Lock()
	if target < 0 || target >= len(wm.workspaces) || target == wm.active {
		wm.mu.Unlock()
		return
	}
	old := wm.active
	wm.workspaces[old].SetActive(false)
	wm.workspaces[target].SetActive(true)
	wm.active = target
	wm.mu.Unlock()

	wm.Root.SetCurrentDesktop(target)
	wm.Bus.Send(WorkspaceChangedSignal(old, target))
	if wm.Workspace(target).Len() == 0 {
		wm.Bus.Send(ActiveWorkspaceEmptySignal(true))
	}
}

// RegisterClient adds a newly mapped client to the manager's window
// index and its workspace, emitting NewClient.
func (wm *WindowManager) RegisterClient(c *Client) {
	wm.mu.Lock()
	wm.clients[c.Window()] = c
	ws := wm.workspaces[c.Workspace()]
	wm.mu.Unlock()

	ws.Push(c)
	wm.Ctx.SetOwner(uint32(c.Window()), c)
	wm.Ctx.SetOwner(uint32(c.Frame()), c)
	wm.syncClientList()
	wm.Bus.Send(NewClientSignal(c.Window()))
}

// UnregisterClient removes a client from every index, emitting
// ClientRemoved. clientStillExists tells Destroy whether to reparent the
// client window back to root first.
func (wm *WindowManager) UnregisterClient(c *Client, clientStillExists bool) {
	wm.mu.Lock()
	delete(wm.clients, c.Window())
	ws := wm.workspaces[c.Workspace()]
	wm.mu.Unlock()

	ws.Remove(c)
	c.Destroy(clientStillExists)
	wm.syncClientList()
	wm.Bus.Send(ClientRemovedSignal(c.Window()))

	if ws.IsActive() && ws.Len() == 0 {
		wm.Bus.Send(ActiveWorkspaceEmptySignal(true))
	}
}

func (wm *WindowManager) syncClientList() {
	wm.mu.RLock()
	windows := make([]x.Window, 0, len(wm.clients))
	for w := range wm.clients {
		windows = append(windows, w)
	}
	wm.mu.RUnlock()
	wm.Root.SetClientList(windows)
}

// AllClients returns every managed client across every workspace, for
// operations that must sweep the whole set (monitor hotplug/resolution
// change, spec §4.7).
func (wm *WindowManager) AllClients() []*Client {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	out := make([]*Client, 0, len(wm.clients))
	for _, c := range wm.clients {
		out = append(out, c)
	}
	return out
}

// ClientByWindow implements ClientLookup and the main handler's event ->
// client resolution, consulting the context map's client/frame/button
// ownership rather than a direct map lookup so frame and button child
// windows resolve to their owning client too.
func (wm *WindowManager) ClientByWindow(w x.Window) (*Client, bool) {
	owner, ok := wm.Ctx.Owner(uint32(w))
	if !ok {
		return nil, false
	}
	c, ok := owner.(*Client)
	return c, ok
}

// FocusClient focuses c: clears any other focused client on the same
// workspace, moves c to the front of its workspace's LRU order, and
// drives X focus via Client.Focus.
func (wm *WindowManager) FocusClient(c *Client, raiseIt bool) {
	ws := wm.Workspace(c.Workspace())
	if ws == nil {
		return
	}
	if prev := ws.ActiveClient(); prev != nil && prev != c {
		prev.Unfocus()
	}
	ws.Focus(c)
	c.Focus(raiseIt)
	wm.Root.SetActiveWindow(c.Window())
}

// PlaceNewClient runs the smart-placement algorithm (spec §4.9) against
// every non-minimized client sharing c's (workspace, monitor), returning
// the frame rect to create c with.
func (wm *WindowManager) PlaceNewClient(frameSize geometry.Rect, workspace, monitor int) geometry.Rect {
	area := wm.MonitorWindowArea(monitor)
	ws := wm.Workspace(workspace)
	if ws == nil {
		return frameSize.CenteredIn(area)
	}
	var others []geometry.Rect
	for _, c := range ws.Iter() {
		if c.Monitor() != monitor || c.IsMinimized() {
			continue
		}
		fr := c.FrameGeometry()
		if fr.Intersects(area) {
			others = append(others, fr)
		}
	}
	return Place(wm.Place, frameSize, area, others, wm.rng)
}
