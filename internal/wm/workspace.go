// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/workspace.go
// Summary: Per-desktop client ordering, per spec §4.4.

package wm

import "sync"

// Workspace holds the clients assigned to one virtual desktop in
// most-recently-focused order: clients[0] is always the focused one
// whenever the workspace itself is active and non-empty (spec invariant:
// "focused client is always front of workspace LRU order").
type Workspace struct {
	mu       sync.Mutex
	index    int
	clients  []*Client
	active   bool
	noFocus  bool // set while the window switcher is cycling, to suppress re-raises
}

// NewWorkspace creates an empty workspace at the given desktop index.
func NewWorkspace(index int) *Workspace {
	return &Workspace{index: index}
}

// Index returns the desktop index this workspace represents.
func (w *Workspace) Index() int {
	return w.index
}

// IsActive reports whether this is the currently displayed workspace.
func (w *Workspace) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// SetActive marks the workspace active or inactive. The caller
// (WindowManager) is responsible for ensuring exactly one workspace is
// active at a time.
func (w *Workspace) SetActive(active bool) {
	w.mu.Lock()
	w.active = active
	w.mu.Unlock()
}

// Len returns the number of clients on this workspace.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// Push adds a client to the front of the LRU order (the focused slot); it
// does not call Client.Focus. A client already present is first removed from its old position so it
// does not appear twice.
func (w *Workspace) Push(c *Client) {
	w.mu.Lock()
	w.removeLocked(c)
	w.clients = append([]*Client{c}, w.clients...)
	w.mu.Unlock()
}

// Remove drops a client from the workspace, wherever it sits in the
// order. It reports whether the client was found.
func (w *Workspace) Remove(c *Client) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	before := len(w.clients)
	w.removeLocked(c)
	return len(w.clients) != before
}

func (w *Workspace) removeLocked(c *Client) {
	for i, existing := range w.clients {
		if existing == c {
			w.clients = append(w.clients[:i], w.clients[i+1:]...)
			return
		}
	}
}

// Focus moves the given client to the front of the LRU order without
// touching any other workspace's state; it does not call Client.Focus —
// callers combine the two so X focus and LRU order change together.
func (w *Workspace) Focus(c *Client) {
	w.Push(c)
}

// FocusAt moves the client at the given LRU index to the front and
// returns it. An out-of-bounds index is a caller bug (spec §9 open
// question 1 resolves this as an error at the boundary, not a clamp) so
// it returns nil, false rather than silently clamping.
func (w *Workspace) FocusAt(index int) (*Client, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.clients) {
		return nil, false
	}
	c := w.clients[index]
	w.clients = append(w.clients[:index], w.clients[index+1:]...)
	w.clients = append([]*Client{c}, w.clients...)
	return c, true
}

// ActiveClient returns the currently focused client on this workspace (front of
// the LRU order), or nil if the workspace is empty.
func (w *Workspace) ActiveClient() *Client {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.clients) == 0 {
		return nil
	}
	return w.clients[0]
}

// Iter returns a snapshot slice of the clients in LRU order (most recently
// focused first). Callers must not mutate the returned slice.
func (w *Workspace) Iter() []*Client {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Client, len(w.clients))
	copy(out, w.clients)
	return out
}

// SetNoFocusWanted sets the window-switcher focus-suppression bit. There
// is no window switcher in this module: nothing calls SetNoFocusWanted or
// NoFocusWanted, and Client.Focus does not consult the bit.
func (w *Workspace) SetNoFocusWanted(v bool) {
	w.mu.Lock()
	w.noFocus = v
	w.mu.Unlock()
}

// NoFocusWanted reports the window-switcher suppression bit.
func (w *Workspace) NoFocusWanted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.noFocus
}
