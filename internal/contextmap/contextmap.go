// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/contextmap/contextmap.go
// Summary: Process-wide (window, context-kind) -> value map every sink
// queries to decide who owns an X window.
// Notes: Grounded on the teacher's single-dispatcher-instance idiom
// (texel/dispatcher.go's package-scoped wiring) generalized to a closed
// kind set per spec §3.

package contextmap

import "sync"

// Kind is the closed set of context-map keys the spec names.
type Kind int

const (
	KindClient Kind = iota
	KindWindowRole
)

// WindowRole enumerates every window role the window manager recognizes,
// used to route input to the right sink without a type switch on a
// concrete owner type.
type WindowRole int

const (
	RoleClient WindowRole = iota
	RoleFrame
	RoleFrameButton
	RoleExtendedFrame
	RoleDock
	RoleDockItem
	RoleDockShow
	RoleStatusBar
	RoleStatusBarWidget
	RoleTrayClient
	RoleNotification
	RoleContextMenu
	RoleContextMenuItem
	RoleSplitHandle
	RoleMouseBlock
	RoleWindowSwitcher
	RoleMetaOrUnmanaged
	RoleRoot
)

// ClientHandle is the minimal interface the context map needs from a
// managed client; internal/wm.Client satisfies it. Kept as an interface
// here so internal/contextmap has no dependency on internal/wm (it is a
// leaf package per the dependency order in spec §2).
type ClientHandle interface {
	Win() uint32
}

type key struct {
	window uint32
	kind   Kind
}

// Map is the process-wide context map. A zero value is usable.
type Map struct {
	mu    sync.RWMutex
	roles map[uint32]WindowRole
	owner map[uint32]ClientHandle

	// last-queried cache: sinks repeatedly ask about the same window while
	// deciding whether to accept an event, so remember the last answer.
	lastMu     sync.Mutex
	lastWindow uint32
	lastKind   Kind
	lastRole   WindowRole
	lastOwner  ClientHandle
	lastValid  bool
}

// New creates an empty context map.
func New() *Map {
	return &Map{
		roles: make(map[uint32]WindowRole),
		owner: make(map[uint32]ClientHandle),
	}
}

// SetRole associates window with role.
func (m *Map) SetRole(window uint32, role WindowRole) {
	m.mu.Lock()
	m.roles[window] = role
	m.mu.Unlock()
	m.invalidate(window, KindWindowRole)
}

// SetOwner associates window with the client that owns it (the client
// itself, its frame, its buttons, its extended frame all map to the same
// owning Client).
func (m *Map) SetOwner(window uint32, owner ClientHandle) {
	m.mu.Lock()
	m.owner[window] = owner
	m.mu.Unlock()
	m.invalidate(window, KindClient)
}

// Role returns the role registered for window, and whether one exists.
func (m *Map) Role(window uint32) (WindowRole, bool) {
	m.lastMu.Lock()
	if m.lastValid && m.lastWindow == window && m.lastKind == KindWindowRole {
		role := m.lastRole
		m.lastMu.Unlock()
		return role, true
	}
	m.lastMu.Unlock()

	m.mu.RLock()
	role, ok := m.roles[window]
	m.mu.RUnlock()
	if ok {
		m.remember(window, KindWindowRole, role, nil)
	}
	return role, ok
}

// Owner returns the client registered for window, and whether one exists.
func (m *Map) Owner(window uint32) (ClientHandle, bool) {
	m.lastMu.Lock()
	if m.lastValid && m.lastWindow == window && m.lastKind == KindClient {
		owner := m.lastOwner
		m.lastMu.Unlock()
		return owner, owner != nil
	}
	m.lastMu.Unlock()

	m.mu.RLock()
	owner, ok := m.owner[window]
	m.mu.RUnlock()
	if ok {
		m.remember(window, KindClient, 0, owner)
	}
	return owner, ok
}

// Delete removes every context-map entry for window. Called when a window
// (client, frame, button, extended frame...) is destroyed.
func (m *Map) Delete(window uint32) {
	m.mu.Lock()
	delete(m.roles, window)
	delete(m.owner, window)
	m.mu.Unlock()
	m.invalidate(window, KindClient)
	m.invalidate(window, KindWindowRole)
}

func (m *Map) remember(window uint32, kind Kind, role WindowRole, owner ClientHandle) {
	m.lastMu.Lock()
	m.lastWindow, m.lastKind, m.lastRole, m.lastOwner, m.lastValid = window, kind, role, owner, true
	m.lastMu.Unlock()
}

func (m *Map) invalidate(window uint32, kind Kind) {
	m.lastMu.Lock()
	if m.lastValid && m.lastWindow == window && m.lastKind == kind {
		m.lastValid = false
	}
	m.lastMu.Unlock()
}
