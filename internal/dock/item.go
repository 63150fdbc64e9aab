// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/dock/item.go
// Summary: Dock items, per spec §4.11. Each item knows its desktop-entry
// metadata, running instances, and a focused-instance index.

package dock

import "texwm/internal/wm"

// DesktopEntry is the subset of a .desktop file's fields the dock cares
// about: launch command, display name/icon, and extra context-menu
// actions (the XDG "Actions=" group).
type DesktopEntry struct {
	ID      string
	Name    string
	Icon    string
	Exec    []string
	Actions []Action
}

// Action is one named extra launch target from a desktop entry's
// Actions group (e.g. "New Window").
type Action struct {
	Name string
	Exec []string
}

// Item groups a desktop entry with the running client instances matched
// to it. Pinned items exist even with zero instances; dynamic items are
// created for running clients that don't match any pinned entry and are
// dropped once their last instance closes.
type Item struct {
	Entry    DesktopEntry
	Pinned   bool
	Instances []*wm.Client

	// focused is the index into Instances that B1 focuses; clamped into
	// range whenever Instances changes.
	focused int
}

// FocusedInstance returns the currently focused-by-default instance, or
// nil if the item has none. An out-of-bounds focused index (which should
// never occur, since every mutation clamps it) is treated as a bug at
// the boundary rather than silently wrapped, per spec §9 open question 1.
func (it *Item) FocusedInstance() (*wm.Client, bool) {
	if it.focused < 0 || it.focused >= len(it.Instances) {
		return nil, false
	}
	return it.Instances[it.focused], true
}

// AddInstance appends a running client and makes it the focused instance.
func (it *Item) AddInstance(c *wm.Client) {
	it.Instances = append(it.Instances, c)
	it.focused = len(it.Instances) - 1
}

// RemoveInstance drops a client, clamping the focused index back into
// range.
func (it *Item) RemoveInstance(c *wm.Client) {
	for i, inst := range it.Instances {
		if inst == c {
			it.Instances = append(it.Instances[:i], it.Instances[i+1:]...)
			break
		}
	}
	if it.focused >= len(it.Instances) {
		it.focused = len(it.Instances) - 1
	}
}

// SetFocusedInstance selects index as the default-focus instance; an
// out-of-range index is rejected rather than clamped (spec §9 open
// question 1).
func (it *Item) SetFocusedInstance(index int) bool {
	if index < 0 || index >= len(it.Instances) {
		return false
	}
	it.focused = index
	return true
}

// IsRunning reports whether the item has any live instance.
func (it *Item) IsRunning() bool { return len(it.Instances) > 0 }
