// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/conn_fake_test.go
// Summary: A fake x.Conn recording every call instead of talking to a
// server, in the teacher's stubScreenDriver style (texel/desktop_test.go).

package wm

import (
	"sync"

	"github.com/jezek/xgb/xproto"

	"texwm/internal/geometry"
	"texwm/internal/x"
)

// fakeConn implements x.Conn entirely in memory: every window-creating
// call hands out the next sequential id, every geometry-mutating call
// records the result in rects, and mapped/unmapped windows are tracked in
// a set so tests can assert visibility without a real display.
type fakeConn struct {
	mu sync.Mutex

	root    x.Window
	nextWin x.Window

	rects   map[x.Window]geometry.Rect
	mapped  map[x.Window]bool
	raised  []x.Window
	props   map[string][]byte
	focus   x.Window
	parents map[x.Window]x.Window
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		root:    1,
		nextWin: 100,
		rects:   make(map[x.Window]geometry.Rect),
		mapped:  make(map[x.Window]bool),
		props:   make(map[string][]byte),
		parents: make(map[x.Window]x.Window),
	}
}

func (f *fakeConn) Root() x.Window { return f.root }

func (f *fakeConn) Atom(name string) (xproto.Atom, error) { return 1, nil }
func (f *fakeConn) AtomName(atom xproto.Atom) string       { return "FAKE_ATOM" }

func (f *fakeConn) NextEvent() (x.Event, error)  { return x.Event{}, nil }
func (f *fakeConn) PutBackEvent(ev x.Event)      {}
func (f *fakeConn) Flush()                       {}
func (f *fakeConn) Sync(discard bool)            {}

func (f *fakeConn) MapWindow(w x.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapped[w] = true
}

func (f *fakeConn) UnmapWindow(w x.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapped[w] = false
}

func (f *fakeConn) RaiseWindow(w x.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raised = append(f.raised, w)
}

func (f *fakeConn) LowerWindow(w x.Window) {}

func (f *fakeConn) MoveResizeWindow(w x.Window, r geometry.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rects[w] = r
}

func (f *fakeConn) ReparentWindow(w, parent x.Window, x2, y2 int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parents[w] = parent
}

func (f *fakeConn) DestroyWindow(w x.Window) {}
func (f *fakeConn) KillClient(w x.Window)    {}

func (f *fakeConn) ChangeWindowAttributes(w x.Window, overrideRedirect bool, eventMask uint32) {}

func (f *fakeConn) GetProperty(w x.Window, atomName string) ([]byte, xproto.Atom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[atomName], 0, nil
}

func (f *fakeConn) ChangeProperty(w x.Window, mode byte, atomName, typeName string, format byte, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[atomName] = data
	return nil
}

func (f *fakeConn) DeleteProperty(w x.Window, atomName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.props, atomName)
	return nil
}

func (f *fakeConn) SendClientMessage(w x.Window, messageType string, format byte, data [5]uint32) error {
	return nil
}

func (f *fakeConn) QueryTree(w x.Window) (x.Window, []x.Window, error) { return f.root, nil, nil }

func (f *fakeConn) GetGeometry(w x.Window) (geometry.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rects[w], nil
}

func (f *fakeConn) QueryPointer(w x.Window) (int32, int32, bool, error) { return 0, 0, true, nil }

func (f *fakeConn) SetInputFocus(w x.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focus = w
}

func (f *fakeConn) GetSelectionOwner(atomName string) (x.Window, error) { return x.None, nil }
func (f *fakeConn) SetSelectionOwner(w x.Window, atomName string) error { return nil }

func (f *fakeConn) GrabKey(code xproto.Keycode, mods uint16)              {}
func (f *fakeConn) UngrabKey(code xproto.Keycode, mods uint16)            {}
func (f *fakeConn) GrabButton(button xproto.Button, mods uint16, confine x.Window) {}
func (f *fakeConn) GrabKeyboard(w x.Window) error                         { return nil }
func (f *fakeConn) GrabPointer(cursor uint32) (func(), error)             { return func() {}, nil }

func (f *fakeConn) CreateUnknownEvent(typeCode int) x.Event {
	return x.Event{Number: uint8(typeCode)}
}

func (f *fakeConn) CreateInputOnlyWindow(parent x.Window, r geometry.Rect) (x.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.nextWin
	f.nextWin++
	f.rects[w] = r
	f.parents[w] = parent
	return w, nil
}

func (f *fakeConn) CreateFrameWindow(parent x.Window, r geometry.Rect, visual uint32) (x.Window, error) {
	return f.CreateInputOnlyWindow(parent, r)
}

func (f *fakeConn) RefreshModMap() x.ModMap { return x.ModMap{} }

func (f *fakeConn) KeycodeForString(name string) (xproto.Keycode, bool) { return 0, false }

// rectOf returns the last geometry recorded for w, for test assertions.
func (f *fakeConn) rectOf(w x.Window) geometry.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rects[w]
}

func (f *fakeConn) isMapped(w x.Window) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mapped[w]
}
