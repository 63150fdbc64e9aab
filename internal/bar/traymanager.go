// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/bar/traymanager.go
// Summary: The fd.o system-tray host, per spec §4.10 steps 1-6.
// Notes: Grounded on cortile's store/client.go selection-ownership
// pattern (3201717d_mark-cooke-cortile__store-client.go.go) for the
// _NET_SYSTEM_TRAY_S0 acquire-or-fail shape.

package bar

import (
	"sort"
	"sync"
	"time"

	"texwm/internal/geometry"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

const (
	iconSize          = 22
	trayOpcodeDock    = 0
	trayManagerDelay  = 250 * time.Millisecond
)

// trayIcon is one docked application's tray icon.
type trayIcon struct {
	win     x.Window
	class   string
	mapped  bool
}

// TrayHost implements the fd.o system-tray protocol: selection ownership,
// MANAGER broadcast, REQUEST_DOCK handling, and icon layout, sorted by
// WM_CLASS.
type TrayHost struct {
	conn x.Conn
	win  x.Window

	mu    sync.Mutex
	icons []*trayIcon
}

// NewTrayHost attempts to acquire _NET_SYSTEM_TRAY_S0. If another window
// already owns it, it returns an error and the caller runs without a
// tray (spec step 1).
func NewTrayHost(conn x.Conn, parent x.Window) (*TrayHost, error) {
	owner, err := conn.GetSelectionOwner("_NET_SYSTEM_TRAY_S0")
	if err == nil && owner != x.None {
		return nil, errAlreadyOwned
	}

	win, err := conn.CreateFrameWindow(parent, geometry.NewRect(0, 0, 1, iconSize), 0)
	if err != nil {
		return nil, err
	}
	if err := conn.SetSelectionOwner(win, "_NET_SYSTEM_TRAY_S0"); err != nil {
		return nil, err
	}

	const horizontal = 0
	conn.ChangeProperty(win, 0, "_NET_SYSTEM_TRAY_ORIENTATION", "CARDINAL", 32, encode32(horizontal))

	t := &TrayHost{conn: conn, win: win}

	// Broadcast MANAGER after a small delay so clients have time to start
	// listening for the selection, per spec step 3; this is a timeout
	// thread per spec §5, communicating back only by the side effect of
	// the client message it sends (no signal needed).
	go func() {
		time.Sleep(trayManagerDelay)
		conn.SendClientMessage(conn.Root(), "MANAGER", 32, [5]uint32{0, 0, uint32(win), 0, 0})
	}()

	return t, nil
}

type trayError string

func (e trayError) Error() string { return string(e) }

const errAlreadyOwned = trayError("_NET_SYSTEM_TRAY_S0 already owned")

func encode32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// Width returns the pixel width the tray currently occupies, for the bar
// to reserve when laying out right widgets.
func (t *TrayHost) Width() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int32(len(t.icons)) * iconSize
}

// HandleOpcode processes a _NET_SYSTEM_TRAY_OPCODE client message, per
// spec step 4. data is the message's 5 CARD32 words.
func (t *TrayHost) HandleOpcode(data [5]uint32) {
	opcode := data[1]
	if opcode != trayOpcodeDock {
		return
	}
	iconWin := x.Window(data[2])

	raw, _, _ := t.conn.GetProperty(iconWin, "_XEMBED_INFO")
	info, ok := decodeXembedInfo(raw)
	if !ok {
		info = xembedInfo{version: xembedVersion, mapped: true}
	}

	t.conn.ReparentWindow(iconWin, t.win, 0, 0)
	if err := sendEmbeddedNotify(t.conn, t.win, iconWin, info.version); err != nil {
		wmlog.WithWindow(uint32(iconWin)).WithError(err).Warn("tray: embedded-notify failed")
	}

	class, _, _ := t.conn.GetProperty(iconWin, "WM_CLASS")
	icon := &trayIcon{win: iconWin, class: string(class), mapped: info.mapped}

	t.mu.Lock()
	t.icons = append(t.icons, icon)
	sort.Slice(t.icons, func(i, j int) bool { return t.icons[i].class < t.icons[j].class })
	t.mu.Unlock()

	if info.mapped {
		t.conn.MapWindow(iconWin)
	}
	t.relayout()
}

// OnPropertyChanged updates an icon's mapped state from a fresh
// _XEMBED_INFO read, per spec step 6.
func (t *TrayHost) OnPropertyChanged(win x.Window) {
	raw, _, _ := t.conn.GetProperty(win, "_XEMBED_INFO")
	info, ok := decodeXembedInfo(raw)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, icon := range t.icons {
		if icon.win == win {
			icon.mapped = info.mapped
			if info.mapped {
				t.conn.MapWindow(win)
			} else {
				t.conn.UnmapWindow(win)
			}
			return
		}
	}
}

// Remove drops an icon on DestroyNotify/UnmapNotify, per spec step 6.
func (t *TrayHost) Remove(win x.Window) {
	t.mu.Lock()
	for i, icon := range t.icons {
		if icon.win == win {
			t.icons = append(t.icons[:i], t.icons[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	t.relayout()
}

// relayout rearranges icons left-to-right and unmaps the tray container
// when empty, per spec step 5.
func (t *TrayHost) relayout() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.icons) == 0 {
		t.conn.UnmapWindow(t.win)
		return
	}
	t.conn.MapWindow(t.win)
	x := int32(0)
	for _, icon := range t.icons {
		t.conn.MoveResizeWindow(icon.win, geometry.NewRect(x, 0, iconSize, iconSize))
		x += iconSize
	}
}
