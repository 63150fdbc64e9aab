// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/notify/notify.go
// Summary: The fd.o Notifications D-Bus server, per spec §4.12.
// Notes: Grounded on internal/session's Export-based wiring for the
// D-Bus server shape, and on the teacher's texel/dispatcher.go
// signal-channel pattern for bridging the async D-Bus goroutine back to
// the main loop.

package notify

import (
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"texwm/internal/geometry"
	"texwm/internal/wmlog"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	ifaceName  = "org.freedesktop.Notifications"

	serverName    = "texwm"
	serverVendor  = "texwm"
	serverVersion = "1.0"
	specVersion   = "1.2"

	// CloseReasonExpired/Dismissed/Closed/Other are the NotificationClosed
	// signal's reason codes, per spec §6.
	CloseReasonExpired   = 1
	CloseReasonDismissed = 2
	CloseReasonClosed    = 3
	CloseReasonOther     = 4

	defaultExpireMillis = 5000
)

// Notification is one live notification's rendering-relevant state; the
// drawing backend (out of scope) consumes this to lay out {icon, summary,
// body separator, body}.
type Notification struct {
	ID      uint32
	AppName string
	AppIcon string
	Summary string
	Body    string
	Rect    geometry.Rect

	timer *time.Timer
}

// Server implements org.freedesktop.Notifications and maintains the
// stack of live notifications positioned top-right of the primary
// monitor, per spec §4.12.
type Server struct {
	conn *dbus.Conn

	mu         sync.Mutex
	nextID     uint32
	live       map[uint32]*Notification
	order      []uint32 // stacking order, most recent last
	primary    geometry.Rect
	lineHeight int32

	onChanged func() // re-layout callback, invoked whenever live changes
	onClosed  func(id uint32, reason uint32)
	postEvent func()
}

type notifyObject struct {
	s *Server
}

// GetCapabilities returns the capability list advertised to clients.
func (n *notifyObject) GetCapabilities() ([]string, *dbus.Error) {
	return []string{"body", "persistence", "body-images"}, nil
}

// GetServerInformation returns (name, vendor, version, spec_version).
func (n *notifyObject) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return serverName, serverVendor, serverVersion, specVersion, nil
}

// Notify implements the core method: allocate or reuse an id, create or
// replace the notification, and schedule its close.
func (n *notifyObject) Notify(appName string, replacesID uint32, appIcon string, summary string, body string, actions []string, hints map[string]dbus.Variant, expireTimeout int32) (uint32, *dbus.Error) {
	id := n.s.notify(appName, replacesID, appIcon, summary, body, expireTimeout)
	return id, nil
}

// CloseNotification removes a live notification and emits
// NotificationClosed(id, 3).
func (n *notifyObject) CloseNotification(id uint32) *dbus.Error {
	n.s.close(id, CloseReasonClosed)
	return nil
}

// NewServer constructs a notification server bound to the primary
// monitor's geometry; onChanged is invoked after every mutation so the
// caller can re-run the stacking layout, and postEvent posts the
// synthetic main-loop wakeup (spec §5).
func NewServer(primary geometry.Rect, lineHeight int32, onChanged func(), postEvent func()) *Server {
	return &Server{
		live:       make(map[uint32]*Notification),
		primary:    primary,
		lineHeight: lineHeight,
		onChanged:  onChanged,
		postEvent:  postEvent,
	}
}

// Start connects to the session bus, requests org.freedesktop.Notifications,
// and exports the interface. A prior notification daemon holding the name
// is not an error per se (spec doesn't mandate exclusivity the way the
// tray selection does) but is logged, since only one daemon can actually
// receive calls.
func (s *Server) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	s.conn = conn
	if err := conn.Export(&notifyObject{s: s}, objectPath, ifaceName); err != nil {
		conn.Close()
		return err
	}
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		wmlog.Log.Warn("notify: another notification daemon already owns the bus name")
	}
	return nil
}

// Close releases the bus connection and cancels every pending close timer.
func (s *Server) Close() error {
	s.mu.Lock()
	for _, n := range s.live {
		if n.timer != nil {
			n.timer.Stop()
		}
	}
	s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Server) notify(appName string, replacesID uint32, appIcon, summary, body string, expireTimeout int32) uint32 {
	s.mu.Lock()
	id := replacesID
	if id == 0 {
		s.nextID++
		if s.nextID == 0 { // wrap past zero, which is reserved for "new"
			s.nextID = 1
		}
		id = s.nextID
	}
	if existing, ok := s.live[id]; ok {
		if existing.timer != nil {
			existing.timer.Stop()
		}
	} else {
		s.order = append(s.order, id)
	}

	n := &Notification{ID: id, AppName: appName, AppIcon: appIcon, Summary: summary, Body: body}
	s.live[id] = n
	s.scheduleCloseLocked(n, expireTimeout)
	s.restackLocked()
	onChanged := s.onChanged
	s.mu.Unlock()

	if onChanged != nil {
		onChanged()
	}
	return id
}

func (s *Server) scheduleCloseLocked(n *Notification, expireTimeout int32) {
	var after time.Duration
	switch {
	case expireTimeout > 0:
		after = time.Duration(expireTimeout) * time.Millisecond
	case expireTimeout < 0:
		after = defaultExpireMillis * time.Millisecond
	default:
		return // 0 means never auto-close
	}
	id := n.ID
	n.timer = time.AfterFunc(after, func() { s.close(id, CloseReasonExpired) })
}

// restackLocked positions every live notification top-right of the
// primary monitor, stacking downward in order.
func (s *Server) restackLocked() {
	y := s.primary.Y
	for _, id := range s.order {
		n, ok := s.live[id]
		if !ok {
			continue
		}
		n.Rect = geometry.NewRect(s.primary.Right()-320, y, 320, uint32(s.lineHeight*3))
		y += int32(n.Rect.H)
	}
}

// close removes id, if present, and emits NotificationClosed(id, reason)
// via the D-Bus signal and the onClosed callback, then calls postEvent to
// post the synthetic main-loop event.
func (s *Server) close(id uint32, reason uint32) {
	s.mu.Lock()
	n, ok := s.live[id]
	if ok {
		delete(s.live, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		if n.timer != nil {
			n.timer.Stop()
		}
		s.restackLocked()
	}
	onChanged := s.onChanged
	onClosed := s.onClosed
	postEvent := s.postEvent
	s.mu.Unlock()

	if !ok {
		return
	}
	if s.conn != nil {
		_ = s.conn.Emit(objectPath, ifaceName+".NotificationClosed", id, reason)
	}
	if onClosed != nil {
		onClosed(id, reason)
	}
	if onChanged != nil {
		onChanged()
	}
	if postEvent != nil {
		postEvent()
	}
}

// DismissByClick closes id with reason=2 (dismissed), the path a click
// on the notification window itself takes.
func (s *Server) DismissByClick(id uint32) {
	s.close(id, CloseReasonDismissed)
}

// Live returns a snapshot of every currently displayed notification, in
// stacking order, for the drawing backend to render.
func (s *Server) Live() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, 0, len(s.order))
	for _, id := range s.order {
		if n, ok := s.live[id]; ok {
			out = append(out, *n)
		}
	}
	return out
}
