// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wm/randr.go
// Summary: RandR output enumeration into Monitors, per spec §3/§4.5.
// Notes: Grounded on alexzeitgeist-cortile's store/root.go PhysicalHeadsGet
// (GetScreenResources/GetOutputPrimary/GetOutputInfo/GetCrtcInfo), adapted
// to this package's Monitor/Monitors shape and to fail soft instead of
// log.Fatal, since an output query failure here must not take the whole
// window manager down.

package wm

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"

	"texwm/internal/geometry"
	"texwm/internal/x"
)

// rawConnSource is satisfied by the production x.Conn; test fakes aren't,
// which is exactly the fallback signal DetectMonitors needs.
type rawConnSource interface {
	RawConn() *xgb.Conn
}

// DetectMonitors queries RandR for connected outputs and their CRTC
// geometry. If conn has no raw xgb connection (a test fake) or the RandR
// extension is unavailable, it falls back to a single monitor spanning
// the root window.
func DetectMonitors(conn x.Conn) Monitors {
	src, ok := conn.(rawConnSource)
	if !ok {
		return singleMonitorFallback(conn)
	}
	raw := src.RawConn()
	if err := randr.Init(raw); err != nil {
		return singleMonitorFallback(conn)
	}

	resources, err := randr.GetScreenResources(raw, conn.Root()).Reply()
	if err != nil {
		return singleMonitorFallback(conn)
	}
	primaryReply, _ := randr.GetOutputPrimary(raw, conn.Root()).Reply()

	var monitors Monitors
	for _, output := range resources.Outputs {
		info, err := randr.GetOutputInfo(raw, output, 0).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(raw, info.Crtc, 0).Reply()
		if err != nil {
			continue
		}
		monitors = append(monitors, Monitor{
			Index:    len(monitors),
			Name:     string(info.Name),
			Geometry: geometry.NewRect(int32(crtc.X), int32(crtc.Y), uint32(crtc.Width), uint32(crtc.Height)),
			Primary:  primaryReply != nil && output == primaryReply.Output,
		})
	}

	if len(monitors) == 0 {
		return singleMonitorFallback(conn)
	}
	if !anyPrimary(monitors) {
		monitors[0].Primary = true
	}
	return monitors
}

func anyPrimary(ms Monitors) bool {
	for _, m := range ms {
		if m.Primary {
			return true
		}
	}
	return false
}

func singleMonitorFallback(conn x.Conn) Monitors {
	rect, err := conn.GetGeometry(conn.Root())
	if err != nil {
		rect = geometry.NewRect(0, 0, 1920, 1080)
	}
	return Monitors{{Index: 0, Name: "default", Geometry: rect, Primary: true}}
}
