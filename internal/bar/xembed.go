// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/bar/xembed.go
// Summary: XEmbed protocol helpers, per spec §4.10 and §6 "XEmbed".

package bar

import "texwm/internal/x"

const xembedVersion = 5

// xembedInfo is the decoded _XEMBED_INFO property: a CARD32 version
// followed by a CARD32 flags word whose bit 0 is XEMBED_MAPPED.
type xembedInfo struct {
	version uint32
	mapped  bool
}

func decodeXembedInfo(data []byte) (xembedInfo, bool) {
	if len(data) < 8 {
		return xembedInfo{}, false
	}
	version := le32(data[0:4])
	flags := le32(data[4:8])
	const xembedMapped = 1
	return xembedInfo{version: version, mapped: flags&xembedMapped != 0}, true
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// sendEmbeddedNotify sends the _XEMBED EMBEDDED_NOTIFY message to an
// icon window being docked, with version = min(clientVersion, 5).
func sendEmbeddedNotify(conn x.Conn, tray, icon x.Window, clientVersion uint32) error {
	version := clientVersion
	if version > xembedVersion {
		version = xembedVersion
	}
	const embeddedNotify = 0
	return conn.SendClientMessage(icon, "_XEMBED", 32, [5]uint32{
		0, embeddedNotify, 0, uint32(tray), version,
	})
}
