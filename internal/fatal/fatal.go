// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/fatal/fatal.go
// Summary: Fatal-init error handling: log the error, print it to stderr,
// and exit(1). ShowAndExit can also display a message through a
// caller-supplied callback; nothing in this module calls it.

package fatal

import (
	"fmt"
	"os"

	"texwm/internal/wmlog"
)

// Exit logs err at error level, prints it to stderr, and terminates the
// process with status 1. main calls it for every error run returns:
// config dir or log file setup, an already running instance, an invalid
// config file, display open failure, and window manager init. It shows
// no full-screen message. A failure to create a mapped client's frame
// does not reach it; the main handler only logs that error.
func Exit(err error) {
	wmlog.Log.WithError(err).Error("fatal")
	fmt.Fprintln(os.Stderr, "texwm: fatal:", err)
	os.Exit(1)
}

// ShowAndExit additionally attempts to display message as a full-screen
// dismissible window via show (the out-of-scope drawing backend); if show
// is nil or returns an error, it falls back to the stderr-only path so a
// broken display never prevents the process from actually exiting.
func ShowAndExit(message string, show func(message string) error) {
	wmlog.Log.WithField("message", message).Error("fatal: displaying full-screen message")
	if show != nil {
		if err := show(message); err != nil {
			wmlog.Log.WithError(err).Warn("fatal: could not display full-screen message")
		}
	}
	fmt.Fprintln(os.Stderr, "texwm: fatal:", message)
	os.Exit(1)
}
