// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/wmlog/wmlog.go
// Summary: Process-wide structured logger shared by every subsystem.

// Package wmlog provides the single logrus logger the whole window manager
// writes through, mirroring the teacher's one-shared-*log.Logger idiom but
// with leveled, structured output so error/warn/trace distinctions required
// by the error handling design are expressible.
package wmlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Every package imports this instead of
// constructing its own.
var Log = logrus.New()

// Init points Log at both stderr and <configDir>/log.txt, truncating the
// log file so each run starts with a clean history. Returns the opened file
// so main can close it on shutdown.
func Init(configDir string) (*os.File, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("wmlog: create config dir: %w", err)
	}
	path := filepath.Join(configDir, "log.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("wmlog: open %s: %w", path, err)
	}
	Log.SetOutput(io.MultiWriter(os.Stderr, f))
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Log.SetLevel(logrus.InfoLevel)
	return f, nil
}

// WithWindow is shorthand for the field every client/frame/window related
// log line carries.
func WithWindow(window uint32) *logrus.Entry {
	return Log.WithField("window", window)
}
