// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texwm/main.go
// Summary: texwm entry point. No flags, per spec §6 "CLI surface": open
// the display, wire every subsystem, run the event loop until signaled
// to quit.
// Notes: Grounded on cmd/texelation/main.go's run()-returns-error shape
// and cmd/texelation/lifecycle/pidfile.go's single-instance guard,
// adapted from a client/server daemon split to a single foreground
// process, since a window manager cannot background itself the way a
// terminal-multiplexer server can — it must keep driving the X event
// loop as the process X clients redirect their MapRequests to.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"texwm/internal/bar"
	"texwm/internal/dock"
	"texwm/internal/fatal"
	"texwm/internal/notify"
	"texwm/internal/session"
	"texwm/internal/wm"
	"texwm/internal/wmconfig"
	"texwm/internal/wmlifecycle"
	"texwm/internal/wmlog"
	"texwm/internal/x"
)

func main() {
	if err := run(); err != nil {
		fatal.Exit(err)
	}
}

func run() error {
	configDir, err := configDirPath()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	logFile, err := wmlog.Init(configDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	pidFile := wmlifecycle.NewPIDFile(filepath.Join(configDir, "texwm.pid"))
	if pidFile.Exists() && pidFile.IsProcessRunning() {
		return fmt.Errorf("texwm is already running (%s)", pidFile.Path())
	}
	if err := pidFile.Write(os.Getpid()); err != nil {
		wmlog.Log.WithError(err).Warn("main: failed to write pidfile, continuing without single-instance guard")
	}
	defer pidFile.Remove()

	cfg, err := wmconfig.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	conn, err := x.Dial()
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}

	layout := wmconfig.NewLayout(cfg)
	splitCfg := wm.SplitConfig{MinPercent: cfg.MinSplitPercent, StickyPoints: cfg.StickyPoints, SnapGap: cfg.Gap}
	placeCfg := wm.PlacementConfig{MaxConsidered: 24}

	manager, err := wm.NewWindowManager(conn, layout, splitCfg, placeCfg, cfg.Workspaces)
	if err != nil {
		return fmt.Errorf("init window manager: %w", err)
	}

	monitors := wm.DetectMonitors(conn)
	manager.SetMonitors(monitors)

	primary := monitors.Primary()

	statusBar, err := bar.New(conn, bar.Config{Height: cfg.BarHeight, Gap: 4})
	if err != nil {
		wmlog.Log.WithError(err).Warn("main: bar init failed, continuing without it")
	}
	if statusBar != nil {
		statusBar.Resize(primary.Geometry)
		manager.Router.Add(statusBar)
		if tray, err := bar.NewTrayHost(conn, statusBar.Window()); err == nil {
			statusBar.SetTray(tray)
		} else {
			wmlog.Log.WithError(err).Warn("main: tray init failed, continuing without it")
		}
	}

	var pinned []dock.DesktopEntry
	for _, id := range cfg.DockPinned {
		pinned = append(pinned, dock.DesktopEntry{ID: id, Name: id, Exec: []string{id}})
	}
	taskDock, err := dock.New(conn, dock.Config{Pinned: pinned, KeepOpen: cfg.DockKeepOpen})
	if err != nil {
		wmlog.Log.WithError(err).Warn("main: dock init failed, continuing without it")
	}
	if taskDock != nil {
		taskDock.Resize(primary.Geometry)
		manager.Router.Add(taskDock)
	}

	notifyServer := notify.NewServer(primary.Geometry, 16, nil, func() { pushDBusEvent(conn) })
	if err := notifyServer.Start(); err != nil {
		wmlog.Log.WithError(err).Warn("main: notification server failed to start, feature disabled")
	}
	defer notifyServer.Close()

	// Every Quit reason, sleep included, ends the event loop and the
	// process exits normally; texwm neither suspends the host nor
	// re-execs itself.
	quit := make(chan session.Reason, 1)
	sessionMgr, err := session.Start(func(reason session.Reason) { quit <- reason }, func() { pushDBusEvent(conn) })
	if err != nil {
		wmlog.Log.WithError(err).Warn("main: session manager failed to start, feature disabled")
	}
	if sessionMgr != nil {
		defer sessionMgr.Close()
	}

	classifier := wm.WindowClassifier{MetaClasses: toSet(cfg.MetaClasses)}
	keymap, err := buildKeymap(conn, cfg.KeyBindings)
	if err != nil {
		wmlog.Log.WithError(err).Warn("main: some keybindings failed to resolve")
	}
	modMap := conn.RefreshModMap()
	mainHandler := wm.NewMainHandler(manager, classifier, keymap, modMap, conn.RefreshModMap)
	manager.Router.Add(mainHandler)
	manager.Router.SetMainSink(mainHandler.ID())

	for binding := range keymap {
		conn.GrabKey(binding.Code, binding.Mods)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		quit <- session.ReasonShutdown
	}()

	return eventLoop(conn, manager, quit)
}

// eventLoop is the single-threaded cooperative loop spec §5 describes:
// block for the next event, dispatch, drain signals, repeat.
func eventLoop(conn x.Conn, manager *wm.WindowManager, quit <-chan session.Reason) error {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-quit:
				close(done)
				return
			default:
			}
			ev, err := conn.NextEvent()
			if err != nil {
				wmlog.Log.WithError(err).Error("main: NextEvent failed")
				close(done)
				return
			}
			manager.Router.Dispatch(ev)
			manager.Router.DrainSignals(manager.Bus)
		}
	}()
	<-done
	return nil
}

// pushDBusEvent wakes the blocked event loop when a D-Bus service thread
// has queued a method call, per spec §5's synthetic type-code-254 bridge.
func pushDBusEvent(conn x.Conn) {
	conn.PutBackEvent(conn.CreateUnknownEvent(int(x.DBusEventNumber)))
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func configDirPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "texwm"), nil
}

// buildKeymap resolves each configured binding's modifier names and key
// name into the concrete KeyBinding->Action table the main handler looks
// up on every KeyPress, per spec §4.2.
func buildKeymap(conn x.Conn, specs []wmconfig.KeyBindingSpec) (map[wm.KeyBinding]wm.Action, error) {
	keymap := make(map[wm.KeyBinding]wm.Action, len(specs))
	modMap := conn.RefreshModMap()

	var firstErr error
	for _, spec := range specs {
		code, ok := conn.KeycodeForString(spec.Key)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("unknown key %q", spec.Key)
			}
			continue
		}
		mods := resolveMods(modMap, spec.Mods)
		action, ok := resolveAction(spec)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("unknown action %q", spec.Action)
			}
			continue
		}
		keymap[wm.KeyBinding{Mods: mods, Code: code}] = action
	}
	return keymap, firstErr
}

func resolveMods(modMap x.ModMap, names []string) uint16 {
	const shift = 1
	const ctrl = 4
	var mods uint16
	for _, name := range names {
		switch name {
		case "shift":
			mods |= shift
		case "ctrl", "control":
			mods |= ctrl
		case "alt":
			mods |= modMap.Alt
		case "super":
			mods |= modMap.Super
		}
	}
	return mods
}

func resolveAction(spec wmconfig.KeyBindingSpec) (wm.Action, bool) {
	switch spec.Action {
	case "launch":
		launch := spec.Launch
		return wm.Action{Kind: wm.ActionLaunch, Launch: launch}, true
	case "close-client":
		return wm.Action{Kind: wm.ActionClient, ClientFn: func(c *wm.Client) { c.Close() }}, true
	case "toggle-fullscreen":
		return wm.Action{Kind: wm.ActionGeneric, GenericFn: toggleFullscreen}, true
	case "snap-left":
		return wm.Action{Kind: wm.ActionClient, ClientFn: func(c *wm.Client) { c.SnapLeft() }}, true
	case "snap-right":
		return wm.Action{Kind: wm.ActionClient, ClientFn: func(c *wm.Client) { c.SnapRight() }}, true
	case "window-switcher-next":
		// The window switcher overlay itself is a drawing-backend
		// collaborator (spec §1 non-goal); the core only needs to expose
		// the workspace's LRU order, already available via Workspace.Iter.
		return wm.Action{Kind: wm.ActionGeneric, GenericFn: func(*wm.WindowManager) {}}, true
	default:
		if idx, ok := workspaceIndexFromAction(spec.Action); ok {
			return wm.Action{Kind: wm.ActionWorkspace, WorkspaceFn: func(manager *wm.WindowManager, _ int, _ *wm.Client) {
				manager.SwitchWorkspace(idx)
			}}, true
		}
		return wm.Action{}, false
	}
}

func toggleFullscreen(manager *wm.WindowManager) {
	ws := manager.Workspace(manager.ActiveWorkspace())
	c := ws.ActiveClient()
	if c == nil {
		return
	}
	if c.IsFullscreen() {
		c.ClearFullscreen()
		return
	}
	c.SetFullscreen(manager.MonitorWindowArea(c.Monitor()))
}

func workspaceIndexFromAction(name string) (int, bool) {
	const prefix = "switch-workspace-"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return 0, false
	}
	n := 0
	for _, r := range name[len(prefix):] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n - 1, true
}
