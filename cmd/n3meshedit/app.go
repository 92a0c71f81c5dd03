package main

import (
	"errors"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/config"
	"github.com/Faultbox/n3mesh-editor/internal/editor"
	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx"
	"github.com/Faultbox/n3mesh-editor/internal/engine/gfx/glgfx"
	"github.com/Faultbox/n3mesh-editor/internal/engine/input"
	"github.com/Faultbox/n3mesh-editor/internal/engine/input/sdlinput"
	"github.com/Faultbox/n3mesh-editor/internal/engine/window"
	"github.com/Faultbox/n3mesh-editor/internal/logger"
	"github.com/Faultbox/n3mesh-editor/internal/watch"
)

// app wires the window, device, editor and file watcher together and runs
// the UI loop. Everything except the dialog and watcher goroutines runs on
// the main thread.
type app struct {
	cfg     *config.Config
	win     *window.Window
	dev     *glgfx.Device
	editor  *editor.Editor
	poller  *sdlinput.Poller
	control *input.Controller
	watcher *watch.Watcher

	// opened receives paths picked in the file dialog.
	opened chan string
	title  string
}

func newApp(cfg *config.Config) (*app, error) {
	win, err := window.New(window.Config{
		Title:  appName,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return nil, err
	}

	dev, err := glgfx.New(win.SwapBuffers)
	if err != nil {
		win.Close()
		return nil, err
	}

	dw, dh := win.DrawableSize()
	ed, err := editor.New(dev, editor.Options{
		Width:     dw,
		Height:    dh,
		Camera:    cfg.CameraSettings(),
		Grid:      cfg.GridConfig(),
		ShowGrid:  cfg.Viewer.ShowGrid,
		Wireframe: cfg.Viewer.Wireframe,
	})
	if err != nil {
		dev.Close()
		win.Close()
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		win:    win,
		dev:    dev,
		editor: ed,
		poller: sdlinput.New(),
		opened: make(chan string, 1),
	}
	a.control = input.NewController(ed)

	if cfg.Viewer.Watch {
		if a.watcher, err = watch.New(cfg.Viewer.WatchDebounce); err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		}
	}
	return a, nil
}

// Close releases everything in reverse creation order.
func (a *app) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.editor.Close()
	a.dev.Close()
	a.win.Close()
}

func (a *app) load(path string) {
	if err := a.editor.Load(path); err != nil {
		if a.watcher != nil {
			a.watcher.Stop()
		}
		return
	}
	if a.watcher != nil {
		if err := a.watcher.Watch(path); err != nil {
			logger.Warn("cannot watch mesh file", zap.String("path", path), zap.Error(err))
		}
	}
}

// Run processes events and renders until the window closes.
func (a *app) Run() {
	var frameTime time.Duration
	if a.cfg.Window.FPSLimit > 0 {
		frameTime = time.Second / time.Duration(a.cfg.Window.FPSLimit)
	}

	for {
		start := time.Now()

		quit := a.poller.Update()
		for _, ev := range a.poller.Events() {
			if a.handle(a.toDrawable(ev)) {
				quit = true
			}
		}
		if quit {
			return
		}

		a.drainRequests()

		if err := a.editor.Render(); errors.Is(err, gfx.ErrDeviceLost) {
			// Nothing to recover into; wait instead of spinning.
			sdl.Delay(100)
		}
		a.updateTitle()

		if frameTime > 0 {
			if d := frameTime - time.Since(start); d > 0 {
				sdl.Delay(uint32(d / time.Millisecond))
			}
		}
	}
}

// handle applies one event and reports whether the viewer should quit.
func (a *app) handle(ev input.Event) bool {
	switch a.control.Handle(ev) {
	case input.CommandQuit:
		return true
	case input.CommandOpen:
		a.openDialog()
	case input.CommandLoad:
		a.load(a.control.Path)
	case input.CommandReload:
		if a.editor.Path() != "" {
			a.load(a.editor.Path())
		}
	case input.CommandSave:
		_ = a.editor.Save(a.editor.Path())
	}
	return false
}

// toDrawable converts mouse coordinates from window units to framebuffer
// pixels, which is the space the editor's viewport uses.
func (a *app) toDrawable(ev input.Event) input.Event {
	ww, wh := a.win.Size()
	dw, dh := a.win.DrawableSize()
	if ww <= 0 || wh <= 0 || (ww == dw && wh == dh) {
		return ev
	}
	ev.MouseX = ev.MouseX * dw / ww
	ev.MouseY = ev.MouseY * dh / wh
	if ev.Type == input.EventWindowResize {
		ev.Width, ev.Height = dw, dh
	}
	return ev
}

func (a *app) drainRequests() {
	var reloads <-chan string
	if a.watcher != nil {
		reloads = a.watcher.Reloads()
	}
	select {
	case path := <-a.opened:
		a.load(path)
	case path := <-reloads:
		if path == a.editor.Path() || a.editor.Path() == "" {
			logger.Info("reloading changed mesh", zap.String("path", path))
			a.load(path)
		}
	default:
	}
}

// openDialog shows a native file dialog without blocking the UI loop. The
// chosen path is picked up by drainRequests.
func (a *app) openDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("N3 Meshes", "n3mesh", "n3vmesh").
			Filter("All Files", "*").
			Title("Open Mesh").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog error", zap.Error(err))
			}
			return
		}
		select {
		case a.opened <- filename:
		default:
		}
	}()
}

func (a *app) updateTitle() {
	title := a.editor.Snapshot().Title(appName)
	if title != a.title {
		a.title = title
		a.win.SetTitle(title)
	}
}
