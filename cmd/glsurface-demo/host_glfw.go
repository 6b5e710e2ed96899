// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo
// +build cgo

package main

import (
	"context"
	"os"
	"runtime"
	"unsafe"

	"github.com/glsurface/glsurface/backend"
	"github.com/glsurface/glsurface/bridge"
	"github.com/glsurface/glsurface/display"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/xerrors"
)

func init() {
	// GLFW and the GL worker must stay on the main thread.
	runtime.LockOSThread()
}

// windowTexture stands in for a SurfaceTexture: the window's default
// framebuffer is the surface, so there is nothing to bind.
type windowTexture struct {
	log *zap.Logger
}

func (t windowTexture) AttachToGLContext(texName uint32) error {
	t.log.Debug("attach", zap.Uint32("texture", texName))
	return nil
}

func (t windowTexture) DetachFromGLContext() error {
	t.log.Debug("detach")
	return nil
}

func (t windowTexture) Release() {}

func run(cfg config, log *zap.Logger) error {
	debug, err := display.ParseDebugBehavior(cfg.Debug)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return xerrors.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return xerrors.Errorf("glfw: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()

	// The framebuffer can differ from the window size on high-DPI screens.
	width, height := win.GetFramebufferSize()

	opts := &bridge.Options{
		Backend: backend.Options{
			Policy: backend.Propagate,
			Resolver: func(name string) uintptr {
				return uintptr(unsafe.Pointer(glfw.GetProcAddress(name)))
			},
			Swap: func() error {
				win.SwapBuffers()
				return nil
			},
		},
		Display: display.Options{
			Debug:   debug,
			Checked: cfg.Checked,
		},
		Logger: log,
	}
	if *snapshot != "" {
		opts.Triangle.BeforeFinish = func(f *display.Frame) error {
			return writeSnapshot(f, *snapshot)
		}
	}

	app := bridge.NewApp(opts)
	if err := app.Register(context.Background(), windowTexture{log: log}, width, height); err != nil {
		return err
	}
	log.Info("frame submitted", zap.Int("draws", app.Draws()))

	if *once {
		return nil
	}
	for !win.ShouldClose() {
		glfw.WaitEvents()
	}
	return nil
}

func writeSnapshot(f *display.Frame, path string) error {
	m, err := f.Snapshot()
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(out, m); err != nil {
		out.Close()
		return xerrors.Errorf("snapshot: %w", err)
	}
	return out.Close()
}
