// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display draws into a backend.Backend with a golang.org/x/mobile/gl
// context.
//
// All GL work happens inside Display.Run, which keeps the GL driver on the
// thread that created the Display. Methods documented as "must be called from
// Run" use the GL context directly.
package display

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/glsurface/glsurface/backend"
	"github.com/glsurface/glsurface/internal/glversion"
	"github.com/glsurface/glsurface/internal/glworker"
	"github.com/glsurface/glsurface/internal/threadid"
	"go.uber.org/zap"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// ErrIncompatible is returned by New when the platform does not expose a
// usable OpenGL implementation.
var ErrIncompatible = xerrors.New("display: no compatible OpenGL implementation")

// DebugBehavior selects which GL diagnostics a Display logs.
type DebugBehavior int

const (
	// DebugIgnore logs nothing about GL state.
	DebugIgnore DebugBehavior = iota
	// DebugLogErrors logs GL errors.
	DebugLogErrors
	// DebugLogAll logs GL errors and every frame operation.
	DebugLogAll
)

func (b DebugBehavior) String() string {
	switch b {
	case DebugIgnore:
		return "ignore"
	case DebugLogErrors:
		return "errors"
	case DebugLogAll:
		return "all"
	}
	return fmt.Sprintf("DebugBehavior(%d)", int(b))
}

// ParseDebugBehavior returns the DebugBehavior whose String is s.
func ParseDebugBehavior(s string) (DebugBehavior, error) {
	for b := DebugIgnore; b <= DebugLogAll; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, xerrors.Errorf("display: unknown debug behavior %q", s)
}

// Options are optional arguments to New.
type Options struct {
	// Debug selects which GL diagnostics are logged.
	Debug DebugBehavior

	// Checked makes every frame operation consult glGetError; an error
	// found that way is returned by Frame.Finish.
	Checked bool

	// NewContext creates the GL context. Nil means gl.NewContext where
	// the platform supports it. A nil Worker means GL calls are made
	// directly on the calling goroutine.
	NewContext func() (gl.Context, gl.Worker)

	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// requiredProcs are the entry points a Display uses. They are probed through
// the backend before the context is trusted.
var requiredProcs = []string{
	"glGetString",
	"glGetError",
	"glViewport",
	"glClearColor",
	"glClear",
	"glGenBuffers",
	"glBufferData",
	"glCreateShader",
	"glCompileShader",
	"glCreateProgram",
	"glLinkProgram",
	"glUseProgram",
	"glUniformMatrix4fv",
	"glVertexAttribPointer",
	"glDrawElements",
	"glFlush",
}

// Display owns a GL context drawing into a backend, and the last framebuffer
// size it saw.
type Display struct {
	b       backend.Backend
	ctx     gl.Context
	worker  gl.Worker
	version glversion.Version
	debug   DebugBehavior
	checked bool
	log     *zap.Logger
	thread  int

	mu            sync.Mutex
	width, height int
}

// New creates a GL context drawing into b.
//
// b must be usable from the calling thread: New calls b.MakeCurrent and
// resolves GL entry points through b before issuing any GL call. New fails
// with an error wrapping ErrIncompatible when the GL context cannot be created
// or reports a version older than OpenGL (ES) 2.0.
func New(b backend.Backend, opts *Options) (*Display, error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	newCtx := opts.NewContext
	if newCtx == nil {
		newCtx = newContext
	}

	b.MakeCurrent()
	for _, name := range requiredProcs {
		if b.ProcAddress(name) == 0 {
			return nil, xerrors.Errorf("display: cannot resolve %s: %w", name, ErrIncompatible)
		}
	}

	ctx, worker := newCtx()
	if ctx == nil {
		return nil, xerrors.Errorf("display: no GL context on %s/%s: %w", runtime.GOOS, runtime.GOARCH, ErrIncompatible)
	}

	d := &Display{
		b:       b,
		ctx:     ctx,
		worker:  worker,
		debug:   opts.Debug,
		checked: opts.Checked,
		log:     log,
		thread:  threadid.Current(),
	}
	d.width, d.height = b.FramebufferDimensions()

	var glVersion string
	d.Run(func(ctx gl.Context) error {
		glVersion = ctx.GetString(gl.VERSION)
		return nil
	})
	v, err := glversion.Parse(glVersion)
	if err != nil {
		return nil, xerrors.Errorf("display: %v: %w", err, ErrIncompatible)
	}
	if !v.Compatible() {
		return nil, xerrors.Errorf("display: %v is too old: %w", v, ErrIncompatible)
	}
	d.version = v

	log.Info("display created",
		zap.Stringer("version", v),
		zap.Int("width", d.width),
		zap.Int("height", d.height),
		zap.Bool("checked", d.checked),
		zap.Stringer("debug", d.debug),
	)
	return d, nil
}

// Context returns the underlying GL context, for creating resources. It must
// only be used from Run.
func (d *Display) Context() gl.Context { return d.ctx }

// Version returns the GL version reported by the context.
func (d *Display) Version() glversion.Version { return d.version }

// Run calls f with the GL context. GL calls made by f are executed on the
// calling thread, which must be the thread that called New.
func (d *Display) Run(f func(gl.Context) error) error {
	if d.thread != 0 {
		if id := threadid.Current(); id != d.thread {
			d.log.Warn("GL work started off the GL thread",
				zap.Int("thread", id),
				zap.Int("glThread", d.thread),
			)
		}
	}
	return glworker.Do(d.worker, func() error { return f(d.ctx) })
}

// Size returns the last framebuffer size seen by Draw.
func (d *Display) Size() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Draw starts a frame. If the backend's framebuffer size changed since the
// last call, the new size is recorded and logged; GL resources are not
// reconfigured.
//
// Draw must be called from Run.
func (d *Display) Draw() *Frame {
	w, h := d.b.FramebufferDimensions()

	d.mu.Lock()
	resized := w != d.width || h != d.height
	oldW, oldH := d.width, d.height
	d.width, d.height = w, h
	d.mu.Unlock()

	if resized {
		d.log.Info("framebuffer resized; resources not rebuilt",
			zap.Int("oldWidth", oldW),
			zap.Int("oldHeight", oldH),
			zap.Int("width", w),
			zap.Int("height", h),
		)
	}

	d.ctx.Viewport(0, 0, w, h)
	return &Frame{d: d}
}
