// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bridge registers platform surfaces and draws into them.
//
// An App starts unregistered. Each call to Register replaces the registered
// surface and draws exactly one frame into it; there is no render loop.
package bridge

import (
	"context"
	"sync"

	"github.com/glsurface/glsurface/backend"
	"github.com/glsurface/glsurface/display"
	"github.com/glsurface/glsurface/surface"
	"github.com/glsurface/glsurface/triangle"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

const instrumentationName = "github.com/glsurface/glsurface/bridge"

// State is the registration state of an App.
type State int

const (
	Unregistered State = iota
	Registered
)

func (s State) String() string {
	if s == Registered {
		return "registered"
	}
	return "unregistered"
}

// Options are optional arguments to NewApp.
type Options struct {
	// Backend configures the adapter built for each registered surface. Its
	// Policy also decides whether Register returns or panics on failure.
	Backend backend.Options

	// Display configures the display built for each registered surface.
	// A nil Display.Logger is replaced by a child of Logger.
	Display display.Options

	// Triangle configures the draw performed on registration.
	Triangle triangle.Options

	// TracerProvider supplies the tracer for Register spans. Nil means the
	// global provider.
	TracerProvider trace.TracerProvider

	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// StrictOptions returns the options of an App embedded in a platform
// library: failures abort, every frame operation is checked for GL errors and
// every operation is logged to logger.
func StrictOptions(logger *zap.Logger) *Options {
	return &Options{
		Backend: backend.Options{Policy: backend.Abort},
		Display: display.Options{Debug: display.DebugLogAll, Checked: true},
		Logger:  logger,
	}
}

// App holds the most recently registered surface.
type App struct {
	opts   Options
	log    *zap.Logger
	tracer trace.Tracer

	mu    sync.Mutex
	sc    *surface.Context
	draws int
}

// NewApp returns an unregistered App. opts may be nil.
func NewApp(opts *Options) *App {
	a := &App{}
	if opts != nil {
		a.opts = *opts
	}
	a.log = a.opts.Logger
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.opts.Display.Logger == nil {
		a.opts.Display.Logger = a.log.Named("display")
	}
	tp := a.opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	a.tracer = tp.Tracer(instrumentationName)
	return a
}

// State reports whether a surface has been registered.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sc == nil {
		return Unregistered
	}
	return Registered
}

// Surface returns the registered surface context, or nil.
func (a *App) Surface() *surface.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sc
}

// Draws returns the number of frames submitted by Register.
func (a *App) Draws() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draws
}

// Register makes tex, of the given size in pixels, the registered surface and
// draws the triangle into it. The previously registered surface, if any, is
// released.
//
// Register must be called on the thread where the GL context drawing into tex
// is current. Under the backend.Abort policy any failure panics after being
// logged; otherwise it is returned.
func (a *App) Register(ctx context.Context, tex surface.Texture, width, height int) (err error) {
	ctx, span := a.tracer.Start(ctx, "Register", trace.WithAttributes(
		attribute.Int("width", width),
		attribute.Int("height", height),
	))
	defer span.End()

	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.log.Error("register failed", zap.Error(err))
		if a.opts.Backend.Policy == backend.Abort {
			panic(err)
		}
	}()

	if tex == nil {
		return xerrors.Errorf("bridge: register: %w", surface.ErrNoSurface)
	}
	if width <= 0 || height <= 0 {
		return xerrors.Errorf("bridge: register: invalid size %dx%d", width, height)
	}

	sc := surface.NewContext(surface.NewHandle(tex), width, height, false, 0)
	a.mu.Lock()
	prev := a.sc
	a.sc = sc
	a.mu.Unlock()
	if prev != nil {
		prev.Handle().Replace(nil)
	}
	a.log.Info("surface registered", zap.Int("width", width), zap.Int("height", height))

	d, err := display.New(backend.New(sc, &a.opts.Backend), &a.opts.Display)
	if err != nil {
		return xerrors.Errorf("bridge: register: %w", err)
	}
	if err := a.draw(ctx, d); err != nil {
		return err
	}
	return nil
}

func (a *App) draw(ctx context.Context, d *display.Display) error {
	_, span := a.tracer.Start(ctx, "triangle.Draw", trace.WithAttributes(
		attribute.String("gl.version", d.Version().String()),
	))
	defer span.End()

	if err := triangle.Draw(d, &a.opts.Triangle); err != nil {
		return xerrors.Errorf("bridge: draw: %w", err)
	}
	a.mu.Lock()
	a.draws++
	a.mu.Unlock()
	return nil
}
