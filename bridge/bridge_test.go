// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glsurface/glsurface/backend"
	"github.com/glsurface/glsurface/display"
	"github.com/glsurface/glsurface/internal/gltest"
	"github.com/glsurface/glsurface/surface"
	"github.com/google/go-cmp/cmp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/mobile/gl"
)

type fakeTexture struct {
	attached []uint32
	released bool
}

func (t *fakeTexture) AttachToGLContext(texName uint32) error {
	t.attached = append(t.attached, texName)
	return nil
}

func (t *fakeTexture) DetachFromGLContext() error { return nil }
func (t *fakeTexture) Release()                   { t.released = true }

type harness struct {
	app   *App
	ctx   *gltest.Context
	spans *tracetest.SpanRecorder
	logs  *observer.ObservedLogs
}

func newHarness(policy backend.Policy) *harness {
	return newHarnessOptions(&Options{Backend: backend.Options{Policy: policy}})
}

// newHarnessOptions builds an App from opts, drawing into a recording
// context and recording spans and logs.
func newHarnessOptions(opts *Options) *harness {
	h := &harness{
		ctx:   gltest.NewContext(),
		spans: tracetest.NewSpanRecorder(),
	}
	core, logs := observer.New(zapcore.InfoLevel)
	h.logs = logs
	o := *opts
	o.Backend.Resolver = func(string) uintptr { return 1 }
	o.Display.NewContext = func() (gl.Context, gl.Worker) { return h.ctx, nil }
	o.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))
	o.Logger = zap.New(core)
	h.app = NewApp(&o)
	return h
}

func (h *harness) spanNames() []string {
	var names []string
	for _, s := range h.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestRegister(t *testing.T) {
	h := newHarness(backend.Propagate)
	if s := h.app.State(); s != Unregistered {
		t.Fatalf("State before Register: got %v, want %v", s, Unregistered)
	}

	tex := &fakeTexture{}
	if err := h.app.Register(context.Background(), tex, 1080, 1920); err != nil {
		t.Fatal(err)
	}
	if s := h.app.State(); s != Registered {
		t.Errorf("State after Register: got %v, want %v", s, Registered)
	}

	sc := h.app.Surface()
	b := backend.New(sc, nil)
	if w, ht := b.FramebufferDimensions(); w != 1080 || ht != 1920 {
		t.Errorf("FramebufferDimensions: got (%d, %d), want (1080, 1920)", w, ht)
	}
	if b.IsCurrent() {
		t.Errorf("IsCurrent: got true, want false")
	}

	want := []string{"Clear", "DrawElements", "Flush"}
	if diff := cmp.Diff(want, h.ctx.Names(want...)); diff != "" {
		t.Errorf("draw sequence mismatch (-want, +got):\n%s", diff)
	}
	if n := h.app.Draws(); n != 1 {
		t.Errorf("Draws: got %d, want 1", n)
	}
	if diff := cmp.Diff([]string{"triangle.Draw", "Register"}, h.spanNames()); diff != "" {
		t.Errorf("spans mismatch (-want, +got):\n%s", diff)
	}
	if n := h.logs.FilterMessage("surface registered").Len(); n != 1 {
		t.Errorf("registration logs: got %d, want 1", n)
	}
	if len(tex.attached) != 0 {
		t.Errorf("Register attached the surface: %v", tex.attached)
	}
}

func TestRegisterAgain(t *testing.T) {
	h := newHarness(backend.Propagate)
	first, second := &fakeTexture{}, &fakeTexture{}
	if err := h.app.Register(context.Background(), first, 10, 10); err != nil {
		t.Fatal(err)
	}
	firstSurface := h.app.Surface()
	if got := h.ctx.Count("DrawElements"); got != 1 {
		t.Fatalf("DrawElements after one Register: got %d, want 1", got)
	}

	if err := h.app.Register(context.Background(), second, 20, 30); err != nil {
		t.Fatal(err)
	}
	if got := h.ctx.Count("DrawElements"); got != 2 {
		t.Errorf("DrawElements after two Registers: got %d, want 2", got)
	}
	if !first.released || second.released {
		t.Errorf("released: first=%v second=%v, want true, false", first.released, second.released)
	}
	if firstSurface.Handle().Present() {
		t.Errorf("replaced handle still holds its texture")
	}
	if w, ht := firstSurface.Size(); w != 10 || ht != 10 {
		t.Errorf("old surface size changed to (%d, %d)", w, ht)
	}
	if w, ht := h.app.Surface().Size(); w != 20 || ht != 30 {
		t.Errorf("Size: got (%d, %d), want (20, 30)", w, ht)
	}
}

func TestRegisterNoSurface(t *testing.T) {
	h := newHarness(backend.Propagate)
	err := h.app.Register(context.Background(), nil, 1, 1)
	if !errors.Is(err, surface.ErrNoSurface) {
		t.Errorf("Register(nil): got %v, want %v", err, surface.ErrNoSurface)
	}
	if h.app.State() != Unregistered {
		t.Errorf("State after failed Register: got %v, want %v", h.app.State(), Unregistered)
	}
	if h.ctx.Count("DrawElements") != 0 {
		t.Errorf("failed Register drew")
	}
	if n := h.logs.FilterMessage("register failed").Len(); n != 1 {
		t.Errorf("failure logs: got %d, want 1", n)
	}
}

func TestRegisterAborts(t *testing.T) {
	h := newHarness(backend.Abort)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, surface.ErrNoSurface) {
			t.Errorf("recovered %v, want panic with %v", r, surface.ErrNoSurface)
		}
	}()
	h.app.Register(context.Background(), nil, 1, 1)
}

func TestStrictOptions(t *testing.T) {
	opts := StrictOptions(nil)
	if opts.Backend.Policy != backend.Abort {
		t.Errorf("Policy: got %v, want %v", opts.Backend.Policy, backend.Abort)
	}
	if opts.Display.Debug != display.DebugLogAll || !opts.Display.Checked {
		t.Errorf("Display: got debug %v checked %v, want %v checked true", opts.Display.Debug, opts.Display.Checked, display.DebugLogAll)
	}
}

func TestStrictRegisterAbortsOnGLError(t *testing.T) {
	h := newHarnessOptions(StrictOptions(nil))
	h.ctx.Errors = []gl.Enum{gl.INVALID_OPERATION}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !strings.Contains(err.Error(), "GL error") {
			t.Fatalf("recovered %v, want a GL error", r)
		}
		if len(h.ctx.Errors) != 0 {
			t.Errorf("glGetError not consulted")
		}
		if h.app.Draws() != 0 {
			t.Errorf("Draws: got %d, want 0", h.app.Draws())
		}
		if n := h.logs.FilterMessage("GL error").Len(); n != 1 {
			t.Errorf("GL error logs: got %d, want 1", n)
		}
		if n := h.logs.FilterMessage("register failed").Len(); n != 1 {
			t.Errorf("failure logs: got %d, want 1", n)
		}
	}()
	h.app.Register(context.Background(), &fakeTexture{}, 8, 8)
}

func TestRegisterInvalidSize(t *testing.T) {
	h := newHarness(backend.Propagate)
	if err := h.app.Register(context.Background(), &fakeTexture{}, 0, 10); err == nil {
		t.Errorf("Register with zero width: got nil error")
	}
}

func TestRegisterIncompatible(t *testing.T) {
	h := newHarness(backend.Propagate)
	h.ctx.Version = "OpenGL ES-CM 1.1"
	err := h.app.Register(context.Background(), &fakeTexture{}, 1, 1)
	if !errors.Is(err, display.ErrIncompatible) {
		t.Errorf("Register: got %v, want %v", err, display.ErrIncompatible)
	}
	if h.app.Draws() != 0 {
		t.Errorf("Draws: got %d, want 0", h.app.Draws())
	}
}

func TestStateString(t *testing.T) {
	if got := Unregistered.String(); got != "unregistered" {
		t.Errorf("Unregistered.String(): got %q", got)
	}
	if got := Registered.String(); got != "registered" {
		t.Errorf("Registered.String(): got %q", got)
	}
}
