// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"errors"
	"image/color"
	"testing"

	"github.com/glsurface/glsurface/internal/gltest"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

type fakeBackend struct {
	width, height int
	missing       string
	swapErr       error
	swaps         int
	madeCurrent   int
}

func (b *fakeBackend) SwapBuffers() error {
	b.swaps++
	return b.swapErr
}

func (b *fakeBackend) ProcAddress(name string) uintptr {
	if name == b.missing {
		return 0
	}
	return 1
}

func (b *fakeBackend) FramebufferDimensions() (int, int) { return b.width, b.height }
func (b *fakeBackend) IsCurrent() bool                   { return false }
func (b *fakeBackend) MakeCurrent()                      { b.madeCurrent++ }

func newTestDisplay(t *testing.T, b *fakeBackend, ctx *gltest.Context, opts Options) *Display {
	t.Helper()
	opts.NewContext = func() (gl.Context, gl.Worker) { return ctx, nil }
	d, err := New(b, &opts)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNew(t *testing.T) {
	b := &fakeBackend{width: 640, height: 480}
	ctx := gltest.NewContext()
	d := newTestDisplay(t, b, ctx, Options{})
	if b.madeCurrent != 1 {
		t.Errorf("MakeCurrent calls: got %d, want 1", b.madeCurrent)
	}
	if w, h := d.Size(); w != 640 || h != 480 {
		t.Errorf("Size: got (%d, %d), want (640, 480)", w, h)
	}
	if d.Context() != gl.Context(ctx) {
		t.Errorf("Context does not return the created context")
	}
	if v := d.Version(); !v.ES || v.Major != 2 {
		t.Errorf("Version: got %v, want OpenGL ES 2.0", v)
	}
}

func TestNewIncompatible(t *testing.T) {
	testCases := []struct {
		name    string
		b       *fakeBackend
		version string
		noCtx   bool
	}{
		{"missing entry point", &fakeBackend{missing: "glDrawElements"}, "", false},
		{"no context", &fakeBackend{}, "", true},
		{"unparsable version", &fakeBackend{}, "garbage", false},
		{"too old", &fakeBackend{}, "OpenGL ES-CM 1.1", false},
		{"desktop 1.5", &fakeBackend{}, "1.5 Mesa", false},
	}
	for _, tc := range testCases {
		ctx := gltest.NewContext()
		ctx.Version = tc.version
		opts := &Options{NewContext: func() (gl.Context, gl.Worker) {
			if tc.noCtx {
				return nil, nil
			}
			return ctx, nil
		}}
		if _, err := New(tc.b, opts); !errors.Is(err, ErrIncompatible) {
			t.Errorf("%s: got %v, want %v", tc.name, err, ErrIncompatible)
		}
	}
}

func TestDrawLogsResize(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	b := &fakeBackend{width: 100, height: 50}
	ctx := gltest.NewContext()
	d := newTestDisplay(t, b, ctx, Options{Logger: zap.New(core)})

	resizes := func() int {
		return logs.FilterMessage("framebuffer resized; resources not rebuilt").Len()
	}
	d.Draw()
	if n := resizes(); n != 0 {
		t.Fatalf("resize notices before any resize: got %d, want 0", n)
	}
	b.width, b.height = 200, 80
	d.Draw()
	d.Draw()
	if n := resizes(); n != 1 {
		t.Errorf("resize notices: got %d, want 1", n)
	}
	if w, h := d.Size(); w != 200 || h != 80 {
		t.Errorf("Size: got (%d, %d), want (200, 80)", w, h)
	}
	want := []string{"Viewport 0 0 100 50", "Viewport 0 0 200 80", "Viewport 0 0 200 80"}
	var got []string
	for _, c := range ctx.Calls() {
		if len(c) > 8 && c[:8] == "Viewport" {
			got = append(got, c)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("viewports mismatch (-want, +got):\n%s", diff)
	}
}

var testProgram = map[string]ProgramSource{
	"100": {Vertex: "#version 100\nvoid main() {}", Fragment: "#version 100\nvoid main() {}"},
	"110": {Vertex: "#version 110\nvoid main() {}", Fragment: "#version 110\nvoid main() {}"},
}

func TestFrame(t *testing.T) {
	b := &fakeBackend{width: 4, height: 4}
	ctx := gltest.NewContext()
	d := newTestDisplay(t, b, ctx, Options{})

	vb, err := d.NewVertexBuffer([]float32{0, 0, 1, 0, 0, 1}, Attribute{"position", 2})
	if err != nil {
		t.Fatal(err)
	}
	if vb.Len() != 3 {
		t.Errorf("vertex count: got %d, want 3", vb.Len())
	}
	ib, err := d.NewIndexBuffer(gl.TRIANGLES, []uint16{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if ib.Len() != 3 {
		t.Errorf("index count: got %d, want 3", ib.Len())
	}
	if got, want := ctx.BufferContents(ib.buf), []byte{0, 0, 1, 0, 2, 0}; !cmp.Equal(got, want) {
		t.Errorf("index bytes: got %v, want %v", got, want)
	}
	p, err := d.NewProgram(testProgram)
	if err != nil {
		t.Fatal(err)
	}
	if p.Variant() != "100" {
		t.Errorf("Variant: got %q, want %q", p.Variant(), "100")
	}

	f := d.Draw()
	f.Clear(0, 0, 0, 0)
	if err := f.Draw(vb, ib, p, Uniforms{"matrix": make([]float32, 16)}); err != nil {
		t.Fatal(err)
	}
	if err := f.Finish(); err != nil {
		t.Fatal(err)
	}
	if b.swaps != 1 {
		t.Errorf("swaps: got %d, want 1", b.swaps)
	}
	want := []string{"Clear", "UniformMatrix4fv", "DrawElements", "Flush"}
	if diff := cmp.Diff(want, ctx.Names(want...)); diff != "" {
		t.Errorf("calls mismatch (-want, +got):\n%s", diff)
	}

	if err := f.Finish(); !errors.Is(err, ErrFrameFinished) {
		t.Errorf("second Finish: got %v, want %v", err, ErrFrameFinished)
	}
	if err := f.Draw(vb, ib, p, nil); !errors.Is(err, ErrFrameFinished) {
		t.Errorf("Draw after Finish: got %v, want %v", err, ErrFrameFinished)
	}
	if b.swaps != 1 {
		t.Errorf("swaps after second Finish: got %d, want 1", b.swaps)
	}
}

func TestFrameBadUniform(t *testing.T) {
	d := newTestDisplay(t, &fakeBackend{}, gltest.NewContext(), Options{})
	vb, _ := d.NewVertexBuffer([]float32{0, 0}, Attribute{"position", 2})
	ib, _ := d.NewIndexBuffer(gl.POINTS, []uint16{0})
	p, _ := d.NewProgram(testProgram)
	if err := d.Draw().Draw(vb, ib, p, Uniforms{"bad": make([]float32, 5)}); err == nil {
		t.Errorf("Draw with a 5-float uniform: got nil error")
	}
}

func TestCheckedFrame(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := &fakeBackend{width: 1, height: 1}
	ctx := gltest.NewContext()
	d := newTestDisplay(t, b, ctx, Options{Checked: true, Debug: DebugLogErrors, Logger: zap.New(core)})

	ctx.Errors = []gl.Enum{gl.INVALID_OPERATION}
	f := d.Draw()
	f.Clear(1, 1, 1, 1)
	if err := f.Finish(); err == nil {
		t.Fatal("Finish: got nil error, want GL error")
	}
	if b.swaps != 0 {
		t.Errorf("swaps after GL error: got %d, want 0", b.swaps)
	}
	if n := logs.FilterMessage("GL error").Len(); n != 1 {
		t.Errorf("GL error logs: got %d, want 1", n)
	}
}

func TestUncheckedIgnoresErrors(t *testing.T) {
	b := &fakeBackend{width: 1, height: 1}
	ctx := gltest.NewContext()
	d := newTestDisplay(t, b, ctx, Options{})

	ctx.Errors = []gl.Enum{gl.INVALID_OPERATION}
	f := d.Draw()
	f.Clear(1, 1, 1, 1)
	if err := f.Finish(); err != nil {
		t.Errorf("Finish: %v", err)
	}
	if len(ctx.Errors) != 1 {
		t.Errorf("unchecked display consulted glGetError")
	}
}

func TestSwapError(t *testing.T) {
	boom := xerrors.New("boom")
	b := &fakeBackend{swapErr: boom}
	d := newTestDisplay(t, b, gltest.NewContext(), Options{})
	if err := d.Draw().Finish(); !errors.Is(err, boom) {
		t.Errorf("Finish: got %v, want %v", err, boom)
	}
}

func TestProgramErrors(t *testing.T) {
	ctx := gltest.NewContext()
	ctx.Version = "4.6.0 NVIDIA"
	d := newTestDisplay(t, &fakeBackend{}, ctx, Options{})
	if _, err := d.NewProgram(testProgram); err == nil {
		t.Errorf("NewProgram without a 140 variant: got nil error")
	}

	ctx = gltest.NewContext()
	ctx.CompileFails = true
	d = newTestDisplay(t, &fakeBackend{}, ctx, Options{})
	if _, err := d.NewProgram(testProgram); err == nil {
		t.Errorf("NewProgram with failing compile: got nil error")
	}

	ctx = gltest.NewContext()
	ctx.LinkFails = true
	d = newTestDisplay(t, &fakeBackend{}, ctx, Options{})
	if _, err := d.NewProgram(testProgram); err == nil {
		t.Errorf("NewProgram with failing link: got nil error")
	}
}

func TestBufferErrors(t *testing.T) {
	ctx := gltest.NewContext()
	d := newTestDisplay(t, &fakeBackend{}, ctx, Options{})
	if _, err := d.NewVertexBuffer([]float32{1, 2, 3}, Attribute{"position", 2}); err == nil {
		t.Errorf("NewVertexBuffer with a partial vertex: got nil error")
	}
	if _, err := d.NewIndexBuffer(gl.TRIANGLES, nil); err == nil {
		t.Errorf("NewIndexBuffer(nil): got nil error")
	}
	ctx.NoBuffers = true
	if _, err := d.NewVertexBuffer([]float32{1, 2}, Attribute{"position", 2}); err == nil {
		t.Errorf("NewVertexBuffer without buffers: got nil error")
	}
}

func TestSnapshot(t *testing.T) {
	ctx := gltest.NewContext()
	ctx.Pixel = [4]byte{10, 20, 30, 255}
	d := newTestDisplay(t, &fakeBackend{width: 3, height: 2}, ctx, Options{})
	f := d.Draw()
	m, err := f.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := m.Bounds().Size().X, 3; got != want {
		t.Errorf("width: got %d, want %d", got, want)
	}
	if got, want := m.RGBAAt(2, 1), (color.RGBA{10, 20, 30, 255}); got != want {
		t.Errorf("pixel: got %v, want %v", got, want)
	}
	f.Finish()
	if _, err := f.Snapshot(); !errors.Is(err, ErrFrameFinished) {
		t.Errorf("Snapshot after Finish: got %v, want %v", err, ErrFrameFinished)
	}
}

func TestParseDebugBehavior(t *testing.T) {
	for _, b := range []DebugBehavior{DebugIgnore, DebugLogErrors, DebugLogAll} {
		got, err := ParseDebugBehavior(b.String())
		if err != nil || got != b {
			t.Errorf("ParseDebugBehavior(%q): got %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseDebugBehavior("verbose"); err == nil {
		t.Errorf("ParseDebugBehavior(%q): got nil error", "verbose")
	}
}
