// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend adapts a registered platform surface to the contract a GL
// display needs from its windowing integration.
package backend

import (
	"fmt"

	"github.com/glsurface/glsurface/internal/egl"
	"github.com/glsurface/glsurface/surface"
)

// Backend is the set of operations a display requires from the surface it
// draws into.
type Backend interface {
	// SwapBuffers presents the frame drawn since the last swap.
	SwapBuffers() error

	// ProcAddress returns the address of the GL function called name, or 0.
	// It must only be called while a GL context is current.
	ProcAddress(name string) uintptr

	// FramebufferDimensions returns the size in pixels of the render target.
	FramebufferDimensions() (width, height int)

	// IsCurrent reports whether the backend's context is current.
	IsCurrent() bool

	// MakeCurrent makes the backend's context current on the calling thread.
	MakeCurrent()
}

// Policy says what an Adapter does when an operation fails.
type Policy int

const (
	// Propagate returns the failure to the caller.
	Propagate Policy = iota
	// Abort panics with the failure.
	Abort
)

func (p Policy) String() string {
	switch p {
	case Propagate:
		return "propagate"
	case Abort:
		return "abort"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Resolver resolves GL function addresses by name.
type Resolver func(name string) uintptr

// Options are optional arguments to New.
type Options struct {
	// Policy is the failure policy. The zero value is Propagate.
	Policy Policy

	// Resolver resolves GL entry points. Nil means the platform EGL
	// resolver.
	Resolver Resolver

	// Swap, if non-nil, is called by SwapBuffers to present a frame. Nil
	// means swapping is a no-op: a SurfaceTexture's consumer, not its
	// producer, decides when frames are shown.
	Swap func() error
}

// Adapter implements Backend over a surface.Context.
type Adapter struct {
	sc       *surface.Context
	policy   Policy
	resolver Resolver
	swap     func() error
}

var _ Backend = (*Adapter)(nil)

// New returns an Adapter for sc. opts may be nil.
func New(sc *surface.Context, opts *Options) *Adapter {
	a := &Adapter{
		sc:       sc,
		resolver: egl.ProcAddress,
	}
	if opts != nil {
		a.policy = opts.Policy
		if opts.Resolver != nil {
			a.resolver = opts.Resolver
		}
		a.swap = opts.Swap
	}
	return a
}

// Clone returns an Adapter sharing a's surface and options.
func (a *Adapter) Clone() *Adapter {
	b := *a
	return &b
}

// Surface returns the surface context a adapts.
func (a *Adapter) Surface() *surface.Context { return a.sc }

// Policy returns a's failure policy.
func (a *Adapter) Policy() Policy { return a.policy }

func (a *Adapter) fail(err error) error {
	if err != nil && a.policy == Abort {
		panic(err)
	}
	return err
}

func (a *Adapter) SwapBuffers() error {
	if a.swap == nil {
		return nil
	}
	return a.fail(a.swap())
}

func (a *Adapter) ProcAddress(name string) uintptr { return a.resolver(name) }

func (a *Adapter) FramebufferDimensions() (width, height int) { return a.sc.Size() }

func (a *Adapter) IsCurrent() bool { return a.sc.Current() }

// MakeCurrent does nothing. The GL context is made current by whoever created
// it, before any Adapter method that needs it is called.
func (a *Adapter) MakeCurrent() {}

// Attach binds the surface to the current GL texture unit.
func (a *Adapter) Attach() error { return a.fail(a.sc.Attach()) }

// Detach unbinds the surface from the current GL texture unit.
func (a *Adapter) Detach() error { return a.fail(a.sc.Detach()) }
