// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package surface holds platform texture-backed surfaces, such as an Android
// SurfaceTexture, in a form that GL backends can share.
package surface

import (
	"sync"

	"golang.org/x/xerrors"
)

// ErrNoSurface is returned when an operation needs a platform surface but the
// handle holds none.
var ErrNoSurface = xerrors.New("surface: no surface attached to handle")

// Texture is a platform surface that can be bound to the current GL texture
// unit.
//
// On Android it is implemented by calling the SurfaceTexture Java methods of
// the same name.
type Texture interface {
	// AttachToGLContext binds the surface to the GL texture named texName
	// in the context current on the calling thread.
	AttachToGLContext(texName uint32) error
	// DetachFromGLContext unbinds the surface from its GL texture.
	DetachFromGLContext() error
	// Release frees the platform object. The Texture must not be used
	// afterwards.
	Release()
}

// Handle is an optional, lock-protected reference to a Texture. A Handle is
// shared by pointer between every Context built from the same registration.
//
// The zero value is an empty handle.
type Handle struct {
	mu  sync.Mutex
	tex Texture
}

// NewHandle returns a handle holding tex, which may be nil.
func NewHandle(tex Texture) *Handle {
	return &Handle{tex: tex}
}

// Present reports whether the handle holds a texture.
func (h *Handle) Present() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tex != nil
}

// Replace swaps in tex and releases the texture previously held, if any.
func (h *Handle) Replace(tex Texture) {
	h.mu.Lock()
	old := h.tex
	h.tex = tex
	h.mu.Unlock()

	if old != nil && old != tex {
		old.Release()
	}
}

// with calls f with the held texture while holding h's lock.
func (h *Handle) with(f func(Texture) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tex == nil {
		return ErrNoSurface
	}
	return f(h.tex)
}

// Context is a snapshot of a registered surface: the shared handle, its fixed
// dimensions, whether it is currently active and the GL texture name it binds
// to.
//
// Dimensions are captured once; later platform-side resizes are not observed.
type Context struct {
	handle  *Handle
	width   int
	height  int
	current bool
	texName uint32
}

// NewContext returns a Context over h. A nil h is treated as an empty handle.
func NewContext(h *Handle, width, height int, current bool, texName uint32) *Context {
	if h == nil {
		h = &Handle{}
	}
	return &Context{
		handle:  h,
		width:   width,
		height:  height,
		current: current,
		texName: texName,
	}
}

// Handle returns the shared handle.
func (c *Context) Handle() *Handle { return c.handle }

// Size returns the dimensions captured at construction.
func (c *Context) Size() (width, height int) { return c.width, c.height }

// Current returns the active flag captured at construction.
func (c *Context) Current() bool { return c.current }

// TexName returns the GL texture name the surface binds to.
func (c *Context) TexName() uint32 { return c.texName }

// Attach binds the surface to c's texture name in the current GL context.
//
// The handle's lock is held across the platform call.
func (c *Context) Attach() error {
	return c.handle.with(func(t Texture) error {
		if err := t.AttachToGLContext(c.texName); err != nil {
			return xerrors.Errorf("surface: attach to texture %d: %w", c.texName, err)
		}
		return nil
	})
}

// Detach unbinds the surface from the current GL context.
func (c *Context) Detach() error {
	return c.handle.with(func(t Texture) error {
		if err := t.DetachFromGLContext(); err != nil {
			return xerrors.Errorf("surface: detach: %w", err)
		}
		return nil
	})
}
