// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"go.uber.org/zap"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// ErrFrameFinished is returned when a Frame is used after Finish.
var ErrFrameFinished = xerrors.New("display: frame already finished")

// Uniforms maps uniform names to values. The length of a value selects the
// GL call: 1, 2, 3 or 4 floats for a float or vector, 16 for a 4x4 matrix in
// column-major order.
type Uniforms map[string][]float32

// Frame is one frame of drawing. Its methods must be called from Run.
type Frame struct {
	d        *Display
	finished bool
	err      error
}

// check records the GL error state after op, as selected by the display's
// options.
func (f *Frame) check(op string) {
	d := f.d
	if d.debug == DebugLogAll {
		d.log.Debug("frame operation", zap.String("op", op))
	}
	if !d.checked && d.debug == DebugIgnore {
		return
	}
	e := d.ctx.GetError()
	if e == gl.NO_ERROR {
		return
	}
	if d.debug != DebugIgnore {
		d.log.Error("GL error", zap.String("op", op), zap.Uint32("error", uint32(e)))
	}
	if d.checked && f.err == nil {
		f.err = xerrors.Errorf("display: %s: GL error %#x", op, uint32(e))
	}
}

// Clear fills the framebuffer with the colour (r, g, b, a).
func (f *Frame) Clear(r, g, b, a float32) {
	if f.finished {
		return
	}
	f.d.ctx.ClearColor(r, g, b, a)
	f.d.ctx.Clear(gl.COLOR_BUFFER_BIT)
	f.check("clear")
}

// Draw draws the primitives of ib, reading vertex attributes from vb, with
// program p and the given uniforms.
func (f *Frame) Draw(vb *VertexBuffer, ib *IndexBuffer, p *Program, uniforms Uniforms) error {
	if f.finished {
		return ErrFrameFinished
	}
	ctx := f.d.ctx

	ctx.UseProgram(p.p)
	for name, v := range uniforms {
		if err := setUniform(ctx, ctx.GetUniformLocation(p.p, name), v); err != nil {
			return xerrors.Errorf("display: uniform %s: %w", name, err)
		}
	}

	ctx.BindBuffer(gl.ARRAY_BUFFER, vb.buf)
	var attribs []gl.Attrib
	offset := 0
	for _, a := range vb.attrs {
		loc := ctx.GetAttribLocation(p.p, a.Name)
		ctx.EnableVertexAttribArray(loc)
		ctx.VertexAttribPointer(loc, a.Size, gl.FLOAT, false, vb.stride, offset)
		attribs = append(attribs, loc)
		offset += 4 * a.Size
	}

	ctx.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.buf)
	ctx.DrawElements(ib.mode, ib.count, gl.UNSIGNED_SHORT, 0)

	for _, loc := range attribs {
		ctx.DisableVertexAttribArray(loc)
	}
	f.check("draw")
	return nil
}

func setUniform(ctx gl.Context, u gl.Uniform, v []float32) error {
	switch len(v) {
	case 1:
		ctx.Uniform1f(u, v[0])
	case 2:
		ctx.Uniform2fv(u, v)
	case 3:
		ctx.Uniform3fv(u, v)
	case 4:
		ctx.Uniform4fv(u, v)
	case 16:
		ctx.UniformMatrix4fv(u, v)
	default:
		return xerrors.Errorf("unsupported length %d", len(v))
	}
	return nil
}

// Finish submits the frame: pending GL commands are flushed and the backend's
// buffers swapped. It returns the first GL error found by a checked display,
// or the swap error. Calling Finish twice returns ErrFrameFinished.
func (f *Frame) Finish() error {
	if f.finished {
		return ErrFrameFinished
	}
	f.finished = true

	// Flush passes the GL commands pending in the gl package to the
	// driver before the buffers are swapped.
	f.d.ctx.Flush()
	f.check("finish")
	if f.err != nil {
		return f.err
	}
	if err := f.d.b.SwapBuffers(); err != nil {
		return xerrors.Errorf("display: swap buffers: %w", err)
	}
	return nil
}
