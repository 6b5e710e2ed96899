// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"image"

	"golang.org/x/mobile/gl"
)

// Snapshot reads back the frame drawn so far. It must be called before Finish,
// since the buffer contents are undefined after a swap.
func (f *Frame) Snapshot() (*image.RGBA, error) {
	if f.finished {
		return nil, ErrFrameFinished
	}
	w, h := f.d.Size()
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	f.d.ctx.ReadPixels(m.Pix, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE)
	f.check("snapshot")

	// GL rows run bottom to top.
	stride := m.Stride
	tmp := make([]byte, stride)
	for y := 0; y < h/2; y++ {
		top := m.Pix[y*stride : (y+1)*stride]
		bot := m.Pix[(h-1-y)*stride : (h-y)*stride]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
	return m, nil
}
