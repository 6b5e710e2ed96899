// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triangle draws a single coloured triangle, to show that a display
// reaches its surface.
package triangle

import (
	"github.com/glsurface/glsurface/display"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// Vertices holds position (x, y) and colour (r, g, b) for each corner.
var Vertices = []float32{
	-0.5, -0.5, 0, 1, 0,
	0.0, 0.5, 0, 0, 1,
	0.5, -0.5, 1, 0, 0,
}

// Indices lists the corners of the triangle.
var Indices = []uint16{0, 1, 2}

// Layout describes Vertices.
var Layout = []display.Attribute{
	{Name: "position", Size: 2},
	{Name: "color", Size: 3},
}

// Matrix is the projection applied to positions.
var Matrix = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// ClearColor is the background colour: red, fully transparent.
var ClearColor = [4]float32{1, 0, 0, 0}

// Programs holds the program in each GLSL version a display may ask for.
var Programs = map[string]display.ProgramSource{
	"140": {
		Vertex: `#version 140
uniform mat4 matrix;
in vec2 position;
in vec3 color;
out vec3 vColor;
void main() {
	gl_Position = vec4(position, 0.0, 1.0) * matrix;
	vColor = color;
}
`,
		Fragment: `#version 140
in vec3 vColor;
out vec4 f_color;
void main() {
	f_color = vec4(vColor, 1.0);
}
`,
	},
	"110": {
		Vertex: `#version 110
uniform mat4 matrix;
attribute vec2 position;
attribute vec3 color;
varying vec3 vColor;
void main() {
	gl_Position = vec4(position, 0.0, 1.0) * matrix;
	vColor = color;
}
`,
		Fragment: `#version 110
varying vec3 vColor;
void main() {
	gl_FragColor = vec4(vColor, 1.0);
}
`,
	},
	"100": {
		Vertex: `#version 100
uniform lowp mat4 matrix;
attribute lowp vec2 position;
attribute lowp vec3 color;
varying lowp vec3 vColor;
void main() {
	gl_Position = vec4(position, 0.0, 1.0) * matrix;
	vColor = color;
}
`,
		Fragment: `#version 100
varying lowp vec3 vColor;
void main() {
	gl_FragColor = vec4(vColor, 1.0);
}
`,
	},
}

// Options are optional arguments to Draw.
type Options struct {
	// BeforeFinish, if non-nil, is called with the frame after the triangle
	// is drawn and before the frame is submitted.
	BeforeFinish func(*display.Frame) error
}

// Draw builds the triangle's resources on d, draws one frame and submits it.
// The resources are released before Draw returns.
func Draw(d *display.Display, opts *Options) error {
	return d.Run(func(gl.Context) error {
		vb, err := d.NewVertexBuffer(Vertices, Layout...)
		if err != nil {
			return xerrors.Errorf("triangle: vertex buffer: %w", err)
		}
		defer d.ReleaseVertexBuffer(vb)

		ib, err := d.NewIndexBuffer(gl.TRIANGLES, Indices)
		if err != nil {
			return xerrors.Errorf("triangle: index buffer: %w", err)
		}
		defer d.ReleaseIndexBuffer(ib)

		p, err := d.NewProgram(Programs)
		if err != nil {
			return xerrors.Errorf("triangle: program: %w", err)
		}
		defer d.ReleaseProgram(p)

		f := d.Draw()
		f.Clear(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
		if err := f.Draw(vb, ib, p, display.Uniforms{"matrix": Matrix[:]}); err != nil {
			return xerrors.Errorf("triangle: draw: %w", err)
		}
		if opts != nil && opts.BeforeFinish != nil {
			if err := opts.BeforeFinish(f); err != nil {
				return err
			}
		}
		if err := f.Finish(); err != nil {
			return xerrors.Errorf("triangle: finish: %w", err)
		}
		return nil
	})
}
