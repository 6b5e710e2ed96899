// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"encoding/binary"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// Attribute describes one float vertex attribute.
type Attribute struct {
	Name string
	Size int // number of float32 components
}

// VertexBuffer holds interleaved float vertex data in a GL buffer.
type VertexBuffer struct {
	buf    gl.Buffer
	attrs  []Attribute
	stride int
	count  int
}

// Len returns the number of vertices in vb.
func (vb *VertexBuffer) Len() int { return vb.count }

// NewVertexBuffer uploads vertices, laid out as consecutive records of attrs.
// It must be called from Run.
func (d *Display) NewVertexBuffer(vertices []float32, attrs ...Attribute) (*VertexBuffer, error) {
	per := 0
	for _, a := range attrs {
		if a.Size < 1 || a.Size > 4 {
			return nil, xerrors.Errorf("display: attribute %s has %d components", a.Name, a.Size)
		}
		per += a.Size
	}
	if per == 0 || len(vertices)%per != 0 {
		return nil, xerrors.Errorf("display: %d floats do not divide into vertices of %d", len(vertices), per)
	}

	buf := d.ctx.CreateBuffer()
	if buf.Value == 0 {
		return nil, xerrors.New("display: no buffers available")
	}
	d.ctx.BindBuffer(gl.ARRAY_BUFFER, buf)
	d.ctx.BufferData(gl.ARRAY_BUFFER, f32.Bytes(binary.LittleEndian, vertices...), gl.STATIC_DRAW)
	return &VertexBuffer{
		buf:    buf,
		attrs:  append([]Attribute(nil), attrs...),
		stride: 4 * per,
		count:  len(vertices) / per,
	}, nil
}

// ReleaseVertexBuffer deletes the GL buffer. It must be called from Run.
func (d *Display) ReleaseVertexBuffer(vb *VertexBuffer) { d.ctx.DeleteBuffer(vb.buf) }

// IndexBuffer holds uint16 vertex indices in a GL buffer.
type IndexBuffer struct {
	buf   gl.Buffer
	mode  gl.Enum
	count int
}

// Len returns the number of indices in ib.
func (ib *IndexBuffer) Len() int { return ib.count }

// NewIndexBuffer uploads indices of primitives of the given mode, such as
// gl.TRIANGLES. It must be called from Run.
func (d *Display) NewIndexBuffer(mode gl.Enum, indices []uint16) (*IndexBuffer, error) {
	if len(indices) == 0 {
		return nil, xerrors.New("display: empty index buffer")
	}
	buf := d.ctx.CreateBuffer()
	if buf.Value == 0 {
		return nil, xerrors.New("display: no buffers available")
	}
	b := make([]byte, 2*len(indices))
	for i, x := range indices {
		binary.LittleEndian.PutUint16(b[2*i:], x)
	}
	d.ctx.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	d.ctx.BufferData(gl.ELEMENT_ARRAY_BUFFER, b, gl.STATIC_DRAW)
	return &IndexBuffer{buf: buf, mode: mode, count: len(indices)}, nil
}

// ReleaseIndexBuffer deletes the GL buffer. It must be called from Run.
func (d *Display) ReleaseIndexBuffer(ib *IndexBuffer) { d.ctx.DeleteBuffer(ib.buf) }

// ProgramSource is the GLSL source of one program variant.
type ProgramSource struct {
	Vertex   string
	Fragment string
}

// Program is a linked GL program.
type Program struct {
	p       gl.Program
	variant string
}

// Variant returns the GLSL version the program was compiled from.
func (p *Program) Variant() string { return p.variant }

// NewProgram compiles the variant of variants, keyed by GLSL version ("140",
// "110", "100"), that suits the context's GL version. It must be called from
// Run.
func (d *Display) NewProgram(variants map[string]ProgramSource) (*Program, error) {
	want := d.version.ShaderVariant()
	src, ok := variants[want]
	if !ok {
		have := maps.Keys(variants)
		slices.Sort(have)
		return nil, xerrors.Errorf("display: no GLSL %s variant for %v (have %v)", want, d.version, have)
	}
	p, err := compileProgram(d.ctx, src.Vertex, src.Fragment)
	if err != nil {
		return nil, err
	}
	return &Program{p: p, variant: want}, nil
}

// ReleaseProgram deletes the GL program. It must be called from Run.
func (d *Display) ReleaseProgram(p *Program) { d.ctx.DeleteProgram(p.p) }

func compileProgram(ctx gl.Context, vSrc, fSrc string) (gl.Program, error) {
	program := ctx.CreateProgram()
	if program.Value == 0 {
		return gl.Program{}, xerrors.New("display: no programs available")
	}

	vertexShader, err := compileShader(ctx, gl.VERTEX_SHADER, vSrc)
	if err != nil {
		ctx.DeleteProgram(program)
		return gl.Program{}, err
	}
	fragmentShader, err := compileShader(ctx, gl.FRAGMENT_SHADER, fSrc)
	if err != nil {
		ctx.DeleteShader(vertexShader)
		ctx.DeleteProgram(program)
		return gl.Program{}, err
	}

	ctx.AttachShader(program, vertexShader)
	ctx.AttachShader(program, fragmentShader)
	ctx.LinkProgram(program)

	// Flag shaders for deletion when program is unlinked.
	ctx.DeleteShader(vertexShader)
	ctx.DeleteShader(fragmentShader)

	if ctx.GetProgrami(program, gl.LINK_STATUS) == 0 {
		defer ctx.DeleteProgram(program)
		return gl.Program{}, xerrors.Errorf("display: program link: %s", ctx.GetProgramInfoLog(program))
	}
	return program, nil
}

func compileShader(ctx gl.Context, shaderType gl.Enum, src string) (gl.Shader, error) {
	shader := ctx.CreateShader(shaderType)
	if shader.Value == 0 {
		return gl.Shader{}, xerrors.Errorf("display: could not create shader (type %v)", shaderType)
	}
	ctx.ShaderSource(shader, src)
	ctx.CompileShader(shader)
	if ctx.GetShaderi(shader, gl.COMPILE_STATUS) == 0 {
		defer ctx.DeleteShader(shader)
		return gl.Shader{}, xerrors.Errorf("display: shader compile: %s", ctx.GetShaderInfoLog(shader))
	}
	return shader, nil
}
