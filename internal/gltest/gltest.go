// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltest provides a recording gl.Context for tests that have no GL
// driver.
package gltest

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
	"golang.org/x/mobile/gl"
)

// Context records the GL calls made on it. Calls to methods it does not
// implement panic through the nil embedded interface.
type Context struct {
	gl.Context

	// Version is returned for GL_VERSION. The zero value reports OpenGL ES
	// 2.0.
	Version string
	// CompileFails makes every shader fail to compile.
	CompileFails bool
	// LinkFails makes every program fail to link.
	LinkFails bool
	// NoBuffers makes CreateBuffer return the zero buffer.
	NoBuffers bool
	// Errors are returned, in order, by GetError before it reports
	// NO_ERROR.
	Errors []gl.Enum
	// Pixel fills the destination of ReadPixels.
	Pixel [4]byte

	mu      sync.Mutex
	calls   []string
	next    uint32
	buffers map[gl.Buffer][]byte
	created []gl.Buffer
	bound   map[gl.Enum]gl.Buffer
	// uniforms holds the last value set for each uniform location.
	uniforms map[int32][]float32
	names    map[int32]string
}

// NewContext returns an empty recording context.
func NewContext() *Context {
	return &Context{}
}

func (c *Context) record(format string, args ...interface{}) {
	c.mu.Lock()
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
	c.mu.Unlock()
}

func (c *Context) id() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return c.next
}

// Calls returns the recorded calls, each formatted as its method name
// followed by a summary of its arguments.
func (c *Context) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Count returns how many recorded calls were to the method called name.
func (c *Context) Count(name string) int {
	n := 0
	for _, call := range c.Calls() {
		if call == name || strings.HasPrefix(call, name+" ") {
			n++
		}
	}
	return n
}

// Names returns the recorded method names, without arguments, filtered to
// those in keep. An empty keep returns every name.
func (c *Context) Names(keep ...string) []string {
	var names []string
	for _, call := range c.Calls() {
		name := call
		if i := strings.IndexByte(call, ' '); i >= 0 {
			name = call[:i]
		}
		if len(keep) == 0 || slices.Contains(keep, name) {
			names = append(names, name)
		}
	}
	return names
}

// Buffers returns the buffers created so far, in order.
func (c *Context) Buffers() []gl.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]gl.Buffer(nil), c.created...)
}

// BufferContents returns the bytes last uploaded to b.
func (c *Context) BufferContents(b gl.Buffer) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffers[b]
}

// UniformValue returns the value last set for the uniform called name.
func (c *Context) UniformValue(name string) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	for loc, n := range c.names {
		if n == name {
			return c.uniforms[loc]
		}
	}
	return nil
}

func (c *Context) GetString(pname gl.Enum) string {
	c.record("GetString %v", pname)
	if pname == gl.VERSION {
		if c.Version == "" {
			return "OpenGL ES 2.0 gltest"
		}
		return c.Version
	}
	return ""
}

func (c *Context) GetError() gl.Enum {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Errors) == 0 {
		return gl.NO_ERROR
	}
	e := c.Errors[0]
	c.Errors = c.Errors[1:]
	return e
}

func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport %d %d %d %d", x, y, width, height)
}

func (c *Context) ClearColor(red, green, blue, alpha float32) {
	c.record("ClearColor %v %v %v %v", red, green, blue, alpha)
}

func (c *Context) Clear(mask gl.Enum) { c.record("Clear %#x", uint32(mask)) }

func (c *Context) Flush() { c.record("Flush") }

func (c *Context) Finish() { c.record("Finish") }

func (c *Context) CreateBuffer() gl.Buffer {
	if c.NoBuffers {
		c.record("CreateBuffer")
		return gl.Buffer{}
	}
	b := gl.Buffer{Value: c.id()}
	c.mu.Lock()
	c.created = append(c.created, b)
	c.mu.Unlock()
	c.record("CreateBuffer %d", b.Value)
	return b
}

func (c *Context) DeleteBuffer(b gl.Buffer) { c.record("DeleteBuffer %d", b.Value) }

func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	c.mu.Lock()
	if c.bound == nil {
		c.bound = make(map[gl.Enum]gl.Buffer)
	}
	c.bound[target] = b
	c.mu.Unlock()
	c.record("BindBuffer %#x %d", uint32(target), b.Value)
}

func (c *Context) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	c.mu.Lock()
	if c.buffers == nil {
		c.buffers = make(map[gl.Buffer][]byte)
	}
	c.buffers[c.bound[target]] = append([]byte(nil), src...)
	c.mu.Unlock()
	c.record("BufferData %#x %d", uint32(target), len(src))
}

func (c *Context) CreateShader(ty gl.Enum) gl.Shader {
	s := gl.Shader{Value: c.id()}
	c.record("CreateShader %#x", uint32(ty))
	return s
}

func (c *Context) ShaderSource(s gl.Shader, src string) {
	firstLine := src
	if i := strings.IndexByte(strings.TrimSpace(src), '\n'); i >= 0 {
		firstLine = strings.TrimSpace(src)[:i]
	}
	c.record("ShaderSource %d %s", s.Value, firstLine)
}

func (c *Context) CompileShader(s gl.Shader) { c.record("CompileShader %d", s.Value) }

func (c *Context) GetShaderi(s gl.Shader, pname gl.Enum) int {
	if pname == gl.COMPILE_STATUS && c.CompileFails {
		return 0
	}
	return 1
}

func (c *Context) GetShaderInfoLog(s gl.Shader) string { return "gltest: compile failed" }

func (c *Context) DeleteShader(s gl.Shader) { c.record("DeleteShader %d", s.Value) }

func (c *Context) CreateProgram() gl.Program {
	p := gl.Program{Init: true, Value: c.id()}
	c.record("CreateProgram %d", p.Value)
	return p
}

func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	c.record("AttachShader %d %d", p.Value, s.Value)
}

func (c *Context) LinkProgram(p gl.Program) { c.record("LinkProgram %d", p.Value) }

func (c *Context) GetProgrami(p gl.Program, pname gl.Enum) int {
	if pname == gl.LINK_STATUS && c.LinkFails {
		return 0
	}
	return 1
}

func (c *Context) GetProgramInfoLog(p gl.Program) string { return "gltest: link failed" }

func (c *Context) DeleteProgram(p gl.Program) { c.record("DeleteProgram %d", p.Value) }

func (c *Context) UseProgram(p gl.Program) { c.record("UseProgram %d", p.Value) }

func (c *Context) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	a := gl.Attrib{Value: uint(c.id())}
	c.record("GetAttribLocation %s", name)
	return a
}

func (c *Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	u := gl.Uniform{Value: int32(c.id())}
	c.mu.Lock()
	if c.names == nil {
		c.names = make(map[int32]string)
	}
	c.names[u.Value] = name
	c.mu.Unlock()
	c.record("GetUniformLocation %s", name)
	return u
}

func (c *Context) setUniform(method string, u gl.Uniform, v []float32) {
	c.mu.Lock()
	if c.uniforms == nil {
		c.uniforms = make(map[int32][]float32)
	}
	c.uniforms[u.Value] = append([]float32(nil), v...)
	name := c.names[u.Value]
	c.mu.Unlock()
	c.record("%s %s", method, name)
}

func (c *Context) Uniform1f(u gl.Uniform, v float32) { c.setUniform("Uniform1f", u, []float32{v}) }

func (c *Context) Uniform2fv(u gl.Uniform, v []float32) { c.setUniform("Uniform2fv", u, v) }

func (c *Context) Uniform3fv(u gl.Uniform, v []float32) { c.setUniform("Uniform3fv", u, v) }

func (c *Context) Uniform4fv(u gl.Uniform, v []float32) { c.setUniform("Uniform4fv", u, v) }

func (c *Context) UniformMatrix4fv(u gl.Uniform, v []float32) {
	c.setUniform("UniformMatrix4fv", u, v)
}

func (c *Context) EnableVertexAttribArray(a gl.Attrib) {
	c.record("EnableVertexAttribArray %d", a.Value)
}

func (c *Context) DisableVertexAttribArray(a gl.Attrib) {
	c.record("DisableVertexAttribArray %d", a.Value)
}

func (c *Context) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer %d %d %d %d", dst.Value, size, stride, offset)
}

func (c *Context) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	c.record("DrawElements %#x %d %#x %d", uint32(mode), count, uint32(ty), offset)
}

func (c *Context) ReadPixels(dst []byte, x, y, width, height int, format, ty gl.Enum) {
	for i := 0; i+4 <= len(dst); i += 4 {
		copy(dst[i:i+4], c.Pixel[:])
	}
	c.record("ReadPixels %d %d %d %d", x, y, width, height)
}
