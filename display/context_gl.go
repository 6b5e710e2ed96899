// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin || linux || openbsd || freebsd || windows) && (cgo || windows)
// +build darwin linux openbsd freebsd windows
// +build cgo windows

package display

import "golang.org/x/mobile/gl"

func newContext() (gl.Context, gl.Worker) { return gl.NewContext() }
