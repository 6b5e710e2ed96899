// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package egl resolves GL entry points through the platform EGL library.
package egl

// ProcAddress returns the address of the GL or EGL function called name, or
// 0 if it cannot be resolved or EGL is not available. The result is only
// meaningful while a GL context is current on the calling thread.
func ProcAddress(name string) uintptr {
	if name == "" {
		return 0
	}
	return procAddress(name)
}
