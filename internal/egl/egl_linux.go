// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && cgo
// +build linux,cgo

package egl

/*
#cgo LDFLAGS: -lEGL

#include <stdint.h>
#include <stdlib.h>
#include <EGL/egl.h>

static uintptr_t getProcAddress(const char *name) {
	return (uintptr_t)eglGetProcAddress(name);
}
*/
import "C"
import "unsafe"

func procAddress(name string) uintptr {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return uintptr(C.getProcAddress(cname))
}
