// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build android
// +build android

package main

/*
#cgo LDFLAGS: -llog

#include <stdlib.h>
#include <android/log.h>
*/
import "C"

import (
	"bytes"
	"unsafe"
)

var logTag = C.CString("surfacebridge")

// logcat writes each line it is given to the Android log.
type logcat struct{}

func (logcat) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte{'\n'}) {
		cline := C.CString(string(line))
		C.__android_log_write(C.int(C.ANDROID_LOG_INFO), logTag, cline)
		C.free(unsafe.Pointer(cline))
	}
	return len(p), nil
}
