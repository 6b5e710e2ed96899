// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux || !cgo
// +build !linux !cgo

package egl

func procAddress(name string) uintptr { return 0 }
