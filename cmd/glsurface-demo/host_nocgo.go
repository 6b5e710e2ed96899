// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !cgo
// +build !cgo

package main

import (
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

func run(cfg config, log *zap.Logger) error {
	return xerrors.New("glsurface-demo: built without cgo; GLFW is unavailable")
}
