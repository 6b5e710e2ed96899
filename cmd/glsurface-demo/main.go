// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Glsurface-demo registers a desktop window as a surface and draws the
// triangle into it, the way the Android library does with a SurfaceTexture.
//
// Usage:
//
//	glsurface-demo [-config demo.toml] [-width 640] [-height 480] [-checked]
//		[-debug errors] [-snapshot frame.bmp] [-once] [-v]
//
// The optional TOML file may set title, width, height, checked and debug;
// flags given on the command line take precedence.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "TOML configuration file")
	snapshot   = flag.String("snapshot", "", "write the drawn frame to this BMP file")
	once       = flag.Bool("once", false, "exit after drawing instead of waiting for the window to close")
	verbose    = flag.Bool("v", false, "log at debug level")
)

func main() {
	flags := flagConfig(flag.CommandLine, defaultConfig())
	flag.Parse()

	cfg, err := loadConfig(*configPath, flag.CommandLine, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glsurface-demo: %v\n", err)
		os.Exit(2)
	}

	zcfg := zap.NewDevelopmentConfig()
	if !*verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glsurface-demo: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("demo failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
