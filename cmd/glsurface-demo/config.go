// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/BurntSushi/toml"
	"github.com/glsurface/glsurface/display"
	"golang.org/x/xerrors"
)

// config is the demo configuration. Values come from the TOML file named by
// -config, then from flags set on the command line.
type config struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Checked bool   `toml:"checked"`
	Debug   string `toml:"debug"`
}

func defaultConfig() config {
	return config{
		Title:  "glsurface",
		Width:  640,
		Height: 480,
		Debug:  display.DebugLogErrors.String(),
	}
}

// flagConfig registers flags for every config field on fs, with defaults
// from def.
func flagConfig(fs *flag.FlagSet, def config) *config {
	c := def
	fs.StringVar(&c.Title, "title", def.Title, "window title")
	fs.IntVar(&c.Width, "width", def.Width, "surface width in pixels")
	fs.IntVar(&c.Height, "height", def.Height, "surface height in pixels")
	fs.BoolVar(&c.Checked, "checked", def.Checked, "check for GL errors after every frame operation")
	fs.StringVar(&c.Debug, "debug", def.Debug, "GL diagnostics to log: ignore, errors or all")
	return &c
}

// loadConfig returns the defaults overlaid with the TOML file at path, if
// path is not empty, and then with the flags set on fs.
func loadConfig(path string, fs *flag.FlagSet, flags *config) (config, error) {
	c := defaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &c)
		if err != nil {
			return config{}, xerrors.Errorf("config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return config{}, xerrors.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			c.Title = flags.Title
		case "width":
			c.Width = flags.Width
		case "height":
			c.Height = flags.Height
		case "checked":
			c.Checked = flags.Checked
		case "debug":
			c.Debug = flags.Debug
		}
	})
	if c.Width <= 0 || c.Height <= 0 {
		return config{}, xerrors.Errorf("config: invalid size %dx%d", c.Width, c.Height)
	}
	if _, err := display.ParseDebugBehavior(c.Debug); err != nil {
		return config{}, xerrors.Errorf("config: %w", err)
	}
	return c, nil
}
