// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glversion parses GL_VERSION strings.
package glversion

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Version is a GL or GL ES version.
type Version struct {
	Major, Minor int
	ES           bool
}

func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("OpenGL ES %d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("OpenGL %d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is major.minor or later.
func (v Version) AtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// Parse parses the string returned by glGetString(GL_VERSION), for example
// "OpenGL ES 3.2 V@415.0" or "4.6.0 NVIDIA 470.63".
func Parse(s string) (Version, error) {
	var v Version
	if _, err := fmt.Sscanf(s, "OpenGL ES %d.%d", &v.Major, &v.Minor); err == nil {
		v.ES = true
		return v, nil
	}
	// OpenGL ES 1.x reports a profile: "OpenGL ES-CM 1.1".
	var profile string
	if _, err := fmt.Sscanf(s, "OpenGL ES-%2s %d.%d", &profile, &v.Major, &v.Minor); err == nil {
		v.ES = true
		return v, nil
	}
	if _, err := fmt.Sscanf(s, "%d.%d", &v.Major, &v.Minor); err == nil {
		return v, nil
	}
	return Version{}, xerrors.Errorf("glversion: cannot parse %q", s)
}

// Compatible reports whether v can run the programmable pipeline: OpenGL ES
// 2.0 or OpenGL 2.0 and later.
func (v Version) Compatible() bool {
	return v.AtLeast(2, 0)
}

// ShaderVariant names the GLSL version used for programs on v: "140" for
// OpenGL 3.1 and later, "110" for older desktop GL and "100" for OpenGL ES.
func (v Version) ShaderVariant() string {
	switch {
	case v.ES:
		return "100"
	case v.AtLeast(3, 1):
		return "140"
	}
	return "110"
}
