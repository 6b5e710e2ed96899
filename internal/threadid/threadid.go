// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package threadid identifies the OS thread running the caller.
package threadid

// Current returns an identifier for the calling OS thread, or 0 if the
// platform offers none. Callers that need a stable answer must have called
// runtime.LockOSThread.
func Current() int { return current() }
