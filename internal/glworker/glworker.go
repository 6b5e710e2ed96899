// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glworker runs GL work while keeping the GL driver on one thread.
package glworker

import "golang.org/x/mobile/gl"

// Do runs f on a new goroutine and services w on the calling goroutine until f
// returns. The calling goroutine must be locked to the OS thread on which the
// GL context is current.
//
// If w is nil, f runs directly on the calling goroutine.
//
// A panic in f is re-raised on the calling goroutine with the same value.
func Do(w gl.Worker, f func() error) error {
	if w == nil {
		return f()
	}

	type result struct {
		err error
		p   interface{}
	}
	done := make(chan result, 1)
	go func() {
		var r result
		defer func() {
			r.p = recover()
			done <- r
		}()
		r.err = f()
	}()

	workAvailable := w.WorkAvailable()
	for {
		select {
		case r := <-done:
			drain(w, workAvailable)
			if r.p != nil {
				panic(r.p)
			}
			return r.err
		case <-workAvailable:
			w.DoWork()
		}
	}
}

// drain runs work queued by f that nothing has waited on yet.
func drain(w gl.Worker, workAvailable <-chan struct{}) {
	for {
		select {
		case <-workAvailable:
			w.DoWork()
		default:
			return
		}
	}
}
