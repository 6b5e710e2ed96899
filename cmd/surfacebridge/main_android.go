// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build android
// +build android

// Surfacebridge is a shared library that draws into an Android
// SurfaceTexture handed over from Java.
//
// Build it with
//
//	GOOS=android CGO_ENABLED=1 go build -buildmode=c-shared -o libsurfacebridge.so
//
// and declare, in the Java class org.glsurface.SurfaceBridge,
//
//	static native boolean register(SurfaceTexture surface, int width, int height);
//
// register must be called on the thread where the app's EGL context is
// current, typically a GLSurfaceView renderer thread.
package main

/*
#include <jni.h>
*/
import "C"

import (
	"context"
	"runtime"

	"github.com/glsurface/glsurface/bridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the last registered surface for the life of the process.
var app = bridge.NewApp(bridge.StrictOptions(newLogger()))

func newLogger() *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(logcat{}), zap.DebugLevel)
	return zap.New(core).Named("surfacebridge")
}

//export Java_org_glsurface_SurfaceBridge_register
func Java_org_glsurface_SurfaceBridge_register(env *C.JNIEnv, clazz C.jclass, surfaceTexture C.jobject, width, height C.jint) C.jboolean {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx := context.Background()
	if surfaceTexture == nil {
		app.Register(ctx, nil, int(width), int(height))
	} else {
		app.Register(ctx, newJNITexture(env, surfaceTexture), int(width), int(height))
	}
	return C.JNI_TRUE
}

func main() {}
