// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build android
// +build android

package main

/*
#include <stdlib.h>
#include <jni.h>

static JavaVM *javaVM(JNIEnv *env) {
	JavaVM *vm = NULL;
	(*env)->GetJavaVM(env, &vm);
	return vm;
}

static JNIEnv *currentEnv(JavaVM *vm) {
	JNIEnv *env = NULL;
	if ((*vm)->GetEnv(vm, (void **)&env, JNI_VERSION_1_6) == JNI_EDETACHED) {
		if ((*vm)->AttachCurrentThread(vm, &env, NULL) != JNI_OK) {
			return NULL;
		}
	}
	return env;
}

static jobject newGlobalRef(JNIEnv *env, jobject o) {
	return (*env)->NewGlobalRef(env, o);
}

static void deleteGlobalRef(JavaVM *vm, jobject o) {
	JNIEnv *env = currentEnv(vm);
	if (env != NULL) {
		(*env)->DeleteGlobalRef(env, o);
	}
}

// callVoid calls the void method name with signature sig on o, passing arg if
// sig takes an int. It returns 0 on success, -1 if the method does not exist
// and -2 if it threw.
static int callVoid(JavaVM *vm, jobject o, const char *name, const char *sig, jint arg) {
	JNIEnv *env = currentEnv(vm);
	if (env == NULL) {
		return -3;
	}
	jclass cls = (*env)->GetObjectClass(env, o);
	jmethodID m = (*env)->GetMethodID(env, cls, name, sig);
	(*env)->DeleteLocalRef(env, cls);
	if (m == NULL) {
		(*env)->ExceptionClear(env);
		return -1;
	}
	(*env)->CallVoidMethod(env, o, m, arg);
	if ((*env)->ExceptionCheck(env)) {
		(*env)->ExceptionDescribe(env);
		(*env)->ExceptionClear(env);
		return -2;
	}
	return 0;
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"golang.org/x/xerrors"
)

// jniTexture is a global reference to an android.graphics.SurfaceTexture.
type jniTexture struct {
	vm *C.JavaVM

	mu  sync.Mutex
	obj C.jobject
}

func newJNITexture(env *C.JNIEnv, obj C.jobject) *jniTexture {
	return &jniTexture{
		vm:  C.javaVM(env),
		obj: C.newGlobalRef(env, obj),
	}
}

func (t *jniTexture) call(name, sig string, arg int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.obj == nil {
		return xerrors.Errorf("surfacebridge: %s on released SurfaceTexture", name)
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))

	switch C.callVoid(t.vm, t.obj, cname, csig, C.jint(arg)) {
	case 0:
		return nil
	case -1:
		return xerrors.Errorf("surfacebridge: SurfaceTexture has no method %s%s", name, sig)
	case -2:
		return xerrors.Errorf("surfacebridge: SurfaceTexture.%s threw", name)
	default:
		return xerrors.Errorf("surfacebridge: cannot attach thread to the JVM")
	}
}

func (t *jniTexture) AttachToGLContext(texName uint32) error {
	return t.call("attachToGLContext", "(I)V", int32(texName))
}

func (t *jniTexture) DetachFromGLContext() error {
	return t.call("detachFromGLContext", "()V", 0)
}

func (t *jniTexture) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.obj != nil {
		C.deleteGlobalRef(t.vm, t.obj)
		t.obj = nil
	}
}
