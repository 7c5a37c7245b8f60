package main

/*
#include <stdlib.h>

typedef void (*signal_callback)(const char *);

static void call_signal_callback(void *cb, const char *data) {
	((signal_callback)cb)(data);
}
*/
import "C"

import (
	"unsafe"

	"github.com/tangem/tangem-artwork-go/signal"
)

// setSignalCallback forwards every signal to a C function taking a
// NUL-terminated JSON string. The string is freed after the call returns.
func setSignalCallback(cb unsafe.Pointer) {
	if cb == nil {
		signal.SetSignalHandler(nil)
		return
	}

	signal.SetSignalHandler(func(data []byte) {
		str := C.CString(string(data))
		defer C.free(unsafe.Pointer(str))
		C.call_signal_callback(cb, str)
	})
}
