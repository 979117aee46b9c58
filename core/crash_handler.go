package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// cleanup runs before the crash report is printed, typically to restore
// the terminal on hosts that own one
var cleanup atomic.Pointer[func()]

// SetCrashCleanup installs a hook invoked before the crash report is written.
// Passing nil clears the hook.
func SetCrashCleanup(fn func()) {
	if fn == nil {
		cleanup.Store(nil)
		return
	}
	cleanup.Store(&fn)
}

// HandleCrash is the unified panic handler that prints the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if fn := cleanup.Load(); fn != nil {
		(*fn)()
	}

	os.Stdout.Sync()
	os.Stderr.Sync()

	fmt.Fprintf(os.Stderr, "\r\nCRASH DETECTED: %v\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so background work (asset batches,
// frame runners) cannot die silently.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
