package kernel

import (
	"sync/atomic"
)

// PanicInfo describes a task that panicked.
type PanicInfo struct {
	Task  string
	Value any
	Stack []byte
}

var panicHandler atomic.Pointer[func(PanicInfo)]

// SetPanicHandler installs fn as the panic report for every Run; nil removes it.
//
// Each Run reports at most its first panic. fn must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	if fn == nil {
		panicHandler.Store(nil)
		return
	}
	panicHandler.Store(&fn)
}

// panicLatch lets one Run report only the first of its panicking tasks.
type panicLatch struct {
	fired atomic.Bool
}

// report must be called from the deferred recover so the stack still
// shows the panicking frames.
func (l *panicLatch) report(info PanicInfo) {
	if !l.fired.CompareAndSwap(false, true) {
		return
	}
	info.Stack = captureStack()
	if fn := panicHandler.Load(); fn != nil {
		(*fn)(info)
	}
}

// panicked reports whether a task of this Run has panicked.
func (l *panicLatch) panicked() bool { return l.fired.Load() }
