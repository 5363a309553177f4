package assert

import (
	"runtime"
	"strings"
)

// Assembly-time guards. Violations panic because a broken assembly must
// not boot.

// NotNil panics when v is nil.
func NotNil(v interface{}) {
	if v == nil {
		panic("assert: unexpected nil singleton")
	}
}

// NotCircular panics when singleton accessors end up on their own call
// stack, which happens when two plugin constructors resolve each other.
func NotCircular() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	caller := runtime.FuncForPC(pc)
	if caller == nil {
		return
	}
	name := caller.Name()

	buf := make([]uintptr, 64)
	// skip runtime.Callers, NotCircular and the caller frame itself
	n := runtime.Callers(3, buf)
	frames := runtime.CallersFrames(buf[:n])
	for {
		frame, more := frames.Next()
		if strings.HasSuffix(frame.Function, name) || frame.Function == name {
			panic("assert: circular singleton construction via " + name)
		}
		if !more {
			return
		}
	}
}
