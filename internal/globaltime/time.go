// Package globaltime is the process clock for stored timestamps. Tests can
// freeze it.
package globaltime

import (
	"sync/atomic"
	"time"
)

// frozen is nil while the wall clock is in use.
var frozen atomic.Pointer[time.Time]

func Now() time.Time {
	if t := frozen.Load(); t != nil {
		return *t
	}
	return time.Now()
}

func UTC() time.Time {
	return Now().UTC()
}

// SetMockTime freezes Now at t until ResetTime.
func SetMockTime(t time.Time) {
	frozen.Store(&t)
}

func ResetTime() {
	frozen.Store(nil)
}
