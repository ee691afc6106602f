package assistant

import "time"

// Handle cancels a scheduled call.
type Handle interface {
	// Stop prevents the call from running. It reports false if the call
	// already ran or was stopped.
	Stop() bool
}

// Scheduler runs f once after d. Implementations must not call f
// synchronously from AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// TimerScheduler schedules with time.AfterFunc.
var TimerScheduler Scheduler = timerScheduler{}
