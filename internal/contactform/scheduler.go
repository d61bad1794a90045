package contactform

import "time"

// Timer is a pending deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(delay time.Duration, callback func()) Timer
}

// TimeScheduler schedules with time.AfterFunc.
type TimeScheduler struct{}

// AfterFunc calls time.AfterFunc.
func (TimeScheduler) AfterFunc(delay time.Duration, callback func()) Timer {
	return time.AfterFunc(delay, callback)
}
