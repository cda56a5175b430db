// Package frame schedules one-shot per-frame callbacks.
//
// A refresh-synchronized source is preferred; when none is available the
// fixed-delay TimerScheduler is used. Schedulers never loop on their own:
// a callback that wants to keep running must schedule itself again.
package frame

import "log"

// Callback runs once per scheduled frame.
type Callback func()

// Handle identifies a scheduled callback. It is only returned for symmetry
// with host frame APIs; nothing cancels through it.
type Handle uint64

// Scheduler arranges for a callback to run at the next frame opportunity.
type Scheduler interface {
	ScheduleFrame(cb Callback) Handle
}

// Candidate is one possible frame source, checked in order by Select.
type Candidate struct {
	Name      string
	Available func() bool
	New       func() Scheduler
}

// Select returns the scheduler of the first available candidate, falling
// back to a TimerScheduler with FallbackDelay. It never fails.
func Select(candidates ...Candidate) Scheduler {
	for _, c := range candidates {
		if c.New == nil || c.Available == nil || !c.Available() {
			continue
		}
		if s := c.New(); s != nil {
			log.Printf("frame: using %s", c.Name)
			return s
		}
	}
	log.Printf("frame: no refresh-synchronized source, falling back to %v timer", FallbackDelay)
	return NewTimerScheduler(FallbackDelay)
}
