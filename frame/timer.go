package frame

import (
	"context"
	"time"
)

// FallbackDelay is the fixed timer delay used without a refresh source.
const FallbackDelay = time.Second / 60

// TimerScheduler fires each callback after a fixed delay. Due callbacks
// are handed to the consumer goroutine through Run or Poll, never invoked
// from the timer goroutine.
type TimerScheduler struct {
	delay time.Duration
	next  Handle
	ready chan Callback
}

func NewTimerScheduler(delay time.Duration) *TimerScheduler {
	if delay <= 0 {
		delay = FallbackDelay
	}
	return &TimerScheduler{
		delay: delay,
		ready: make(chan Callback, 16),
	}
}

// Delay returns the fixed delay between scheduling and firing.
func (s *TimerScheduler) Delay() time.Duration {
	return s.delay
}

func (s *TimerScheduler) ScheduleFrame(cb Callback) Handle {
	s.next++
	if cb == nil {
		return s.next
	}
	time.AfterFunc(s.delay, func() {
		s.ready <- cb
	})
	return s.next
}

// Run invokes due callbacks until ctx is done.
func (s *TimerScheduler) Run(ctx context.Context) error {
	for {
		select {
		case cb := <-s.ready:
			cb()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Poll invokes every callback that is already due and returns how many ran.
func (s *TimerScheduler) Poll() int {
	n := 0
	for {
		select {
		case cb := <-s.ready:
			cb()
			n++
		default:
			return n
		}
	}
}
