package frame

// TickScheduler runs callbacks on the host's frame tick. The game loop
// calls Tick once per frame.
type TickScheduler struct {
	next    Handle
	pending []Callback
}

func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

func (s *TickScheduler) ScheduleFrame(cb Callback) Handle {
	s.next++
	if cb != nil {
		s.pending = append(s.pending, cb)
	}
	return s.next
}

// Tick runs every callback queued before the tick started. Callbacks
// scheduled while ticking wait for the next tick.
func (s *TickScheduler) Tick() int {
	if s == nil || len(s.pending) == 0 {
		return 0
	}
	due := s.pending
	s.pending = nil
	for _, cb := range due {
		cb()
	}
	return len(due)
}

// Pending reports how many callbacks wait for the next tick.
func (s *TickScheduler) Pending() int {
	if s == nil {
		return 0
	}
	return len(s.pending)
}
