package ombra

import (
	"time"
)

// Timer tracks frame delta time for the time uniform and the frame loop.
type Timer struct {
	prev time.Time
	curr time.Time
}

func NewTimer() *Timer {
	now := time.Now()
	return &Timer{prev: now, curr: now}
}

// Delta returns the time elapsed since the previous call.
func (t *Timer) Delta() time.Duration {
	t.curr = time.Now()
	delta := t.curr.Sub(t.prev)
	t.prev = t.curr
	return delta
}

// Prev returns the time of the last Delta call.
func (t *Timer) Prev() time.Time {
	return t.prev
}

// ScopedTimer logs how long a scope took; stop it with Done.
//
//	defer NewScopedTimer(log, "textures loaded").Done()
type ScopedTimer struct {
	log     Logger
	message string
	timer   *Timer
}

func NewScopedTimer(log Logger, message string) *ScopedTimer {
	return &ScopedTimer{
		log:     log,
		message: message,
		timer:   NewTimer(),
	}
}

func (s *ScopedTimer) Done() {
	s.log.Infof("%s (%.3fs)", s.message, s.timer.Delta().Seconds())
}
