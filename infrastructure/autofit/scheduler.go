package autofit

import (
	"sync"
	"time"
)

// RequestFrame arranges for fn to run once at the next frame.
type RequestFrame func(fn func())

// TimerFrame schedules frames on a timer.
func TimerFrame(interval time.Duration) RequestFrame {
	return func(fn func()) {
		time.AfterFunc(interval, fn)
	}
}

// Scheduler turns resize and column-count notifications into Sizer
// recomputations, at most one pending frame at a time. Notifications that
// arrive while a frame is pending only overwrite its inputs.
type Scheduler struct {
	sizer   *Sizer
	request RequestFrame

	mu        sync.Mutex
	width     int
	totalCols int
	pending   bool
	hasWidth  bool
}

// NewScheduler wraps sizer. A nil request uses TimerFrame(FrameInterval).
func NewScheduler(sizer *Sizer, request RequestFrame) *Scheduler {
	if request == nil {
		request = TimerFrame(FrameInterval)
	}
	return &Scheduler{sizer: sizer, request: request, totalCols: 1}
}

// Resize records a new container width.
func (s *Scheduler) Resize(width int) {
	s.mu.Lock()
	s.width = width
	s.hasWidth = true
	s.scheduleLocked()
}

// Columns records a new board column count.
func (s *Scheduler) Columns(totalCols int) {
	s.mu.Lock()
	if totalCols == s.totalCols {
		s.mu.Unlock()
		return
	}
	s.totalCols = totalCols
	s.scheduleLocked()
}

// scheduleLocked releases s.mu.
func (s *Scheduler) scheduleLocked() {
	if s.pending || !s.hasWidth {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()
	s.request(s.flush)
}

// flush keeps the frame pending until Apply returns. Inputs that changed
// meanwhile get a fresh frame.
func (s *Scheduler) flush() {
	s.mu.Lock()
	width, cols := s.width, s.totalCols
	s.mu.Unlock()

	s.sizer.Apply(width, cols)

	s.mu.Lock()
	s.pending = false
	if s.width != width || s.totalCols != cols {
		s.scheduleLocked()
		return
	}
	s.mu.Unlock()
}

// Pending reports whether a frame is scheduled but has not run yet.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Sizer returns the wrapped sizer.
func (s *Scheduler) Sizer() *Sizer {
	return s.sizer
}
