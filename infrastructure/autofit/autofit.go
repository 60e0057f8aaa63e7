// Package autofit sizes board cells to the width of their container.
package autofit

import (
	"sync"
	"time"
)

const (
	DefaultMinCell = 24
	DefaultGap     = 16

	// FrameInterval is the default delay between a notification and the
	// recomputation it schedules.
	FrameInterval = 16 * time.Millisecond
)

// Policy computes a cell size from an available width. One extra column is
// reserved for the axis labels.
type Policy struct {
	MinCell int
	Gap     int
}

// DefaultPolicy returns the policy used when no configuration is given.
func DefaultPolicy() Policy {
	return Policy{MinCell: DefaultMinCell, Gap: DefaultGap}
}

// CellSize returns floor((width-Gap)/(totalCols+1)), never below MinCell.
// Below the floor the board scrolls instead of shrinking.
func (p Policy) CellSize(width, totalCols int) int {
	if totalCols < 1 {
		totalCols = 1
	}
	minCell := max(p.MinCell, 1)
	avail := width - p.Gap
	if avail <= 0 {
		return minCell
	}
	return max(avail/(totalCols+1), minCell)
}

// Sizer applies a Policy and remembers the last size it propagated so equal
// results do not fire onChange again.
type Sizer struct {
	policy   Policy
	onChange func(size int)

	// applyMu orders whole Apply calls so onChange sees sizes in the order
	// they were stored.
	applyMu sync.Mutex
	mu      sync.Mutex
	size    int
	applied bool
}

// NewSizer returns a Sizer that calls onChange whenever the size changes.
// onChange may be nil.
func NewSizer(policy Policy, onChange func(size int)) *Sizer {
	return &Sizer{policy: policy, onChange: onChange}
}

// Apply recomputes the size for width and totalCols. changed is true only
// when the result differs from the previously applied size.
func (s *Sizer) Apply(width, totalCols int) (size int, changed bool) {
	size = s.policy.CellSize(width, totalCols)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	changed = !s.applied || size != s.size
	s.size = size
	s.applied = true
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(size)
	}
	return size, changed
}

// Size returns the last applied size and whether one has been applied.
func (s *Sizer) Size() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size, s.applied
}

// Policy returns the sizing policy.
func (s *Sizer) Policy() Policy {
	return s.policy
}
