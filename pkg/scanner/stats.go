package scanner

import (
	"fmt"
	"sync"
	"time"
)

// Stats tracks monitor activity across sweeps and transfers
type Stats struct {
	sweeps      int
	newFiles    int
	modified    int
	filtered    int
	dispatched  int
	transferred int
	failed      int
	shared      int
	startTime   time.Time
	mu          sync.RWMutex
}

// NewStats creates a stats tracker
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// AddSweep increments the sweep counter
func (s *Stats) AddSweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
}

// AddDetected records a new or modified classification
func (s *Stats) AddDetected(class Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch class {
	case ClassNew:
		s.newFiles++
	case ClassModified:
		s.modified++
	}
}

// AddFiltered counts an entry rejected by the auto-detect filter
func (s *Stats) AddFiltered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered++
}

// AddDispatched counts an entry handed to the transfer client
func (s *Stats) AddDispatched() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched++
}

// AddTransferred counts a confirmed transfer
func (s *Stats) AddTransferred() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transferred++
}

// AddFailed counts a failed transfer
func (s *Stats) AddFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

// AddShared counts a share side-effect
func (s *Stats) AddShared() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shared++
}

// Dispatched returns the number of dispatched transfers.
func (s *Stats) Dispatched() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatched
}

// Render returns a one-line summary for console output.
func (s *Stats) Render() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elapsed := time.Since(s.startTime).Round(time.Second)
	return fmt.Sprintf("up %s | sweeps %d | new %d | modified %d | filtered %d | dispatched %d | sent %d | failed %d | shared %d",
		elapsed, s.sweeps, s.newFiles, s.modified, s.filtered, s.dispatched, s.transferred, s.failed, s.shared)
}
