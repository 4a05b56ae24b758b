package internal

import (
	"sync/atomic"
	"time"
)

// AppStats atomic counters for totals, scoped to one run.
type AppStats struct {
	start        time.Time
	FilesFound   atomic.Int64
	FilesScanned atomic.Int64
	Matches      atomic.Int64
	Errors       atomic.Int64
}

func (s *AppStats) Start() {
	s.start = time.Now()
}

func (s *AppStats) Elapsed() time.Duration {
	return time.Since(s.start)
}
