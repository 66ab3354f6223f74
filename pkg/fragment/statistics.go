package fragment

import "sync/atomic"

// Statistics tracks reassembly metrics
type Statistics struct {
	FragmentsReceived  uint64
	PacketsReassembled uint64
	PacketsTimedOut    uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// IncrementFragmentsReceived increments received fragment count
func (s *Statistics) IncrementFragmentsReceived() {
	atomic.AddUint64(&s.FragmentsReceived, 1)
}

// IncrementPacketsReassembled increments completed packet count
func (s *Statistics) IncrementPacketsReassembled() {
	atomic.AddUint64(&s.PacketsReassembled, 1)
}

// IncrementPacketsTimedOut increments timed out packet count
func (s *Statistics) IncrementPacketsTimedOut() {
	atomic.AddUint64(&s.PacketsTimedOut, 1)
}

// GetFragmentsReceived returns received fragment count
func (s *Statistics) GetFragmentsReceived() uint64 {
	return atomic.LoadUint64(&s.FragmentsReceived)
}

// GetPacketsReassembled returns completed packet count
func (s *Statistics) GetPacketsReassembled() uint64 {
	return atomic.LoadUint64(&s.PacketsReassembled)
}

// GetPacketsTimedOut returns timed out packet count
func (s *Statistics) GetPacketsTimedOut() uint64 {
	return atomic.LoadUint64(&s.PacketsTimedOut)
}

// Reset resets all statistics to zero
func (s *Statistics) Reset() {
	atomic.StoreUint64(&s.FragmentsReceived, 0)
	atomic.StoreUint64(&s.PacketsReassembled, 0)
	atomic.StoreUint64(&s.PacketsTimedOut, 0)
}

// StatisticsSnapshot is a point-in-time view of reassembly statistics
type StatisticsSnapshot struct {
	FragmentsReceived  uint64
	PacketsReassembled uint64
	PacketsTimedOut    uint64
	PendingSessions    int
}
