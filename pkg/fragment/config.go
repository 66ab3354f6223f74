package fragment

import "time"

// Config holds configuration for the fragmentation codec
type Config struct {
	// MTU is the largest buffer the transport carries in one write.
	// Values below MinMTU are clamped up to MinMTU.
	MTU int

	// ReassemblyTimeout is the maximum age of an incomplete reassembly
	// session before it is eligible for eviction.
	// Default: 30 seconds
	ReassemblyTimeout time.Duration

	// EnableStatistics enables statistics collection
	EnableStatistics bool
}

// DefaultConfig returns default codec configuration
func DefaultConfig() Config {
	return Config{
		MTU:               DefaultMTU,
		ReassemblyTimeout: 30 * time.Second,
		EnableStatistics:  true,
	}
}
