package fraglink

import (
	"time"

	"github.com/torlando-tech/fraglink/pkg/fragment"
)

// Config holds configuration for an Endpoint
type Config struct {
	// MTU is the largest buffer written to the transport in one unit
	MTU int

	// ReassemblyTimeout is the maximum age of an incomplete inbound packet
	// before eviction. Default: 30 seconds
	ReassemblyTimeout time.Duration

	// CleanupInterval is how often stale reassembly sessions are swept.
	// Default: 5 seconds
	CleanupInterval time.Duration

	// EnableStatistics enables statistics collection
	EnableStatistics bool
}

// DefaultConfig returns default endpoint configuration
func DefaultConfig() Config {
	codec := fragment.DefaultConfig()
	return Config{
		MTU:               codec.MTU,
		ReassemblyTimeout: codec.ReassemblyTimeout,
		CleanupInterval:   5 * time.Second,
		EnableStatistics:  codec.EnableStatistics,
	}
}

// codecConfig maps the endpoint configuration onto the codec's
func (c Config) codecConfig() fragment.Config {
	return fragment.Config{
		MTU:               c.MTU,
		ReassemblyTimeout: c.ReassemblyTimeout,
		EnableStatistics:  c.EnableStatistics,
	}
}
