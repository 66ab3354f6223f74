// Package fraglink ties a physical channel to the fragmentation codec: one
// Endpoint fragments outbound packets onto the channel, reassembles inbound
// fragments from it, and sweeps stale reassembly state on a timer.
package fraglink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/torlando-tech/fraglink/pkg/channel"
	"github.com/torlando-tech/fraglink/pkg/fragment"
	"github.com/torlando-tech/fraglink/pkg/internal/logger"
)

var (
	ErrEndpointClosed = errors.New("endpoint is closed")
	ErrEndpointOpen   = errors.New("endpoint is already open")
)

// PacketHandler receives each completed inbound packet together with the
// identity of its sender
type PacketHandler func(senderID string, packet []byte)

// Endpoint manages the protocol stack over one physical channel
type Endpoint struct {
	physical    channel.PhysicalChannel
	fragmenter  *fragment.Fragmenter
	reassembler *fragment.Reassembler
	handler     PacketHandler
	config      Config
	logger      logger.Logger

	// State
	state   channel.ChannelState
	stateMu sync.RWMutex

	// Concurrency
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new endpoint over the given physical channel. Completed
// inbound packets are delivered to handler from the endpoint's read loop.
func New(physical channel.PhysicalChannel, config Config, handler PacketHandler) (*Endpoint, error) {
	return NewWithLogger(physical, config, handler, logger.GetDefault())
}

// NewWithLogger creates a new endpoint with a custom logger
func NewWithLogger(physical channel.PhysicalChannel, config Config, handler PacketHandler, log logger.Logger) (*Endpoint, error) {
	if physical == nil {
		return nil, fmt.Errorf("physical channel is required")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	fragmenter, err := fragment.NewFragmenterWithLogger(config.codecConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure fragmenter: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Endpoint{
		physical:    physical,
		fragmenter:  fragmenter,
		reassembler: fragment.NewReassemblerWithLogger(config.codecConfig(), log),
		handler:     handler,
		config:      config,
		logger:      log,
		state:       channel.ChannelStateClosed,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Open starts the read and cleanup loops
func (e *Endpoint) Open() error {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	if e.state == channel.ChannelStateOpen {
		return ErrEndpointOpen
	}
	e.state = channel.ChannelStateOpen

	e.wg.Add(2)
	go e.readLoop()
	go e.cleanupLoop()

	return nil
}

// Send fragments a packet and writes each fragment to the channel in order
func (e *Endpoint) Send(ctx context.Context, packet []byte) error {
	e.stateMu.RLock()
	state := e.state
	e.stateMu.RUnlock()
	if state != channel.ChannelStateOpen {
		return ErrEndpointClosed
	}

	fragments, err := e.fragmenter.FragmentPacket(packet)
	if err != nil {
		return err
	}

	for i, frag := range fragments {
		if err := e.physical.Write(ctx, frag); err != nil {
			return fmt.Errorf("failed to write fragment %d/%d: %w", i+1, len(fragments), err)
		}
	}

	e.logger.Debug("Endpoint: sent %d-byte packet as %d fragments", len(packet), len(fragments))
	return nil
}

// readLoop feeds inbound message units to the reassembler and delivers
// completed packets
func (e *Endpoint) readLoop() {
	defer e.wg.Done()

	for {
		data, err := e.physical.Read(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.logger.Warn("Endpoint: read failed: %v", err)
			select {
			case <-e.ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		packet, err := e.reassembler.ReceiveFragment(data, e.senderID())
		if err != nil {
			// Malformed or inconsistent fragments are dropped; the
			// reassembler has already discarded any poisoned session
			e.logger.Warn("Endpoint: dropped fragment: %v", err)
			continue
		}

		if packet != nil && e.handler != nil {
			e.handler(e.senderID(), packet)
		}
	}
}

// senderID attributes inbound traffic to the channel's current peer
func (e *Endpoint) senderID() string {
	if pi, ok := e.physical.(channel.PeerIdentifier); ok {
		if id := pi.PeerID(); id != "" {
			return id
		}
	}
	return fragment.DefaultSenderID
}

// cleanupLoop periodically evicts stale reassembly sessions. The
// reassembler never self-schedules; this ticker is what bounds its memory.
func (e *Endpoint) cleanupLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			if evicted := e.reassembler.CleanupStaleBuffers(); evicted > 0 {
				e.logger.Info("Endpoint: evicted %d stale reassembly sessions", evicted)
			}
		}
	}
}

// Close stops the loops and closes the physical channel
func (e *Endpoint) Close() error {
	e.stateMu.Lock()
	if e.state == channel.ChannelStateClosed {
		e.stateMu.Unlock()
		return nil
	}
	e.state = channel.ChannelStateClosed
	e.stateMu.Unlock()

	e.cancel()
	err := e.physical.Close()
	e.wg.Wait()

	return err
}

// Statistics returns a snapshot of the reassembly counters
func (e *Endpoint) Statistics() fragment.StatisticsSnapshot {
	return e.reassembler.GetStatistics()
}

// ResetStatistics resets the reassembly counters
func (e *Endpoint) ResetStatistics() {
	e.reassembler.ResetStatistics()
}

// FragmentOverhead reports the framing cost of a packet of the given size
// at the endpoint's MTU
func (e *Endpoint) FragmentOverhead(packetSize int) fragment.Overhead {
	return e.fragmenter.FragmentOverhead(packetSize)
}
