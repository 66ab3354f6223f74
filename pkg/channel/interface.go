package channel

import "context"

// ConnectionStateListener receives notifications about connection state changes
type ConnectionStateListener interface {
	// OnConnectionEstablished is called when a new connection is established
	OnConnectionEstablished()

	// OnConnectionLost is called when a connection is lost
	OnConnectionLost()
}

// PhysicalChannel represents a pluggable transport
// Users implement this interface to provide BLE, serial, or any custom link
type PhysicalChannel interface {
	// Read reads the next message unit from the physical medium
	// Should block until data is available or context is cancelled
	// Stream transports return one de-delimited frame body per call;
	// datagram transports return one datagram
	Read(ctx context.Context) ([]byte, error)

	// Write writes one message unit to the physical medium
	// Stream transports apply frame delimiting before the wire write
	// Must be thread-safe as multiple senders may write concurrently
	Write(ctx context.Context, data []byte) error

	// Close closes the physical connection
	// Should cleanup all resources and unblock any pending Read/Write
	Close() error

	// Statistics returns transport-level statistics
	// Optional - can return zero values if not tracked
	Statistics() TransportStats

	// SetConnectionStateListener sets a listener for connection state changes
	// Optional - channels that don't support connection state notifications can ignore this
	SetConnectionStateListener(listener ConnectionStateListener)
}

// PeerIdentifier is implemented by channels that can attribute traffic to a
// remote peer. The returned token is opaque; upper layers use it only as a
// reassembly correlation key.
type PeerIdentifier interface {
	// PeerID returns an identity token for the current remote peer, or ""
	// when no peer is known
	PeerID() string
}

// TransportStats provides transport-level statistics
type TransportStats struct {
	BytesSent      uint64 // Total bytes sent
	BytesReceived  uint64 // Total bytes received
	FramesSent     uint64 // Complete message units sent
	FramesReceived uint64 // Complete message units received
	WriteErrors    uint64 // Number of write errors
	ReadErrors     uint64 // Number of read errors (including framing violations)
	Connects       uint64 // Number of connections (for connection-oriented transports)
	Disconnects    uint64 // Number of disconnections
}

// ChannelState represents the state of a channel
type ChannelState int

const (
	ChannelStateOpen ChannelState = iota
	ChannelStateClosed
)

// String returns string representation of ChannelState
func (s ChannelState) String() string {
	switch s {
	case ChannelStateOpen:
		return "Open"
	case ChannelStateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
