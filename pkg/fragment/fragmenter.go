package fragment

import (
	"fmt"

	"github.com/torlando-tech/fraglink/pkg/internal/logger"
)

// warnFragmentCount is the fragment count above which FragmentPacket logs a
// warning; packets this large indicate a poor MTU choice for the traffic.
const warnFragmentCount = 1000

// PacketTooLargeError reports a packet that cannot be fragmented within the
// 16-bit sequence space at the configured MTU.
type PacketTooLargeError struct {
	NumFragments  int // Fragment count the packet would require
	MaxPacketSize int // Largest packet the configured MTU supports
}

func (e *PacketTooLargeError) Error() string {
	return fmt.Sprintf("packet requires %d fragments (max %d); maximum packet size at this MTU is %d bytes",
		e.NumFragments, MaxFragments, e.MaxPacketSize)
}

// Fragmenter splits packets into MTU-bounded fragments.
// Pure once constructed; safe for concurrent use without synchronization.
type Fragmenter struct {
	mtu         int
	payloadSize int
	logger      logger.Logger
}

// NewFragmenter creates a fragmenter for the configured MTU
func NewFragmenter(config Config) (*Fragmenter, error) {
	return NewFragmenterWithLogger(config, logger.GetDefault())
}

// NewFragmenterWithLogger creates a fragmenter with a custom logger
func NewFragmenterWithLogger(config Config, log logger.Logger) (*Fragmenter, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	mtu := config.MTU
	if mtu < MinMTU {
		mtu = MinMTU
	}

	payloadSize := mtu - HeaderSize
	if payloadSize < 1 {
		// Unreachable after clamping, kept as a construction invariant
		return nil, ErrInvalidMTU
	}

	return &Fragmenter{
		mtu:         mtu,
		payloadSize: payloadSize,
		logger:      log,
	}, nil
}

// MTU returns the effective MTU after clamping
func (f *Fragmenter) MTU() int {
	return f.mtu
}

// PayloadSize returns the payload capacity of one fragment
func (f *Fragmenter) PayloadSize() int {
	return f.payloadSize
}

// FragmentPacket splits a packet into an ordered list of serialized
// fragments, each at most MTU bytes. Packets that fit in a single fragment
// still get a header, so the receive path has one uniform code path.
func (f *Fragmenter) FragmentPacket(packet []byte) ([][]byte, error) {
	if len(packet) == 0 {
		return nil, ErrEmptyPacket
	}

	numFragments := (len(packet) + f.payloadSize - 1) / f.payloadSize
	if numFragments > MaxFragments {
		return nil, &PacketTooLargeError{
			NumFragments:  numFragments,
			MaxPacketSize: MaxFragments * f.payloadSize,
		}
	}

	if numFragments > warnFragmentCount {
		f.logger.Warn("Fragmenter: %d-byte packet needs %d fragments at MTU %d",
			len(packet), numFragments, f.mtu)
	}

	result := make([][]byte, 0, numFragments)
	for i := 0; i < numFragments; i++ {
		start := i * f.payloadSize
		end := start + f.payloadSize
		if end > len(packet) {
			end = len(packet)
		}

		frag := &Fragment{
			Kind:     kindFor(i, numFragments),
			Sequence: uint16(i),
			Total:    uint16(numFragments),
			Payload:  packet[start:end],
		}
		result = append(result, frag.Serialize())
	}

	return result, nil
}

// Overhead describes the framing cost of fragmenting a packet of a given size
type Overhead struct {
	NumFragments    int
	OverheadBytes   int
	OverheadPercent float64
}

// FragmentOverhead calculates the header overhead for a packet of the given
// size at the configured MTU. Diagnostic only.
func (f *Fragmenter) FragmentOverhead(packetSize int) Overhead {
	if packetSize <= 0 {
		return Overhead{}
	}

	numFragments := (packetSize + f.payloadSize - 1) / f.payloadSize
	overheadBytes := numFragments * HeaderSize

	return Overhead{
		NumFragments:    numFragments,
		OverheadBytes:   overheadBytes,
		OverheadPercent: float64(overheadBytes) / float64(packetSize) * 100,
	}
}
