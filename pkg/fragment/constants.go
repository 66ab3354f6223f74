package fragment

import "errors"

// Wire format constants
//
// A fragment is a fixed 5-byte header followed by a payload slice:
//
//	offset 0, 1 byte:  kind
//	offset 1, 2 bytes: sequence (big-endian)
//	offset 3, 2 bytes: total (big-endian)
//	offset 5, N bytes: payload
const (
	HeaderSize = 5 // Fragment header is 5 bytes

	// MinMTU is the floor applied to configured MTUs. Anything smaller is
	// clamped up rather than rejected.
	MinMTU = 20

	// MaxFragments is the largest fragment count a single packet may
	// produce; sequence and total are 16-bit fields.
	MaxFragments = 65535
)

// DefaultMTU matches the common BLE ATT payload after MTU exchange.
const DefaultMTU = 185

// Kind tags a fragment's position within its packet.
type Kind uint8

const (
	KindStart    Kind = 0x01 // First fragment of a packet
	KindContinue Kind = 0x02 // Middle fragment
	KindEnd      Kind = 0x03 // Last fragment of a multi-fragment packet
)

// Valid reports whether k is a recognized kind value.
func (k Kind) Valid() bool {
	return k >= KindStart && k <= KindEnd
}

// String returns string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "Start"
	case KindContinue:
		return "Continue"
	case KindEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Errors
var (
	ErrInvalidMTU       = errors.New("mtu leaves no room for payload")
	ErrEmptyPacket      = errors.New("packet is empty")
	ErrFrameTooShort    = errors.New("fragment shorter than header")
	ErrInvalidKind      = errors.New("invalid fragment kind")
	ErrZeroTotal        = errors.New("fragment total is zero")
	ErrInvalidSequence  = errors.New("fragment sequence not below total")
	ErrFragmentConflict = errors.New("conflicting payloads for same fragment sequence")
	ErrTotalMismatch    = errors.New("fragment total does not match session total")
)
