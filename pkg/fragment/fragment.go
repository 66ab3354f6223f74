package fragment

import "encoding/binary"

// Fragment represents one wire unit of a fragmented packet
type Fragment struct {
	Kind     Kind   // Position tag (Start/Continue/End)
	Sequence uint16 // Index of this fragment within the packet
	Total    uint16 // Number of fragments composing the packet
	Payload  []byte // Payload slice
}

// kindFor returns the position tag for fragment i of n.
// The tag is informational only; reassembly never consults it.
// A single-fragment packet is tagged Start, not End.
func kindFor(i, n int) Kind {
	if i == 0 {
		return KindStart
	}
	if i == n-1 {
		return KindEnd
	}
	return KindContinue
}

// Serialize converts the fragment to wire format
func (f *Fragment) Serialize() []byte {
	result := make([]byte, HeaderSize+len(f.Payload))
	result[0] = byte(f.Kind)
	binary.BigEndian.PutUint16(result[1:3], f.Sequence)
	binary.BigEndian.PutUint16(result[3:5], f.Total)
	copy(result[HeaderSize:], f.Payload)
	return result
}

// Parse parses wire format data into a Fragment.
// The returned payload aliases data; callers that retain it must copy.
func Parse(data []byte) (*Fragment, error) {
	if len(data) < HeaderSize {
		return nil, ErrFrameTooShort
	}

	f := &Fragment{
		Kind:     Kind(data[0]),
		Sequence: binary.BigEndian.Uint16(data[1:3]),
		Total:    binary.BigEndian.Uint16(data[3:5]),
		Payload:  data[HeaderSize:],
	}

	// Malformed headers are protocol violations, never silently dropped
	if !f.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if f.Total == 0 {
		return nil, ErrZeroTotal
	}
	if f.Sequence >= f.Total {
		return nil, ErrInvalidSequence
	}

	return f, nil
}
