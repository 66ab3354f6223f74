package fragment

import (
	"bytes"
	"errors"
	"testing"
)

func TestFragment_SerializeLayout(t *testing.T) {
	frag := &Fragment{
		Kind:     KindContinue,
		Sequence: 0x0102,
		Total:    0x0304,
		Payload:  []byte{0xAA, 0xBB},
	}

	data := frag.Serialize()

	expected := []byte{0x02, 0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB}
	if !bytes.Equal(data, expected) {
		t.Errorf("Wire layout mismatch: expected %x, got %x", expected, data)
	}
}

func TestFragment_ParseRoundTrip(t *testing.T) {
	original := &Fragment{
		Kind:     KindEnd,
		Sequence: 2,
		Total:    3,
		Payload:  []byte("hello"),
	}

	parsed, err := Parse(original.Serialize())
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if parsed.Kind != original.Kind {
		t.Errorf("Kind mismatch: expected %v, got %v", original.Kind, parsed.Kind)
	}
	if parsed.Sequence != original.Sequence {
		t.Errorf("Sequence mismatch: expected %d, got %d", original.Sequence, parsed.Sequence)
	}
	if parsed.Total != original.Total {
		t.Errorf("Total mismatch: expected %d, got %d", original.Total, parsed.Total)
	}
	if !bytes.Equal(parsed.Payload, original.Payload) {
		t.Errorf("Payload mismatch: expected %x, got %x", original.Payload, parsed.Payload)
	}
}

func TestFragment_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte{0x01, 0x00, 0x00, 0x00}, ErrFrameTooShort},
		{"empty", nil, ErrFrameTooShort},
		{"invalid kind zero", []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0xFF}, ErrInvalidKind},
		{"invalid kind high", []byte{0x04, 0x00, 0x00, 0x00, 0x01, 0xFF}, ErrInvalidKind},
		{"zero total", []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0xFF}, ErrZeroTotal},
		{"sequence equals total", []byte{0x02, 0x00, 0x03, 0x00, 0x03, 0xFF}, ErrInvalidSequence},
		{"sequence above total", []byte{0x02, 0x00, 0x05, 0x00, 0x03, 0xFF}, ErrInvalidSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindStart.String() != "Start" || KindContinue.String() != "Continue" || KindEnd.String() != "End" {
		t.Error("Kind string representations wrong")
	}
	if Kind(0x7F).String() != "Unknown" {
		t.Error("Unknown kind should stringify as Unknown")
	}
}

func TestKindFor_SingleFragmentIsStart(t *testing.T) {
	// A one-fragment packet is tagged Start, not End
	if k := kindFor(0, 1); k != KindStart {
		t.Errorf("Expected Start for single fragment, got %v", k)
	}
}
