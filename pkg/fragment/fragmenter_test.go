package fragment

import (
	"bytes"
	"errors"
	"testing"
)

func TestFragmenter_SinglePacket(t *testing.T) {
	config := DefaultConfig()
	f, err := NewFragmenter(config)
	if err != nil {
		t.Fatalf("NewFragmenter error: %v", err)
	}

	packet := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	fragments, err := f.FragmentPacket(packet)
	if err != nil {
		t.Fatalf("FragmentPacket error: %v", err)
	}

	if len(fragments) != 1 {
		t.Fatalf("Expected 1 fragment, got %d", len(fragments))
	}

	frag, err := Parse(fragments[0])
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	// Single-fragment packets are tagged Start
	if frag.Kind != KindStart {
		t.Errorf("Expected Start, got %v", frag.Kind)
	}
	if frag.Sequence != 0 || frag.Total != 1 {
		t.Errorf("Expected seq=0 total=1, got seq=%d total=%d", frag.Sequence, frag.Total)
	}
	if !bytes.Equal(frag.Payload, packet) {
		t.Errorf("Payload mismatch")
	}
}

func TestFragmenter_ThreeFragments(t *testing.T) {
	config := DefaultConfig()
	config.MTU = 185 // payload size 180
	f, err := NewFragmenter(config)
	if err != nil {
		t.Fatalf("NewFragmenter error: %v", err)
	}

	packet := make([]byte, 400)
	for i := range packet {
		packet[i] = byte(i % 256)
	}

	fragments, err := f.FragmentPacket(packet)
	if err != nil {
		t.Fatalf("FragmentPacket error: %v", err)
	}

	if len(fragments) != 3 {
		t.Fatalf("Expected 3 fragments, got %d", len(fragments))
	}

	// 180 + 180 + 40 = 400
	expectedSizes := []int{180, 180, 40}
	expectedKinds := []Kind{KindStart, KindContinue, KindEnd}
	offset := 0
	for i, data := range fragments {
		if len(data) > 185 {
			t.Errorf("Fragment %d exceeds MTU: %d bytes", i, len(data))
		}

		frag, err := Parse(data)
		if err != nil {
			t.Fatalf("Fragment %d parse error: %v", i, err)
		}

		if frag.Kind != expectedKinds[i] {
			t.Errorf("Fragment %d: expected kind %v, got %v", i, expectedKinds[i], frag.Kind)
		}
		if frag.Sequence != uint16(i) {
			t.Errorf("Fragment %d: expected seq %d, got %d", i, i, frag.Sequence)
		}
		if frag.Total != 3 {
			t.Errorf("Fragment %d: expected total 3, got %d", i, frag.Total)
		}
		if len(frag.Payload) != expectedSizes[i] {
			t.Errorf("Fragment %d: expected %d payload bytes, got %d", i, expectedSizes[i], len(frag.Payload))
		}
		if !bytes.Equal(frag.Payload, packet[offset:offset+expectedSizes[i]]) {
			t.Errorf("Fragment %d: payload slice mismatch", i)
		}
		offset += expectedSizes[i]
	}
}

func TestFragmenter_MTUClamping(t *testing.T) {
	config := DefaultConfig()
	config.MTU = 5
	f, err := NewFragmenter(config)
	if err != nil {
		t.Fatalf("Expected clamping instead of error, got %v", err)
	}

	if f.MTU() != MinMTU {
		t.Errorf("Expected MTU clamped to %d, got %d", MinMTU, f.MTU())
	}
	if f.PayloadSize() != MinMTU-HeaderSize {
		t.Errorf("Expected payload size %d, got %d", MinMTU-HeaderSize, f.PayloadSize())
	}
}

func TestFragmenter_EmptyPacket(t *testing.T) {
	f, _ := NewFragmenter(DefaultConfig())

	_, err := f.FragmentPacket(nil)
	if !errors.Is(err, ErrEmptyPacket) {
		t.Errorf("Expected ErrEmptyPacket, got %v", err)
	}
}

func TestFragmenter_CapacityBoundary(t *testing.T) {
	config := DefaultConfig()
	config.MTU = 20 // clamped already at floor, payload size 15
	f, err := NewFragmenter(config)
	if err != nil {
		t.Fatalf("NewFragmenter error: %v", err)
	}

	maxSize := MaxFragments * f.PayloadSize() // 65535 * 15 = 983025

	// Exactly at the boundary fragments fine
	fragments, err := f.FragmentPacket(make([]byte, maxSize))
	if err != nil {
		t.Fatalf("Boundary packet should fragment: %v", err)
	}
	if len(fragments) != MaxFragments {
		t.Errorf("Expected %d fragments, got %d", MaxFragments, len(fragments))
	}

	// One more byte pushes it over
	_, err = f.FragmentPacket(make([]byte, maxSize+1))
	var tooLarge *PacketTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Expected PacketTooLargeError, got %v", err)
	}
	if tooLarge.NumFragments != MaxFragments+1 {
		t.Errorf("Expected computed count %d, got %d", MaxFragments+1, tooLarge.NumFragments)
	}
	if tooLarge.MaxPacketSize != 983025 {
		t.Errorf("Expected max packet size 983025, got %d", tooLarge.MaxPacketSize)
	}
}

func TestFragmenter_FragmentOverhead(t *testing.T) {
	config := DefaultConfig()
	config.MTU = 185
	f, _ := NewFragmenter(config)

	oh := f.FragmentOverhead(400)
	if oh.NumFragments != 3 {
		t.Errorf("Expected 3 fragments, got %d", oh.NumFragments)
	}
	if oh.OverheadBytes != 15 {
		t.Errorf("Expected 15 overhead bytes, got %d", oh.OverheadBytes)
	}
	if oh.OverheadPercent != 3.75 {
		t.Errorf("Expected 3.75%% overhead, got %f", oh.OverheadPercent)
	}

	if zero := f.FragmentOverhead(0); zero.NumFragments != 0 {
		t.Errorf("Zero-size packet should report zero overhead")
	}
}
