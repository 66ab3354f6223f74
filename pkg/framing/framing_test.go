package framing

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrame_EscapesSpecialBytes(t *testing.T) {
	framed := Frame([]byte{0x7E, 0x7D, 0x01})

	expected := []byte{0x7E, 0x7D, 0x5E, 0x7D, 0x5D, 0x01, 0x7E}
	if !bytes.Equal(framed, expected) {
		t.Errorf("Expected %x, got %x", expected, framed)
	}
}

func TestFrame_PlainPassthrough(t *testing.T) {
	framed := Frame([]byte{0x01, 0x02, 0x03})

	expected := []byte{0x7E, 0x01, 0x02, 0x03, 0x7E}
	if !bytes.Equal(framed, expected) {
		t.Errorf("Expected %x, got %x", expected, framed)
	}
}

func TestDeframe_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"plain", []byte("hello world")},
		{"empty", []byte{}},
		{"flag bytes", []byte{0x7E, 0x7E, 0x7E}},
		{"escape bytes", []byte{0x7D, 0x7D}},
		{"mixed", []byte{0x00, 0x7E, 0x42, 0x7D, 0xFF}},
		{"escaped values themselves", []byte{0x5E, 0x5D}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Deframe(Frame(tt.payload))
			if err != nil {
				t.Fatalf("Deframe error: %v", err)
			}
			if !bytes.Equal(result, tt.payload) {
				t.Errorf("Round trip mismatch: expected %x, got %x", tt.payload, result)
			}
		})
	}
}

func TestDeframe_AllByteValues(t *testing.T) {
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}

	result, err := Deframe(Frame(payload))
	if err != nil {
		t.Fatalf("Deframe error: %v", err)
	}
	if !bytes.Equal(result, payload) {
		t.Error("Round trip over all byte values failed")
	}
}

func TestDeframe_Errors(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"too short", []byte{0x7E}, ErrFrameTooShort},
		{"empty", nil, ErrFrameTooShort},
		{"missing leading flag", []byte{0x01, 0x02, 0x7E}, ErrMissingDelimiters},
		{"missing trailing flag", []byte{0x7E, 0x01, 0x02}, ErrMissingDelimiters},
		{"no flags", []byte{0x01, 0x02}, ErrMissingDelimiters},
		{"unescaped flag in body", []byte{0x7E, 0x01, 0x7E, 0x02, 0x7E}, ErrUnexpectedFlag},
		{"trailing escape", []byte{0x7E, 0x01, 0x7D, 0x7E}, ErrTruncatedEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deframe(tt.frame)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDeframe_EmptyFrame(t *testing.T) {
	// Two adjacent flags are a valid frame with an empty payload
	result, err := Deframe([]byte{0x7E, 0x7E})
	if err != nil {
		t.Fatalf("Deframe error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty payload, got %x", result)
	}
}
