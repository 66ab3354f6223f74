// Package framing implements byte-stuffed frame delimiting for transports
// that deliver a continuous byte stream with no native message boundaries.
// It is independent of the fragmentation protocol and composes underneath it
// or stands alone.
package framing

import "errors"

// Delimiter bytes
const (
	Flag       byte = 0x7E // Frame delimiter
	Escape     byte = 0x7D // Escape prefix
	EscapeMask byte = 0x20 // XOR applied to escaped bytes
)

// Errors
var (
	ErrFrameTooShort     = errors.New("frame too short")
	ErrMissingDelimiters = errors.New("frame missing flag delimiters")
	ErrUnexpectedFlag    = errors.New("unescaped flag inside frame body")
	ErrTruncatedEscape   = errors.New("escape byte at end of frame body")
)

// Frame wraps payload with flag delimiters. Literal flag and escape bytes in
// the payload are emitted as Escape followed by the byte XOR EscapeMask.
func Frame(payload []byte) []byte {
	result := make([]byte, 0, len(payload)+2)
	result = append(result, Flag)

	for _, b := range payload {
		if b == Flag || b == Escape {
			result = append(result, Escape, b^EscapeMask)
		} else {
			result = append(result, b)
		}
	}

	return append(result, Flag)
}

// Deframe strips the flag delimiters from a complete frame and reverses the
// escaping, returning the original payload.
func Deframe(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, ErrFrameTooShort
	}
	if frame[0] != Flag || frame[len(frame)-1] != Flag {
		return nil, ErrMissingDelimiters
	}

	body := frame[1 : len(frame)-1]
	result := make([]byte, 0, len(body))

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case Flag:
			return nil, ErrUnexpectedFlag
		case Escape:
			i++
			if i == len(body) {
				return nil, ErrTruncatedEscape
			}
			result = append(result, body[i]^EscapeMask)
		default:
			result = append(result, body[i])
		}
	}

	return result, nil
}
