package framing

import "bytes"

// Scanner extracts complete byte-stuffed frames from a continuous stream.
// Feed it reads in any chunking via Push; partial frames are buffered across
// calls. Not safe for concurrent use; each stream gets its own Scanner.
type Scanner struct {
	buf     []byte
	inFrame bool
}

// NewScanner creates a new stream scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Push appends stream data and returns every complete raw frame now
// available, opening and closing flags included. Bytes outside a frame are
// discarded; an empty frame (two adjacent flags) is treated as a spurious
// delimiter and skipped.
func (s *Scanner) Push(data []byte) [][]byte {
	s.buf = append(s.buf, data...)

	var frames [][]byte
	for {
		if !s.inFrame {
			start := bytes.IndexByte(s.buf, Flag)
			if start < 0 {
				s.buf = s.buf[:0]
				return frames
			}
			s.buf = s.buf[start:]
			s.inFrame = true
		}

		// Closing flag after the opener
		end := bytes.IndexByte(s.buf[1:], Flag)
		if end < 0 {
			return frames
		}

		frameLen := end + 2
		frame := make([]byte, frameLen)
		copy(frame, s.buf[:frameLen])
		s.buf = s.buf[frameLen:]
		s.inFrame = false

		if frameLen > 2 {
			frames = append(frames, frame)
		}
	}
}

// Pending returns the number of buffered bytes awaiting a frame boundary
func (s *Scanner) Pending() int {
	return len(s.buf)
}

// Reset discards buffered state, for use after a transport reconnect
func (s *Scanner) Reset() {
	s.buf = s.buf[:0]
	s.inFrame = false
}
