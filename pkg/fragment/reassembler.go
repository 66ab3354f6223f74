package fragment

import (
	"bytes"
	"sync"
	"time"

	"github.com/torlando-tech/fraglink/pkg/internal/logger"
)

// DefaultSenderID is used when a fragment arrives without a sender identity
// (single implicit sender).
const DefaultSenderID = "default"

// SessionKey identifies an in-progress reassembly session.
// Sessions are keyed only by sender and fragment count: the wire format
// carries no session nonce, so two same-sized packets in flight concurrently
// from one sender collide on the same key and corrupt each other.
type SessionKey struct {
	SenderID string
	Total    uint16
}

// session accumulates the fragments of one packet
type session struct {
	fragments map[uint16][]byte
	total     uint16
	startedAt time.Time
	senderID  string
}

func newSession(total uint16, senderID string) *session {
	return &session{
		fragments: make(map[uint16][]byte),
		total:     total,
		startedAt: time.Now(),
		senderID:  senderID,
	}
}

// complete reports whether every sequence slot is filled
func (s *session) complete() bool {
	return len(s.fragments) == int(s.total)
}

// Reassembler reconstructs packets from fragments that may arrive in any
// order, interleaved across senders, duplicated, or corrupted.
//
// Safe for concurrent use: a single mutex makes each ReceiveFragment call
// atomic with respect to other receives and to CleanupStaleBuffers. Sessions
// are reached by direct keyed lookup, so a receive is O(1) in the number of
// pending sessions; only the cleanup sweep is O(n).
//
// The Reassembler never self-schedules: stale sessions are freed only when a
// caller invokes CleanupStaleBuffers (or when a fresh fragment lands on an
// expired key).
type Reassembler struct {
	sessions map[SessionKey]*session
	mu       sync.Mutex

	config Config
	stats  *Statistics
	logger logger.Logger
}

// NewReassembler creates a new reassembler
func NewReassembler(config Config) *Reassembler {
	return NewReassemblerWithLogger(config, logger.GetDefault())
}

// NewReassemblerWithLogger creates a reassembler with a custom logger
func NewReassemblerWithLogger(config Config, log logger.Logger) *Reassembler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if config.ReassemblyTimeout <= 0 {
		config.ReassemblyTimeout = DefaultConfig().ReassemblyTimeout
	}

	return &Reassembler{
		sessions: make(map[SessionKey]*session),
		config:   config,
		stats:    NewStatistics(),
		logger:   log,
	}
}

// ReceiveFragment processes one received fragment, attributed to senderID
// (pass "" for a single implicit sender).
//
// Returns the completed packet once all fragments of a packet have arrived,
// or nil if more are needed. Parsing and consistency errors apply to this
// call only, except FragmentConflict and TotalMismatch, which also discard
// the affected session: a session that has observed contradictory data
// cannot be trusted to reassemble correctly.
func (r *Reassembler) ReceiveFragment(data []byte, senderID string) ([]byte, error) {
	if senderID == "" {
		senderID = DefaultSenderID
	}

	frag, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if r.config.EnableStatistics {
		r.stats.IncrementFragmentsReceived()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := SessionKey{SenderID: senderID, Total: frag.Total}

	sess, exists := r.sessions[key]
	if exists && time.Since(sess.startedAt) > r.config.ReassemblyTimeout {
		// Expired sessions must not absorb new fragments; evict lazily
		// and start over
		delete(r.sessions, key)
		if r.config.EnableStatistics {
			r.stats.IncrementPacketsTimedOut()
		}
		r.logger.Debug("Reassembler: evicted expired session %s/%d on receive", senderID, frag.Total)
		exists = false
	}

	if !exists {
		// Created provisionally whatever the sequence number; sequence 0
		// is not required to open a session
		sess = newSession(frag.Total, senderID)
		r.sessions[key] = sess
	}

	if sess.total != frag.Total {
		// Unreachable with the keyed lookup above, kept as a consistency
		// guard on the session contents
		delete(r.sessions, key)
		return nil, ErrTotalMismatch
	}

	if stored, dup := sess.fragments[frag.Sequence]; dup {
		if bytes.Equal(stored, frag.Payload) {
			// Benign retransmission
			return nil, nil
		}
		// Contradictory payload for an already-seen sequence: the whole
		// session is untrustworthy
		delete(r.sessions, key)
		r.logger.Warn("Reassembler: payload conflict at seq %d from %s, session discarded",
			frag.Sequence, senderID)
		return nil, ErrFragmentConflict
	}

	payload := make([]byte, len(frag.Payload))
	copy(payload, frag.Payload)
	sess.fragments[frag.Sequence] = payload

	if !sess.complete() {
		return nil, nil
	}

	packet, ok := sess.assemble()
	if !ok {
		// Should not happen: sequence keys are validated below total on
		// parse, so a full map always covers [0, total)
		delete(r.sessions, key)
		return nil, ErrInvalidSequence
	}

	delete(r.sessions, key)
	if r.config.EnableStatistics {
		r.stats.IncrementPacketsReassembled()
	}
	r.logger.Debug("Reassembler: completed %d-byte packet from %s (%d fragments)",
		len(packet), senderID, frag.Total)

	return packet, nil
}

// assemble concatenates payloads in sequence order
func (s *session) assemble() ([]byte, bool) {
	size := 0
	for seq := uint16(0); seq < s.total; seq++ {
		payload, ok := s.fragments[seq]
		if !ok {
			return nil, false
		}
		size += len(payload)
	}

	packet := make([]byte, 0, size)
	for seq := uint16(0); seq < s.total; seq++ {
		packet = append(packet, s.fragments[seq]...)
	}
	return packet, true
}

// CleanupStaleBuffers evicts every session older than the reassembly
// timeout and returns the number evicted. Callers must invoke this
// periodically; it is the only systematic reclamation of abandoned sessions.
func (r *Reassembler) CleanupStaleBuffers() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for key, sess := range r.sessions {
		if time.Since(sess.startedAt) > r.config.ReassemblyTimeout {
			delete(r.sessions, key)
			evicted++
			if r.config.EnableStatistics {
				r.stats.IncrementPacketsTimedOut()
			}
		}
	}

	if evicted > 0 {
		r.logger.Debug("Reassembler: cleaned up %d stale sessions", evicted)
	}

	return evicted
}

// GetStatistics returns a snapshot of the reassembly counters plus the
// number of currently pending sessions
func (r *Reassembler) GetStatistics() StatisticsSnapshot {
	r.mu.Lock()
	pending := len(r.sessions)
	r.mu.Unlock()

	return StatisticsSnapshot{
		FragmentsReceived:  r.stats.GetFragmentsReceived(),
		PacketsReassembled: r.stats.GetPacketsReassembled(),
		PacketsTimedOut:    r.stats.GetPacketsTimedOut(),
		PendingSessions:    pending,
	}
}

// ResetStatistics resets all counters to zero
func (r *Reassembler) ResetStatistics() {
	r.stats.Reset()
}
