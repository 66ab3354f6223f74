package fraglink

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/torlando-tech/fraglink/pkg/channel"
)

// pipeChannel is an in-memory PhysicalChannel; two halves created by
// newPipePair exchange message units like a loopback link
type pipeChannel struct {
	readChan  chan []byte
	writeChan chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
	peer      string
}

func newPipePair() (*pipeChannel, *pipeChannel) {
	ab := make(chan []byte, 256)
	ba := make(chan []byte, 256)
	a := &pipeChannel{readChan: ba, writeChan: ab, closeChan: make(chan struct{}), peer: "peer-b"}
	b := &pipeChannel{readChan: ab, writeChan: ba, closeChan: make(chan struct{}), peer: "peer-a"}
	return a, b
}

func (p *pipeChannel) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.closeChan:
		return nil, errors.New("channel closed")
	case data := <-p.readChan:
		return data, nil
	}
}

func (p *pipeChannel) Write(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closeChan:
		return errors.New("channel closed")
	case p.writeChan <- data:
		return nil
	}
}

func (p *pipeChannel) Close() error {
	p.closeOnce.Do(func() { close(p.closeChan) })
	return nil
}

func (p *pipeChannel) Statistics() channel.TransportStats { return channel.TransportStats{} }

func (p *pipeChannel) SetConnectionStateListener(listener channel.ConnectionStateListener) {}

func (p *pipeChannel) PeerID() string { return p.peer }

func TestEndpoint_RoundTrip(t *testing.T) {
	chanA, chanB := newPipePair()

	config := DefaultConfig()
	config.MTU = 185

	received := make(chan []byte, 1)
	senders := make(chan string, 1)

	epA, err := New(chanA, config, nil)
	if err != nil {
		t.Fatalf("New endpoint A error: %v", err)
	}
	epB, err := New(chanB, config, func(senderID string, packet []byte) {
		senders <- senderID
		received <- packet
	})
	if err != nil {
		t.Fatalf("New endpoint B error: %v", err)
	}

	if err := epA.Open(); err != nil {
		t.Fatalf("Open A error: %v", err)
	}
	if err := epB.Open(); err != nil {
		t.Fatalf("Open B error: %v", err)
	}
	defer epA.Close()
	defer epB.Close()

	packet := make([]byte, 400)
	for i := range packet {
		packet[i] = byte(i % 256)
	}

	if err := epA.Send(context.Background(), packet); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, packet) {
			t.Error("Received packet differs from sent packet")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for packet")
	}

	if sender := <-senders; sender != "peer-a" {
		t.Errorf("Expected sender peer-a, got %q", sender)
	}

	stats := epB.Statistics()
	if stats.FragmentsReceived != 3 {
		t.Errorf("Expected 3 fragments received, got %d", stats.FragmentsReceived)
	}
	if stats.PacketsReassembled != 1 {
		t.Errorf("Expected 1 packet reassembled, got %d", stats.PacketsReassembled)
	}
}

func TestEndpoint_SendErrors(t *testing.T) {
	chanA, _ := newPipePair()

	ep, err := New(chanA, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// Closed endpoint rejects sends
	if err := ep.Send(context.Background(), []byte{0x01}); !errors.Is(err, ErrEndpointClosed) {
		t.Errorf("Expected ErrEndpointClosed, got %v", err)
	}

	if err := ep.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer ep.Close()

	// Empty packets are rejected by the fragmenter
	if err := ep.Send(context.Background(), nil); err == nil {
		t.Error("Expected error for empty packet")
	}
}

func TestEndpoint_DoubleOpen(t *testing.T) {
	chanA, _ := newPipePair()

	ep, err := New(chanA, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer ep.Close()

	if err := ep.Open(); err != nil {
		t.Fatalf("First open error: %v", err)
	}
	if err := ep.Open(); !errors.Is(err, ErrEndpointOpen) {
		t.Errorf("Expected ErrEndpointOpen, got %v", err)
	}
}

func TestEndpoint_CleanupEvictsStaleSessions(t *testing.T) {
	chanA, chanB := newPipePair()

	config := DefaultConfig()
	config.MTU = 185
	config.ReassemblyTimeout = 50 * time.Millisecond
	config.CleanupInterval = 20 * time.Millisecond

	epA, err := New(chanA, config, nil)
	if err != nil {
		t.Fatalf("New endpoint A error: %v", err)
	}
	epB, err := New(chanB, config, nil)
	if err != nil {
		t.Fatalf("New endpoint B error: %v", err)
	}

	if err := epA.Open(); err != nil {
		t.Fatalf("Open A error: %v", err)
	}
	if err := epB.Open(); err != nil {
		t.Fatalf("Open B error: %v", err)
	}
	defer epA.Close()
	defer epB.Close()

	// Deliver only the first fragment of a packet straight into B's pipe
	fragments, err := epA.fragmenter.FragmentPacket(make([]byte, 400))
	if err != nil {
		t.Fatalf("FragmentPacket error: %v", err)
	}
	if err := chanA.Write(context.Background(), fragments[0]); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		stats := epB.Statistics()
		if stats.PacketsTimedOut == 1 && stats.PendingSessions == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("Stale session not evicted: %+v", epB.Statistics())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
