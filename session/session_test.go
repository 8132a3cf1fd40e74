package session

import (
	"net"
	"testing"
	"time"

	"github.com/twobob/blockduel/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	sent []uint16
}

func (m *MockConnection) Send(msgID uint16, data []byte) error {
	m.sent = append(m.sent, msgID)
	return nil
}
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestSession_SendForwardsToConnection(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("s1", conn)
	before := sess.LastActive

	time.Sleep(time.Millisecond)
	if err := sess.Send(42, []byte("{}")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(conn.sent) != 1 || conn.sent[0] != 42 {
		t.Errorf("Expected message 42 on the connection, got %v", conn.sent)
	}
	if !sess.LastActive.After(before) {
		t.Error("Send must refresh LastActive")
	}
}

func TestSession_LatencyProbe(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})
	t0 := time.Now()

	sess.MarkPing(t0)
	latency := sess.ObservePong(t0.Add(100 * time.Millisecond))

	if latency != 50*time.Millisecond {
		t.Errorf("Expected half-RTT of 50ms, got %v", latency)
	}
	if sess.Latency() != 50*time.Millisecond {
		t.Errorf("Latency should return the last estimate, got %v", sess.Latency())
	}
}

func TestSession_PongWithoutPingKeepsLastEstimate(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})
	t0 := time.Now()

	sess.MarkPing(t0)
	sess.ObservePong(t0.Add(20 * time.Millisecond))

	// A stray pong with no outstanding probe must not disturb the estimate.
	latency := sess.ObservePong(t0.Add(5 * time.Second))
	if latency != 10*time.Millisecond {
		t.Errorf("Expected retained estimate of 10ms, got %v", latency)
	}
}

func TestSession_ProbeConsumedOnce(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})
	t0 := time.Now()

	sess.MarkPing(t0)
	sess.ObservePong(t0.Add(40 * time.Millisecond))

	// The second pong observes no outstanding ping.
	latency := sess.ObservePong(t0.Add(10 * time.Second))
	if latency != 20*time.Millisecond {
		t.Errorf("Expected 20ms, got %v", latency)
	}
}
