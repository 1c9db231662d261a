package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func receive(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case data := <-c.send:
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return f
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for frame")
	}
	return Frame{}
}

func drain(c *Client) int {
	n := 0
	for {
		select {
		case <-c.send:
			n++
		default:
			return n
		}
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	hub.Unregister(c1)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}
	hub.Unregister(c2)
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub(slog.Default())
	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(NewFrame(FrameNotify, "", map[string]string{"message": "Family added successfully"}))

	for _, c := range []*Client{c1, c2} {
		f := receive(t, c)
		if f.Type != FrameNotify {
			t.Errorf("type = %q, want %q", f.Type, FrameNotify)
		}
	}
}

func TestRetainedFramesReplayToLateClients(t *testing.T) {
	hub := NewHub(slog.Default())

	hub.Retain(NewFrame(FrameRender, "families", []string{"old"}))
	hub.Retain(NewFrame(FrameRender, "members", []string{"m"}))
	hub.Retain(NewFrame(FrameRender, "families", []string{"new"}))
	hub.Broadcast(NewFrame(FrameNotify, "", "transient"))

	late := mockClient(hub)
	hub.Register(late)

	first := receive(t, late)
	if first.Target != "families" {
		t.Errorf("first replayed target = %q, want families", first.Target)
	}
	if got, _ := json.Marshal(first.Payload); string(got) != `["new"]` {
		t.Errorf("replayed payload = %s, want latest", got)
	}
	second := receive(t, late)
	if second.Target != "members" {
		t.Errorf("second replayed target = %q, want members", second.Target)
	}
	if n := drain(late); n != 0 {
		t.Errorf("unexpected %d extra frames replayed", n)
	}

	hub.Reset()
	fresh := mockClient(hub)
	hub.Register(fresh)
	if n := drain(fresh); n != 0 {
		t.Errorf("replayed %d frames after reset", n)
	}
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewFrame(FrameNotify, "", i))
	}
	// dropped, must not block
	hub.Broadcast(NewFrame(FrameNotify, "", "dropped"))

	if n := drain(c); n != sendBufferSize {
		t.Errorf("expected %d frames, got %d", sendBufferSize, n)
	}
	hub.Unregister(c)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			if n%2 == 0 {
				hub.Retain(NewFrame(FrameRender, "requests", n))
			} else {
				hub.Broadcast(NewFrame(FrameNotify, "", n))
			}
			drain(c)
			hub.Unregister(c)
		}(i)
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
