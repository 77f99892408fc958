package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_PublishReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Publish(Event{Type: EventApplicantUpdated, JobID: "j1", ApplicantID: "a1"})

	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if evt.Type != EventApplicantUpdated || evt.ApplicantID != "a1" || evt.Timestamp == "" {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected message")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)

	slow := &Client{hub: h, send: make(chan []byte)}
	h.Register(slow)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast([]byte(`{}`))
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if _, ok := <-slow.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	h.Publish(Event{Type: EventDataRefreshed})
	h.Broadcast(nil)
	if h.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
}
