package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mlorentedev/sidehustler/internal/metrics"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub(4)
	a, cancelA := h.Subscribe()
	defer cancelA()
	b, cancelB := h.Subscribe()
	defer cancelB()

	if n := h.Publish(NewMessage(LevelInfo, "hello", "")); n != 2 {
		t.Fatalf("delivered: got %d, want 2", n)
	}

	for i, ch := range []<-chan Message{a, b} {
		select {
		case msg := <-ch:
			if msg.Text != "hello" {
				t.Errorf("subscriber %d: got %q", i, msg.Text)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: no message", i)
		}
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Notify(LevelInfo, "first")
	if n := h.Publish(NewMessage(LevelInfo, "second", "")); n != 0 {
		t.Errorf("delivered to full subscriber: got %d, want 0", n)
	}

	msg := <-ch
	if msg.Text != "first" {
		t.Errorf("got %q, want %q", msg.Text, "first")
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub(0)
	ch, cancel := h.Subscribe()
	if h.Subscribers() != 1 {
		t.Fatalf("subscribers: got %d, want 1", h.Subscribers())
	}

	cancel()
	cancel()

	if h.Subscribers() != 0 {
		t.Errorf("subscribers after cancel: got %d, want 0", h.Subscribers())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
	if n := h.Publish(NewMessage(LevelInfo, "late", "")); n != 0 {
		t.Errorf("delivered after unsubscribe: got %d", n)
	}
}

func TestHubConcurrentPublish(t *testing.T) {
	h := NewHub(100)
	ch, cancel := h.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Notify(LevelDebug, "tick")
		}()
	}
	wg.Wait()

	if len(ch) != 10 {
		t.Errorf("buffered: got %d, want 10", len(ch))
	}
}

func TestHubCountsNotifications(t *testing.T) {
	h := NewHub(1)
	before := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("warn"))

	h.Notify(LevelWarn, "careful")

	after := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("warn"))
	if after != before+1 {
		t.Errorf("counter: got %f, want %f", after, before+1)
	}
}
