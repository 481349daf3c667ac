package notify

import "testing"

func TestPublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch, id := h.Subscribe()
	defer h.Unsubscribe(id)

	h.Publish(SyncStart, "transaction")
	ev := <-ch
	if ev.State != SyncStart || ev.Detail != "transaction" {
		t.Errorf("got %+v, want start/transaction", ev)
	}
	if ev.At.IsZero() {
		t.Error("event timestamp not set")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, id := h.Subscribe()
	defer h.Unsubscribe(id)

	// overflow the buffered channel; Publish must return regardless
	for i := 0; i < 100; i++ {
		h.Publish(SyncComplete, "flood")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch, id := h.Subscribe()
	h.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	// publishing after unsubscribe must not panic
	h.Publish(SyncError, "late")
}
