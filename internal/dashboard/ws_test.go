package dashboard

import (
	"testing"
	"time"
)

// A client stuck mid-write must not wedge the hub: registration and
// other broadcasts proceed while its send lock is held.
func TestBroadcastDoesNotBlockHub(t *testing.T) {
	hub := NewHub(testLog(), NewMetrics())

	stuck := &wsClient{ConnID: "stuck", closed: true}
	stuck.mu.Lock() // simulate a write in flight on a slow connection
	hub.Add(stuck)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(EventPortfolio, nil)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond) // let the broadcast reach the stuck send

	added := make(chan struct{})
	go func() {
		hub.Add(&wsClient{ConnID: "other", closed: true})
		close(added)
	}()
	select {
	case <-added:
	case <-time.After(time.Second):
		t.Fatal("hub blocked while a client send was in flight")
	}

	stuck.mu.Unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast did not finish")
	}
}
