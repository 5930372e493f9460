package pubsub

import (
	"testing"
	"time"
)

func recvTimeout(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestSubscribeDeliversSnapshotFirst(t *testing.T) {
	b := NewBroker()
	b.Publish("ranklist/c1", []byte("v1"))
	b.Publish("ranklist/c1", []byte("v2"))

	ch, unsubscribe := b.Subscribe("ranklist/c1")
	defer unsubscribe()

	// Only the latest snapshot, never the history.
	if got := string(recvTimeout(t, ch)); got != "v2" {
		t.Fatalf("snapshot = %q, want v2", got)
	}

	b.Publish("ranklist/c1", []byte("v3"))
	if got := string(recvTimeout(t, ch)); got != "v3" {
		t.Fatalf("live update = %q, want v3", got)
	}
}

func TestSubscribeEmptyTopic(t *testing.T) {
	b := NewBroker()
	ch, unsubscribe := b.Subscribe("ranklist/fresh")
	defer unsubscribe()

	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %q on fresh topic", msg)
	default:
	}
}

func TestPublishFansOut(t *testing.T) {
	b := NewBroker()

	ch1, unsub1 := b.Subscribe("t")
	ch2, unsub2 := b.Subscribe("t")
	defer unsub1()
	defer unsub2()

	b.Publish("t", []byte("hello"))
	if got := string(recvTimeout(t, ch1)); got != "hello" {
		t.Fatalf("subscriber 1 got %q", got)
	}
	if got := string(recvTimeout(t, ch2)); got != "hello" {
		t.Fatalf("subscriber 2 got %q", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	ch, unsubscribe := b.Subscribe("t")
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic or deliver.
	b.Publish("t", []byte("late"))
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroker()
	_, unsubscribe := b.Subscribe("t")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		// More publishes than the channel buffer can hold, with nobody
		// reading. Publish must drop rather than block.
		for i := 0; i < 100; i++ {
			b.Publish("t", []byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestCloseTopic(t *testing.T) {
	b := NewBroker()
	b.Publish("t", []byte("v1"))
	ch, _ := b.Subscribe("t")
	recvTimeout(t, ch) // drain the snapshot

	b.CloseTopic("t")
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after CloseTopic")
	}

	// Snapshot must be forgotten as well.
	fresh, unsubscribe := b.Subscribe("t")
	defer unsubscribe()
	select {
	case msg := <-fresh:
		t.Fatalf("stale snapshot %q survived CloseTopic", msg)
	default:
	}
}
