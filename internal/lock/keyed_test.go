package lock

import (
	"sync"
	"testing"
)

func TestAcquireSerializesSameKey(t *testing.T) {
	r := NewRegistry()

	const goroutines = 32
	const iterations = 50

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				release := r.Acquire("contest-1/user-1")
				counter++
				release()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Fatalf("lost updates: counter = %d, want %d", counter, goroutines*iterations)
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	r := NewRegistry()

	releaseA := r.Acquire("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := r.Acquire("b")
		releaseB()
		close(done)
	}()

	<-done // would deadlock if "b" waited on "a"
}

func TestEntriesArePruned(t *testing.T) {
	r := NewRegistry()

	release := r.Acquire("k")
	if r.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", r.Len())
	}
	release()
	if r.Len() != 0 {
		t.Fatalf("expected entry to be pruned, got %d", r.Len())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	r := NewRegistry()

	release := r.Acquire("k")
	release()
	release() // must not unlock someone else's acquisition

	release2 := r.Acquire("k")
	release2()
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", r.Len())
	}
}

func TestEntrySurvivesWhileWaiterQueued(t *testing.T) {
	r := NewRegistry()

	release := r.Acquire("k")

	acquired := make(chan func())
	go func() {
		acquired <- r.Acquire("k")
	}()

	// The waiter references the entry, so releasing the holder must hand the
	// same mutex over instead of destroying it.
	release()
	release2 := <-acquired
	release2()

	if r.Len() != 0 {
		t.Fatalf("expected empty registry after all releases, got %d", r.Len())
	}
}
