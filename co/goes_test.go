package co

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestGoes(t *testing.T) {
	var g Goes
	var counter int32

	for i := 0; i < 5; i++ {
		g.Go(func() {
			atomic.AddInt32(&counter, 1)
		})
	}
	g.Wait()

	if counter != 5 {
		t.Errorf("Expected counter to be 5, got %d", counter)
	}
}

func TestGoesDone(t *testing.T) {
	var g Goes
	g.Go(func() {
		time.Sleep(10 * time.Millisecond)
	})

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Error("Done channel not closed after go routines finished")
	}
}
