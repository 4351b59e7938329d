package queue

import (
	"testing"
	"time"
)

func TestUnboundedPushPopFIFO(t *testing.T) {
	q := NewUnbounded[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("expected %d, got %d (ok=%v)", i, v, ok)
		}
	}
}

func TestUnboundedPopBlocksUntilPush(t *testing.T) {
	q := NewUnbounded[string]()
	done := make(chan string)
	go func() {
		v, ok := q.Pop()
		if !ok {
			done <- "closed"
			return
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push("hello")

	select {
	case v := <-done:
		if v != "hello" {
			t.Fatalf("expected hello, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop never returned after Push")
	}
}

func TestUnboundedCloseUnblocksPop(t *testing.T) {
	q := NewUnbounded[int]()
	done := make(chan bool)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected Pop to report false after Close with nothing pushed")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock Pop")
	}
}

func TestUnboundedDrainsBeforeReportingClosed(t *testing.T) {
	q := NewUnbounded[int]()
	q.Push(1)
	q.Push(2)
	q.Close()

	v, ok := q.Pop()
	if !ok || v != 1 {
		t.Fatalf("expected to drain 1 first, got %d ok=%v", v, ok)
	}
	v, ok = q.Pop()
	if !ok || v != 2 {
		t.Fatalf("expected to drain 2 second, got %d ok=%v", v, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected false once fully drained")
	}
}

func TestUnboundedPushAfterCloseIsDropped(t *testing.T) {
	q := NewUnbounded[int]()
	q.Close()
	q.Push(99)
	if _, ok := q.Pop(); ok {
		t.Fatal("expected push-after-close to be silently dropped")
	}
}
