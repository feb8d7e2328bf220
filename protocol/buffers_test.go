package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.WriteByte('K')
	scratch.WriteString(": trial indication on at ")
	scratch.Timestamp(Timestamp{Seconds: 12, Millis: 5})
	scratch.WriteString(LineEnd)

	want := "K: trial indication on at 12.5\r\n\n"
	if got := string(scratch.Result()); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if scratch.CurPosition() != len(want) {
		t.Errorf("Expected position %d, got %d", len(want), scratch.CurPosition())
	}

	scratch.Reset()
	if len(scratch.Result()) != 0 {
		t.Errorf("Expected empty result after reset, got %d bytes", len(scratch.Result()))
	}
}

func TestScratchOutputTruncates(t *testing.T) {
	scratch := NewScratchOutput()
	big := make([]byte, MessageMax+10)
	scratch.Output(big)
	scratch.WriteByte('x')

	if scratch.CurPosition() != MessageMax {
		t.Errorf("Expected position capped at %d, got %d", MessageMax, scratch.CurPosition())
	}
}

func TestRxQueue(t *testing.T) {
	var q RxQueue

	for _, b := range []byte("#12") {
		if !q.Push(b) {
			t.Fatalf("Push %q failed", b)
		}
	}
	if q.Len() != 3 {
		t.Errorf("Expected 3 bytes queued, got %d", q.Len())
	}

	for _, want := range []byte("#12") {
		b, ok := q.Pop()
		if !ok || b != want {
			t.Errorf("Expected %q, got %q (ok=%v)", want, b, ok)
		}
	}
	if !q.Empty() {
		t.Error("Expected queue to be empty")
	}
	if _, ok := q.Pop(); ok {
		t.Error("Expected Pop to fail on an empty queue")
	}
}

func TestRxQueueFull(t *testing.T) {
	var q RxQueue

	for i := 0; i < RxQueueSize; i++ {
		if !q.Push(byte(i)) {
			t.Fatalf("Push %d failed", i)
		}
	}
	if q.Push(0xFF) {
		t.Error("Expected Push to fail on a full queue")
	}

	// Drain two, then push across the wrap point
	q.Pop()
	q.Pop()
	q.Push(200)
	q.Push(201)

	for i := 2; i < RxQueueSize; i++ {
		if b, _ := q.Pop(); b != byte(i) {
			t.Fatalf("Expected %d, got %d", i, b)
		}
	}
	for _, want := range []byte{200, 201} {
		if b, _ := q.Pop(); b != want {
			t.Errorf("Expected %d, got %d", want, b)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d bytes", q.Len())
	}
}

func TestRxQueueReset(t *testing.T) {
	var q RxQueue
	q.Push('a')
	q.Push('b')
	q.Reset()

	if !q.Empty() {
		t.Error("Expected queue to be empty after reset")
	}
}
