package queue

import (
	"testing"
)

func TestPending_BasicOperations(t *testing.T) {
	q := New[string]()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if _, ok := q.Pop(); ok {
		t.Error("expected pop on empty queue to fail")
	}

	for _, s := range []string{"w1", "w2", "w3"} {
		if err := q.Push(s); err != nil {
			t.Fatalf("unexpected push error: %v", err)
		}
	}
	if l := q.Len(); l != 3 {
		t.Errorf("expected length 3, got %d", l)
	}

	head, ok := q.Pop()
	if !ok || head != "w1" {
		t.Errorf("expected w1, got %q (ok=%v)", head, ok)
	}
}

func TestPending_RoundRobin(t *testing.T) {
	q := New[int]()
	for i := 0; i < 3; i++ {
		_ = q.Push(i)
	}

	// pop-and-push-back twice around the ring must visit every item in order
	var visited []int
	for i := 0; i < 6; i++ {
		item, ok := q.Pop()
		if !ok {
			t.Fatal("queue unexpectedly empty")
		}
		visited = append(visited, item)
		_ = q.Push(item)
	}

	want := []int{0, 1, 2, 0, 1, 2}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("expected visit order %v, got %v", want, visited)
		}
	}
}

func TestPending_Capacity(t *testing.T) {
	q := New[int](WithCapacity(2))

	if err := q.Push(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Push(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Push(3); err != ErrFull {
		t.Errorf("expected ErrFull, got %v", err)
	}
}

func TestPending_ReporterAndDrain(t *testing.T) {
	var lengths []int
	q := New[int](WithLengthReporter(func(n int) { lengths = append(lengths, n) }))

	_ = q.Push(1)
	_ = q.Push(2)
	drained := q.Drain()

	if len(drained) != 2 || drained[0] != 1 || drained[1] != 2 {
		t.Errorf("expected [1 2], got %v", drained)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.Len())
	}
	want := []int{1, 2, 1, 0}
	if len(lengths) != len(want) {
		t.Fatalf("expected reported lengths %v, got %v", want, lengths)
	}
	for i := range want {
		if lengths[i] != want[i] {
			t.Fatalf("expected reported lengths %v, got %v", want, lengths)
		}
	}
}
