package worker_test

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	worker "github.com/okian/arena/internal/adapters/mq/worker"
	"github.com/okian/arena/internal/domain/solver"
	logging "github.com/okian/arena/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// Mock implementations for testing.
type mockSolver struct {
	weight  uint64
	err     error
	panics  bool
	block   chan struct{}
	calls   atomic.Int64
	mu      sync.Mutex
	inputs  [][]int
	release sync.Once
}

func (ms *mockSolver) ParseInput(ctx context.Context) ([]int, error) {
	return []int{1, 2, 3}, nil
}

func (ms *mockSolver) Solve(ctx context.Context, input []int) (solver.Outcome[string], error) {
	ms.calls.Add(1)
	ms.mu.Lock()
	ms.inputs = append(ms.inputs, input)
	ms.mu.Unlock()
	input[0] = 99 // workers own their copy
	if ms.block != nil {
		select {
		case <-ms.block:
		case <-ctx.Done():
			return solver.Outcome[string]{}, ctx.Err()
		}
	}
	if ms.panics {
		panic("boom")
	}
	if ms.err != nil {
		return solver.Outcome[string]{}, ms.err
	}
	return solver.Outcome[string]{Solution: "ok", Weight: ms.weight}, nil
}

func (ms *mockSolver) FormatSolution(s string) string { return s }

func (ms *mockSolver) CloneInput(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func (ms *mockSolver) unblock() {
	ms.release.Do(func() { close(ms.block) })
}

func waitForState(ctx context.Context, h *worker.Handle[string]) (solver.Outcome[string], worker.State, error) {
	deadline := time.After(2 * time.Second)
	for {
		o, st, err := h.TryReceive(ctx)
		if st != worker.Pending {
			return o, st, err
		}
		select {
		case <-deadline:
			return o, st, err
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSpawn(t *testing.T) {
	convey.Convey("Given a solver", t, func() {
		ctx := context.Background()

		convey.Convey("When a worker completes", func() {
			ms := &mockSolver{weight: 42}
			input := []int{1, 2, 3}
			notify := make(chan struct{}, 1)
			h := worker.Spawn[[]int, string](ctx, ms, input, worker.WithName("w"), worker.WithNotify(notify))

			o, st, err := waitForState(ctx, h)

			convey.Convey("Then the outcome is delivered once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(st, convey.ShouldEqual, worker.Done)
				convey.So(o.Weight, convey.ShouldEqual, 42)
				convey.So(h.Name, convey.ShouldEqual, "w")
				convey.So(h.ID.String(), convey.ShouldNotBeEmpty)

				_, again, _ := h.TryReceive(ctx)
				convey.So(again, convey.ShouldEqual, worker.Pending)
			})

			convey.Convey("And the caller's input is untouched", func() {
				convey.So(input[0], convey.ShouldEqual, 1)
			})

			convey.Convey("And the notify channel is signalled", func() {
				signalled := false
				select {
				case <-notify:
					signalled = true
				case <-time.After(time.Second):
				}
				convey.So(signalled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a worker is still running", func() {
			ms := &mockSolver{block: make(chan struct{})}
			h := worker.Spawn[[]int, string](ctx, ms, []int{1})
			_, st, err := h.TryReceive(ctx)
			ms.unblock()

			convey.Convey("Then TryReceive does not block", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(st, convey.ShouldEqual, worker.Pending)
			})
		})

		convey.Convey("When the solver returns an error", func() {
			ms := &mockSolver{err: errors.New("infeasible")}
			h := worker.Spawn[[]int, string](ctx, ms, []int{1})
			_, st, err := waitForState(ctx, h)

			convey.Convey("Then the handle reports a failure", func() {
				convey.So(st, convey.ShouldEqual, worker.Failed)
				convey.So(err.Error(), convey.ShouldEqual, "infeasible")
			})
		})

		convey.Convey("When the solver panics", func() {
			ms := &mockSolver{panics: true}
			h := worker.Spawn[[]int, string](ctx, ms, []int{1})
			_, st, err := waitForState(ctx, h)

			convey.Convey("Then the panic is contained", func() {
				convey.So(st, convey.ShouldEqual, worker.Failed)
				convey.So(errors.Is(err, worker.ErrPanic), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a running worker is cancelled", func() {
			ms := &mockSolver{block: make(chan struct{})}
			h := worker.Spawn[[]int, string](ctx, ms, []int{1})
			h.Cancel()
			_, st, err := waitForState(ctx, h)

			convey.Convey("Then a cooperative solver stops", func() {
				convey.So(st, convey.ShouldEqual, worker.Failed)
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRegister(t *testing.T) {
	convey.Convey("Given a program sender", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := make(chan solver.Outcome[string], 16)
		out := worker.NewSender("mock", ch)

		convey.Convey("When registering with an invalid count", func() {
			err := worker.Register[[]int, string](ctx, out, &mockSolver{}, 0, false)

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, worker.ErrInvalidCount), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When registering without restart", func() {
			ms := &mockSolver{weight: 3}
			err := worker.Register[[]int, string](ctx, out, ms, 3, false)
			convey.So(err, convey.ShouldBeNil)

			var got []uint64
			for i := 0; i < 3; i++ {
				select {
				case o := <-ch:
					got = append(got, o.Weight)
				case <-time.After(2 * time.Second):
				}
			}

			convey.Convey("Then each worker sends exactly one outcome", func() {
				convey.So(got, convey.ShouldResemble, []uint64{3, 3, 3})
				extra := false
				select {
				case <-ch:
					extra = true
				case <-time.After(50 * time.Millisecond):
				}
				convey.So(extra, convey.ShouldBeFalse)
				convey.So(ms.calls.Load(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When registering with restart", func() {
			ms := &mockSolver{weight: 1}
			err := worker.Register[[]int, string](ctx, out, ms, 1, true)
			convey.So(err, convey.ShouldBeNil)

			received := 0
			for received < 5 {
				select {
				case <-ch:
					received++
				case <-time.After(2 * time.Second):
					received = 100
				}
			}

			convey.Convey("Then the worker keeps producing outcomes", func() {
				convey.So(received, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the sender's context is already done", func() {
			done, stop := context.WithCancel(context.Background())
			stop()

			convey.Convey("Then Send refuses to deliver", func() {
				convey.So(out.Send(done, solver.Outcome[string]{Weight: 1}), convey.ShouldBeFalse)
				convey.So(out.Name(), convey.ShouldEqual, "mock")
			})
		})
	})
}
