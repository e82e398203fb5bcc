package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/prode/internal/adapters/mq/queue"
	worker "github.com/okian/prode/internal/adapters/mq/worker"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type mockRefresher struct {
	mu     sync.Mutex
	months []string
	errs   map[string]error
}

func newMockRefresher() *mockRefresher {
	return &mockRefresher{errs: map[string]error{}}
}

func (m *mockRefresher) Refresh(_ context.Context, month string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.months = append(m.months, month)
	return m.errs[month]
}

func (m *mockRefresher) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.months...)
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []queue.Job
	full bool
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, j queue.Job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return false
	}
	r.jobs = append(r.jobs, j)
	return true
}

func (r *recordingEnqueuer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := newMockQueue()
		r := newMockRefresher()
		r.errs["broken"] = errors.New("decode failed")
		w := worker.NewInMemoryWorker(q, r, worker.WithName("test"))

		convey.Convey("When jobs arrive and the queue closes", func() {
			q.jobs <- queue.Job{Month: "month7", Reason: "startup"}
			q.jobs <- queue.Job{Month: "broken", Reason: "startup"}
			q.jobs <- queue.Job{Month: "month8", Reason: "interval"}
			_ = q.Close()

			done := make(chan struct{})
			go func() {
				w.Run(context.Background())
				close(done)
			}()

			convey.Convey("Then every job is processed despite failures", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("worker did not stop")
				}
				convey.So(r.seen(), convey.ShouldResemble, []string{"month7", "broken", "month8"})
			})
		})

		convey.Convey("When shut down while idle", func() {
			go w.Run(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
		})

		convey.Convey("When its context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			cancel()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("worker ignored cancellation")
			}
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		r := newMockRefresher()
		p := worker.NewPool(3, q, r, nil)

		convey.So(p.Size(), convey.ShouldEqual, 3)
		convey.So(worker.NewPool(0, q, r, nil).Size(), convey.ShouldEqual, 1)

		p.Start(context.Background())
		for _, m := range []string{"a", "b", "c", "d"} {
			convey.So(q.Enqueue(context.Background(), queue.Job{Month: m}), convey.ShouldBeTrue)
		}

		convey.Convey("When shutting down", func() {
			err := p.Shutdown(context.Background())

			convey.Convey("Then queued jobs are drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.seen(), convey.ShouldHaveLength, 4)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSchedule(t *testing.T) {
	convey.Convey("Given months to refresh", t, func() {
		months := []string{"month7", "month8"}

		convey.Convey("When the interval is zero", func() {
			q := &recordingEnqueuer{}
			worker.Schedule(context.Background(), q, months, 0, nil)

			convey.Convey("Then a single startup pass is enqueued", func() {
				convey.So(q.jobs, convey.ShouldResemble, []queue.Job{
					{Month: "month7", Reason: "startup"},
					{Month: "month8", Reason: "startup"},
				})
			})
		})

		convey.Convey("When an interval is set", func() {
			q := &recordingEnqueuer{}
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				worker.Schedule(ctx, q, months, 10*time.Millisecond, nil)
				close(done)
			}()

			deadline := time.Now().Add(2 * time.Second)
			for q.count() < 4 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			cancel()
			<-done

			convey.Convey("Then later passes are tagged as interval refreshes", func() {
				convey.So(q.count(), convey.ShouldBeGreaterThanOrEqualTo, 4)
				convey.So(q.jobs[2].Reason, convey.ShouldEqual, "interval")
			})
		})

		convey.Convey("When the queue is full", func() {
			q := &recordingEnqueuer{full: true}
			convey.So(func() { worker.Schedule(context.Background(), q, months, 0, nil) }, convey.ShouldNotPanic)
			convey.So(q.count(), convey.ShouldEqual, 0)
		})
	})
}
