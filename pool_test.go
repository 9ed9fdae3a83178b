package bloch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const testTimeout = 5 * time.Second

func TestPool(t *testing.T) {
	Convey("Given a new pool", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		q := NewQ(ctx, &Config{Workers: 3, SchedulingTimeout: time.Second})

		Reset(func() {
			q.Close()
			cancel()
		})

		h := complex(1/math.Sqrt2, 0)

		Convey("When scheduling a single conversion", func() {
			result := q.Schedule("plus", h, h)

			select {
			case <-ctx.Done():
				t.Fatal("Test timed out waiting for conversion")
			case value := <-result:
				So(value.Error, ShouldBeNil)
				So(value.ID, ShouldEqual, "plus")
				So(value.Coordinate.Theta, ShouldAlmostEqual, math.Pi/2, epsilon)
				So(value.Coordinate.Phi, ShouldAlmostEqual, 0, epsilon)
			}
		})

		Convey("When scheduling an invalid state", func() {
			value := <-q.Schedule("bad", 1, 1)
			So(errors.Is(value.Error, ErrInvalidState), ShouldBeTrue)
		})

		Convey("When converting a batch", func() {
			batch := make([]Amplitudes, 0, 200)
			for i := 0; i < 200; i++ {
				theta := math.Pi * float64(i) / 199
				batch = append(batch, Amplitudes{
					Alpha: complex(math.Cos(theta/2), 0),
					Beta:  complex(math.Sin(theta/2), 0),
				})
			}

			coords, err := q.Convert(ctx, batch)
			So(err, ShouldBeNil)
			So(coords, ShouldHaveLength, len(batch))

			Convey("Results should come back in input order", func() {
				for i, coord := range coords {
					So(coord.Theta, ShouldAlmostEqual, math.Pi*float64(i)/199, epsilon)
				}
			})

			Convey("Metrics should count every job", func() {
				metrics := q.Metrics()
				So(metrics["job_count"], ShouldEqual, int64(len(batch)))
				So(metrics["failed_jobs"], ShouldEqual, int64(0))
				So(metrics["worker_count"], ShouldEqual, 3)
				So(metrics["success_rate"], ShouldEqual, 1.0)
			})
		})

		Convey("When a batch holds an invalid state", func() {
			batch := []Amplitudes{{Alpha: 1}, {Alpha: 1, Beta: 1}, {Beta: 1}}

			_, err := q.Convert(ctx, batch)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "state 1")
			So(errors.Is(err, ErrInvalidState), ShouldBeTrue)
		})

		Convey("When the caller's context is already done", func() {
			done, stop := context.WithCancel(ctx)
			stop()

			_, err := q.Convert(done, []Amplitudes{{Alpha: 1}})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When scheduling after Close", func() {
			q.Close()

			value := <-q.Schedule("late", 1, 0)
			So(errors.Is(value.Error, ErrPoolClosed), ShouldBeTrue)
		})
	})
}

func TestPoolConcurrentSchedulers(t *testing.T) {
	Convey("Given many goroutines sharing one pool", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		q := NewQ(ctx, nil)
		defer q.Close()

		errs := make(chan error, 50)

		for i := 0; i < 50; i++ {
			go func(id int) {
				value := <-q.Schedule(fmt.Sprintf("concurrent-%d", id), 0, 1)
				if value.Error != nil {
					errs <- value.Error
					return
				}
				if value.Coordinate.Theta != math.Pi {
					errs <- fmt.Errorf("job %d: theta %v", id, value.Coordinate.Theta)
					return
				}
				errs <- nil
			}(i)
		}

		for i := 0; i < 50; i++ {
			select {
			case <-ctx.Done():
				t.Fatal("Test timed out waiting for concurrent jobs")
			case err := <-errs:
				So(err, ShouldBeNil)
			}
		}
	})
}

// newIdlePool builds a pool that has no workers, so jobs can only time out
// or be failed by shutdown.
func newIdlePool(parent context.Context, timeout time.Duration, queue int, managed bool) *Q {
	ctx, cancel := context.WithCancel(parent)

	q := &Q{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan Job, queue),
		workers: make(chan chan Job),
		metrics: NewMetrics(),
		config:  &Config{SchedulingTimeout: timeout},
	}

	if managed {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.manage()
		}()
	}

	return q
}

func awaitResult(t *testing.T, ch chan Result, within time.Duration) Result {
	select {
	case value := <-ch:
		return value
	case <-time.After(within):
		t.Fatal("Test timed out waiting for a scheduled result")
	}

	return Result{}
}

func TestPoolParentCancellation(t *testing.T) {
	Convey("Given a pool whose parent context gets cancelled without Close", t, func() {
		parent, cancel := context.WithCancel(context.Background())
		q := NewQ(parent, &Config{Workers: 2, SchedulingTimeout: time.Second})

		Reset(func() {
			cancel()
			q.Close()
		})

		cancel()

		Convey("Every later Schedule should resolve with ErrPoolClosed", func() {
			for i := 0; i < 20; i++ {
				value := awaitResult(t, q.Schedule(fmt.Sprintf("after-cancel-%d", i), 1, 0), 200*time.Millisecond)
				So(errors.Is(value.Error, ErrPoolClosed), ShouldBeTrue)
			}
		})
	})

	Convey("Given jobs queued on a pool with no free worker", t, func() {
		parent, cancel := context.WithCancel(context.Background())
		q := newIdlePool(parent, 10*time.Second, 10, true)

		Reset(func() {
			cancel()
			q.Close()
		})

		results := make([]chan Result, 0, 5)
		for i := 0; i < 5; i++ {
			results = append(results, q.Schedule(fmt.Sprintf("queued-%d", i), 1, 0))
		}

		Convey("Cancelling the parent should fail all of them", func() {
			cancel()

			for _, ch := range results {
				value := awaitResult(t, ch, time.Second)
				So(errors.Is(value.Error, ErrPoolClosed), ShouldBeTrue)
			}
		})
	})
}

func TestPoolSchedulingTimeouts(t *testing.T) {
	Convey("Given a pool with no workers and a short scheduling timeout", t, func() {
		q := newIdlePool(context.Background(), 50*time.Millisecond, 1, true)

		Reset(func() {
			q.Close()
		})

		Convey("A queued job should fail with no available workers", func() {
			value := awaitResult(t, q.Schedule("stranded", 1, 0), time.Second)
			So(value.Error, ShouldNotBeNil)
			So(value.Error.Error(), ShouldContainSubstring, "no available workers")
			So(q.Metrics()["scheduling_failures"], ShouldEqual, int64(1))
		})
	})

	Convey("Given a pool whose queue never drains", t, func() {
		q := newIdlePool(context.Background(), 50*time.Millisecond, 0, false)

		Reset(func() {
			q.cancel()
		})

		Convey("Schedule should give up after the scheduling timeout", func() {
			value := awaitResult(t, q.Schedule("blocked", 1, 0), time.Second)
			So(errors.Is(value.Error, context.DeadlineExceeded), ShouldBeTrue)
			So(value.Error.Error(), ShouldContainSubstring, "scheduling timeout")
			So(q.Metrics()["scheduling_failures"], ShouldEqual, int64(1))
		})
	})

	Convey("Given a Schedule blocked on a full queue", t, func() {
		q := newIdlePool(context.Background(), 5*time.Second, 0, false)

		Reset(func() {
			q.cancel()
		})

		Convey("Cancelling the pool should report ErrPoolClosed, not a timeout", func() {
			result := make(chan chan Result, 1)
			go func() {
				result <- q.Schedule("blocked", 1, 0)
			}()

			time.Sleep(50 * time.Millisecond)
			q.cancel()

			var ch chan Result
			select {
			case ch = <-result:
			case <-time.After(time.Second):
				t.Fatal("Schedule did not return after cancellation")
			}

			value := awaitResult(t, ch, time.Second)
			So(errors.Is(value.Error, ErrPoolClosed), ShouldBeTrue)
			So(q.Metrics()["scheduling_failures"], ShouldEqual, int64(0))
		})
	})
}
