package workqueue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderflow/internal/pkg/workqueue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueue_FIFO(t *testing.T) {
	t.Run("should dequeue in submission order", func(t *testing.T) {
		q := workqueue.New[int](0)
		for i := range 5 {
			require.NoError(t, q.Enqueue(i))
		}
		assert.Equal(t, 5, q.Len())

		for i := range 5 {
			v, err := q.Dequeue(t.Context())
			require.NoError(t, err)
			assert.Equal(t, i, v)
		}
		assert.Equal(t, 0, q.Len())
	})

	t.Run("should report empty queue without blocking", func(t *testing.T) {
		q := workqueue.New[string](0)

		_, ok := q.TryDequeue()

		assert.False(t, ok)
	})
}

func TestQueue_Capacity(t *testing.T) {
	t.Run("should reject items beyond capacity", func(t *testing.T) {
		q := workqueue.New[int](2)

		require.NoError(t, q.Enqueue(1))
		require.NoError(t, q.Enqueue(2))
		require.ErrorIs(t, q.Enqueue(3), workqueue.ErrQueueFull)

		_, _ = q.TryDequeue()
		require.NoError(t, q.Enqueue(3))
	})

	t.Run("should be unbounded without capacity", func(t *testing.T) {
		q := workqueue.New[int](0)
		for i := range 10_000 {
			require.NoError(t, q.Enqueue(i))
		}
		assert.Equal(t, 10_000, q.Len())
	})
}

func TestQueue_Dequeue(t *testing.T) {
	t.Run("should block until an item arrives", func(t *testing.T) {
		q := workqueue.New[int](0)
		got := make(chan int, 1)

		go func() {
			v, err := q.Dequeue(context.Background())
			if err == nil {
				got <- v
			}
		}()

		select {
		case <-got:
			t.Fatal("dequeue returned before enqueue")
		case <-time.After(20 * time.Millisecond):
		}

		require.NoError(t, q.Enqueue(42))

		select {
		case v := <-got:
			assert.Equal(t, 42, v)
		case <-time.After(time.Second):
			t.Fatal("dequeue did not wake up")
		}
	})

	t.Run("should return when context is cancelled", func(t *testing.T) {
		q := workqueue.New[int](0)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := q.Dequeue(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should hand every item to exactly one of many consumers", func(t *testing.T) {
		q := workqueue.New[int](0)
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		const n = 1000
		var mu sync.Mutex
		seen := make(map[int]int, n)
		var wg sync.WaitGroup
		var done sync.WaitGroup
		done.Add(n)

		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					v, err := q.Dequeue(ctx)
					if err != nil {
						return
					}
					mu.Lock()
					seen[v]++
					mu.Unlock()
					done.Done()
				}
			}()
		}

		for i := range n {
			require.NoError(t, q.Enqueue(i))
		}

		done.Wait()
		cancel()
		wg.Wait()

		assert.Len(t, seen, n)
		for v, count := range seen {
			assert.Equal(t, 1, count, "item %d", v)
		}
	})
}
