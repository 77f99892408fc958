package worker

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_RunsEveryTask(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")

	tasks := make([]Task, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		id := id
		tasks = append(tasks, Task{ID: id, Run: func(context.Context) error {
			calls.Add(1)
			if id == "c" {
				return boom
			}
			return nil
		}})
	}

	results := Do(context.Background(), 3, 0, tasks)
	require.Len(t, results, 5)
	assert.EqualValues(t, 5, calls.Load())

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
		if r.ID == "c" {
			assert.ErrorIs(t, r.Err, boom)
		} else {
			assert.NoError(t, r.Err)
		}
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestDo_RateLimitPacesStarts(t *testing.T) {
	tasks := make([]Task, 4)
	for i := range tasks {
		tasks[i] = Task{ID: "t", Run: func(context.Context) error { return nil }}
	}

	start := time.Now()
	results := Do(context.Background(), 4, 50, tasks)
	require.Len(t, results, 4)
	// four ticks at 20ms each
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestPool_CancelledContextStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPool(2, 0)
	results := p.Run(ctx)

	select {
	case _, ok := <-results:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("results channel not closed after cancel")
	}
}

func TestPool_NilIsSafe(t *testing.T) {
	var p *Pool
	p.SetRateLimit(10)
	p.Submit(Task{Run: func(context.Context) error { return nil }})
	p.Close()
	_, ok := <-p.Run(context.Background())
	assert.False(t, ok)
}

func TestDo_ResultKeptWhenContextEndsDuringTask(t *testing.T) {
	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		results := Do(ctx, 1, 0, []Task{{ID: "sent", Run: func(context.Context) error {
			cancel()
			return nil
		}}})
		require.Len(t, results, 1, "run %d", i)
		assert.Equal(t, "sent", results[0].ID)
		assert.NoError(t, results[0].Err)
	}
}

func TestDo_UnstartedTasksAreReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	tasks := []Task{{ID: "first", Run: func(context.Context) error {
		calls.Add(1)
		cancel()
		return nil
	}}}
	for _, id := range []string{"second", "third", "fourth"} {
		tasks = append(tasks, Task{ID: id, Run: func(context.Context) error {
			calls.Add(1)
			return nil
		}})
	}

	results := Do(ctx, 1, 0, tasks)
	require.Len(t, results, len(tasks))

	var notStarted int32
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		assert.ErrorIs(t, r.Err, ErrNotStarted)
		assert.ErrorIs(t, r.Err, context.Canceled)
		notStarted++
	}
	assert.Equal(t, int32(len(tasks)), calls.Load()+notStarted)
	assert.Equal(t, "first", results[0].ID)
}
