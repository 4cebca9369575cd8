package framework

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingTask struct {
	lock  sync.Mutex
	calls []string
	name  string
	err   error
}

func (t *countingTask) Tick(context.Context) error {
	t.lock.Lock()
	t.calls = append(t.calls, t.name)
	t.lock.Unlock()
	return t.err
}

func (t *countingTask) count() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.calls)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	var calls []string
	var lock sync.Mutex
	record := func(name string) Task {
		return TaskFunc(func(context.Context) error {
			lock.Lock()
			calls = append(calls, name)
			lock.Unlock()
			return nil
		})
	}

	loop := NewLoop()
	loop.Interval = time.Millisecond
	loop.AddTask(record("a"), record("b"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	waitFor(t, func() bool {
		lock.Lock()
		defer lock.Unlock()
		return len(calls) >= 4
	})
	cancel()
	require.Equal(t, context.Canceled, <-done)

	lock.Lock()
	defer lock.Unlock()
	for n := 0; n+1 < len(calls); n += 2 {
		require.Equal(t, "a", calls[n])
		require.Equal(t, "b", calls[n+1])
	}
}

func TestLoopTaskErrorDoesNotStopLoop(t *testing.T) {
	failing := &countingTask{name: "fail", err: errors.New("boom")}
	loop := NewLoop()
	loop.Interval = time.Millisecond
	loop.AddTask(failing)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	waitFor(t, func() bool { return failing.count() >= 3 })
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestLoopTriggerNext(t *testing.T) {
	task := &countingTask{name: "t"}
	loop := NewLoop()
	loop.Interval = time.Hour
	loop.AddTask(task)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	loop.TriggerNext()
	waitFor(t, func() bool { return task.count() >= 1 })
}

type adderTask struct {
	countingTask
}

func (t *adderTask) AddToLoop(loop *Loop) {
	loop.AddTask(t)
}

func TestLoopAdd(t *testing.T) {
	task := &adderTask{countingTask{name: "t"}}
	loop := NewLoop().Add(task)
	loop.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	waitFor(t, func() bool { return task.count() >= 1 })
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("one"), nil, errors.New("two"))
	err := errs.Aggregate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "one")
	require.Contains(t, err.Error(), "two")
}
