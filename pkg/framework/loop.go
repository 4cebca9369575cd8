package framework

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Loop invokes registered tasks on a fixed interval. On each tick the
// tasks run sequentially, in registration order, each to completion,
// all on the loop goroutine. A task error is logged and does not stop
// the loop; stopping is always via context cancellation.
type Loop struct {
	Interval time.Duration

	tasks []Task

	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// DefaultInterval is the tick interval when none is configured.
const DefaultInterval = 50 * time.Millisecond

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{
		Interval: DefaultInterval,
		wakeUpCh: make(chan struct{}, 1),
	}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddTask registers tasks to run every tick, in order.
func (l *Loop) AddTask(tasks ...Task) *Loop {
	l.tasks = append(l.tasks, tasks...)
	return l
}

// TriggerNext schedules an extra tick immediately, without waiting
// for the interval. Safe to call from any goroutine.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.runTick(ctx)
		case <-l.wakeUpCh:
			l.runTick(ctx)
		}
	}
}

func (l *Loop) runTick(ctx context.Context) {
	for _, task := range l.tasks {
		if err := task.Tick(ctx); err != nil {
			glog.Errorf("task error: %v", err)
		}
	}
}
