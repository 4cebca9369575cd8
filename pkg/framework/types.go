package framework

import (
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Task is one cooperative unit of work invoked on every loop tick.
// A task runs to completion before the next task starts; tasks are
// never invoked concurrently or reentrantly.
type Task interface {
	Tick(context.Context) error
}

// TaskFunc is the func form of Task.
type TaskFunc func(context.Context) error

// Tick implements Task.
func (f TaskFunc) Tick(ctx context.Context) error {
	return f(ctx)
}
