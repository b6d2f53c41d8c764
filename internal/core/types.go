package core

import (
	"context"
	"time"
)

// Task is the unit of work flowing through a pipeline. For scheduling jobs,
// Content carries the scene breakdown JSON on the way in and the generated
// schedule JSON on the way out.
type Task[T any] struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Content   T              `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Attempts  int            `json:"attempts"`
	Ack       func()         `json:"-"`
}

func (t *Task[T]) Clone() *Task[T] {
	if t == nil {
		return nil
	}

	newTask := *t

	if t.Metadata != nil {
		newTask.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			newTask.Metadata[k] = v
		}
	}

	return &newTask
}

// DoAck acknowledges the task with its origin (a NATS delivery, usually).
// Safe on nil tasks and tasks without an Ack hook.
func (t *Task[T]) DoAck() {
	if t == nil || t.Ack == nil {
		return
	}
	t.Ack()
}

type Source[T any] interface {
	Stream(ctx context.Context) (<-chan T, error)
}

type Processor[In any, Out any] interface {
	Process(ctx context.Context, input In) ([]Out, error)
}

type FunctionalProcessor[In any, Out any] struct {
	Fn func(context.Context, In) ([]Out, error)
}

func (p *FunctionalProcessor[In, Out]) Process(ctx context.Context, input In) ([]Out, error) {
	return p.Fn(ctx, input)
}

type Sink[T any] interface {
	Write(ctx context.Context, item T) error
	Close() error
}
