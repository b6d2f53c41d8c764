package processor

import (
	"context"
	"log"

	"github.com/oranjParker/Slateflow/internal/core"
)

// ForkProcessor tees every task into a side sink (result events, vector
// indexing jobs) and passes the original downstream. A side-sink failure is
// logged, not fatal: the schedule itself must still reach postgres.
type ForkProcessor struct {
	SideSink core.Sink[*core.Task[string]]
}

func NewForkProcessor(sink core.Sink[*core.Task[string]]) *ForkProcessor {
	return &ForkProcessor{
		SideSink: sink,
	}
}

func (p *ForkProcessor) Process(ctx context.Context, task *core.Task[string]) ([]*core.Task[string], error) {
	if err := p.SideSink.Write(ctx, task.Clone()); err != nil {
		log.Printf("[Fork] Warning: failed to push to side sink: %v", err)
	}

	return []*core.Task[string]{task}, nil
}
