package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/oranjParker/Slateflow/internal/core"
	"github.com/oranjParker/Slateflow/internal/scheduler"
)

// ScheduleProcessor runs the scheduler against the breakdown carried in the
// task and replaces the content with the generated schedule document.
type ScheduleProcessor struct {
	Scheduler *scheduler.Scheduler
}

func NewScheduleProcessor(s *scheduler.Scheduler) *ScheduleProcessor {
	return &ScheduleProcessor{Scheduler: s}
}

func (p *ScheduleProcessor) Process(ctx context.Context, task *core.Task[string]) ([]*core.Task[string], error) {
	var col scheduler.SceneCollection
	if err := json.Unmarshal([]byte(task.Content), &col); err != nil {
		// A breakdown that never parses will never parse on redelivery.
		task.DoAck()
		return nil, fmt.Errorf("malformed breakdown for job %s: %w", task.ID, err)
	}

	result := p.Scheduler.Generate(ctx, &col)

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule for job %s: %w", task.ID, err)
	}

	newTask := task.Clone()
	if newTask.Metadata == nil {
		newTask.Metadata = make(map[string]any)
	}
	newTask.Content = string(data)
	newTask.Metadata["project_title"] = col.ProjectTitle

	status := "COMPLETED"
	if _, degraded := result["error"]; degraded {
		status = "DEGRADED"
		log.Printf("[Schedule] Job %s degraded to mock schedule: %v", task.ID, result["error"])
	}
	newTask.Metadata["status"] = status

	// The result is open-shaped: parsed replies carry a plain map under
	// optimized_schedule, the fallback path carries a scheduler.Result.
	var sched map[string]any
	switch v := result["optimized_schedule"].(type) {
	case map[string]any:
		sched = v
	case scheduler.Result:
		sched = v
	}
	if strategy, ok := sched["scheduling_strategy"].(string); ok {
		newTask.Metadata["strategy"] = strategy
	} else if strategy, ok := result["scheduling_strategy"].(string); ok {
		newTask.Metadata["strategy"] = strategy
	}

	return []*core.Task[string]{newTask}, nil
}
