package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/oranjParker/Slateflow/internal/core"
	"github.com/oranjParker/Slateflow/internal/database"
	"github.com/oranjParker/Slateflow/internal/processor"
	"github.com/oranjParker/Slateflow/internal/sink"
	"github.com/oranjParker/Slateflow/internal/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nt, err := database.NewNatsConnection()
	if err != nil {
		log.Fatalf("nats init: %v", err)
	}
	defer nt.Close()

	if err := nt.EnsureStreams(); err != nil {
		log.Printf("Warning: JetStream setup: %v", err)
	}

	pg, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("postgres init: %v", err)
	}
	defer pg.Close()

	qdb, err := database.NewQdrantClient(ctx)
	if err != nil {
		log.Fatalf("qdrant init: %v", err)
	}
	defer qdb.Close()

	if err := qdb.EnsureCollection(ctx, database.SchedulesCollection); err != nil {
		log.Printf("Warning: Qdrant collection setup: %v", err)
	}

	natsSrc := source.NewNatsSource(nt.JS, "vector.jobs", "vector-group")
	qdrantSink := sink.NewQdrantSink(qdb, database.SchedulesCollection)

	// Forked tasks normally carry strategy metadata already; redeliveries
	// after a worker restart may not, so backfill from postgres.
	lookupProc := &core.FunctionalProcessor[*core.Task[string], *core.Task[string]]{
		Fn: func(ctx context.Context, task *core.Task[string]) ([]*core.Task[string], error) {
			if task.Metadata == nil {
				task.Metadata = make(map[string]any)
			}
			if _, ok := task.Metadata["strategy"].(string); ok {
				return []*core.Task[string]{task}, nil
			}

			var projectTitle, result string
			err := pg.QueryRow(ctx, "SELECT project_title, result FROM schedules WHERE job_id = $1", task.ID).
				Scan(&projectTitle, &result)
			if err != nil {
				return nil, err
			}

			task.Metadata["project_title"] = projectTitle

			var doc map[string]any
			if err := json.Unmarshal([]byte(result), &doc); err == nil {
				if sched, ok := doc["optimized_schedule"].(map[string]any); ok {
					if strategy, ok := sched["scheduling_strategy"].(string); ok {
						task.Metadata["strategy"] = strategy
					}
				}
			}

			return []*core.Task[string]{task}, nil
		},
	}

	embedder := processor.NewEmbeddingProcessor(os.Getenv("EMBEDDING_URL"))

	runner := core.NewPipelineRunner[*core.Task[string]](natsSrc, qdrantSink, core.PipelineConfig{
		Concurrency: 3,
		Name:        "Schedule-Vector-Pipeline",
	})

	runner.AddProcessor(lookupProc)
	runner.AddProcessor(embedder)

	log.Println("Vector Worker active. Indexing schedule strategies...")
	if err := runner.Run(ctx); err != nil {
		log.Printf("Vector Pipeline exited: %v", err)
	}
}
