package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/oranjParker/Slateflow/internal/core"
	"github.com/oranjParker/Slateflow/internal/database"
	"github.com/oranjParker/Slateflow/internal/llm_provider"
	"github.com/oranjParker/Slateflow/internal/processor"
	"github.com/oranjParker/Slateflow/internal/scheduler"
	"github.com/oranjParker/Slateflow/internal/sink"
	"github.com/oranjParker/Slateflow/internal/source"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setupWorkerDependencies(ctx)
	if err != nil {
		log.Fatalf("Infrastructure failure: %v", err)
	}
	defer deps.Nats.Close()
	defer deps.Redis.Close()
	defer deps.Postgres.Close()

	var provider scheduler.LLMProvider
	modelLabel := "mock"

	geminiKey := os.Getenv("GEMINI_API_KEY")
	ollamaURL := os.Getenv("OLLAMA_URL")

	if geminiKey != "" {
		log.Println("[LLM] Using Gemini (Cloud Free Tier)")
		gp, err := llm_provider.NewGeminiProvider(ctx, geminiKey)
		if err != nil {
			log.Printf("[LLM] Gemini init failed, falling back to mock schedule: %v", err)
		} else {
			provider = gp
			modelLabel = llm_provider.GeminiDefaultModel + " (google-generative-ai SDK)"
		}
	} else if ollamaURL != "" {
		log.Println("[LLM] Using Ollama (Local/Zero-Cost)")
		op := llm_provider.NewOllamaProvider(ollamaURL, os.Getenv("OLLAMA_MODEL"))
		provider = op
		modelLabel = "ollama/" + op.Model
	} else {
		log.Println("[LLM] No LLM config found. Using Mock Provider for testing.")
		provider = &llm_provider.MockProvider{}
	}

	sched := scheduler.New(provider, modelLabel)

	natsSrc := source.NewNatsSource(deps.Nats.JS, "schedule.jobs", "scheduler-group")
	rateLimited := core.NewRateLimitedSource[*core.Task[string]](natsSrc, sched.Interval)

	pgSink := sink.NewPostgresSink(deps.Postgres, 20, 5*time.Second)
	defer pgSink.Close()

	// One worker: the LLM call is serialized by design, extra concurrency
	// would only queue up inside the scheduler's rate gate.
	runner := core.NewPipelineRunner[*core.Task[string]](rateLimited, pgSink, core.PipelineConfig{
		Concurrency: 1,
		Name:        "Slateflow-Scheduler-Worker",
	})

	runner.AddProcessor(processor.NewQuotaProcessor(deps.Redis, maxDailyGenerations()))
	runner.AddProcessor(processor.NewScheduleProcessor(sched))
	runner.AddProcessor(processor.NewForkProcessor(sink.NewNatsSink(deps.Nats.JS, "schedule.results")))
	runner.AddProcessor(processor.NewForkProcessor(sink.NewNatsSink(deps.Nats.JS, "vector.jobs")))

	if dir := os.Getenv("BREAKDOWN_DIR"); dir != "" {
		go ingestDropFolder(ctx, dir, deps.Nats.JS)
	}

	log.Println("Worker ready. Awaiting schedule jobs...")
	if err := runner.Run(ctx); err != nil {
		log.Printf("Worker exited: %v", err)
	}
}

// ingestDropFolder picks up breakdown JSON exports from a synced directory
// and queues them like any API submission.
func ingestDropFolder(ctx context.Context, dir string, js nats.JetStreamContext) {
	src := source.NewLocalSource(dir)
	stream, err := src.Stream(ctx)
	if err != nil {
		log.Printf("[DropFolder] Scan failed for %s: %v", dir, err)
		return
	}

	for path := range stream {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[DropFolder] Skipping %s: %v", path, err)
			continue
		}

		task := &core.Task[string]{
			ID:        uuid.New().String(),
			Source:    "dropfolder",
			Content:   string(data),
			CreatedAt: time.Now(),
		}

		payload, err := json.Marshal(task)
		if err != nil {
			continue
		}
		if _, err := js.Publish("schedule.jobs", payload); err != nil {
			log.Printf("[DropFolder] Failed to queue %s: %v", path, err)
			continue
		}
		log.Printf("[DropFolder] Queued %s as job %s", path, task.ID)
	}
}

func maxDailyGenerations() int64 {
	if v := os.Getenv("MAX_DAILY_GENERATIONS"); v != "" {
		var n int64
		if _, err := fmt.Sscan(v, &n); err == nil && n > 0 {
			return n
		}
	}
	return 50
}

type WorkerDependencies struct {
	Nats     *database.NatsConn
	Redis    *redis.Client
	Postgres *pgxpool.Pool
}

func setupWorkerDependencies(ctx context.Context) (*WorkerDependencies, error) {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pg, err := database.NewPool(initCtx)
	if err != nil {
		return nil, fmt.Errorf("postgres init: %w", err)
	}

	rdb, err := database.NewRedisClient(initCtx)
	if err != nil {
		pg.Close()
		return nil, fmt.Errorf("redis init: %w", err)
	}

	nt, err := database.NewNatsConnection()
	if err != nil {
		pg.Close()
		rdb.Close()
		return nil, fmt.Errorf("nats init: %w", err)
	}
	if err := nt.EnsureStreams(); err != nil {
		log.Printf("Warning: JetStream setup: %v", err)
	}

	return &WorkerDependencies{
		Nats:     nt,
		Redis:    rdb,
		Postgres: pg,
	}, nil
}
