package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/oranjParker/Slateflow/internal/api/schedule"
	"github.com/oranjParker/Slateflow/internal/database"
	"github.com/oranjParker/Slateflow/internal/search"
)

type AppDependencies struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Nats     *database.NatsConn
	Searcher *search.SimilarSearcher
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Server failure: %v", err)
	}
}

func run(ctx context.Context) error {
	pool, err := database.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("postgres init: %w", err)
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx)
	if err != nil {
		return fmt.Errorf("redis init: %w", err)
	}
	defer rdb.Close()

	nt, err := database.NewNatsConnection()
	if err != nil {
		return fmt.Errorf("nats init: %w", err)
	}
	defer nt.Close()

	if err := nt.EnsureStreams(); err != nil {
		log.Printf("[Server] JetStream setup: %v", err)
	}

	deps := &AppDependencies{
		Pool:  pool,
		Redis: rdb,
		Nats:  nt,
	}

	// Similarity search is optional: it needs both the embedding sidecar and
	// qdrant, neither of which the API strictly depends on.
	if os.Getenv("EMBEDDING_URL") != "" {
		qdb, err := database.NewQdrantClient(ctx)
		if err != nil {
			log.Printf("[Server] Similarity search disabled, qdrant init: %v", err)
		} else {
			defer qdb.Close()
			deps.Searcher = search.NewSimilarSearcher(search.NewEmbedder(), qdb, database.SchedulesCollection)
		}
	}

	return runWithDeps(ctx, deps)
}

func runWithDeps(ctx context.Context, deps *AppDependencies) error {
	var js nats.JetStreamContext
	if deps.Nats != nil {
		js = deps.Nats.JS
	}

	srv := schedule.NewServer(deps.Pool, js, deps.Redis, deps.Searcher)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8000"
	}

	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: srv.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP API on :%s", port)
		errChan <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}
