package sink

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oranjParker/Slateflow/internal/core"
)

const (
	DefaultBatchSize    = 20
	DefaultFlushTimeout = 5 * time.Second
)

// PostgresSink buffers completed schedule tasks and flushes them in batches.
// Content is the generated schedule JSON; job id and status come off the
// task envelope.
type PostgresSink struct {
	db           *pgxpool.Pool
	batchSize    int
	flushTimeout time.Duration

	buffer []core.Task[string]
	mu     sync.Mutex

	flushChan chan struct{}
	closeChan chan struct{}
	wg        sync.WaitGroup
}

func NewPostgresSink(db *pgxpool.Pool, batchSize int, timeout time.Duration) *PostgresSink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if timeout <= 0 {
		timeout = DefaultFlushTimeout
	}

	s := &PostgresSink{
		db:           db,
		batchSize:    batchSize,
		flushTimeout: timeout,
		buffer:       make([]core.Task[string], 0, batchSize),
		flushChan:    make(chan struct{}, 1),
		closeChan:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *PostgresSink) Write(ctx context.Context, task *core.Task[string]) error {
	s.mu.Lock()
	s.buffer = append(s.buffer, *task)
	shouldFlush := len(s.buffer) >= s.batchSize
	s.mu.Unlock()

	if shouldFlush {
		select {
		case s.flushChan <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *PostgresSink) worker() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-s.closeChan:
			s.flush(context.Background())
			return
		case <-s.flushChan:
			s.flush(context.Background())
		case <-ticker.C:
			s.flush(context.Background())
		}
	}
}

func (s *PostgresSink) flush(ctx context.Context) {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	items := s.buffer
	s.buffer = make([]core.Task[string], 0, s.batchSize)
	s.mu.Unlock()

	batch := &pgx.Batch{}
	query := `
		INSERT INTO schedules (job_id, project_title, status, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (job_id) DO UPDATE SET
		    project_title = EXCLUDED.project_title,
		    status = EXCLUDED.status,
		    result = EXCLUDED.result,
		    completed_at = NOW()
	`

	for _, task := range items {
		batch.Queue(query, task.ID, task.Metadata["project_title"], task.Metadata["status"], task.Content, task.CreatedAt)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(items); i++ {
		if _, err := br.Exec(); err != nil {
			log.Printf("[PostgresSink] Batch exec error: %v", err)
		}
	}
}

func (s *PostgresSink) Close() error {
	close(s.closeChan)
	s.wg.Wait()
	return nil
}
