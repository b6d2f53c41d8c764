package sink

import (
	"context"
	"fmt"

	"github.com/oranjParker/Slateflow/internal/core"
	"github.com/oranjParker/Slateflow/internal/database"
)

// QdrantSink indexes a schedule's strategy vector for similarity search.
type QdrantSink struct {
	client     *database.QdrantClient
	collection string
}

func NewQdrantSink(client *database.QdrantClient, collection string) *QdrantSink {
	return &QdrantSink{
		client:     client,
		collection: collection,
	}
}

func (s *QdrantSink) Write(ctx context.Context, task *core.Task[string]) error {
	val, ok := task.Metadata["vector"]
	if !ok {
		return fmt.Errorf("%w: job %s", core.ErrMissingVector, task.ID)
	}

	vector, ok := val.([]float32)
	if !ok {
		return fmt.Errorf("invalid vector type for job %s", task.ID)
	}

	strategy := ""
	if st, ok := task.Metadata["strategy"].(string); ok {
		strategy = st
	}

	projectTitle := ""
	if pt, ok := task.Metadata["project_title"].(string); ok {
		projectTitle = pt
	}

	if err := s.client.Upsert(ctx, s.collection, task.ID, projectTitle, strategy, vector); err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

func (s *QdrantSink) Close() error {
	return nil
}
