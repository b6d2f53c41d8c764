package search

import (
	"context"
	"fmt"

	"github.com/oranjParker/Slateflow/internal/database"
)

// Match is a previously generated schedule whose strategy resembles the
// query.
type Match struct {
	JobID        string  `json:"job_id"`
	ProjectTitle string  `json:"project_title"`
	Strategy     string  `json:"strategy"`
	Score        float32 `json:"score"`
}

// SimilarSearcher looks up past productions whose scheduling strategy is
// close to a free-text description of the shoot at hand.
type SimilarSearcher struct {
	Embedder   *Embedder
	Qdrant     *database.QdrantClient
	Collection string
}

func NewSimilarSearcher(embedder *Embedder, qdrant *database.QdrantClient, collection string) *SimilarSearcher {
	if collection == "" {
		collection = database.SchedulesCollection
	}
	return &SimilarSearcher{
		Embedder:   embedder,
		Qdrant:     qdrant,
		Collection: collection,
	}
}

func (s *SimilarSearcher) Similar(ctx context.Context, query string, limit uint64) ([]Match, error) {
	if limit == 0 {
		limit = 5
	}

	vector, err := s.Embedder.ComputeEmbeddings(ctx, query, true)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	points, err := s.Qdrant.Query(ctx, s.Collection, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	matches := make([]Match, 0, len(points))
	for _, p := range points {
		m := Match{Score: p.Score}
		payload := p.Payload
		if v, ok := payload["job_id"]; ok {
			m.JobID = v.GetStringValue()
		}
		if v, ok := payload["project_title"]; ok {
			m.ProjectTitle = v.GetStringValue()
		}
		if v, ok := payload["strategy"]; ok {
			m.Strategy = v.GetStringValue()
		}
		matches = append(matches, m)
	}

	return matches, nil
}
