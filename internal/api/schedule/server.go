package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/oranjParker/Slateflow/internal/core"
	"github.com/oranjParker/Slateflow/internal/importer"
	"github.com/oranjParker/Slateflow/internal/scheduler"
	"github.com/oranjParker/Slateflow/internal/search"
	"github.com/oranjParker/Slateflow/pkg/trie"
)

const (
	JobsSubject    = "schedule.jobs"
	ResultsSubject = "schedule.results"
	VectorSubject  = "vector.jobs"

	scheduleCacheTTL = 10 * time.Minute
)

type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type JetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Server exposes the scheduling HTTP API: enqueue a breakdown, read back the
// generated schedule, import breakdowns from HTML, and a couple of
// convenience lookups.
type Server struct {
	db       DBExecutor
	nats     JetStreamPublisher
	rdb      *redis.Client
	names    *trie.Trie
	searcher *search.SimilarSearcher
}

func NewServer(db DBExecutor, js JetStreamPublisher, rdb *redis.Client, searcher *search.SimilarSearcher) *Server {
	return &Server{
		db:       db,
		nats:     js,
		rdb:      rdb,
		names:    trie.NewTrie(),
		searcher: searcher,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/schedules", s.CreateSchedule)
		v1.GET("/schedules/similar", s.Similar)
		v1.GET("/schedules/:id", s.GetSchedule)
		v1.POST("/breakdowns/import", s.ImportBreakdown)
		v1.GET("/suggest", s.Suggest)
	}

	return r
}

func (s *Server) CreateSchedule(c *gin.Context) {
	var col scheduler.SceneCollection
	if err := c.ShouldBindJSON(&col); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid breakdown payload"})
		return
	}
	if len(col.ShootingSchedule.Scenes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shooting_schedule.scenes is required"})
		return
	}

	ctx := c.Request.Context()
	jobID := uuid.New().String()

	query := `
		INSERT INTO schedule_jobs (id, project_title, scene_count, status, created_at)
		VALUES ($1, $2, $3, 'PENDING', NOW())
	`
	_, err := s.db.Exec(ctx, query, jobID, col.ProjectTitle, len(col.ShootingSchedule.Scenes))
	if err != nil {
		log.Printf("[API] Failed to persist job: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal database error"})
		return
	}

	content, err := json.Marshal(&col)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to marshal breakdown"})
		return
	}

	task := &core.Task[string]{
		ID:        jobID,
		Source:    "api",
		Content:   string(content),
		CreatedAt: time.Now(),
		Metadata: map[string]any{
			"project_title": col.ProjectTitle,
		},
	}

	payload, err := json.Marshal(task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to marshal job payload"})
		return
	}

	if _, err := s.nats.Publish(JobsSubject, payload); err != nil {
		_, _ = s.db.Exec(ctx, "UPDATE schedule_jobs SET status = 'FAILED' WHERE id = $1", jobID)
		log.Printf("[API] Failed to queue job %s: %v", jobID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to queue job"})
		return
	}

	s.names.InsertAll(col.Locations()...)
	s.names.InsertAll(col.ActorNames()...)

	log.Printf("[API] Job Queued: %s (%d scenes)", jobID, len(col.ShootingSchedule.Scenes))

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "QUEUED",
	})
}

func (s *Server) GetSchedule(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	cacheKey := "schedule:" + id

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	var status, result string
	err := s.db.QueryRow(ctx, "SELECT status, result FROM schedules WHERE job_id = $1", id).
		Scan(&status, &result)

	if errors.Is(err, pgx.ErrNoRows) {
		var jobStatus string
		err := s.db.QueryRow(ctx, "SELECT status FROM schedule_jobs WHERE id = $1", id).Scan(&jobStatus)
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown job id"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job_id": id, "status": jobStatus})
		return
	}
	if err != nil {
		log.Printf("[API] Schedule lookup failed for %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal database error"})
		return
	}

	body, err := json.Marshal(gin.H{
		"job_id":   id,
		"status":   status,
		"schedule": json.RawMessage(result),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode schedule"})
		return
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, cacheKey, body, scheduleCacheTTL).Err(); err != nil {
			log.Printf("[API] Cache write failed for %s: %v", id, err)
		}
	}

	c.Data(http.StatusOK, "application/json", body)
}

func (s *Server) ImportBreakdown(c *gin.Context) {
	col, err := importer.ParseBreakdown(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("breakdown import failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, col)
}

func (s *Server) Suggest(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []string{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": s.names.Autocomplete(prefix, limit)})
}

func (s *Server) Similar(c *gin.Context) {
	if s.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "similarity search not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit, err := strconv.ParseUint(c.DefaultQuery("limit", "5"), 10, 64)
	if err != nil {
		limit = 5
	}

	matches, err := s.searcher.Similar(c.Request.Context(), query, limit)
	if err != nil {
		log.Printf("[API] Similarity search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "similarity search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
