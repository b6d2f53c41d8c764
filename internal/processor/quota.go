package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/oranjParker/Slateflow/internal/core"
	"github.com/redis/go-redis/v9"
)

const (
	SeenPrefix  = "job_seen:"
	QuotaPrefix = "schedule_quota:"
	SeenTTL     = 24 * time.Hour
)

// RedisClient covers the redis operations the quota guard needs, so tests
// can swap in a fake.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// QuotaProcessor drops redelivered jobs it has already seen and enforces a
// per-project daily cap on LLM-backed generations. Every generation costs
// real quota upstream; a misbehaving client must not burn the whole tier.
type QuotaProcessor struct {
	Redis         RedisClient
	MaxPerProject int64
}

func NewQuotaProcessor(rdb RedisClient, maxPerProject int64) *QuotaProcessor {
	if maxPerProject <= 0 {
		maxPerProject = 50
	}
	return &QuotaProcessor{
		Redis:         rdb,
		MaxPerProject: maxPerProject,
	}
}

func (p *QuotaProcessor) Process(ctx context.Context, task *core.Task[string]) ([]*core.Task[string], error) {
	seenKey := SeenPrefix + task.ID
	isNew, err := p.Redis.SetNX(ctx, seenKey, "1", SeenTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis seen check failed: %w", err)
	}
	if !isNew {
		// Duplicate delivery of a job another worker already took.
		task.DoAck()
		return nil, nil
	}

	project, _ := task.Metadata["project_title"].(string)
	if project == "" {
		project = "unknown"
	}
	quotaKey := QuotaPrefix + time.Now().UTC().Format("2006-01-02")

	script := `
		local current = tonumber(redis.call("HGET", KEYS[1], ARGV[1]) or "0")
		if current >= tonumber(ARGV[2]) then
			return -1
		end
		return redis.call("HINCRBY", KEYS[1], ARGV[1], 1)
	`
	res, err := p.Redis.Eval(ctx, script, []string{quotaKey}, project, p.MaxPerProject).Int64()
	if err != nil {
		p.Redis.Del(ctx, seenKey)
		return nil, err
	}
	if res == -1 {
		task.DoAck()
		return nil, fmt.Errorf("%w: project %q", core.ErrQuotaExceeded, project)
	}

	return []*core.Task[string]{task}, nil
}
