package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oranjParker/Slateflow/internal/core"
)

// NatsSource streams schedule jobs from a JetStream subject. Acks are
// explicit: a job is only acknowledged after the pipeline has written its
// result, so a crashed worker redelivers instead of losing the job.
type NatsSource struct {
	JS      nats.JetStreamContext
	Subject string
	Queue   string
}

func NewNatsSource(js nats.JetStreamContext, subject, queue string) *NatsSource {
	return &NatsSource{
		JS:      js,
		Subject: subject,
		Queue:   queue,
	}
}

func (n *NatsSource) Stream(ctx context.Context) (<-chan *core.Task[string], error) {
	out := make(chan *core.Task[string])

	sub, err := n.JS.QueueSubscribeSync(n.Subject, n.Queue, nats.AckExplicit())
	if err != nil {
		return nil, fmt.Errorf("nats subscription failed: %w", err)
	}

	if err := sub.SetPendingLimits(10000, 256*1024*1024); err != nil {
		log.Printf("[Jobs Source] Warning: Could not set pending limits: %v", err)
	}

	go func() {
		defer close(out)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := sub.NextMsg(time.Second)
				if err != nil {
					if errors.Is(err, nats.ErrTimeout) {
						continue
					}
					log.Printf("[Jobs Source] NextMsg error: %v", err)
					continue
				}

				var task core.Task[string]
				if err := json.Unmarshal(msg.Data, &task); err != nil {
					log.Printf("[Jobs Source] Malformed JSON, terminating msg: %v", err)
					msg.Term()
					continue
				}

				if task.Metadata == nil {
					task.Metadata = make(map[string]any)
				}

				var once sync.Once
				task.Ack = func() {
					once.Do(func() {
						if err := msg.Ack(); err != nil {
							log.Printf("[Jobs Source] Failed to Ack msg for %s: %v", task.ID, err)
						}
					})
				}

				select {
				case out <- &task:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
