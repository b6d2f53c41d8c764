package database

import (
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsConn bundles the raw connection with its JetStream context. Job and
// result traffic both run over JetStream so redeliveries survive worker
// restarts.
type NatsConn struct {
	Conn *nats.Conn
	JS   nats.JetStreamContext
}

func NewNatsConnection() (*NatsConn, error) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	nc, err := nats.Connect(url,
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	return &NatsConn{
		Conn: nc,
		JS:   js,
	}, nil
}

// EnsureStreams provisions the streams the scheduling pipeline publishes to.
// Safe to call from every binary on startup; existing streams are left alone.
func (n *NatsConn) EnsureStreams() error {
	streams := []*nats.StreamConfig{
		{
			Name:      "SCHEDULE",
			Subjects:  []string{"schedule.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
		},
		{
			Name:      "VECTOR",
			Subjects:  []string{"vector.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
		},
	}

	for _, cfg := range streams {
		if _, err := n.JS.StreamInfo(cfg.Name); err == nil {
			continue
		}
		if _, err := n.JS.AddStream(cfg); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (n *NatsConn) Close() {
	if n.Conn != nil {
		n.Conn.Close()
	}
}
