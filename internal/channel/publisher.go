package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Config holds the NATS connection settings for the outbound publisher.
type Config struct {
	URL     string
	Subject string
}

// OutboundChunk is the wire payload for one reply chunk. Seq and Total let
// the consumer reassemble or display chunks in order.
type OutboundChunk struct {
	To    string `json:"to"`
	Body  string `json:"body"`
	Seq   int    `json:"seq"`
	Total int    `json:"total"`
}

// Publisher pushes reply chunks to the delivery channel over NATS.
// Publishing is fire-and-forget; a lost chunk is recoverable by the client
// re-asking, so no stream retention is required.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect establishes the NATS connection for the publisher.
func Connect(cfg Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{conn: nc, subject: cfg.Subject}, nil
}

// SendReply splits a formatted reply and publishes one message per chunk to
// the configured subject. The context bounds the final flush.
func (p *Publisher) SendReply(ctx context.Context, to, reply string) error {
	chunks := Split(reply)
	total := len(chunks)
	for i, body := range chunks {
		payload, err := json.Marshal(OutboundChunk{To: to, Body: body, Seq: i + 1, Total: total})
		if err != nil {
			return fmt.Errorf("marshal chunk %d: %w", i+1, err)
		}
		if err := p.conn.Publish(p.subject, payload); err != nil {
			return fmt.Errorf("publish chunk %d/%d: %w", i+1, total, err)
		}
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Close drains the connection so buffered chunks are delivered before
// shutdown.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
