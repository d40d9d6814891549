package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSStream publishes onto a JetStream stream so notification consumers
// that were offline can replay what they missed.
type NATSStream struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	stream   jetstream.Stream
	consumer jetstream.Consumer
}

type NATSStreamConfig struct {
	URL          string
	StreamName   string   // e.g. "COMANDAS_EVENTS"
	Subjects     []string // subjects captured by the stream
	ConsumerName string   // durable consumer used for replay
	MaxAge       time.Duration
	MaxMsgs      int64 // 0 keeps everything within MaxAge
}

func NewNATSStream(ctx context.Context, cfg NATSStreamConfig) (*NATSStream, error) {
	if len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("stream %s has no subjects", cfg.StreamName)
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("comandas-stream"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamConfig := jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: cfg.Subjects,
		MaxAge:   cfg.MaxAge,
	}
	if cfg.MaxMsgs > 0 {
		streamConfig.MaxMsgs = cfg.MaxMsgs
	}

	stream, err := js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}

	ns := &NATSStream{conn: conn, js: js, stream: stream}

	if cfg.ConsumerName != "" {
		consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
			Name:          cfg.ConsumerName,
			Durable:       cfg.ConsumerName,
			AckPolicy:     jetstream.AckExplicitPolicy,
			DeliverPolicy: jetstream.DeliverAllPolicy,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create/update consumer %s: %w", cfg.ConsumerName, err)
		}
		ns.consumer = consumer
	}

	return ns, nil
}

func (s *NATSStream) Publish(ctx context.Context, topic string, msg []byte) error {
	if _, err := s.js.Publish(ctx, topic, msg); err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}
	return nil
}

// Fetch pulls up to limit pending messages from the durable consumer and
// acknowledges them.
func (s *NATSStream) Fetch(ctx context.Context, limit int) ([]events.StreamMessage, error) {
	if s.consumer == nil {
		return nil, fmt.Errorf("stream has no consumer configured")
	}
	if limit <= 0 {
		limit = 500
	}

	batch, err := s.consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []events.StreamMessage
	for msg := range batch.Messages() {
		meta, err := msg.Metadata()
		if err != nil {
			_ = msg.Ack()
			continue
		}
		messages = append(messages, events.StreamMessage{
			Data:      msg.Data(),
			Sequence:  meta.Sequence.Stream,
			Timestamp: meta.Timestamp.UnixNano(),
		})
		_ = msg.Ack()
	}

	return messages, batch.Error()
}

func (s *NATSStream) Close() error {
	s.conn.Close()
	return nil
}
