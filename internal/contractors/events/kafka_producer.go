package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

const (
	queueSize         = 1000
	defaultMaxRetries = 3
	writeTimeout      = 10 * time.Second
)

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka from a background loop. Produce never
// blocks: when the queue is full the event is dropped with a warning.
type Producer struct {
	writer     KafkaWriter
	events     chan Event
	logger     *zap.Logger
	closeChan  chan struct{}
	done       chan struct{}
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)
	go p.eventLoop()
	return p
}

func newProducer(w KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:     w,
		events:     make(chan Event, queueSize),
		logger:     logger.Named("kafka_producer"),
		closeChan:  make(chan struct{}),
		done:       make(chan struct{}),
		maxRetries: defaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 5 * time.Second
			return b
		},
	}
}

// EnsureTopic creates topic on the cluster behind broker if it is missing.
func EnsureTopic(broker, topic string, partitions int, logger *zap.Logger) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("dial kafka %s: %w", broker, err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err), zap.String("topic", topic))
	}
	return nil
}

func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("contractor_id", event.ContractorID),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.send(event)
		case <-p.closeChan:
			// Flush what was queued before Close.
			for {
				select {
				case event := <-p.events:
					p.send(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) send(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	p.sendEvent(ctx, event)
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("contractor_id", event.ContractorID),
		)
		return
	}
	msg := kafka.Message{
		Key:   []byte(event.ContractorID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.newBackOff(), p.maxRetries), ctx)
	err = backoff.RetryNotify(func() error {
		return p.writer.WriteMessages(ctx, msg)
	}, b, func(err error, wait time.Duration) {
		p.logger.Warn("Retrying event write",
			zap.Error(err),
			zap.Duration("backoff", wait),
			zap.String("event_type", string(event.Type)),
		)
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("contractor_id", event.ContractorID),
		)
	}
}

// Close stops accepting new work, flushes the queue and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
