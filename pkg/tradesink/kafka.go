package tradesink

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/efei36/order-matching-engine/pkg/orderbook"
	kafka "github.com/segmentio/kafka-go"
)

var errKafkaConfig = errors.New("kafka sink needs brokers and topic")

type KafkaConfig struct {
	Brokers        []string `yaml:"brokers"`
	Topic          string   `yaml:"topic"`
	BatchSize      int      `yaml:"batch_size"`
	BatchTimeoutMs int      `yaml:"batch_timeout_ms"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w     messageWriter
	topic string
	runID string
}

func NewKafkaPublisher(cfg *KafkaConfig, runID string) (*KafkaPublisher, error) {
	if cfg == nil || len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errKafkaConfig
	}
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}
	batchTimeout := time.Duration(cfg.BatchTimeoutMs) * time.Millisecond
	if batchTimeout == 0 {
		batchTimeout = 50 * time.Millisecond
	}
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              batchSize,
		BatchBytes:             1 << 20,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
	}
	return newKafkaPublisher(wr, cfg.Topic, runID), nil
}

func newKafkaPublisher(w messageWriter, topic, runID string) *KafkaPublisher {
	return &KafkaPublisher{w: w, topic: topic, runID: runID}
}

// Publish writes one message per trade, keyed by symbol so a run's trades
// land on one partition in log order.
func (p *KafkaPublisher) Publish(ctx context.Context, symbol string, trades []orderbook.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	msgs, err := kafkaMessages(p.topic, p.runID, symbol, trades)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

func kafkaMessages(topic, runID, symbol string, trades []orderbook.Trade) ([]kafka.Message, error) {
	now := time.Now()
	out := make([]kafka.Message, 0, len(trades))
	for _, m := range NewTradeMessages(runID, symbol, trades) {
		b, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		out = append(out, kafka.Message{
			Topic: topic,
			Key:   []byte(symbol),
			Value: b,
			Headers: []kafka.Header{
				{Key: "run_id", Value: []byte(runID)},
			},
			Time: now,
		})
	}
	return out, nil
}
