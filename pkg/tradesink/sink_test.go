package tradesink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/efei36/order-matching-engine/pkg/orderbook"
	"github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"
)

var sampleTrades = []orderbook.Trade{
	{BuyOrderID: 1, SellOrderID: 2, Qty: 30},
	{BuyOrderID: 1, SellOrderID: 3, Qty: 70},
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeStream struct {
	args   []*redis.XAddArgs
	err    error
	closed bool
}

func (s *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	s.args = append(s.args, a)
	return redis.NewStringResult("0-1", s.err)
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func TestNewTradeMessagesKeepsLogOrder(t *testing.T) {
	msgs := NewTradeMessages("run-1", "ABC", sampleTrades)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Seq != 1 || msgs[0].SellOrderID != 2 || msgs[1].Seq != 2 || msgs[1].Qty != 70 {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if msgs[1].RunID != "run-1" || msgs[1].Symbol != "ABC" {
		t.Errorf("expected run id and symbol on every message, got %+v", msgs[1])
	}
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "trades", "run-1")

	if err := p.Publish(context.Background(), "ABC", sampleTrades); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("expected 2 kafka messages, got %d", len(w.msgs))
	}
	m := w.msgs[1]
	if m.Topic != "trades" || string(m.Key) != "ABC" {
		t.Errorf("unexpected topic/key: %s/%s", m.Topic, m.Key)
	}
	if len(m.Headers) != 1 || m.Headers[0].Key != "run_id" || string(m.Headers[0].Value) != "run-1" {
		t.Errorf("unexpected headers: %+v", m.Headers)
	}
	var decoded TradeMessage
	if err := json.Unmarshal(m.Value, &decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.Seq != 2 || decoded.BuyOrderID != 1 || decoded.SellOrderID != 3 || decoded.Qty != 70 {
		t.Errorf("unexpected payload: %+v", decoded)
	}

	if err := p.Publish(context.Background(), "ABC", nil); err != nil || len(w.msgs) != 2 {
		t.Errorf("empty publish should be a no-op")
	}
	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("expected writer closed")
	}
}

func TestNewKafkaPublisherRequiresConfig(t *testing.T) {
	if _, err := NewKafkaPublisher(&KafkaConfig{Topic: "trades"}, "run"); !errors.Is(err, errKafkaConfig) {
		t.Errorf("expected config error without brokers, got %v", err)
	}
	if _, err := NewKafkaPublisher(nil, "run"); !errors.Is(err, errKafkaConfig) {
		t.Errorf("expected config error for nil config, got %v", err)
	}
}

func TestRedisPublisher(t *testing.T) {
	s := &fakeStream{}
	p := newRedisPublisher(s, "trades", 1000, "run-1")

	if err := p.Publish(context.Background(), "ABC", sampleTrades); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.args) != 2 {
		t.Fatalf("expected 2 XADD calls, got %d", len(s.args))
	}
	a := s.args[0]
	if a.Stream != "trades" || a.MaxLen != 1000 || !a.Approx {
		t.Errorf("unexpected xadd args: %+v", a)
	}
	values := a.Values.(map[string]any)
	if values["seq"] != 1 || values["sell_order_id"] != int64(2) || values["qty"] != int64(30) {
		t.Errorf("unexpected values: %+v", values)
	}
	if err := p.Close(); err != nil || !s.closed {
		t.Errorf("expected client closed")
	}
}

func TestRedisPublisherStopsOnError(t *testing.T) {
	s := &fakeStream{err: errors.New("boom")}
	p := newRedisPublisher(s, "trades", 0, "run-1")

	if err := p.Publish(context.Background(), "ABC", sampleTrades); err == nil {
		t.Fatalf("expected error")
	}
	if len(s.args) != 1 {
		t.Errorf("expected publish to stop after the first failure, got %d calls", len(s.args))
	}
	if s.args[0].Approx {
		t.Errorf("approx trimming needs a max length")
	}
}

func TestNewRedisPublisherRequiresConfig(t *testing.T) {
	if _, err := NewRedisPublisher(&RedisConfig{Stream: "trades"}, "run"); !errors.Is(err, errRedisConfig) {
		t.Errorf("expected config error without url, got %v", err)
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	okWriter := &fakeWriter{}
	badStream := &fakeStream{err: errors.New("down")}
	m := Multi{
		newKafkaPublisher(okWriter, "trades", "run"),
		newRedisPublisher(badStream, "trades", 0, "run"),
	}

	if err := m.Publish(context.Background(), "ABC", sampleTrades); err == nil {
		t.Fatalf("expected joined error")
	}
	if len(okWriter.msgs) != 2 {
		t.Errorf("a failing publisher must not stop the others")
	}
	if err := m.Close(); err != nil || !okWriter.closed || !badStream.closed {
		t.Errorf("expected every publisher closed")
	}
}
