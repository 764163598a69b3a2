package tradesink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/efei36/order-matching-engine/pkg/orderbook"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errRedisConfig = errors.New("redis sink needs connection_url and stream")

type RedisConfig struct {
	ConnectionURL       string `yaml:"connection_url"`
	Stream              string `yaml:"stream"`
	MaxLen              int64  `yaml:"max_len"`
	PoolSize            int    `yaml:"pool_size"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `yaml:"idle_timeout_seconds"`
	ConnectTimeoutMs    int    `yaml:"connect_timeout_ms"`
}

// InitRedis create a redis from config
func InitRedis(redisCfg *RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisCfg.ConnectionURL)
	if err != nil {
		zap.S().Debugf("parse redis url fail: %+v", err)
		return nil, err
	}

	opts.PoolSize = redisCfg.PoolSize
	opts.DialTimeout = time.Duration(redisCfg.DialTimeoutSeconds) * time.Second
	opts.ReadTimeout = time.Duration(redisCfg.ReadTimeoutSeconds) * time.Second
	opts.WriteTimeout = time.Duration(redisCfg.WriteTimeoutSeconds) * time.Second
	opts.ConnMaxIdleTime = time.Duration(redisCfg.IdleTimeoutSeconds) * time.Second

	redisClient := redis.NewClient(opts)

	cmd := redisClient.Ping(context.Background())
	if cmd.Err() != nil {
		_ = redisClient.Close()
		return nil, cmd.Err()
	}

	zap.S().Debug("connect to redis successful")
	return redisClient, nil
}

// InitRedisWithBackoff retries InitRedis until it succeeds or the connect
// timeout elapses.
func InitRedisWithBackoff(redisCfg *RedisConfig) (*redis.Client, error) {
	var client *redis.Client
	boff := backoff.NewExponentialBackOff()
	if redisCfg.ConnectTimeoutMs > 0 {
		boff.MaxElapsedTime = time.Duration(redisCfg.ConnectTimeoutMs) * time.Millisecond
	} else {
		boff.MaxElapsedTime = 10 * time.Second
	}
	err := backoff.Retry(func() error {
		var err error
		client, err = InitRedis(redisCfg)
		if err != nil {
			zap.S().Warnf("connect redis error: %v", err)
		}
		return err
	}, boff)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

type streamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisPublisher appends trades to a Redis stream.
type RedisPublisher struct {
	client streamWriter
	stream string
	maxLen int64
	runID  string
}

func NewRedisPublisher(cfg *RedisConfig, runID string) (*RedisPublisher, error) {
	if cfg == nil || cfg.ConnectionURL == "" || cfg.Stream == "" {
		return nil, errRedisConfig
	}
	client, err := InitRedisWithBackoff(cfg)
	if err != nil {
		return nil, err
	}
	return newRedisPublisher(client, cfg.Stream, cfg.MaxLen, runID), nil
}

func newRedisPublisher(client streamWriter, stream string, maxLen int64, runID string) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream, maxLen: maxLen, runID: runID}
}

func (p *RedisPublisher) Publish(ctx context.Context, symbol string, trades []orderbook.Trade) error {
	for _, m := range NewTradeMessages(p.runID, symbol, trades) {
		args := &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: p.maxLen,
			Approx: p.maxLen > 0,
			Values: streamValues(m),
		}
		if err := p.client.XAdd(ctx, args).Err(); err != nil {
			return fmt.Errorf("xadd trade %d: %w", m.Seq, err)
		}
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

func streamValues(m TradeMessage) map[string]any {
	return map[string]any{
		"run_id":        m.RunID,
		"symbol":        m.Symbol,
		"seq":           m.Seq,
		"buy_order_id":  m.BuyOrderID,
		"sell_order_id": m.SellOrderID,
		"qty":           m.Qty,
	}
}
