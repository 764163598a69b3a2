package tradesink

import (
	"context"
	"errors"

	"github.com/efei36/order-matching-engine/pkg/orderbook"
)

// Publisher ships the trades of one run to an external system.
type Publisher interface {
	Publish(ctx context.Context, symbol string, trades []orderbook.Trade) error
	Close() error
}

// TradeMessage is the wire form shared by all publishers.
type TradeMessage struct {
	RunID       string `json:"run_id"`
	Symbol      string `json:"symbol"`
	Seq         int    `json:"seq"`
	BuyOrderID  int64  `json:"buy_order_id"`
	SellOrderID int64  `json:"sell_order_id"`
	Qty         int64  `json:"qty"`
}

// NewTradeMessages numbers trades from 1 in log order.
func NewTradeMessages(runID, symbol string, trades []orderbook.Trade) []TradeMessage {
	out := make([]TradeMessage, len(trades))
	for i, t := range trades {
		out[i] = TradeMessage{
			RunID:       runID,
			Symbol:      symbol,
			Seq:         i + 1,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Qty:         t.Qty,
		}
	}
	return out
}

// Multi fans a publish out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, symbol string, trades []orderbook.Trade) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, symbol, trades); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
