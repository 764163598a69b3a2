// file: pkg/orderbook/orderbook.go

package orderbook

import (
	"container/heap"

	"github.com/gammazero/deque"
	"go.uber.org/zap"
)

const DefaultInitialCapacity = 2048

type Config struct {
	// InitialCapacity pre-sizes each side so reinsertion churn does not grow
	// the backing slices.
	InitialCapacity int
	// Logger receives debug events from the matchers. Nil disables them.
	Logger *zap.Logger
}

type OrderBook struct {
	symbol string

	bids *OrderHeap
	asks *OrderHeap

	trades deque.Deque[Trade]

	// scratch holds asks collected by one pro-rata step
	scratch []*Order

	callbacks []func(Trade)

	log *zap.Logger
}

func NewOrderBook(symbol string, cfg *Config) *OrderBook {
	if cfg == nil {
		cfg = &Config{}
	}
	capacity := cfg.InitialCapacity
	if capacity <= 0 {
		capacity = DefaultInitialCapacity
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrderBook{
		symbol:  symbol,
		bids:    NewOrderHeap(bidLess, capacity),
		asks:    NewOrderHeap(askLess, capacity),
		scratch: make([]*Order, 0, capacity),
		log:     logger.With(zap.String("symbol", symbol)),
	}
}

func (ob *OrderBook) Symbol() string {
	return ob.symbol
}

// RegisterTradeCallback adds fn to the observers called synchronously on
// every recorded fill.
func (ob *OrderBook) RegisterTradeCallback(fn func(Trade)) {
	ob.callbacks = append(ob.callbacks, fn)
}

// Insert places the order on the side given by order.Side. Price, quantity
// and id are not validated.
func (ob *OrderBook) Insert(order *Order) {
	if order.IsBuy() {
		heap.Push(ob.bids, order)
		return
	}
	heap.Push(ob.asks, order)
}

// Reinsert puts back an order that was removed and partially filled. Its
// price and time are unchanged so it keeps its original priority.
func (ob *OrderBook) Reinsert(order *Order) {
	ob.Insert(order)
}

func (ob *OrderBook) PeekBestBid() (*Order, bool) {
	return ob.bids.Peek()
}

func (ob *OrderBook) PeekBestAsk() (*Order, bool) {
	return ob.asks.Peek()
}

func (ob *OrderBook) RemoveBestBid() (*Order, bool) {
	if ob.bids.Len() == 0 {
		return nil, false
	}
	return heap.Pop(ob.bids).(*Order), true
}

func (ob *OrderBook) RemoveBestAsk() (*Order, bool) {
	if ob.asks.Len() == 0 {
		return nil, false
	}
	return heap.Pop(ob.asks).(*Order), true
}

func (ob *OrderBook) BidCount() int {
	return ob.bids.Len()
}

func (ob *OrderBook) AskCount() int {
	return ob.asks.Len()
}

// TradeCount is the number of trades recorded and not yet drained.
func (ob *OrderBook) TradeCount() int {
	return ob.trades.Len()
}

// PopTrade removes and returns the oldest trade in the log.
func (ob *OrderBook) PopTrade() (Trade, bool) {
	if ob.trades.Len() == 0 {
		return Trade{}, false
	}
	return ob.trades.PopFront(), true
}

// DrainTrades empties the trade log, oldest first.
func (ob *OrderBook) DrainTrades() []Trade {
	out := make([]Trade, 0, ob.trades.Len())
	for ob.trades.Len() > 0 {
		out = append(out, ob.trades.PopFront())
	}
	return out
}

// Snapshot is a ranked, non-destructive view of the resting orders.
type Snapshot struct {
	Bids []Order // best first
	Asks []Order // best first
}

func (ob *OrderBook) Snapshot() Snapshot {
	return Snapshot{
		Bids: copyOrders(ob.bids.Ranked()),
		Asks: copyOrders(ob.asks.Ranked()),
	}
}

func copyOrders(orders []*Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = *o
	}
	return out
}

func (ob *OrderBook) recordTrade(buyID, sellID, qty int64) {
	t := Trade{BuyOrderID: buyID, SellOrderID: sellID, Qty: qty}
	ob.trades.PushBack(t)

	ob.log.Debug("order processed",
		zap.Int64("buy_id", buyID),
		zap.Int64("sell_id", sellID),
		zap.Int64("qty", qty),
	)

	for _, cb := range ob.callbacks {
		cb(t)
	}
}

// dropExhausted discards top orders that have nothing left to fill. Such
// orders can only come from Insert, which does not validate quantity.
func (ob *OrderBook) dropExhausted() bool {
	dropped := false
	for {
		bid, ok := ob.bids.Peek()
		if !ok || bid.Qty > 0 {
			break
		}
		heap.Pop(ob.bids)
		dropped = true
	}
	for {
		ask, ok := ob.asks.Peek()
		if !ok || ask.Qty > 0 {
			break
		}
		heap.Pop(ob.asks)
		dropped = true
	}
	return dropped
}

// crossed reports whether the tops of both sides can trade. It logs the
// halt when they cannot.
func (ob *OrderBook) crossed(mode Mode) bool {
	bid, _ := ob.bids.Peek()
	ask, _ := ob.asks.Peek()
	if bid.Price >= ask.Price {
		return true
	}
	ob.log.Debug("best buy price does not fulfill best sell price",
		zap.Stringer("mode", mode),
		zap.Int64("bid_id", bid.ID),
		zap.Float64("bid_price", bid.Price),
		zap.Int64("ask_id", ask.ID),
		zap.Float64("ask_price", ask.Price),
	)
	return false
}
