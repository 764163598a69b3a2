package orderbook

import "testing"

func newTestBook() *OrderBook {
	return NewOrderBook("test", &Config{InitialCapacity: 16})
}

func buy(id int64, price float64, time int, qty int64) *Order {
	return &Order{ID: id, Symbol: "ABC", Side: BUY, Type: LIMIT, Price: price, Time: time, Qty: qty}
}

func sell(id int64, price float64, time int, qty int64) *Order {
	return &Order{ID: id, Symbol: "ABC", Side: SELL, Type: LIMIT, Price: price, Time: time, Qty: qty}
}

func totalQty(orders []Order) int64 {
	var total int64
	for _, o := range orders {
		total += o.Qty
	}
	return total
}

func expectTrades(t testing.TB, got []Trade, want []Trade) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d trades, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trade %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
