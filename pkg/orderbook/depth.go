package orderbook

import "github.com/google/btree"

// PriceLevel aggregates the resting orders of one side at one price.
type PriceLevel struct {
	Price  float64
	Orders int
	Qty    int64
}

type MarketDepth struct {
	Bids []PriceLevel // highest price first
	Asks []PriceLevel // lowest price first
}

// Depth aggregates both sides by price level, best level first.
func (ob *OrderBook) Depth() MarketDepth {
	return MarketDepth{
		Bids: aggregateLevels(ob.bids.orders, true),
		Asks: aggregateLevels(ob.asks.orders, false),
	}
}

func aggregateLevels(orders []*Order, descending bool) []PriceLevel {
	tree := btree.NewG[*PriceLevel](8, func(a, b *PriceLevel) bool { return a.Price < b.Price })
	for _, o := range orders {
		level, ok := tree.Get(&PriceLevel{Price: o.Price})
		if !ok {
			level = &PriceLevel{Price: o.Price}
			tree.ReplaceOrInsert(level)
		}
		level.Orders++
		level.Qty += o.Qty
	}

	out := make([]PriceLevel, 0, tree.Len())
	collect := func(l *PriceLevel) bool {
		out = append(out, *l)
		return true
	}
	if descending {
		tree.Descend(collect)
	} else {
		tree.Ascend(collect)
	}
	return out
}
