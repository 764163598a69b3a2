package orderbook

import (
	"math"
	"math/bits"

	"go.uber.org/zap"
)

// MatchProRata matches the best bid against every ask it can trade with,
// one price level at a time from the cheapest. Inside a level each ask gets
// at most ceil(buyAtLevelStart * askQty / levelTotal), clamped to its own
// quantity and to what is left of the bid. Asks earlier in the level win
// when rounding up leaves too little for the later ones.
//
// It returns the number of trades recorded.
func (ob *OrderBook) MatchProRata() int {
	ob.log.Debug("initiating Pro-Rata order-matching")

	fills := 0
	for ob.bids.Len() > 0 && ob.asks.Len() > 0 {
		if ob.dropExhausted() {
			continue
		}
		if !ob.crossed(PRORATA) {
			break
		}

		bid, _ := ob.RemoveBestBid()
		matching := ob.collectAsks(bid.Price)

		remaining := bid.Qty
		for start := 0; start < len(matching) && remaining > 0; {
			end := levelEnd(matching, start)
			remaining, fills = ob.fillLevel(bid, matching[start:end], remaining, fills)
			start = end
		}

		for _, ask := range matching {
			if ask.Qty > 0 {
				ob.Reinsert(ask)
			}
		}

		bid.Qty = remaining
		if remaining > 0 {
			ob.Reinsert(bid)
		}
	}
	return fills
}

// collectAsks pops every ask priced at or below limit, cheapest first. The
// returned slice aliases the book's scratch buffer and is only valid until
// the next call.
func (ob *OrderBook) collectAsks(limit float64) []*Order {
	ob.scratch = ob.scratch[:0]
	for {
		ask, ok := ob.asks.Peek()
		if !ok {
			ob.log.Debug("all remaining sell orders are being filled")
			break
		}
		if ask.Price > limit {
			break
		}
		ob.RemoveBestAsk()
		if ask.Qty <= 0 {
			continue
		}
		ob.scratch = append(ob.scratch, ask)
	}
	return ob.scratch
}

// levelEnd returns the index just past the run of asks sharing the price of
// asks[start].
func levelEnd(asks []*Order, start int) int {
	end := start + 1
	for end < len(asks) && asks[end].Price == asks[start].Price {
		end++
	}
	return end
}

// fillLevel allocates remaining across one price level. level is never
// empty and every ask in it has a positive quantity, so total > 0.
func (ob *OrderBook) fillLevel(bid *Order, level []*Order, remaining int64, fills int) (int64, int) {
	var total uint64
	for _, ask := range level {
		sum, carry := bits.Add64(total, uint64(ask.Qty), 0)
		if carry != 0 {
			sum = math.MaxUint64
		}
		total = sum
	}

	ob.log.Debug("pro-rata price level",
		zap.Float64("price", level[0].Price),
		zap.Int("orders", len(level)),
		zap.Uint64("level_total", total),
		zap.Int64("buy_remaining", remaining),
	)

	before := remaining
	for _, ask := range level {
		qty := min(remaining, ask.Qty, proRataShare(before, ask.Qty, total))
		remaining -= qty
		ask.Qty -= qty

		ob.recordTrade(bid.ID, ask.ID, qty)
		fills++

		if remaining == 0 {
			break
		}
	}
	return remaining, fills
}

// proRataShare returns ceil(before*qty/total) using a 128-bit product. total
// saturates at MaxUint64 and is never below qty, so the result is in
// [1, before] whenever before and qty are positive.
func proRataShare(before, qty int64, total uint64) int64 {
	hi, lo := bits.Mul64(uint64(before), uint64(qty))
	lo, carry := bits.Add64(lo, total-1, 0)
	q, _ := bits.Div64(hi+carry, lo, total)
	return int64(q)
}
