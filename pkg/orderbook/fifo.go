package orderbook

// MatchFIFO pairs the best bid with the best ask until one side is empty or
// the best bid is priced below the best ask. Both orders of a halting pair
// stay in the book untouched. It returns the number of trades recorded.
func (ob *OrderBook) MatchFIFO() int {
	ob.log.Debug("initiating FIFO order-matching")

	fills := 0
	for ob.bids.Len() > 0 && ob.asks.Len() > 0 {
		if ob.dropExhausted() {
			continue
		}
		if !ob.crossed(FIFO) {
			break
		}

		bid, _ := ob.RemoveBestBid()
		ask, _ := ob.RemoveBestAsk()

		qty := min(bid.Qty, ask.Qty)
		bid.Qty -= qty
		ask.Qty -= qty

		if bid.Qty > 0 {
			ob.Reinsert(bid)
		}
		if ask.Qty > 0 {
			ob.Reinsert(ask)
		}

		ob.recordTrade(bid.ID, ask.ID, qty)
		fills++
	}
	return fills
}
