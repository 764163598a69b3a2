package orderbook

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

type OrderType string

const (
	LIMIT  OrderType = "LIMIT"
	MARKET OrderType = "MARKET" // carried only, matched by its stored price like a limit
)

// Order is one resting order. Everything except Qty is fixed once the order
// is inserted; Qty is the remaining quantity and only the matchers change it.
type Order struct {
	ID     int64
	Symbol string
	Side   Side
	Type   OrderType
	Price  float64
	Time   int // HHMM, used for ranking only
	Qty    int64
}

func (o *Order) IsBuy() bool {
	return o.Side == BUY
}

func (o *Order) IsMarket() bool {
	return o.Type == MARKET
}

// bidLess ranks bids by highest price, then earliest time.
func bidLess(a, b *Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Time < b.Time
}

// askLess ranks asks by lowest price, then earliest time.
func askLess(a, b *Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Time < b.Time
}
