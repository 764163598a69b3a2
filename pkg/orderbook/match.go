package orderbook

// Trade is one fill. It copies ids and quantity out of the book, so later
// changes to the orders never alter recorded history.
type Trade struct {
	BuyOrderID  int64
	SellOrderID int64
	Qty         int64
}
