package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/efei36/order-matching-engine/pkg/orderbook"
	"github.com/shopspring/decimal"
)

type Config struct {
	PricePrecision int32
	ShowDepth      bool
}

type Reporter struct {
	w   io.Writer
	cfg Config
}

func NewReporter(w io.Writer, cfg Config) *Reporter {
	return &Reporter{w: w, cfg: cfg}
}

// Write drains the trade log of book, prints the trades oldest first and
// then the remaining book. The drained trades are returned so they can be
// handed to publishers.
func (r *Reporter) Write(book *orderbook.OrderBook) ([]orderbook.Trade, error) {
	trades := book.DrainTrades()
	if err := r.WriteTrades(trades); err != nil {
		return trades, err
	}

	if _, err := fmt.Fprintln(r.w, "\nDisplaying remaining contents of the order book:"); err != nil {
		return trades, err
	}
	if err := r.WriteBook(book.Snapshot()); err != nil {
		return trades, err
	}

	if r.cfg.ShowDepth {
		if err := r.WriteDepth(book.Depth()); err != nil {
			return trades, err
		}
	}
	return trades, nil
}

func (r *Reporter) WriteTrades(trades []orderbook.Trade) error {
	for _, t := range trades {
		_, err := fmt.Fprintf(r.w, "    ORDER PROCESSED:   Buyer ID: %d,   Amount filled: %d,   Seller ID: %d\n",
			t.BuyOrderID, t.Qty, t.SellOrderID)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteBook prints asks from the highest price down, then bids from the
// best down, so the spread sits in the middle of the table.
func (r *Reporter) WriteBook(snap orderbook.Snapshot) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Id\tSide\tTime\tQty\tPrice\tQty\tTime\tSide\t")

	for i := len(snap.Asks) - 1; i >= 0; i-- {
		o := snap.Asks[i]
		fmt.Fprintf(tw, "#%d\t\t\t\t%s\t%d\t%s\tSELL\t\n", o.ID, r.price(o.Price), o.Qty, FormatTime(o.Time))
	}
	for _, o := range snap.Bids {
		fmt.Fprintf(tw, "#%d\tBUY\t%s\t%d\t%s\t\t\t\t\n", o.ID, FormatTime(o.Time), o.Qty, r.price(o.Price))
	}
	return tw.Flush()
}

func (r *Reporter) WriteDepth(depth orderbook.MarketDepth) error {
	if _, err := fmt.Fprintln(r.w, "\nMarket depth:"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Side\tPrice\tOrders\tQty\t")
	for i := len(depth.Asks) - 1; i >= 0; i-- {
		l := depth.Asks[i]
		fmt.Fprintf(tw, "SELL\t%s\t%d\t%d\t\n", r.price(l.Price), l.Orders, l.Qty)
	}
	for _, l := range depth.Bids {
		fmt.Fprintf(tw, "BUY\t%s\t%d\t%d\t\n", r.price(l.Price), l.Orders, l.Qty)
	}
	return tw.Flush()
}

func (r *Reporter) price(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(r.cfg.PricePrecision)
}

// FormatTime renders an HHMM integer as HH:MM. Values are not range checked;
// negative ones are printed as is.
func FormatTime(hhmm int) string {
	if hhmm < 0 {
		return strconv.Itoa(hhmm)
	}
	return fmt.Sprintf("%02d:%02d", hhmm/100, hhmm%100)
}
