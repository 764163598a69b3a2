package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/efei36/order-matching-engine/pkg/orderbook"
	"github.com/shopspring/decimal"
)

const fieldsPerRecord = 7

type Options struct {
	Delimiter rune
	TrueToken string
}

func defaultOptions() Options {
	return Options{Delimiter: ',', TrueToken: "true"}
}

// Load reads a header line followed by one order per line:
//
//	instrument,id,is_market,is_buy,price,time,quantity
//
// Any malformed line fails the whole load.
func Load(r io.Reader, opts Options) ([]*orderbook.Order, error) {
	def := defaultOptions()
	if opts.Delimiter == 0 {
		opts.Delimiter = def.Delimiter
	}
	if opts.TrueToken == "" {
		opts.TrueToken = def.TrueToken
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var orders []*orderbook.Order
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &RecordError{Line: pe.Line, Err: pe.Err}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		order, err := parseRecord(rec, line, opts.TrueToken)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts Options) ([]*orderbook.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the given file: %w", err)
	}
	defer f.Close()

	return Load(f, opts)
}

// LoadInto loads path and inserts every order into book. The book is left
// untouched when loading fails.
func LoadInto(book *orderbook.OrderBook, path string, opts Options) (int, error) {
	orders, err := LoadFile(path, opts)
	if err != nil {
		return 0, err
	}
	for _, o := range orders {
		book.Insert(o)
	}
	return len(orders), nil
}

func parseRecord(rec []string, line int, trueToken string) (*orderbook.Order, error) {
	if len(rec) != fieldsPerRecord {
		return nil, &RecordError{
			Line: line,
			Err:  fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, fieldsPerRecord, len(rec)),
		}
	}
	fieldErr := func(field, value string, err error) error {
		return &RecordError{Line: line, Field: field, Value: value, Err: err}
	}

	id, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
	if err != nil {
		return nil, fieldErr("order_id", rec[1], err)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(rec[4]))
	if err != nil {
		return nil, fieldErr("price", rec[4], err)
	}
	tm, err := strconv.Atoi(strings.TrimSpace(rec[5]))
	if err != nil {
		return nil, fieldErr("time", rec[5], err)
	}
	// quantities are 32-bit so per-level sums stay far from int64 limits
	qty, err := strconv.ParseInt(strings.TrimSpace(rec[6]), 10, 32)
	if err != nil {
		return nil, fieldErr("quantity", rec[6], err)
	}

	order := &orderbook.Order{
		ID:     id,
		Symbol: strings.TrimSpace(rec[0]),
		Side:   orderbook.SELL,
		Type:   orderbook.LIMIT,
		Price:  price.InexactFloat64(),
		Time:   tm,
		Qty:    qty,
	}
	if isTrue(rec[2], trueToken) {
		order.Type = orderbook.MARKET
	}
	if isTrue(rec[3], trueToken) {
		order.Side = orderbook.BUY
	}
	return order, nil
}

func isTrue(token, trueToken string) bool {
	return strings.EqualFold(strings.TrimSpace(token), trueToken)
}
