package orderbook

import "fmt"

type Mode int

const (
	FIFO    Mode = 1
	PRORATA Mode = 2
)

func (m Mode) String() string {
	switch m {
	case FIFO:
		return "FIFO"
	case PRORATA:
		return "PRORATA"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the command line selector: "1" for FIFO, "2" for
// pro-rata.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "1":
		return FIFO, nil
	case "2":
		return PRORATA, nil
	}
	return 0, fmt.Errorf("%w: %q (FIFO: 1, Pro-Rata: 2)", ErrInvalidMode, s)
}

// Match runs the matcher selected by mode and returns the number of trades
// it recorded.
func (ob *OrderBook) Match(mode Mode) (int, error) {
	switch mode {
	case FIFO:
		return ob.MatchFIFO(), nil
	case PRORATA:
		return ob.MatchProRata(), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
}
