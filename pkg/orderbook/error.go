package orderbook

import "errors"

var (
	ErrInvalidMode = errors.New("invalid matching mode")
)
