package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/efei36/order-matching-engine/pkg/orderbook"
)

const (
	minPrice = 100.0
	maxPrice = 110.0
	minQty   = 1
	maxQty   = 100
)

func randomOrder(r *rand.Rand, id int64) *orderbook.Order {
	side := orderbook.BUY
	if r.Intn(2) == 0 {
		side = orderbook.SELL
	}
	price := minPrice + r.Float64()*(maxPrice-minPrice)

	return &orderbook.Order{
		ID:     id,
		Symbol: "ABC",
		Side:   side,
		Type:   orderbook.LIMIT,
		Price:  float64(int(price*100)) / 100, // round to 2 decimals
		Time:   r.Intn(24)*100 + r.Intn(60),
		Qty:    int64(r.Intn(maxQty-minQty+1) + minQty),
	}
}

func main() {
	var (
		numOrders int
		seed      int64
	)
	flag.IntVar(&numOrders, "orders", 1_000_000, "number of random orders")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	for _, mode := range []orderbook.Mode{orderbook.FIFO, orderbook.PRORATA} {
		r := rand.New(rand.NewSource(seed))
		ob := orderbook.NewOrderBook("ABC", &orderbook.Config{InitialCapacity: numOrders})

		totalMatched := 0
		totalQty := int64(0)
		ob.RegisterTradeCallback(func(t orderbook.Trade) {
			totalMatched++
			totalQty += t.Qty
			if totalMatched <= 5 {
				log.Printf("Match: BUY[%d] <=> SELL[%d] Qty %d\n", t.BuyOrderID, t.SellOrderID, t.Qty)
			}
		})

		for i := 0; i < numOrders; i++ {
			ob.Insert(randomOrder(r, int64(i+1)))
		}

		start := time.Now()
		if _, err := ob.Match(mode); err != nil {
			log.Fatal(err)
		}
		elapsed := time.Since(start)

		fmt.Println("--------")
		fmt.Printf("Mode              : %v\n", mode)
		fmt.Printf("Total Orders      : %d\n", numOrders)
		fmt.Printf("Total Matches     : %d\n", totalMatched)
		fmt.Printf("Total Matched Qty : %d\n", totalQty)
		fmt.Printf("Resting Bids/Asks : %d/%d\n", ob.BidCount(), ob.AskCount())
		fmt.Printf("Time Taken        : %s\n", elapsed)
	}
}
