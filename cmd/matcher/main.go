package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/efei36/order-matching-engine/config"
	"github.com/efei36/order-matching-engine/pkg/loader"
	"github.com/efei36/order-matching-engine/pkg/logging"
	"github.com/efei36/order-matching-engine/pkg/orderbook"
	"github.com/efei36/order-matching-engine/pkg/report"
	"github.com/efei36/order-matching-engine/pkg/tradesink"
	"go.uber.org/zap"
)

const usage = `usage: matcher [-config-file PATH] <input-file> <ticker> <mode>
    input-file   delimited file of orders, first line is a header
    ticker       instrument label for the book
    mode         1 for FIFO, 2 for Pro-Rata`

var errUsage = errors.New("incorrect arguments")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configFile string
	inputPath  string
	ticker     string
	mode       orderbook.Mode
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("matcher", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config-file", "", "Specify config file path")
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}

	if fs.NArg() != 3 {
		return nil, fmt.Errorf("%w: need 3 positional arguments, got %d", errUsage, fs.NArg())
	}
	mode, err := orderbook.ParseMode(fs.Arg(2))
	if err != nil {
		return nil, err
	}
	opts.inputPath = fs.Arg(0)
	opts.ticker = fs.Arg(1)
	opts.mode = mode
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n%s\n", err, usage)
		return 2
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: load config: %v\n", err)
		return 1
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.NewLogger(level).With(
		zap.String("service", cfg.ServiceName),
		zap.String("symbol", opts.ticker),
	)
	defer logger.Sync() // nolint

	book := orderbook.NewOrderBook(opts.ticker, &orderbook.Config{
		InitialCapacity: cfg.Book.InitialCapacity,
		Logger:          logger.Zap().With(zap.String("run_id", runID)),
	})

	delim, _ := utf8.DecodeRuneInString(cfg.Loader.Delimiter)
	n, err := loader.LoadInto(book, opts.inputPath, loader.Options{
		Delimiter: delim,
		TrueToken: cfg.Loader.TrueToken,
	})
	if err != nil {
		logger.Error(ctx, "load orders failed", zap.String("path", opts.inputPath), zap.Error(err))
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	logger.Info(ctx, "orders loaded", zap.Int("orders", n), zap.Int("bids", book.BidCount()), zap.Int("asks", book.AskCount()))

	fmt.Fprintf(stdout, "Initiating %s order-matching\n", modeName(opts.mode))
	fills, err := book.Match(opts.mode)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	logger.Info(ctx, "matching finished", zap.Stringer("mode", opts.mode), zap.Int("trades", fills))

	reporter := report.NewReporter(stdout, report.Config{
		PricePrecision: cfg.Report.PricePrecision,
		ShowDepth:      cfg.Report.ShowDepth,
	})
	trades, err := reporter.Write(book)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: write report: %v\n", err)
		return 1
	}

	if err := publish(ctx, logger, cfg, runID, opts.ticker, trades); err != nil {
		logger.Error(ctx, "publish trades failed", zap.Error(err))
		fmt.Fprintf(stderr, "ERROR: publish trades: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "\nProgram finished")
	return 0
}

func modeName(m orderbook.Mode) string {
	if m == orderbook.PRORATA {
		return "Pro-Rata"
	}
	return "FIFO"
}

// publish sends the drained trades to every configured sink. With no sink
// configured it does nothing.
func publish(ctx context.Context, logger *logging.Logger, cfg *config.AppConfig, runID, symbol string, trades []orderbook.Trade) error {
	var sinks tradesink.Multi
	if cfg.Sinks.Kafka != nil {
		p, err := tradesink.NewKafkaPublisher(cfg.Sinks.Kafka, runID)
		if err != nil {
			return err
		}
		sinks = append(sinks, p)
	}
	if cfg.Sinks.Redis != nil {
		p, err := tradesink.NewRedisPublisher(cfg.Sinks.Redis, runID)
		if err != nil {
			_ = sinks.Close()
			return err
		}
		sinks = append(sinks, p)
	}
	if len(sinks) == 0 {
		return nil
	}
	defer sinks.Close() // nolint

	if err := sinks.Publish(ctx, symbol, trades); err != nil {
		return err
	}
	logger.Info(ctx, "trades published", zap.Int("sinks", len(sinks)), zap.Int("trades", len(trades)))
	return nil
}
