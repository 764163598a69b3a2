package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/efei36/order-matching-engine/pkg/tradesink"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	errNegativeCapacity = errors.New("book.initial_capacity must not be negative")
	errPricePrecision   = errors.New("report.price_precision must be between 0 and 8")
	errBadDelimiter     = errors.New("loader.delimiter must be a single character")
)

type AppConfig struct {
	ServiceName string       `yaml:"service_name"`
	LogLevel    string       `yaml:"log_level"`
	Book        BookConfig   `yaml:"book"`
	Loader      LoaderConfig `yaml:"loader"`
	Report      ReportConfig `yaml:"report"`
	Sinks       SinksConfig  `yaml:"sinks"`
}

type BookConfig struct {
	InitialCapacity int `yaml:"initial_capacity"`
}

type LoaderConfig struct {
	Delimiter string `yaml:"delimiter"`
	TrueToken string `yaml:"true_token"`
}

type ReportConfig struct {
	PricePrecision int32 `yaml:"price_precision"`
	ShowDepth      bool  `yaml:"show_depth"`
}

type SinksConfig struct {
	Kafka *tradesink.KafkaConfig `yaml:"kafka"`
	Redis *tradesink.RedisConfig `yaml:"redis"`
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	return &AppConfig{
		ServiceName: "order-matching-engine",
		LogLevel:    "info",
		Book:        BookConfig{InitialCapacity: 2048},
		Loader:      LoaderConfig{Delimiter: ",", TrueToken: "true"},
		Report:      ReportConfig{PricePrecision: 2},
	}
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}
	if len(filePath) == 0 {
		return Default(), nil
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		sugar.Warnf("Failed to load .env: %v", err)
	}

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := Default()

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, fmt.Errorf("parse config %s: %w", filePath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Book.InitialCapacity < 0 {
		return errNegativeCapacity
	}
	if c.Report.PricePrecision < 0 || c.Report.PricePrecision > 8 {
		return errPricePrecision
	}
	if len([]rune(c.Loader.Delimiter)) != 1 {
		return errBadDelimiter
	}
	return nil
}
