package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/redis"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	env.Must(cfg, Load(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine service.
type Config struct {
	Pair       string               `env:"PAIR" envDefault:"BTC-USD"` // Trading pair, e.g., BTC-USD
	App        AppConfig            `envPrefix:"APP_"`
	Engine     EngineConfig         `envPrefix:"ENGINE_"`
	OrderKafka KafkaConfig          `envPrefix:"ORDER_KAFKA_"`
	MatchKafka MatchPublisherConfig `envPrefix:"MATCH_KAFKA_"`
	Redis      redis.Config         `envPrefix:"REDIS_"`
	MarketData MarketDataConfig     `envPrefix:"MARKET_DATA_"`
}

// AppConfig holds process level settings.
type AppConfig struct {
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort        string        `env:"GRPC_PORT" envDefault:"9090"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// EngineConfig holds the order book settings.
type EngineConfig struct {
	MarketRemainderPolicy string        `env:"MARKET_REMAINDER_POLICY" envDefault:"fill"`
	StatsWindow           time.Duration `env:"STATS_WINDOW" envDefault:"24h"`
	RecentTradesLimit     int           `env:"RECENT_TRADES_LIMIT" envDefault:"50"`
	PriceDecimals         int32         `env:"PRICE_DECIMALS" envDefault:"2"`
	QuantityDecimals      int32         `env:"QUANTITY_DECIMALS" envDefault:"8"`
	// MaxPrice and MaxQuantity are in ticks and lots.
	MaxPrice              int64         `env:"MAX_PRICE" envDefault:"1000000000000"`
	MaxQuantity           int64         `env:"MAX_QUANTITY" envDefault:"1000000000000000"`
}

// KafkaConfig holds the configuration for the order command consumer.
type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Topic   string   `env:"TOPIC" envDefault:"orders"`
	GroupID string   `env:"GROUP_ID" envDefault:"matching-engine"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
}

// MatchPublisherConfig holds the configuration for the trade producer.
type MatchPublisherConfig struct {
	Enabled    bool     `env:"ENABLED" envDefault:"false"`
	Topic      string   `env:"TOPIC" envDefault:"matches"`
	Brokers    []string `env:"BROKERS" envDefault:"localhost:9092"`
	BufferSize int      `env:"BUFFER_SIZE" envDefault:"1024"`
}

// MarketDataConfig holds the configuration for the Redis market data fan-out.
type MarketDataConfig struct {
	Enabled     bool `env:"ENABLED" envDefault:"false"`
	DepthLevels int  `env:"DEPTH_LEVELS" envDefault:"20"`
}
