package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/redis"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name   string
		env    map[string]string
		assert func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "BTC-USD", cfg.Pair)
				assert.Equal(t, "info", cfg.App.LogLevel)
				assert.Equal(t, 30*time.Second, cfg.App.ShutdownTimeout)
				assert.Equal(t, "fill", cfg.Engine.MarketRemainderPolicy)
				assert.Equal(t, 24*time.Hour, cfg.Engine.StatsWindow)
				assert.Equal(t, int32(2), cfg.Engine.PriceDecimals)
				assert.Equal(t, int64(1_000_000_000_000_000), cfg.Engine.MaxQuantity)
				assert.False(t, cfg.OrderKafka.Enabled)
				assert.Equal(t, []string{"localhost:9092"}, cfg.OrderKafka.Brokers)
				assert.Equal(t, redis.Standalone, cfg.Redis.Mode)
				assert.Equal(t, "liquid-matrix:", cfg.Redis.PrefixKey)
				assert.Equal(t, 5*time.Minute, cfg.Redis.DefaultTTL)
				assert.Equal(t, 20, cfg.MarketData.DepthLevels)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"PAIR":                           "ETH-USD",
				"ENGINE_MARKET_REMAINDER_POLICY": "cancel",
				"ENGINE_STATS_WINDOW":            "1h",
				"ORDER_KAFKA_ENABLED":            "true",
				"ORDER_KAFKA_BROKERS":            "k1:9092,k2:9092",
				"MATCH_KAFKA_TOPIC":              "eth-trades",
				"REDIS_ADDRS":                    "redis:6379",
				"MARKET_DATA_ENABLED":            "true",
			},
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "ETH-USD", cfg.Pair)
				assert.Equal(t, "cancel", cfg.Engine.MarketRemainderPolicy)
				assert.Equal(t, time.Hour, cfg.Engine.StatsWindow)
				assert.True(t, cfg.OrderKafka.Enabled)
				assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.OrderKafka.Brokers)
				assert.Equal(t, "eth-trades", cfg.MatchKafka.Topic)
				assert.Equal(t, []string{"redis:6379"}, cfg.Redis.Addrs)
				assert.True(t, cfg.MarketData.Enabled)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}
			require.NoError(t, Load(cfg))
			tc.assert(t, cfg)
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENGINE_STATS_WINDOW", "soon")

	assert.Error(t, Load(&Config{}))
}
