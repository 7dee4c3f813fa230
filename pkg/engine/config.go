package engine

import (
	"time"

	"github.com/lintang-b-s/dynroute/pkg"
	"github.com/spf13/viper"
)

type Config struct {
	K                  int
	SoftmaxTemperature float64

	WeightAlpha        float64
	WeightBeta         float64
	DefaultLengthKm    float64
	DefaultMaxSpeedKmh float64

	GraphTTL          time.Duration
	GraphFetchTimeout time.Duration
	PathTTL           time.Duration
	PathCapacity      int
	RefreshInterval   time.Duration // 0 disables the background refresher

	Workers int
}

func DefaultConfig() Config {
	return Config{
		K:                  pkg.DEFAULT_K,
		SoftmaxTemperature: pkg.DEFAULT_SOFTMAX_TEMPERATURE,
		WeightAlpha:        pkg.DEFAULT_WEIGHT_ALPHA,
		WeightBeta:         pkg.DEFAULT_WEIGHT_BETA,
		DefaultLengthKm:    pkg.DEFAULT_LENGTH_KM,
		DefaultMaxSpeedKmh: pkg.DEFAULT_MAX_SPEED_KMH,
		GraphTTL:           pkg.DEFAULT_GRAPH_CACHE_TTL_SECOND * time.Second,
		GraphFetchTimeout:  pkg.DEFAULT_GRAPH_FETCH_TIMEOUT_SECOND * time.Second,
		PathTTL:            pkg.DEFAULT_PATH_CACHE_TTL_SECOND * time.Second,
		PathCapacity:       pkg.DEFAULT_PATH_CACHE_CAPACITY,
		RefreshInterval:    0,
		Workers:            8,
	}
}

// NewConfigFromViper reads the routing, weight, cache and planner keys, falling back to DefaultConfig.
func NewConfigFromViper() Config {
	def := DefaultConfig()
	viper.SetDefault("routing.k", def.K)
	viper.SetDefault("routing.softmax_temperature", def.SoftmaxTemperature)
	viper.SetDefault("weight.alpha", def.WeightAlpha)
	viper.SetDefault("weight.beta", def.WeightBeta)
	viper.SetDefault("weight.default_length_km", def.DefaultLengthKm)
	viper.SetDefault("weight.default_max_speed_kmh", def.DefaultMaxSpeedKmh)
	viper.SetDefault("cache.graph_ttl", def.GraphTTL)
	viper.SetDefault("cache.graph_fetch_timeout", def.GraphFetchTimeout)
	viper.SetDefault("cache.path_ttl", def.PathTTL)
	viper.SetDefault("cache.path_capacity", def.PathCapacity)
	viper.SetDefault("cache.refresh_interval", def.RefreshInterval)
	viper.SetDefault("planner.workers", def.Workers)

	return Config{
		K:                  viper.GetInt("routing.k"),
		SoftmaxTemperature: viper.GetFloat64("routing.softmax_temperature"),
		WeightAlpha:        viper.GetFloat64("weight.alpha"),
		WeightBeta:         viper.GetFloat64("weight.beta"),
		DefaultLengthKm:    viper.GetFloat64("weight.default_length_km"),
		DefaultMaxSpeedKmh: viper.GetFloat64("weight.default_max_speed_kmh"),
		GraphTTL:           viper.GetDuration("cache.graph_ttl"),
		GraphFetchTimeout:  viper.GetDuration("cache.graph_fetch_timeout"),
		PathTTL:            viper.GetDuration("cache.path_ttl"),
		PathCapacity:       viper.GetInt("cache.path_capacity"),
		RefreshInterval:    viper.GetDuration("cache.refresh_interval"),
		Workers:            viper.GetInt("planner.workers"),
	}.normalize()
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.K < 1 {
		c.K = def.K
	}
	if c.PathCapacity < 1 {
		c.PathCapacity = def.PathCapacity
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.GraphFetchTimeout <= 0 {
		c.GraphFetchTimeout = def.GraphFetchTimeout
	}
	return c
}
