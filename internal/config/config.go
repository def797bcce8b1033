// Package config loads meshgraph settings from defaults, an optional TOML
// file and MESHGRAPH_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/chazu/meshgraph/pkg/geometry"
	"github.com/chazu/meshgraph/pkg/index"
	"github.com/chazu/meshgraph/pkg/kernel/sdfx"
)

// Index strategies.
const (
	StrategyHash = "hash" // merge every pair of equal positions
	StrategyLRU  = "lru"  // merge only within a bounded recency window
)

// Config holds application configuration.
type Config struct {
	Kernel KernelConfig `mapstructure:"kernel"`
	Index  IndexConfig  `mapstructure:"index"`
	Log    LogConfig    `mapstructure:"log"`
	Engine EngineConfig `mapstructure:"engine"`
}

// KernelConfig holds sdfx tessellation settings.
type KernelConfig struct {
	Cells int `mapstructure:"cells"`
}

// IndexConfig selects how polygon corners are merged into vertices.
type IndexConfig struct {
	Strategy string  `mapstructure:"strategy"`
	Capacity int     `mapstructure:"capacity"`
	Quantum  float64 `mapstructure:"quantum"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// EngineConfig holds script evaluation settings.
type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// MESHGRAPH_. An explicit path must exist; otherwise MESHGRAPH_CONFIG or
// $HOME/.config/meshgraph/config.toml is read if present.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("kernel.cells", sdfx.DefaultCells)
	v.SetDefault("index.strategy", StrategyHash)
	v.SetDefault("index.capacity", index.DefaultLRUCapacity)
	v.SetDefault("index.quantum", 0.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("engine.timeout", "5s")

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv("MESHGRAPH_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "meshgraph"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MESHGRAPH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || (!errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist)) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Kernel.Cells <= 0:
		return fmt.Errorf("config: kernel.cells must be positive, got %d", c.Kernel.Cells)
	case c.Index.Strategy != StrategyHash && c.Index.Strategy != StrategyLRU:
		return fmt.Errorf("config: unknown index.strategy %q", c.Index.Strategy)
	case c.Index.Strategy == StrategyLRU && c.Index.Capacity <= 0:
		return fmt.Errorf("config: index.capacity must be positive, got %d", c.Index.Capacity)
	case c.Index.Quantum < 0:
		return fmt.Errorf("config: index.quantum must not be negative, got %g", c.Index.Quantum)
	case c.Engine.Timeout <= 0:
		return fmt.Errorf("config: engine.timeout must be positive, got %s", c.Engine.Timeout)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// Indexer builds the position indexer selected by the index settings. A
// positive quantum snaps positions to a grid before comparing them.
func (c IndexConfig) Indexer() (index.Indexer[geometry.Position], error) {
	key := geometry.Position.Key
	if c.Quantum > 0 {
		q := c.Quantum
		key = func(p geometry.Position) geometry.PositionKey { return p.QuantizedKey(q) }
	}
	switch c.Strategy {
	case StrategyHash, "":
		return index.NewHashIndexer(key), nil
	case StrategyLRU:
		x, err := index.NewLRUIndexer(c.Capacity, key)
		if err != nil {
			return nil, fmt.Errorf("config: index: %w", err)
		}
		return x, nil
	}
	return nil, fmt.Errorf("config: unknown index.strategy %q", c.Strategy)
}

// Logger returns a logrus logger writing to stderr at the configured level.
func (c LogConfig) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log.level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	return log, nil
}
