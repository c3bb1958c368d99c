package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tickbook/domain/orderbook"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Demo       Demo       `yaml:"demo"`
	Simulation Simulation `yaml:"simulation"`
}

// Demo is a fixed list of orders replayed before the simulation.
type Demo struct {
	Enabled bool        `yaml:"enabled"`
	Orders  []DemoOrder `yaml:"orders"`
	Match   []string    `yaml:"match"`
}

type DemoOrder struct {
	Side   string  `yaml:"side"`
	Symbol string  `yaml:"symbol"`
	Qty    int64   `yaml:"qty"`
	Price  float64 `yaml:"price"`
}

type Simulation struct {
	Enabled  bool          `yaml:"enabled"`
	Tickers  []string      `yaml:"tickers"`
	Orders   int           `yaml:"orders"`
	Rounds   int           `yaml:"rounds"`
	Interval time.Duration `yaml:"interval"`
	Workers  int           `yaml:"workers"`
	Seed     uint64        `yaml:"seed"`
	MinQty   int64         `yaml:"min_qty"`
	MaxQty   int64         `yaml:"max_qty"`
	MinPrice int           `yaml:"min_price"`
	MaxPrice int           `yaml:"max_price"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Demo.Enabled = true
	c.Demo.Orders = []DemoOrder{
		{Side: "buy", Symbol: "AAPL", Qty: 10, Price: 100},
		{Side: "sell", Symbol: "AAPL", Qty: 5, Price: 98},
		{Side: "sell", Symbol: "AAPL", Qty: 5, Price: 101},
	}
	c.Demo.Match = []string{"AAPL"}
	c.Simulation = DefaultSimulation()
	return c
}

// DefaultSimulation is a small run: a handful of tickers,
// ten orders, quantities 1..50 and integer prices 90..110.
func DefaultSimulation() Simulation {
	return Simulation{
		Enabled:  true,
		Tickers:  []string{"ONYM", "AAPL", "TSLA", "GOOG", "MSFT"},
		Orders:   10,
		Rounds:   1,
		Interval: 0,
		Workers:  1,
		Seed:     0,
		MinQty:   1,
		MaxQty:   50,
		MinPrice: 90,
		MaxPrice: 110,
	}
}

// Load builds the config from defaults, the YAML file named by
// TICKBOOK_CONFIG and TICKBOOK_* environment overrides, then validates
// it.
func Load() (Config, error) {
	c := defaultConfig()
	if path := os.Getenv("TICKBOOK_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TICKBOOK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TICKBOOK_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TICKBOOK_LOG_PRETTY: %w", err)
		}
		c.Logging.Pretty = b
	}
	if v := os.Getenv("TICKBOOK_SIM_TICKERS"); v != "" {
		c.Simulation.Tickers = splitCSV(v)
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{
		{"TICKBOOK_SIM_ORDERS", &c.Simulation.Orders},
		{"TICKBOOK_SIM_ROUNDS", &c.Simulation.Rounds},
		{"TICKBOOK_SIM_WORKERS", &c.Simulation.Workers},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		*e.dst = n
	}
	if v := os.Getenv("TICKBOOK_SIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TICKBOOK_SIM_SEED: %w", err)
		}
		c.Simulation.Seed = n
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	for i, o := range c.Demo.Orders {
		if _, err := orderbook.ParseSide(o.Side); err != nil {
			return fmt.Errorf("%w: demo order %d: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

func (s Simulation) Validate() error {
	switch {
	case len(s.Tickers) == 0:
		return fmt.Errorf("%w: simulation needs at least one ticker", ErrInvalid)
	case s.Orders <= 0:
		return fmt.Errorf("%w: simulation orders must be positive, got %d", ErrInvalid, s.Orders)
	case s.Rounds <= 0:
		return fmt.Errorf("%w: simulation rounds must be positive, got %d", ErrInvalid, s.Rounds)
	case s.Workers <= 0:
		return fmt.Errorf("%w: simulation workers must be positive, got %d", ErrInvalid, s.Workers)
	case s.Interval < 0:
		return fmt.Errorf("%w: simulation interval must not be negative", ErrInvalid)
	case s.MinQty < 1:
		return fmt.Errorf("%w: min_qty must be at least 1, got %d", ErrInvalid, s.MinQty)
	case s.MinQty > s.MaxQty:
		return fmt.Errorf("%w: min_qty %d above max_qty %d", ErrInvalid, s.MinQty, s.MaxQty)
	case s.MinPrice > s.MaxPrice:
		return fmt.Errorf("%w: min_price %d above max_price %d", ErrInvalid, s.MinPrice, s.MaxPrice)
	case !spanFits(s.MinPrice, s.MaxPrice):
		return fmt.Errorf("%w: price range %d..%d too wide", ErrInvalid, s.MinPrice, s.MaxPrice)
	}
	return nil
}

// spanFits reports whether hi-lo+1 is a positive int, which is what
// the simulator draws prices from. Requires lo <= hi.
func spanFits(lo, hi int) bool {
	span := hi - lo
	return span >= 0 && span < math.MaxInt
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
