package bow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Term order names accepted by Config.Order.
const (
	OrderLexicographic = "lexicographic"
	OrderLocale        = "locale"
)

var (
	// ErrUnknownTermOrder is returned for an unrecognised Config.Order.
	ErrUnknownTermOrder = errors.New("unknown term order")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config describes how a Model is assembled. It is usually loaded from YAML:
//
//	order: locale
//	locale: de
//	log:
//	  level: debug
//	  format: console
//	metrics:
//	  enabled: true
type Config struct {
	// Order is the term order: "lexicographic" (default) or "locale".
	Order string `yaml:"order"`

	// Locale is the BCP 47 tag used when Order is "locale".
	Locale string `yaml:"locale"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// MetricsConfig toggles Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Order:  OrderLexicographic,
		Locale: "und",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and then applies the
// BOW_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOW_ORDER"); v != "" {
		cfg.Order = v
	}
	if v := os.Getenv("BOW_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("BOW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("BOW_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BOW_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	if _, err := c.TermOrder(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q: %w", ErrInvalidConfig, c.Log.Level, err)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// TermOrder builds the configured term order.
func (c *Config) TermOrder() (TermOrder, error) {
	switch c.Order {
	case "", OrderLexicographic:
		return Lexicographic, nil
	case OrderLocale:
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", c.Locale, err)
		}
		return NewLocaleOrder(tag), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTermOrder, c.Order)
	}
}

// Logger builds a zerolog logger writing to w.
func (c *Config) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	if c.Log.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Options turns the configuration into model options. Log output goes to
// logOut. When metrics are enabled, collectors are registered with reg and
// returned; otherwise the returned *Metrics is nil.
func (c *Config) Options(logOut io.Writer, reg prometheus.Registerer) ([]Option, *Metrics, error) {
	order, err := c.TermOrder()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.Logger(logOut)
	if err != nil {
		return nil, nil, err
	}

	opts := []Option{WithTermOrder(order), WithLogger(logger)}

	var metrics *Metrics
	if c.Metrics.Enabled {
		metrics = NewMetrics(reg)
		opts = append(opts, WithMetrics(metrics))
	}
	return opts, metrics, nil
}
