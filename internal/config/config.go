package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"urlintel/internal/log"
)

const (
	APP_ENV                = "APP_ENV"
	LISTEN_ADDR            = "LISTEN_ADDR"
	METRICS_ADDR           = "METRICS_ADDR"
	PPROF_ADDR             = "PPROF_ADDR"
	LOG_LEVEL              = "LOG_LEVEL"
	FETCH_TIMEOUT          = "FETCH_TIMEOUT"
	PROBE_TIMEOUT          = "PROBE_TIMEOUT"
	WHOIS_TIMEOUT          = "WHOIS_TIMEOUT"
	ANALYZE_TIMEOUT        = "ANALYZE_TIMEOUT"
	WHOIS_QPS              = "WHOIS_QPS"
	WHOIS_CACHE_TTL        = "WHOIS_CACHE_TTL"
	MAX_BODY_BYTES         = "MAX_BODY_BYTES"
	USER_AGENT             = "USER_AGENT"
	BLOCK_PRIVATE_NETWORKS = "BLOCK_PRIVATE_NETWORKS"
)

// DefaultUserAgent mimics a desktop browser; some sites reject default client identifiers.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Config struct {
	Env                  string        `mapstructure:"APP_ENV"`
	ListenAddr           string        `mapstructure:"LISTEN_ADDR"`
	MetricsAddr          string        `mapstructure:"METRICS_ADDR"`
	PprofAddr            string        `mapstructure:"PPROF_ADDR"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
	FetchTimeout         time.Duration `mapstructure:"FETCH_TIMEOUT"`
	ProbeTimeout         time.Duration `mapstructure:"PROBE_TIMEOUT"`
	WhoisTimeout         time.Duration `mapstructure:"WHOIS_TIMEOUT"`
	AnalyzeTimeout       time.Duration `mapstructure:"ANALYZE_TIMEOUT"`
	WhoisQPS             float64       `mapstructure:"WHOIS_QPS"`
	WhoisCacheTTL        time.Duration `mapstructure:"WHOIS_CACHE_TTL"`
	MaxBodyBytes         int64         `mapstructure:"MAX_BODY_BYTES"`
	UserAgent            string        `mapstructure:"USER_AGENT"`
	BlockPrivateNetworks bool          `mapstructure:"BLOCK_PRIVATE_NETWORKS"`
}

var AppConfig *Config

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"env":           APP_ENV,
	"listen":        LISTEN_ADDR,
	"metrics-addr":  METRICS_ADDR,
	"log-level":     LOG_LEVEL,
	"fetch-timeout": FETCH_TIMEOUT,
	"whois-timeout": WHOIS_TIMEOUT,
	"block-private": BLOCK_PRIVATE_NETWORKS,
}

// Load reads configuration from the optional env file at path, the process
// environment and any bound flags, in increasing order of precedence.
// A missing env file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			log.Logger.Debug("config file not found, using environment", zap.String("path", path))
		}
	}

	v.AutomaticEnv()

	v.SetDefault(APP_ENV, "prod")
	v.SetDefault(LISTEN_ADDR, ":8080")
	v.SetDefault(METRICS_ADDR, ":8081")
	v.SetDefault(PPROF_ADDR, ":6060")
	v.SetDefault(LOG_LEVEL, "info")
	v.SetDefault(FETCH_TIMEOUT, 10*time.Second)
	v.SetDefault(PROBE_TIMEOUT, 5*time.Second)
	v.SetDefault(WHOIS_TIMEOUT, 10*time.Second)
	v.SetDefault(ANALYZE_TIMEOUT, 30*time.Second)
	v.SetDefault(WHOIS_QPS, 2.0)
	v.SetDefault(WHOIS_CACHE_TTL, time.Duration(0))
	v.SetDefault(MAX_BODY_BYTES, int64(10<<20))
	v.SetDefault(USER_AGENT, DefaultUserAgent)
	v.SetDefault(BLOCK_PRIVATE_NETWORKS, true)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}

// IsDev reports whether development-only facilities (pprof, console logs) are on.
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) validate() error {
	switch {
	case c.ListenAddr == "":
		return errors.New("config: LISTEN_ADDR must be set")
	case c.FetchTimeout <= 0:
		return fmt.Errorf("config: FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	case c.ProbeTimeout <= 0:
		return fmt.Errorf("config: PROBE_TIMEOUT must be positive, got %s", c.ProbeTimeout)
	case c.WhoisTimeout <= 0:
		return fmt.Errorf("config: WHOIS_TIMEOUT must be positive, got %s", c.WhoisTimeout)
	case c.AnalyzeTimeout < c.FetchTimeout:
		return fmt.Errorf("config: ANALYZE_TIMEOUT (%s) must not be shorter than FETCH_TIMEOUT (%s)", c.AnalyzeTimeout, c.FetchTimeout)
	case c.WhoisQPS < 0:
		return fmt.Errorf("config: WHOIS_QPS must not be negative, got %v", c.WhoisQPS)
	case c.WhoisCacheTTL < 0:
		return fmt.Errorf("config: WHOIS_CACHE_TTL must not be negative, got %s", c.WhoisCacheTTL)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}
