package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

const envPrefix = "PERFTDEBUG"

const (
	DefaultReference = "stockfish"
	DefaultEngine    = "./target/debug/chess"
	DefaultDepth     = 5
)

var ErrHelp = pflag.ErrHelp

type Config struct {
	Reference  string        `mapstructure:"ref"`
	Engine     string        `mapstructure:"eng"`
	Depth      int           `mapstructure:"depth"`
	Fen        string        `mapstructure:"fen"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Concurrent bool          `mapstructure:"concurrent"`
	RedisUrl   string        `mapstructure:"redis_url"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	Json       bool          `mapstructure:"json"`
	Progress   bool          `mapstructure:"progress"`
	LogLevel   string        `mapstructure:"log_level"`
}

// Setup resolves the configuration from defaults, an optional config file,
// PERFTDEBUG_* environment variables and command line flags, in increasing
// priority. Positional arguments are joined into the FEN.
func Setup(name string, args []string) (*Config, error) {
	var fs = pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("ref", "r", DefaultReference, "path to reference engine")
	fs.StringP("eng", "e", DefaultEngine, "path to test engine")
	fs.IntP("depth", "d", DefaultDepth, "depth to search")
	fs.StringP("fen", "f", perft.InitialPositionFen, "fen string")
	fs.Duration("timeout", 5*time.Minute, "time limit for one engine query, 0 disables")
	fs.Bool("concurrent", true, "query both engines at the same time")
	fs.String("redis-url", "", "cache reference engine results in redis")
	fs.Duration("cache-ttl", 24*time.Hour, "lifetime of cached reference results")
	fs.Bool("json", false, "print the report as json")
	fs.Bool("progress", false, "show a progress bar on stderr")
	fs.String("log-level", "info", "debug, info, warn or error")
	var configPath = fs.String("config", "", "config file (yaml, toml, json or env)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var v = viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, flag := range map[string]string{
		"ref":        "ref",
		"eng":        "eng",
		"depth":      "depth",
		"fen":        "fen",
		"timeout":    "timeout",
		"concurrent": "concurrent",
		"redis_url":  "redis-url",
		"cache_ttl":  "cache-ttl",
		"json":       "json",
		"progress":   "progress",
		"log_level":  "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %v: %w", *configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		cfg.Fen = strings.Join(fs.Args(), " ")
	}
	cfg.Fen = strings.TrimSpace(cfg.Fen)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Depth < 1 {
		return fmt.Errorf("%w: %d", perft.ErrInvalidDepth, cfg.Depth)
	}
	if cfg.Fen == "" {
		return perft.ErrEmptyRoot
	}
	if cfg.Reference == "" || cfg.Engine == "" {
		return errors.New("engine paths must not be empty")
	}
	if cfg.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}
