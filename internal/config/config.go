// Package config reads server settings from flags, falling back to
// CHESS_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	ClockTime     time.Duration
	MatchInterval time.Duration
	LogLevel      string
	LogFormat     string
}

// Load parses args (without the program name). getenv supplies defaults,
// normally os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	clock, err := envDuration(env, "CHESS_CLOCK", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	interval, err := envDuration(env, "CHESS_MATCH_INTERVAL", time.Second)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", env("CHESS_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", env("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	fs.DurationVar(&cfg.ClockTime, "clock", clock, "time per side")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", interval, "matchmaking and clock check period")
	fs.StringVar(&cfg.LogLevel, "log-level", env("CHESS_LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", env("CHESS_LOG_FORMAT", "text"), "text or json")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func envDuration(env func(string, string) string, key string, def time.Duration) (time.Duration, error) {
	v := env(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.ClockTime <= 0 {
		errs = append(errs, fmt.Errorf("clock must be positive, got %v", c.ClockTime))
	}
	if c.MatchInterval <= 0 {
		errs = append(errs, fmt.Errorf("match interval must be positive, got %v", c.MatchInterval))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, _ := c.level()
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
