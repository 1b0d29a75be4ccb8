package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/rps-arena/internal/engine"
)

type Config struct {
	TCPAddr    string
	HTTPAddr   string
	OutboxSize int
	LogLevel   string
	DevLogging bool
	Rules      engine.Rules
}

// Load reads an optional .env file, then the ARENA_* environment variables.
// Unset variables keep their defaults; malformed ones are an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	cfg := Config{
		TCPAddr:    ":12345",
		HTTPAddr:   ":8080",
		OutboxSize: 64,
		LogLevel:   "info",
		Rules:      engine.DefaultRules(),
	}

	var errs error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: want a positive integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: want a boolean, got %q", key, v))
				return
			}
			*dst = b
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: want a positive duration, got %q", key, v))
				return
			}
			*dst = d
		}
	}

	str("ARENA_TCP_ADDR", &cfg.TCPAddr)
	str("ARENA_HTTP_ADDR", &cfg.HTTPAddr)
	str("ARENA_LOG_LEVEL", &cfg.LogLevel)
	flag("ARENA_DEV_LOGGING", &cfg.DevLogging)
	num("ARENA_OUTBOX_SIZE", &cfg.OutboxSize)

	num("ARENA_INITIAL_HP", &cfg.Rules.InitialHP)
	num("ARENA_LMS_ROSTER", &cfg.Rules.LMSRoster)
	num("ARENA_SPREE_LENGTH", &cfg.Rules.SpreeLength)
	dur("ARENA_CHALLENGE_TIMEOUT", &cfg.Rules.ChallengeTimeout)
	flag("ARENA_KEEP_DEAD_FORFEITER_MATCHED", &cfg.Rules.KeepDeadForfeiterMatched)
	flag("ARENA_STATUS_ON_IDLE_MOVE", &cfg.Rules.StatusOnIdleMove)

	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}
