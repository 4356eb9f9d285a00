// Package config loads the console and server settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Console is the configuration of the terminal console.
type Console struct {
	APIBaseURL            string        `env:"API_BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	PageSize              int           `env:"PAGE_SIZE" envDefault:"5" validate:"min=1,max=100"`
	SearchDebounce        time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"500ms"`
	BadgePollInterval     time.Duration `env:"BADGE_POLL_INTERVAL" envDefault:"30s"`
	DashboardPollInterval time.Duration `env:"DASHBOARD_POLL_INTERVAL" envDefault:"15s"`
	HTTPTimeout           time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	// LogFile is required: the terminal is owned by the UI.
	LogFile string `env:"LOG_FILE" envDefault:"enquiry-console.log" validate:"required"`
}

// Server is the configuration of the reference contacts API.
type Server struct {
	Addr string `env:"ADDR" envDefault:":8080" validate:"required"`
	// DatabaseURL selects PostgreSQL. Empty runs the in-memory repository.
	DatabaseURL         string        `env:"DATABASE_URL"`
	FrontendURL         string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000" validate:"required,url"`
	SeedDemo            bool          `env:"SEED_DEMO" envDefault:"false"`
	SubmitRatePerMinute int           `env:"SUBMIT_RATE_PER_MINUTE" envDefault:"5" validate:"min=1"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	// LogFile, if set, sends logs to a rotating file instead of stdout.
	LogFile string `env:"LOG_FILE"`
}

var validate = validator.New()

// LoadConsole reads .env (or the given files) and parses the console settings.
func LoadConsole(files ...string) (Console, error) {
	if err := loadDotEnv(files...); err != nil {
		return Console{}, err
	}
	return parseConsole(env.Options{})
}

// LoadServer reads .env (or the given files) and parses the server settings.
func LoadServer(files ...string) (Server, error) {
	if err := loadDotEnv(files...); err != nil {
		return Server{}, err
	}
	return parseServer(env.Options{})
}

func parseConsole(opts env.Options) (Console, error) {
	cfg, err := env.ParseAsWithOptions[Console](opts)
	if err != nil {
		return Console{}, fmt.Errorf("parse console config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Console{}, err
	}
	return cfg, nil
}

func parseServer(opts env.Options) (Server, error) {
	cfg, err := env.ParseAsWithOptions[Server](opts)
	if err != nil {
		return Server{}, fmt.Errorf("parse server config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Console) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid console config: %w", err)
	}
	if c.SearchDebounce < 0 {
		return errors.New("SEARCH_DEBOUNCE must not be negative")
	}
	if c.BadgePollInterval < time.Second || c.DashboardPollInterval < time.Second {
		return errors.New("poll intervals must be at least 1s")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (s Server) validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	if s.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// loadDotEnv loads env files without overriding variables already set. A missing
// file is not an error.
func loadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
