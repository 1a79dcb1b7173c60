package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const prefix = "chatrescuer"

type Server struct {
	Port           string        `envconfig:"port" default:"3000"`
	DatabaseDriver string        `envconfig:"database_driver" default:"sqlite3"`
	DatabaseURL    string        `envconfig:"database_url" default:"server.db"`
	NATSURL        string        `envconfig:"nats_url"`
	LogLevel       slog.Level    `envconfig:"log_level" default:"debug"`
	SignatureSkew  time.Duration `envconfig:"signature_skew" default:"5m"`
}

type Client struct {
	ServerURL    string        `envconfig:"server_url" default:"http://localhost:3000"`
	PollInterval time.Duration `envconfig:"poll_interval" default:"15s"`
}

// loadDotEnv reads .env into the environment when the file exists.
// Variables already set take precedence.
func loadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load env file: %w", err)
	}
	return nil
}

func LoadServer() (*Server, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	c := &Server{}
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("could not process server config: %w", err)
	}

	switch c.DatabaseDriver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}

	return c, nil
}

func LoadClient() (*Client, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	c := &Client{}
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("could not process client config: %w", err)
	}

	return c, nil
}
