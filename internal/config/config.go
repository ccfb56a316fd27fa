package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/jurybot.db"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"json"`

	// Token is the Telegram bot token; it also names the webhook path.
	Token string `env:"TOKEN,required,notEmpty"`
	// WebhookURL is the public base URL. Empty means long polling.
	WebhookURL string `env:"WEBHOOK_URL"`

	// RedisURL enables the Redis document mirror when set.
	RedisURL string `env:"REDIS_URL"`

	Cloudinary Cloudinary `envPrefix:"CLOUDINARY_"`

	// Initial secrets. Values already stored in the document win.
	PasswordPopular   string `env:"PASSWORD_POPULAR" envDefault:"1234"`
	PasswordTechnical string `env:"PASSWORD_TECHNICAL" envDefault:"5678"`
	PasswordOwner     string `env:"PASSWORD_OWNER" envDefault:"9999"`
	BcryptCost        int    `env:"BCRYPT_COST" envDefault:"10"`

	// ArtistsFile seeds an empty roster from YAML.
	ArtistsFile string `env:"ARTISTS_FILE"`
}

type Cloudinary struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
}

// Enabled reports whether all three credentials are present.
func (c Cloudinary) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Load reads an optional .env file and then parses the environment. Variables
// already set in the environment take precedence over the file.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Logger builds the process logger. LOG_FORMAT=text switches from JSON to
// the text handler.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
