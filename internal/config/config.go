package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const EnvPrefix = "COLLAB"

type Config struct {
	Mode           string `mapstructure:"mode" validate:"oneof=debug release test"`
	Port           int    `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel       string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	Secret         string `mapstructure:"secret" validate:"required,min=16"`
	InternalAPIKey string `mapstructure:"internal_api_key"`
	BadgerPath     string `mapstructure:"badger_path"`

	ReadLimit    int64         `mapstructure:"read_limit" validate:"min=512"`
	PingPeriod   time.Duration `mapstructure:"ping_period" validate:"gt=0"`
	PongWait     time.Duration `mapstructure:"pong_wait" validate:"gtfield=PingPeriod"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	SendBuffer   int           `mapstructure:"send_buffer" validate:"min=1"`
	TokenTTL     time.Duration `mapstructure:"token_ttl" validate:"gt=0"`

	RecentLimit      int `mapstructure:"recent_limit" validate:"min=1,max=500"`
	MaxMessageLength int `mapstructure:"max_message_length" validate:"min=1"`

	MessageRate  float64 `mapstructure:"message_rate" validate:"min=0"`
	MessageBurst int     `mapstructure:"message_burst" validate:"min=1"`
	TypingRate   float64 `mapstructure:"typing_rate" validate:"min=0"`
	TypingBurst  int     `mapstructure:"typing_burst" validate:"min=1"`

	NotifyWorkers int `mapstructure:"notify_workers" validate:"min=1"`
	NotifyQueue   int `mapstructure:"notify_queue" validate:"min=1"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Load reads .env, then config/config.<CONFIG_ENV>.yaml, then COLLAB_* variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg(".env not loaded")
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile is Load without the .env step. A missing file falls back to defaults.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("badger", cfg.BadgerPath).Msg("config ready")
	return &cfg, nil
}

// Every key needs a default, otherwise AutomaticEnv cannot reach it through Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "")
	v.SetDefault("internal_api_key", "")
	v.SetDefault("badger_path", "./data")

	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_timeout", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("token_ttl", "24h")

	v.SetDefault("recent_limit", 50)
	v.SetDefault("max_message_length", 5000)

	v.SetDefault("message_rate", 5)
	v.SetDefault("message_burst", 10)
	v.SetDefault("typing_rate", 2)
	v.SetDefault("typing_burst", 4)

	v.SetDefault("notify_workers", 4)
	v.SetDefault("notify_queue", 1024)

	v.SetDefault("shutdown_timeout", "5s")
}
