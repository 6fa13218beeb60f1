package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode            string        `mapstructure:"mode"`
	Port            int           `mapstructure:"port"`
	StaticPath      string        `mapstructure:"static_path"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	PingPeriod      time.Duration `mapstructure:"ping_period"`
	EventRateLimit  int           `mapstructure:"event_rate_limit"`
	EventRateWindow time.Duration `mapstructure:"event_rate_window"`
	Secret          string        `mapstructure:"secret"`
}

// Load reads config from path, or from config/config.<CONFIG_ENV>.yaml when
// path is empty. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		path = fmt.Sprintf("config/config.%s.yaml", env)
	}

	v.SetConfigFile(path)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("event_rate_limit", 120)
	v.SetDefault("event_rate_window", "1s")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", path).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", path).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
