package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configName = "rugby"

// Config holds server settings
type Config struct {
	Addr            string        `mapstructure:"addr"`
	ClientDir       string        `mapstructure:"clientDir"`
	DBPath          string        `mapstructure:"dbPath"`
	LogLevel        string        `mapstructure:"logLevel"`
	LogConsole      bool          `mapstructure:"logConsole"`
	MatchingDelay   float64       `mapstructure:"matchingDelay"`
	BaseURL         string        `mapstructure:"baseURL"`
	MaxRooms        int           `mapstructure:"maxRooms"`
	RoomIdleTimeout time.Duration `mapstructure:"roomIdleTimeout"`
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("clientDir", "../client")
	v.SetDefault("dbPath", "rugby.db")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logConsole", true)
	v.SetDefault("matchingDelay", MatchingDelay)
	v.SetDefault("baseURL", "http://localhost:8080")
	v.SetDefault("maxRooms", 100)
	v.SetDefault("roomIdleTimeout", "2m")
}

// LoadConfig reads rugby.json from dir if present, then applies RUGBY_*
// environment overrides on top of the defaults.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("RUGBY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.MaxRooms <= 0 {
		return Config{}, fmt.Errorf("maxRooms must be positive, got %d", cfg.MaxRooms)
	}
	if cfg.MatchingDelay < 0 {
		cfg.MatchingDelay = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}
