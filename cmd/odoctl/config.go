package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type config struct {
	Port     string        `mapstructure:"port"`
	BaudRate int           `mapstructure:"baud_rate"`
	Parity   string        `mapstructure:"parity"`
	StopBits int           `mapstructure:"stop_bits"`
	UnitID   uint8         `mapstructure:"unit_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// loadConfig reads the yaml config, with ODO_* environment variables
// overriding file values. A missing file falls back to defaults.
func loadConfig(path string) (*config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("port", "/dev/ttyUSB0")
	v.SetDefault("baud_rate", 9600)
	v.SetDefault("parity", "E")
	v.SetDefault("stop_bits", 1)
	v.SetDefault("unit_id", 1)
	v.SetDefault("timeout", "3s")

	v.SetEnvPrefix("ODO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
