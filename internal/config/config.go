// Package config loads plantwatch configuration from a YAML file and
// environment overrides via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/shved/plantwatch/internal/equipment"
)

// Config is the full plantwatch configuration.
type Config struct {
	// Endpoint is the telemetry backend base URL. Empty means run purely
	// on the built-in simulator.
	Endpoint string `mapstructure:"endpoint"`
	// Token is sent as a bearer token on backend requests.
	Token string `mapstructure:"token"`

	PollInterval time.Duration `mapstructure:"poll_interval"`
	HistorySize  int           `mapstructure:"history_size"`
	// DataDir is where daily CSV logs go. Empty selects ~/.plantwatch-data.
	DataDir string `mapstructure:"data_dir"`

	Server ServerConfig `mapstructure:"server"`

	// Fleet lists the machines the simulator generates telemetry for.
	Fleet []equipment.Machine `mapstructure:"fleet"`
}

// ServerConfig controls the `plantwatch serve` simulator backend.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
	// JWTSecret enables bearer-token auth on the API when non-empty.
	JWTSecret string        `mapstructure:"jwt_secret"`
	Interval  time.Duration `mapstructure:"interval"`
}

// DefaultFleet is the demo fleet used when no fleet is configured.
var DefaultFleet = []equipment.Machine{
	{ID: "arm-01", Kind: "robotic_arm"},
	{ID: "cnc-01", Kind: "cnc_machine"},
	{ID: "turbine-01", Kind: "turbine"},
	{ID: "conveyor-01", Kind: "conveyor"},
	{ID: "press-01", Kind: "hydraulic_press"},
	{ID: "reactor-01", Kind: "reactor"},
}

// Load reads configuration from the given directory (looking for
// plantwatch.yaml) plus PLANTWATCH_* environment variables. A missing
// config file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("plantwatch")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("plantwatch")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Fleet) == 0 {
		cfg.Fleet = DefaultFleet
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")
	v.SetDefault("token", "")
	v.SetDefault("poll_interval", 2*time.Second)
	v.SetDefault("history_size", 600)
	v.SetDefault("data_dir", "")
	v.SetDefault("server.listen", ":8090")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.interval", 2*time.Second)
}
