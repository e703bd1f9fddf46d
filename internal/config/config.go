// Package config loads application settings from configs/config.yml, a .env
// file and OVEN_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "OVEN"

// Config is the resolved application configuration.
type Config struct {
	Port string

	DB struct {
		Path string
	}
	Log struct {
		Level string
	}
	Oven struct {
		Tick      time.Duration
		Simulated bool
	}
	Telemetry struct {
		Interval time.Duration
	}
	MQTT struct {
		Broker      string
		ClientID    string
		TopicPrefix string
	}
	Auth struct {
		SigningKey string
		TokenTTL   time.Duration
	}
	Sim struct {
		AmbientC float64
		NoiseC   float64
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("oven.tick", 100*time.Millisecond)
	v.SetDefault("oven.simulated", true)
	v.SetDefault("telemetry.interval", 2*time.Second)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "reflow-oven")
	v.SetDefault("mqtt.topic_prefix", "reflow/oven")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("sim.ambient_c", 27.0)
	v.SetDefault("sim.noise_c", 0.0)
}

// Load reads configuration. dir is searched for config.yml; a missing file
// is not an error. A .env file in the working directory is applied to the
// environment first if present.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{Port: v.GetString("port")}
	cfg.DB.Path = v.GetString("db.path")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Oven.Tick = v.GetDuration("oven.tick")
	cfg.Oven.Simulated = v.GetBool("oven.simulated")
	cfg.Telemetry.Interval = v.GetDuration("telemetry.interval")
	cfg.MQTT.Broker = v.GetString("mqtt.broker")
	cfg.MQTT.ClientID = v.GetString("mqtt.client_id")
	cfg.MQTT.TopicPrefix = v.GetString("mqtt.topic_prefix")
	cfg.Auth.SigningKey = v.GetString("auth.signing_key")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.Sim.AmbientC = v.GetFloat64("sim.ambient_c")
	cfg.Sim.NoiseC = v.GetFloat64("sim.noise_c")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the oven unsafe or the API unusable.
func (c *Config) Validate() error {
	// The controller must tick faster than the regulator's 1 s sample period.
	if c.Oven.Tick <= 0 || c.Oven.Tick >= time.Second {
		return fmt.Errorf("oven.tick must be in (0, 1s), got %s", c.Oven.Tick)
	}
	if c.Telemetry.Interval <= 0 {
		return fmt.Errorf("telemetry.interval must be positive, got %s", c.Telemetry.Interval)
	}
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if !c.Oven.Simulated {
		return errors.New("oven.simulated=false: no hardware actuator is available in this build")
	}
	return nil
}
