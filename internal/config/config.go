// Package config loads and validates wattwise configuration.
//
// Configuration lives in ~/.config/wattwise/config.yaml by default. Every
// key has a default, WATTWISE_* environment variables override file
// values, and the Home Assistant token may be kept out of the YAML in a
// token.secret file beside it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// ConfigDirName is the directory under ~/.config holding our files.
	ConfigDirName = "wattwise"
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
	// TokenFileName holds the Home Assistant token when it is kept out
	// of the main config file.
	TokenFileName = "token.secret"
)

// Config is the resolved application configuration.
type Config struct {
	HomeAssistant HomeAssistantConfig `mapstructure:"homeassistant"`
	Kasa          KasaConfig          `mapstructure:"kasa"`
	Display       DisplayConfig       `mapstructure:"display"`
	History       HistoryConfig       `mapstructure:"history"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// HomeAssistantConfig holds hub connection settings.
type HomeAssistantConfig struct {
	Host            string `mapstructure:"host" validate:"omitempty,url"`
	Token           string `mapstructure:"token"`
	DeviceName      string `mapstructure:"device_name"`
	EntityID        string `mapstructure:"entity_id"`
	CurrentEntityID string `mapstructure:"current_entity_id"`
}

// Configured reports whether the hub can be used as a source.
func (h HomeAssistantConfig) Configured() bool {
	return h.Host != "" && h.Token != ""
}

// KasaConfig holds smart-plug connection settings. The local protocol is
// unauthenticated; only the address matters.
type KasaConfig struct {
	DeviceIP string `mapstructure:"device_ip" validate:"omitempty,ip"`
	Alias    string `mapstructure:"alias"`
}

// Configured reports whether the plug can be used as a source.
func (k KasaConfig) Configured() bool {
	return k.DeviceIP != ""
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	Thresholds ThresholdConfig `mapstructure:"thresholds"`

	// MaxScale is the fixed full-scale wattage for bar-chart
	// normalization.
	MaxScale float64 `mapstructure:"max_scale" validate:"gt=0"`
}

// ThresholdConfig maps wattage boundaries to color bands.
type ThresholdConfig struct {
	Warning  float64 `mapstructure:"warning" validate:"gt=0"`
	Critical float64 `mapstructure:"critical" validate:"gt=0,gtefield=Warning"`
}

// HistoryConfig holds history buffer and persistence settings.
type HistoryConfig struct {
	Capacity int `mapstructure:"capacity" validate:"min=2,max=10000"`

	// File overrides the default history persistence path.
	File string `mapstructure:"file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error fatal"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", ConfigDirName, ConfigFileName), nil
}

// Load reads config from path, or from the default location when path is
// empty. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WATTWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		// Missing default config: run on defaults.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.HomeAssistant.Token == "" {
		cfg.HomeAssistant.Token = loadToken(filepath.Dir(path))
	}
	applyEntityDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Namespace()), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("homeassistant.host", "")
	v.SetDefault("homeassistant.token", "")
	v.SetDefault("homeassistant.device_name", "")
	v.SetDefault("homeassistant.entity_id", "")
	v.SetDefault("homeassistant.current_entity_id", "")
	v.SetDefault("kasa.device_ip", "")
	v.SetDefault("kasa.alias", "PC")
	v.SetDefault("display.thresholds.warning", 300.0)
	v.SetDefault("display.thresholds.critical", 1200.0)
	v.SetDefault("display.max_scale", 1800.0)
	v.SetDefault("history.capacity", 100)
	v.SetDefault("history.file", "")
	v.SetDefault("logging.level", "info")
}

// applyEntityDefaults derives sensor entity IDs from the device name when
// they are not set explicitly.
func applyEntityDefaults(cfg *Config) {
	name := cfg.HomeAssistant.DeviceName
	if name == "" {
		return
	}
	if cfg.HomeAssistant.EntityID == "" {
		cfg.HomeAssistant.EntityID = fmt.Sprintf("sensor.%s_current_consumption", name)
	}
	if cfg.HomeAssistant.CurrentEntityID == "" {
		cfg.HomeAssistant.CurrentEntityID = fmt.Sprintf("sensor.%s_current", name)
	}
}

// loadToken reads the token.secret file next to the config file, if any.
func loadToken(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, TokenFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// RedactToken shortens a token for display.
func RedactToken(token string) string {
	if token == "" {
		return "not configured"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
