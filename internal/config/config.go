package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`

	Session struct {
		// Path of the persisted token. Empty keeps the login in memory only.
		Path string `mapstructure:"path"`
	} `mapstructure:"session"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	Serve struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"serve"`

	Output struct {
		Color bool `mapstructure:"color"`
	} `mapstructure:"output"`
}

// HomeDir is where the config file and the session live by default.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".laborctl"
	}
	return filepath.Join(home, ".laborctl")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("session.path", filepath.Join(HomeDir(), "session.json"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("serve.addr", "localhost")
	v.SetDefault("serve.port", "8080")
	v.SetDefault("output.color", true)
}

// LoadConfig reads config.yaml from the working directory or ~/.laborctl and
// overlays LABORCTL_* environment variables, e.g. LABORCTL_API_BASE_URL.
func LoadConfig() (*Config, error) {
	return load(viper.GetViper(), true)
}

func load(v *viper.Viper, readFile bool) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(HomeDir())

	v.SetEnvPrefix("LABORCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if readFile {
		if err := v.ReadInConfig(); err != nil {
			// a missing file is fine, defaults and env vars apply
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
