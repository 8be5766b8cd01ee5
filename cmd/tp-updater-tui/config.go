package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvrpc/tp-updater/internal/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL        = "http://127.0.0.1:8000" + model.DefaultBasePath
	defaultRequestTimeout = model.DefaultRequestTimeout
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	BaseURL        string        `mapstructure:"base-url"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	CatalogPath    string        `mapstructure:"catalog-path"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	_ = godotenv.Load(".env")

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TP_UPDATER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("base-url", defaultBaseURL)
	v.SetDefault("request-timeout", defaultRequestTimeout)
	v.SetDefault("catalog-path", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "tp-updater", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return cfg, fmt.Errorf("invalid base-url: %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("invalid request-timeout: %s", cfg.RequestTimeout)
	}
	if strings.HasPrefix(cfg.CatalogPath, "~/") {
		cfg.CatalogPath = filepath.Join(home, cfg.CatalogPath[2:])
	}

	return cfg, nil
}
