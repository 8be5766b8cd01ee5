package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dvrpc/tp-updater/internal/model"
	"github.com/dvrpc/tp-updater/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = model.DefaultAPIPort
	defaultBasePath     = model.DefaultBasePath
	defaultQueryTimeout = model.DefaultQueryTimeout

	defaultSnapshotInterval = 24 * time.Hour
	defaultSnapshotKeep     = 14
)

// appConfig is internal runtime configuration.
type appConfig struct {
	DBDriver       string        `mapstructure:"db-driver"`
	DBDSN          string        `mapstructure:"db-dsn"`
	CatalogPath    string        `mapstructure:"catalog-path"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	BasePath       string        `mapstructure:"base-path"`
	QueryTimeout   time.Duration `mapstructure:"query-timeout"`
	MetricsEnabled bool          `mapstructure:"metrics-enabled"`

	SnapshotEnabled  bool          `mapstructure:"snapshot-enabled"`
	SnapshotInterval time.Duration `mapstructure:"snapshot-interval"`
	SnapshotDir      string        `mapstructure:"snapshot-dir"`
	SnapshotKeep     int           `mapstructure:"snapshot-keep"`

	ConfigPath string `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	// A missing .env is normal outside development.
	_ = godotenv.Load(".env")

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TP_UPDATER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindEnv("db-dsn", "TP_UPDATER_DB_DSN", "DATABASE_URL"); err != nil {
		return cfg, err
	}

	v.SetDefault("db-driver", "")
	v.SetDefault("db-dsn", "")
	v.SetDefault("catalog-path", "")
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("base-path", defaultBasePath)
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("metrics-enabled", true)
	v.SetDefault("snapshot-enabled", false)
	v.SetDefault("snapshot-interval", defaultSnapshotInterval)
	v.SetDefault("snapshot-dir", filepath.Join(home, ".local", "share", "tp-updater", "snapshots"))
	v.SetDefault("snapshot-keep", defaultSnapshotKeep)

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
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = inferDriver(cfg.DBDSN)
	}
	switch cfg.DBDriver {
	case store.DriverDuckDB:
		if cfg.DBDSN == "" {
			cfg.DBDSN = filepath.Join(home, ".local", "share", "tp-updater", "tp-updater.duckdb")
		}
	case store.DriverPostgres:
		if cfg.DBDSN == "" {
			return cfg, fmt.Errorf("db-driver %s needs db-dsn or DATABASE_URL", cfg.DBDriver)
		}
	default:
		return cfg, fmt.Errorf("invalid db-driver: %q", cfg.DBDriver)
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.QueryTimeout <= 0 {
		return cfg, fmt.Errorf("invalid query-timeout: %s", cfg.QueryTimeout)
	}

	// Expand ~ in file paths
	cfg.DBDSN = expandHome(home, cfg.DBDSN)
	cfg.CatalogPath = expandHome(home, cfg.CatalogPath)
	cfg.SnapshotDir = expandHome(home, cfg.SnapshotDir)

	if cfg.SnapshotEnabled && cfg.DBDriver != store.DriverDuckDB {
		return cfg, fmt.Errorf("snapshot-enabled needs db-driver %s", store.DriverDuckDB)
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	if cfg.BasePath == "/" {
		cfg.BasePath = ""
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

// inferDriver picks Postgres for postgres:// URLs and DuckDB otherwise.
func inferDriver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return store.DriverPostgres
	}
	return store.DriverDuckDB
}

func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
