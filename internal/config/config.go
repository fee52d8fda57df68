package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/npspulse/internal/utils"
)

const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// Config is the resolved runtime configuration. File values are applied
// first, then environment overrides.
type Config struct {
	HTTP    HTTPConfig
	Store   StoreConfig
	Logging LoggingConfig
	Export  ExportConfig
	Build   BuildInfo
}

type HTTPConfig struct {
	Addr            string
	StaticDir       string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Driver        string // csv|sqlite
	DataPath      string // CSV data file, also the legacy import source for sqlite
	SQLitePath    string
	MigrationsDir string
}

type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

type ExportConfig struct {
	LinkSecret string
	LinkTTL    time.Duration
}

type BuildInfo struct {
	Commit    string
	BuildTime string
}

// fileConfig mirrors the YAML schema.
type fileConfig struct {
	HTTP struct {
		Addr            string   `yaml:"addr"`
		StaticDir       string   `yaml:"static_dir"`
		AllowedOrigins  []string `yaml:"allowed_origins"`
		ReadTimeout     string   `yaml:"read_timeout"`
		WriteTimeout    string   `yaml:"write_timeout"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Store struct {
		Driver        string `yaml:"driver"`
		DataPath      string `yaml:"data_path"`
		SQLitePath    string `yaml:"sqlite_path"`
		MigrationsDir string `yaml:"migrations_dir"`
	} `yaml:"store"`
	Logging struct {
		Level         string `yaml:"level"`
		Format        string `yaml:"format"`
		IncludeCaller bool   `yaml:"include_caller"`
	} `yaml:"logging"`
	Export struct {
		LinkSecret string `yaml:"link_secret"`
		LinkTTL    string `yaml:"link_ttl"`
	} `yaml:"export"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:     DriverCSV,
			DataPath:   "data/nps_responses.csv",
			SQLitePath: "data/nps.db",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Export:  ExportConfig{LinkTTL: 15 * time.Minute},
	}
}

// Load resolves configuration from an optional YAML file and the environment.
// An empty path falls back to NPS_CONFIG; a missing file is not an error when
// the path came from neither.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("NPS_CONFIG")
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	setString(&cfg.HTTP.Addr, fc.HTTP.Addr)
	setString(&cfg.HTTP.StaticDir, fc.HTTP.StaticDir)
	if len(fc.HTTP.AllowedOrigins) > 0 {
		cfg.HTTP.AllowedOrigins = fc.HTTP.AllowedOrigins
	}
	if err := setDuration(&cfg.HTTP.ReadTimeout, fc.HTTP.ReadTimeout, "http.read_timeout"); err != nil {
		return err
	}
	if err := setDuration(&cfg.HTTP.WriteTimeout, fc.HTTP.WriteTimeout, "http.write_timeout"); err != nil {
		return err
	}
	if err := setDuration(&cfg.HTTP.ShutdownTimeout, fc.HTTP.ShutdownTimeout, "http.shutdown_timeout"); err != nil {
		return err
	}
	setString(&cfg.Store.Driver, fc.Store.Driver)
	setString(&cfg.Store.DataPath, fc.Store.DataPath)
	setString(&cfg.Store.SQLitePath, fc.Store.SQLitePath)
	setString(&cfg.Store.MigrationsDir, fc.Store.MigrationsDir)
	setString(&cfg.Logging.Level, fc.Logging.Level)
	setString(&cfg.Logging.Format, fc.Logging.Format)
	cfg.Logging.IncludeCaller = cfg.Logging.IncludeCaller || fc.Logging.IncludeCaller
	setString(&cfg.Export.LinkSecret, fc.Export.LinkSecret)
	return setDuration(&cfg.Export.LinkTTL, fc.Export.LinkTTL, "export.link_ttl")
}

func applyEnv(cfg *Config) {
	cfg.HTTP.Addr = utils.SafeEnv("NPS_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.StaticDir = utils.SafeEnv("NPS_STATIC_DIR", cfg.HTTP.StaticDir)
	if v := utils.SafeEnv("NPS_ALLOWED_ORIGINS", ""); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	cfg.Store.Driver = strings.ToLower(utils.SafeEnv("NPS_STORE_DRIVER", cfg.Store.Driver))
	cfg.Store.DataPath = utils.SafeEnv("NPS_DATA_PATH", cfg.Store.DataPath)
	cfg.Store.SQLitePath = utils.SafeEnv("NPS_SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.MigrationsDir = utils.SafeEnv("NPS_MIGRATIONS_DIR", cfg.Store.MigrationsDir)
	cfg.Logging.Level = utils.SafeEnv("NPS_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = utils.SafeEnv("NPS_LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = utils.EnvBool("NPS_LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)
	cfg.Export.LinkSecret = utils.SafeEnv("NPS_EXPORT_SECRET", cfg.Export.LinkSecret)
	cfg.Export.LinkTTL = utils.EnvDuration("NPS_EXPORT_LINK_TTL", cfg.Export.LinkTTL)
	cfg.Build.Commit = utils.SafeEnv("NPS_COMMIT", cfg.Build.Commit)
	cfg.Build.BuildTime = utils.SafeEnv("NPS_BUILD_TIME", cfg.Build.BuildTime)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverCSV:
		if strings.TrimSpace(c.Store.DataPath) == "" {
			return errors.New("store.data_path is required for the csv driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Export.LinkTTL <= 0 {
		return fmt.Errorf("export link ttl must be positive, got %s", c.Export.LinkTTL)
	}
	return nil
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*dst = d
	return nil
}

func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
