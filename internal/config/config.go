// Package config loads taskboard settings from defaults, an optional YAML
// file, and TASKBOARD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix   = "TASKBOARD"
	DefaultFile = "taskboard.yaml"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Board   BoardConfig   `mapstructure:"board" yaml:"board"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

type BoardConfig struct {
	APIURL          string        `mapstructure:"api_url" yaml:"api_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	PageSize        int           `mapstructure:"page_size" yaml:"page_size"`
	DueAlerts       bool          `mapstructure:"due_alerts" yaml:"due_alerts"`
	AlertBuffer     int           `mapstructure:"alert_buffer" yaml:"alert_buffer"`
	// DesktopAlerts also forwards due alerts to notify-send or osascript.
	DesktopAlerts bool `mapstructure:"desktop_alerts" yaml:"desktop_alerts"`
}

type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "taskboard.db",
		},
		Board: BoardConfig{
			APIURL:          "http://127.0.0.1:8080",
			RefreshInterval: 30 * time.Second,
			RequestTimeout:  10 * time.Second,
			PageSize:        10,
			DueAlerts:       true,
			AlertBuffer:     64,
		},
		Log: LogConfig{
			Path:  "taskboard.log",
			Level: "info",
		},
	}
}

// Load resolves the configuration. An empty path looks for DefaultFile in the
// working directory and skips it when absent; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("board.api_url", d.Board.APIURL)
	v.SetDefault("board.refresh_interval", d.Board.RefreshInterval)
	v.SetDefault("board.request_timeout", d.Board.RequestTimeout)
	v.SetDefault("board.page_size", d.Board.PageSize)
	v.SetDefault("board.due_alerts", d.Board.DueAlerts)
	v.SetDefault("board.alert_buffer", d.Board.AlertBuffer)
	v.SetDefault("board.desktop_alerts", d.Board.DesktopAlerts)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("%w: storage.path is required for sqlite", ErrInvalid)
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("%w: storage.dsn is required for postgres", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalid, c.Storage.Driver)
	}
	if c.Board.RefreshInterval <= 0 {
		return fmt.Errorf("%w: board.refresh_interval must be positive", ErrInvalid)
	}
	if c.Board.RequestTimeout <= 0 {
		return fmt.Errorf("%w: board.request_timeout must be positive", ErrInvalid)
	}
	if c.Board.PageSize <= 0 {
		return fmt.Errorf("%w: board.page_size must be positive", ErrInvalid)
	}
	if c.Board.AlertBuffer <= 0 {
		return fmt.Errorf("%w: board.alert_buffer must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

const header = "# taskboard configuration\n# Every key can be overridden with " + EnvPrefix + "_<SECTION>_<KEY>, e.g. " + EnvPrefix + "_STORAGE_DRIVER.\n"

// Marshal renders cfg as YAML under a header naming the env overrides.
func Marshal(cfg Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append([]byte(header), body...), nil
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}
	out, err := Marshal(Default())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, out, 0o644)
}
