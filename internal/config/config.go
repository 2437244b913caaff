package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment override, e.g. VOICE_REMINDER_SERVER__ADDR.
const EnvPrefix = "VOICE_REMINDER_"

// Gateway transports the console can use.
const (
	TransportHTTP  = "http"
	TransportMCP   = "mcp"
	TransportLocal = "local"
)

// Speech backends.
const (
	SpeechAuto    = "auto"
	SpeechCommand = "command"
	SpeechNone    = "none"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Client   ClientConfig   `koanf:"client"`
	Announce AnnounceConfig `koanf:"announce"`
	Alert    AlertConfig    `koanf:"alert"`
	Speech   SpeechConfig   `koanf:"speech"`
	Features FeaturesConfig `koanf:"features"`
	UI       UIConfig       `koanf:"ui"`
}

type ServerConfig struct {
	Addr          string `koanf:"addr"`
	DBPath        string `koanf:"db_path"`
	StatsSchedule string `koanf:"stats_schedule"` // cron schedule of the metrics refresh job
	GinMode       string `koanf:"gin_mode"`
}

type ClientConfig struct {
	Transport  string   `koanf:"transport"`
	BaseURL    string   `koanf:"base_url"`
	Timeout    int      `koanf:"timeout"` // seconds
	MCPCommand string   `koanf:"mcp_command"`
	MCPArgs    []string `koanf:"mcp_args"`
}

type AnnounceConfig struct {
	IntervalMS int  `koanf:"interval_ms"`
	Autostart  bool `koanf:"autostart"`
}

type AlertConfig struct {
	Enabled    bool `koanf:"enabled"`
	IntervalMS int  `koanf:"interval_ms"`
}

type SpeechConfig struct {
	Backend   string   `koanf:"backend"`
	Command   string   `koanf:"command"`
	Args      []string `koanf:"args"`
	Locale    string   `koanf:"locale"`
	Voice     string   `koanf:"voice"`
	QueueSize int      `koanf:"queue_size"`
}

type FeaturesConfig struct {
	Sorting      bool   `koanf:"sorting"`
	Notes        bool   `koanf:"notes"`
	DefaultOrder string `koanf:"default_order"`
}

type UIConfig struct {
	ColoredOutput bool   `koanf:"colored_output"`
	LogFile       string `koanf:"log_file"`
}

// Interval returns the announcement cadence.
func (c AnnounceConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Interval returns the blink period.
func (c AlertConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// RequestTimeout returns the deadline of one gateway call, whatever the transport.
func (c ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = ExpandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// VOICE_REMINDER_SPEECH__BACKEND -> speech.backend
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.DBPath = ExpandPath(cfg.Server.DBPath)
	cfg.UI.LogFile = ExpandPath(cfg.UI.LogFile)

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Client.Transport {
	case TransportHTTP:
		if c.Client.BaseURL == "" {
			return fmt.Errorf("client.base_url is required for the %s transport", TransportHTTP)
		}
	case TransportMCP:
		if c.Client.MCPCommand == "" {
			return fmt.Errorf("client.mcp_command is required for the %s transport", TransportMCP)
		}
	case TransportLocal:
		if c.Server.DBPath == "" {
			return fmt.Errorf("server.db_path is required for the %s transport", TransportLocal)
		}
	default:
		return fmt.Errorf("unknown transport: %s (supported: %s, %s, %s)",
			c.Client.Transport, TransportHTTP, TransportMCP, TransportLocal)
	}

	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}

	if c.Announce.IntervalMS <= 0 {
		return fmt.Errorf("announce.interval_ms must be positive")
	}

	if c.Alert.IntervalMS <= 0 {
		return fmt.Errorf("alert.interval_ms must be positive")
	}

	switch c.Speech.Backend {
	case SpeechAuto, SpeechCommand, SpeechNone:
	default:
		return fmt.Errorf("unknown speech backend: %s (supported: %s, %s, %s)",
			c.Speech.Backend, SpeechAuto, SpeechCommand, SpeechNone)
	}

	switch c.Features.DefaultOrder {
	case "date", "status":
	default:
		return fmt.Errorf("unknown default_order: %s (supported: date, status)", c.Features.DefaultOrder)
	}

	return nil
}

// ValidateServer checks the settings used by the backend binaries.
func (c *Config) ValidateServer() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("server.db_path is required")
	}
	return nil
}

// ExpandPath resolves a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
