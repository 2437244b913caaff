package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"addr":           ":3001",
			"db_path":        "~/.voice-reminder/reminders.db",
			"stats_schedule": "@every 30s",
			"gin_mode":       "release",
		},
		"client": map[string]interface{}{
			"transport":   TransportHTTP,
			"base_url":    "http://localhost:3001",
			"timeout":     10,
			"mcp_command": "mcp-reminder",
			"mcp_args":    []string{},
		},
		"announce": map[string]interface{}{
			"interval_ms": 5000, // earlier builds used 10000
			"autostart":   false,
		},
		"alert": map[string]interface{}{
			"enabled":     true,
			"interval_ms": 1000,
		},
		"speech": map[string]interface{}{
			"backend":    SpeechAuto,
			"command":    "",
			"args":       []string{},
			"locale":     "ru-RU",
			"voice":      "",
			"queue_size": 32,
		},
		"features": map[string]interface{}{
			"sorting":       true,
			"notes":         true,
			"default_order": "date",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"log_file":       "~/.voice-reminder/console.log",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.voice-reminder/config.yaml"
}
