// Package config loads the server's YAML configuration, following
// la2go's convention: a Default*() constructor with sane values,
// overridden field-by-field by whatever a config file supplies.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds every tunable the connection manager, dispatcher, tick
// loop, and area loader need. A single file covers the whole process;
// la2go splits login/game configs, but this server has only one
// listener so one struct suffices.
type Server struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	AreasDir    string `yaml:"areas_dir"`
	StartRoomVnum int  `yaml:"start_room_vnum"`

	MaxConnections     int `yaml:"max_connections"`
	MaxConnectionsPerIP int `yaml:"max_connections_per_ip"`

	RateLimitWindow    time.Duration `yaml:"rate_limit_window"`
	RateLimitThreshold int           `yaml:"rate_limit_threshold"`

	LogLevel string `yaml:"log_level"`

	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the player
// store (SPEC_FULL.md's supplemented persistence collaborator).
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns a Server config with the legacy defaults: port 4000,
// max 250 connections, 5 per peer.
func Default() Server {
	return Server{
		BindAddress:         "0.0.0.0",
		Port:                4000,
		AreasDir:            "areas",
		StartRoomVnum:       3001,
		MaxConnections:      250,
		MaxConnectionsPerIP: 5,
		RateLimitWindow:     time.Minute,
		RateLimitThreshold:  20,
		LogLevel:            "info",
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "mudforge",
			Password: "mudforge",
			DBName:  "mudforge",
			SSLMode: "disable",
		},
	}
}

// Load reads a YAML file at path and overlays it onto Default(). A
// missing file is not an error — the server runs on defaults, same as
// la2go's LoadLoginServer.
func Load(path string) (Server, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
