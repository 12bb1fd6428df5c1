// Package config implements environment-driven configuration for the kernel
// binary, read through a pluggable dotenv provider.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults mirrored from the reference behavior.
const (
	DefaultQueueCap     = 100
	DefaultAdminUser    = "andre"
	DefaultAdminPass    = "admin123"
	DefaultHostname     = "jc-os"
	DefaultParkInterval = 5 * time.Millisecond
)

// Config holds the resolved kernel configuration.
type Config struct {
	QueueCap     int
	AdminUser    string
	AdminPass    string
	Hostname     string
	ClockEnabled bool
	ParkInterval time.Duration
}

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// GodotenvProvider is an implementation wrapping the Godotenv framework.
type GodotenvProvider struct{}

// Read reads dotenv-style configuration files into a map (map[key]value).
func (*GodotenvProvider) Read(filenames ...string) (map[string]string, error) {
	data, err := godotenv.Read(filenames...)
	if err != nil {
		return data, fmt.Errorf("(config-godotenv) %w", err)
	}

	return data, nil
}

// Handler resolves a [Config] from defaults, an optional dotenv file and the
// process environment, in ascending precedence.
type Handler struct {
	provider genericConfigProvider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(provider genericConfigProvider) *Handler {
	return &Handler{provider: provider}
}

// Load resolves the configuration. A missing or unreadable dotenv file is not
// an error; it is logged and skipped.
func (h *Handler) Load(filenames ...string) Config {
	cfg := Config{
		QueueCap:     DefaultQueueCap,
		AdminUser:    DefaultAdminUser,
		AdminPass:    DefaultAdminPass,
		Hostname:     DefaultHostname,
		ClockEnabled: true,
		ParkInterval: DefaultParkInterval,
	}

	envMap, err := h.provider.Read(filenames...)
	if err != nil {
		slog.Debug("No dotenv configuration read.", "err", err)

		envMap = map[string]string{}
	}

	lookup := func(key string) (string, bool) {
		if value, exists := os.LookupEnv(key); exists {
			return value, true
		}
		if value, exists := envMap[key]; exists {
			return value, true
		}

		return "", false
	}

	if value, ok := lookup("JCOS_QUEUE_CAP"); ok {
		if capacity, err := strconv.Atoi(value); err == nil && capacity > 0 {
			cfg.QueueCap = capacity
		} else {
			slog.Warn("Ignoring invalid queue capacity.", "value", value)
		}
	}

	if value, ok := lookup("JCOS_ADMIN_USER"); ok && value != "" {
		cfg.AdminUser = value
	}

	if value, ok := lookup("JCOS_ADMIN_PASS"); ok && value != "" {
		cfg.AdminPass = value
	}

	if value, ok := lookup("JCOS_HOSTNAME"); ok && value != "" {
		cfg.Hostname = value
	}

	if value, ok := lookup("JCOS_CLOCK"); ok {
		cfg.ClockEnabled = value != "0" && value != "false"
	}

	if value, ok := lookup("JCOS_PARK_MS"); ok {
		if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
			cfg.ParkInterval = time.Duration(ms) * time.Millisecond
		} else {
			slog.Warn("Ignoring invalid park interval.", "value", value)
		}
	}

	return cfg
}
