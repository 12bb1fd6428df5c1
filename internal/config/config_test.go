package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapProvider struct {
	data map[string]string
	err  error
}

func (p *mapProvider) Read(_ ...string) (map[string]string, error) {
	return p.data, p.err
}

// TestLoad_Defaults tests the full default configuration.
func TestLoad_Defaults(t *testing.T) {
	h := NewHandler(&mapProvider{err: errors.New("no such file")})

	cfg := h.Load(".env")

	assert.Equal(t, DefaultQueueCap, cfg.QueueCap)
	assert.Equal(t, DefaultAdminUser, cfg.AdminUser)
	assert.Equal(t, DefaultAdminPass, cfg.AdminPass)
	assert.Equal(t, DefaultHostname, cfg.Hostname)
	assert.True(t, cfg.ClockEnabled)
	assert.Equal(t, DefaultParkInterval, cfg.ParkInterval)
}

// TestLoad_FromProvider tests dotenv-provided overrides.
func TestLoad_FromProvider(t *testing.T) {
	h := NewHandler(&mapProvider{data: map[string]string{
		"JCOS_QUEUE_CAP":  "32",
		"JCOS_ADMIN_USER": "root",
		"JCOS_ADMIN_PASS": "toor",
		"JCOS_HOSTNAME":   "testbox",
		"JCOS_CLOCK":      "0",
		"JCOS_PARK_MS":    "20",
	}})

	cfg := h.Load(".env")

	assert.Equal(t, 32, cfg.QueueCap)
	assert.Equal(t, "root", cfg.AdminUser)
	assert.Equal(t, "toor", cfg.AdminPass)
	assert.Equal(t, "testbox", cfg.Hostname)
	assert.False(t, cfg.ClockEnabled)
	assert.Equal(t, 20*time.Millisecond, cfg.ParkInterval)
}

// TestLoad_InvalidValues tests that malformed numbers fall back to defaults.
func TestLoad_InvalidValues(t *testing.T) {
	h := NewHandler(&mapProvider{data: map[string]string{
		"JCOS_QUEUE_CAP": "banana",
		"JCOS_PARK_MS":   "-5",
	}})

	cfg := h.Load(".env")

	assert.Equal(t, DefaultQueueCap, cfg.QueueCap)
	assert.Equal(t, DefaultParkInterval, cfg.ParkInterval)
}

// TestLoad_ProcessEnvPrecedence tests that process environment wins over the
// dotenv file.
func TestLoad_ProcessEnvPrecedence(t *testing.T) {
	t.Setenv("JCOS_HOSTNAME", "from-env")

	h := NewHandler(&mapProvider{data: map[string]string{
		"JCOS_HOSTNAME": "from-file",
	}})

	cfg := h.Load(".env")

	assert.Equal(t, "from-env", cfg.Hostname)
}
