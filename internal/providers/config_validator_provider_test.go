package providers

import (
	"igmond/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/igmond.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Monitor: structures.MonitorConfig{
			Interval:              300 * time.Second,
			Pacing:                2 * time.Second,
			ConfirmationThreshold: 3,
			MaxUsernamesPerUser:   20,
			FetchMode:             "heuristic",
			FetchTimeout:          10 * time.Second,
		},
		Telegram: structures.TelegramConfig{
			Token: "123456:test-token",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidFetchMode(t *testing.T) {
	c := validConfig()
	c.Monitor.FetchMode = "magic"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroThreshold(t *testing.T) {
	c := validConfig()
	c.Monitor.ConfirmationThreshold = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingToken(t *testing.T) {
	c := validConfig()
	c.Telegram.Token = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
