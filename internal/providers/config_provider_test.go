package providers

import (
	"igmond/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
monitor:
  interval: 300s
  pacing: 2s
  confirmationThreshold: 3
  maxUsernamesPerUser: 20
  fetchMode: heuristic
  fetchTimeout: 10s
telegram:
  token: "123456:test-token"
  ownerId: 42
  adminIds: [7, 8]
webServer:
  host: 0.0.0.0
  port: 8080
persistence:
  filePath: /tmp/igmond.dat
  saveInterval: 30s
logger:
  level: info
  mode: 420
  dir: /tmp/logs
cache:
  enabled: true
  size: 16
metrics:
  enabled: true
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfigProvider_LoadsConfig(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleConfig)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "InstagramMonitorDaemon", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 300*time.Second, conf.Monitor.Interval)
	assert.Equal(t, 2*time.Second, conf.Monitor.Pacing)
	assert.Equal(t, 3, conf.Monitor.ConfirmationThreshold)
	assert.Equal(t, "heuristic", conf.Monitor.FetchMode)
	assert.Equal(t, int64(42), conf.Telegram.OwnerID)
	assert.Equal(t, []int64{7, 8}, conf.Telegram.AdminIDs)
	assert.Equal(t, 8080, conf.WebServer.Port)
	assert.Equal(t, 30*time.Second, conf.Persistence.SaveInterval)
	assert.True(t, conf.Cache.Enabled)
	assert.Equal(t, 16, conf.Cache.Size)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/dir/absent.yaml"})
	assert.Error(t, err)
}

func TestNewConfigProvider_FailsValidation(t *testing.T) {
	// No telegram token.
	path := writeConfig(t, "broken.yaml", `
monitor:
  interval: 300s
  confirmationThreshold: 3
  fetchMode: heuristic
  fetchTimeout: 10s
webServer:
  host: 0.0.0.0
  port: 8080
persistence:
  filePath: /tmp/igmond.dat
  saveInterval: 30s
logger:
  level: info
  mode: 420
  dir: /tmp/logs
`)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
