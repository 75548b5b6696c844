package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/speedcam/module/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "/speedcam/vehicle/+/position", cfg.MQTT.PositionTopic)
	assert.Equal(t, domain.DefaultEngineConfig(), cfg.EngineConfig())
	assert.True(t, cfg.Engine.IndexFailOpen)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/cams.db")
	t.Setenv("CRITICAL_M", "200")
	t.Setenv("ESCALATE", "false")
	t.Setenv("INDEX_FAIL_OPEN", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/cams.db", cfg.Store.SQLitePath)
	assert.Equal(t, 200.0, cfg.EngineConfig().Thresholds.CriticalM)
	assert.False(t, cfg.EngineConfig().Escalate)
	assert.False(t, cfg.Engine.IndexFailOpen)
}

func TestLoad_WarningDistanceOverridesWarningOnly(t *testing.T) {
	t.Setenv("WARNING_DISTANCE_M", "700")

	cfg, err := Load()
	require.NoError(t, err)

	e := cfg.EngineConfig()
	assert.Equal(t, 700.0, e.Thresholds.WarningM)
	assert.Equal(t, 300.0, e.Thresholds.CriticalM)
	assert.Equal(t, 1000.0, e.Thresholds.NoticeM)
}

func TestLoad_WarningDistanceMisordered(t *testing.T) {
	t.Setenv("WARNING_DISTANCE_M", "1200")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidThresholds))
}

func TestLoad_MisorderedThresholds(t *testing.T) {
	t.Setenv("CRITICAL_M", "600")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("NOTICE_M", "far")

	_, err := Load()
	assert.ErrorContains(t, err, "NOTICE_M")
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speedcam.yaml")
	yamlDoc := `
http_port: "9090"
log_format: json
engine:
  search_radius_km: 3
  critical_m: 250
  warning_m: 500
  notice_m: 1000
  clearance_m: 2000
  escalate: true
  index_fail_open: false
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3.0, cfg.Engine.SearchRadiusKM)
	assert.Equal(t, 2000.0, cfg.EngineConfig().ClearanceM)
	assert.False(t, cfg.Engine.IndexFailOpen)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	logger := NewLogger(cfg)
	assert.NotNil(t, logger)
}
