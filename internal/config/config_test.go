package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults on empty config", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)

		assert.Equal(t, 300.0, cfg.Display.Thresholds.Warning)
		assert.Equal(t, 1200.0, cfg.Display.Thresholds.Critical)
		assert.Equal(t, 1800.0, cfg.Display.MaxScale)
		assert.Equal(t, 100, cfg.History.Capacity)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "PC", cfg.Kasa.Alias)
	})

	t.Run("reads values from file", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
homeassistant:
  host: http://homeassistant.local:8123
  token: abc123
  device_name: desk_plug
kasa:
  device_ip: 192.168.1.50
display:
  thresholds:
    warning: 150
    critical: 600
  max_scale: 900
history:
  capacity: 250
`))
		require.NoError(t, err)

		assert.Equal(t, "http://homeassistant.local:8123", cfg.HomeAssistant.Host)
		assert.True(t, cfg.HomeAssistant.Configured())
		assert.True(t, cfg.Kasa.Configured())
		assert.Equal(t, 150.0, cfg.Display.Thresholds.Warning)
		assert.Equal(t, 600.0, cfg.Display.Thresholds.Critical)
		assert.Equal(t, 900.0, cfg.Display.MaxScale)
		assert.Equal(t, 250, cfg.History.Capacity)
	})

	t.Run("derives entity ids from device name", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
homeassistant:
  device_name: desk_plug
`))
		require.NoError(t, err)

		assert.Equal(t, "sensor.desk_plug_current_consumption", cfg.HomeAssistant.EntityID)
		assert.Equal(t, "sensor.desk_plug_current", cfg.HomeAssistant.CurrentEntityID)
	})

	t.Run("explicit entity id wins over derivation", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
homeassistant:
  device_name: desk_plug
  entity_id: sensor.office_power
`))
		require.NoError(t, err)

		assert.Equal(t, "sensor.office_power", cfg.HomeAssistant.EntityID)
		assert.Equal(t, "sensor.desk_plug_current", cfg.HomeAssistant.CurrentEntityID)
	})

	t.Run("reads token sidecar when config omits it", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("homeassistant:\n  host: http://ha.local:8123\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, TokenFileName), []byte("secret-token\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "secret-token", cfg.HomeAssistant.Token)
	})

	t.Run("ignores legacy kasa credential keys", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
kasa:
  device_ip: 192.168.1.50
  username: someone@example.com
  password: hunter2
`))
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.50", cfg.Kasa.DeviceIP)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		for name, content := range map[string]string{
			"inverted thresholds": "display:\n  thresholds:\n    warning: 900\n    critical: 300\n",
			"zero max scale":      "display:\n  max_scale: 0\n",
			"tiny capacity":       "history:\n  capacity: 1\n",
			"bad log level":       "logging:\n  level: loud\n",
			"bad kasa ip":         "kasa:\n  device_ip: not-an-ip\n",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := Load(writeConfig(t, content))
				assert.Error(t, err)
			})
		}
	})
}

func TestRedactToken(t *testing.T) {
	assert.Equal(t, "not configured", RedactToken(""))
	assert.Equal(t, "****", RedactToken("short"))
	assert.Equal(t, "eyJh...9xyz", RedactToken("eyJhbGciOiJIUzI1NiJ9xyz"))
}
