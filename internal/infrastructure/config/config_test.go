package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[app]
env = "development"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "icepoint-backend", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 10.0, cfg.Pricing.DiscountPercent)
	assert.Equal(t, 20.0, cfg.Pricing.DeliveryBaseFee)
	assert.Equal(t, 30.0, cfg.Pricing.DeliveryExtendedFee)
	assert.Equal(t, 9000, cfg.Pricing.DistanceThresholdMeter)
	assert.Equal(t, 7*24*time.Hour, cfg.Reviews.CacheTTL)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[app]
port = "9090"

[pricing]
discountpercent = 5.0
deliverybasefee = 15.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 5.0, cfg.Pricing.DiscountPercent)
	assert.Equal(t, 15.0, cfg.Pricing.DeliveryBaseFee)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ICEPOINT_APP_PORT", "7000")
	path := writeConfig(t, `
[app]
port = "9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.App.Port)
}

func TestValidate(t *testing.T) {
	t.Run("rejects out-of-range discount", func(t *testing.T) {
		path := writeConfig(t, `
[pricing]
discountpercent = 150.0
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("requires jwt secret in production", func(t *testing.T) {
		path := writeConfig(t, `
[app]
env = "production"
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("database DSN assembles all parts", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "icepoint", SSLMode: "disable"}
		assert.Equal(t, "host=db port=5432 user=u password=p dbname=icepoint sslmode=disable", cfg.DSN())
	})
}
