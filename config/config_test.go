package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Billing.NonConsumableKeys)
	assert.Empty(t, cfg.Billing.ConsumableKeys)
	assert.Empty(t, cfg.Billing.SubscriptionKeys)
	assert.False(t, cfg.Billing.Logging)
	assert.Equal(t, TransportMemory, cfg.Play.Transport)
	assert.Equal(t, "US", cfg.Play.RegionCode)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Minute, cfg.Receipts.CacheTTL)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("BILLING_CONSUMABLE_KEYS", "coin_pack,gem_pack")
	t.Setenv("BILLING_SUBSCRIPTION_KEYS", "gold")
	t.Setenv("BILLING_LOGGING", "true")
	t.Setenv("PLAY_TRANSPORT", TransportPlay)
	t.Setenv("RECEIPTS_CACHE_TTL", "30s")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"coin_pack", "gem_pack"}, cfg.Billing.ConsumableKeys)
	assert.Equal(t, []string{"gold"}, cfg.Billing.SubscriptionKeys)
	assert.True(t, cfg.Billing.Logging)
	assert.Equal(t, TransportPlay, cfg.Play.Transport)
	assert.Equal(t, 30*time.Second, cfg.Receipts.CacheTTL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	env := "BILLING_NON_CONSUMABLE_KEYS=remove_ads\nPLAY_PACKAGE_NAME=xyz.flipchat.app\nDATABASE_URL=postgres://localhost/billing\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	// godotenv writes straight into the process environment.
	t.Setenv("BILLING_NON_CONSUMABLE_KEYS", "")
	t.Setenv("PLAY_PACKAGE_NAME", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"remove_ads"}, cfg.Billing.NonConsumableKeys)
	assert.Equal(t, "xyz.flipchat.app", cfg.Play.PackageName)
	assert.True(t, cfg.Database.Enabled())
}
