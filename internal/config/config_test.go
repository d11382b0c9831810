// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaultsProduceValidConfig(t *testing.T) {
	cfg, err := NewConfigFromViper(newDefaultViper())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Explore.MaxDepth)
	assert.Equal(t, "exploration_reports", cfg.Explore.OutputDir)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 90*time.Second, cfg.Network.NavigationTimeout)
	assert.Equal(t, time.Second, cfg.Network.PolitenessDelay)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Oracle.Enabled())
}

func TestDepthValidation(t *testing.T) {
	tests := []struct {
		depth   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{3, false},
		{5, false},
		{6, true},
		{-1, true},
	}
	for _, tt := range tests {
		v := newDefaultViper()
		v.Set("explore.max_depth", tt.depth)
		_, err := NewConfigFromViper(v)
		if tt.wantErr {
			assert.Error(t, err, "depth %d should be rejected", tt.depth)
		} else {
			assert.NoError(t, err, "depth %d should be accepted", tt.depth)
		}
	}
}

func TestValidationCatchesBadTimings(t *testing.T) {
	v := newDefaultViper()
	v.Set("network.navigation_timeout", "0s")
	_, err := NewConfigFromViper(v)
	assert.Error(t, err)

	v = newDefaultViper()
	v.Set("browser.idle_timeout", "-1s")
	_, err = NewConfigFromViper(v)
	assert.Error(t, err)
}

func TestOracleKeyFromEnv(t *testing.T) {
	t.Setenv("WEBSCOUT_ORACLE_API_KEY", "env-key")
	cfg, err := NewConfigFromViper(newDefaultViper())
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Oracle.APIKey)
	assert.True(t, cfg.Oracle.Enabled())
}

func TestEmptyOutputDirRejected(t *testing.T) {
	v := newDefaultViper()
	v.Set("explore.output_dir", "")
	_, err := NewConfigFromViper(v)
	assert.Error(t, err)
}
