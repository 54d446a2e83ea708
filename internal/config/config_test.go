package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"), nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, ":8081", cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 10*time.Second, cfg.WhoisTimeout)
	assert.Equal(t, time.Duration(0), cfg.WhoisCacheTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.True(t, cfg.BlockPrivateNetworks)
	assert.False(t, cfg.IsDev())
	assert.Same(t, cfg, AppConfig)
}

func TestLoadEnvFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_ENV=dev\nFETCH_TIMEOUT=4s\nWHOIS_CACHE_TTL=1h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("WHOIS_QPS", "0.5")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout, "environment overrides the env file")
	assert.Equal(t, time.Hour, cfg.WhoisCacheTTL)
	assert.InDelta(t, 0.5, cfg.WhoisQPS, 1e-9)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", ":8080", "")
	flags.Bool("block-private", true, "")
	require.NoError(t, flags.Parse([]string{"--listen=:7000", "--block-private=false"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.False(t, cfg.BlockPrivateNetworks)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero fetch timeout", key: FETCH_TIMEOUT, val: "0s"},
		{name: "negative whois qps", key: WHOIS_QPS, val: "-1"},
		{name: "negative cache ttl", key: WHOIS_CACHE_TTL, val: "-1m"},
		{name: "analyze shorter than fetch", key: ANALYZE_TIMEOUT, val: "1s"},
		{name: "zero body limit", key: MAX_BODY_BYTES, val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}
