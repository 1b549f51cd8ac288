package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkPresets(t *testing.T) {
	tests := []struct {
		name    string
		network string
		url     string
	}{
		{"mainnet defaults", "mainnet", "http://127.0.0.1:8332"},
		{"testnet defaults", "testnet", "http://127.0.0.1:18332"},
		{"regtest defaults", "regtest", "http://127.0.0.1:18332"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, ok := NetworkPresets[tt.network]
			require.True(t, ok, "preset should exist for %s", tt.network)
			assert.Equal(t, tt.url, preset.URL)
			assert.Equal(t, "user", preset.User)
			assert.Equal(t, "password", preset.Password)
		})
	}
}

func TestResolveConfigFlagsOverrideAll(t *testing.T) {
	flags := &RPCConfig{URL: "http://custom:9999", User: "me", Password: "secret"}
	env := map[string]string{EnvRPCURL: "http://env:1", EnvRPCUser: "envuser", EnvRPCPass: "envpass"}
	cfg, err := ResolveConfig(flags, env, "testnet")
	require.NoError(t, err)
	assert.Equal(t, "http://custom:9999", cfg.URL)
	assert.Equal(t, "me", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "testnet", cfg.Network)
}

func TestResolveConfigEnvOverridesPreset(t *testing.T) {
	env := map[string]string{
		EnvRPCURL:  "http://env-node:18332",
		EnvRPCUser: "envuser",
	}
	cfg, err := ResolveConfig(nil, env, "testnet")
	require.NoError(t, err)
	assert.Equal(t, "http://env-node:18332", cfg.URL)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "password", cfg.Password) // falls through to preset
}

func TestResolveConfigPresetFallback(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8332", cfg.URL)
	assert.Equal(t, "mainnet", cfg.Network)
}

func TestResolveConfigEmptyEnvValuesIgnored(t *testing.T) {
	cfg, err := ResolveConfig(nil, map[string]string{EnvRPCURL: ""}, "testnet")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:18332", cfg.URL)
}

func TestResolveConfigUnknownNetwork(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "stn")
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	cfg, err := ResolveConfig(&RPCConfig{URL: "http://stn:9332"}, nil, "stn")
	require.NoError(t, err)
	assert.Equal(t, "http://stn:9332", cfg.URL)
	assert.Empty(t, cfg.User)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv(EnvRPCURL, "http://from-env:1")
	t.Setenv(EnvRPCUser, "u")
	env := EnvConfig()
	assert.Equal(t, "http://from-env:1", env[EnvRPCURL])
	assert.Equal(t, "u", env[EnvRPCUser])
}
