package network

import (
	"fmt"
	"os"
)

// Environment variables consulted by ResolveConfig.
const (
	EnvRPCURL  = "METACHAIN_RPC_URL"
	EnvRPCUser = "METACHAIN_RPC_USER"
	EnvRPCPass = "METACHAIN_RPC_PASS"
)

// RPCConfig holds the connection parameters for a node's JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// NetworkPresets contains default RPC configurations for known networks:
// a local node on the network's default RPC port.
var NetworkPresets = map[string]RPCConfig{
	"mainnet": {URL: "http://127.0.0.1:8332", User: "user", Password: "password"},
	"testnet": {URL: "http://127.0.0.1:18332", User: "user", Password: "password"},
	"regtest": {URL: "http://127.0.0.1:18332", User: "user", Password: "password"},
}

// ResolveConfig merges RPC configuration from three sources with decreasing priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (METACHAIN_RPC_URL, METACHAIN_RPC_USER, METACHAIN_RPC_PASS)
//  3. Network presets (lowest priority)
func ResolveConfig(flags *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}

	// Layer 1: start with preset defaults if available.
	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	// Layer 2: environment variables override preset defaults.
	if env != nil {
		if v, ok := env[EnvRPCURL]; ok && v != "" {
			result.URL = v
		}
		if v, ok := env[EnvRPCUser]; ok && v != "" {
			result.User = v
		}
		if v, ok := env[EnvRPCPass]; ok && v != "" {
			result.Password = v
		}
	}

	// Layer 3: CLI flags have highest priority.
	if flags != nil {
		if flags.URL != "" {
			result.URL = flags.URL
		}
		if flags.User != "" {
			result.User = flags.User
		}
		if flags.Password != "" {
			result.Password = flags.Password
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("%w: %q requires explicit RPC configuration (set --rpc-url or %s)", ErrUnknownNetwork, network, EnvRPCURL)
	}

	return &result, nil
}

// EnvConfig collects the RPC environment variables of the current process.
func EnvConfig() map[string]string {
	env := make(map[string]string)
	for _, key := range []string{EnvRPCURL, EnvRPCUser, EnvRPCPass} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env
}
