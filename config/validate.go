// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btclog"

	"github.com/bitfsorg/metachain/codec"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if _, err := codec.ParseFamily(cfg.Encoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}

	if cfg.Attachments < 0 {
		return ErrInvalidAttachments
	}

	if _, ok := btclog.LevelFromString(strings.ToLower(cfg.LogLevel)); !ok {
		return ErrInvalidLogLevel
	}

	return nil
}
