// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the frontend settings from a TOML file.
package config

import (
	"github.com/BurntSushi/toml"
)

// Settings holds the frontend configuration.
type Settings struct {
	// HashSizeMB is the transposition table size in megabytes.
	HashSizeMB int `toml:"hash_size_mb"`
	// Depth is the default search depth in plies when a go command
	// gives no limits.
	Depth int `toml:"depth"`
	// LogLevel is the go-logging level for diagnostics.
	LogLevel string `toml:"log_level"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		HashSizeMB: 64,
		Depth:      30,
		LogLevel:   "INFO",
	}
}

// Load reads settings from a TOML file. Missing keys keep their
// defaults; an empty path returns the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
