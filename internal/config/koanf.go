// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinegraph/config.yaml",
	"/etc/cinegraph/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix marks variables that map onto config keys.
const envPrefix = "cinegraph_"

var sections = map[string]bool{
	"logging":   true,
	"graph":     true,
	"community": true,
	"recommend": true,
	"cache":     true,
	"store":     true,
	"server":    true,
}

// envAliases are short names kept for operator convenience.
var envAliases = map[string]string{
	"log_level":    "logging.level",
	"log_format":   "logging.format",
	"log_caller":   "logging.caller",
	"model_path":   "recommend.model_path",
	"store_path":   "store.path",
	"metrics_addr": "server.metrics_addr",
}

// sliceConfigPaths arrive from the environment comma separated.
var sliceConfigPaths = []string{
	"community.strategies",
}

// Load reads defaults, then the first config file found, then the
// environment, and validates the result.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps CINEGRAPH_GRAPH_MAX_NODES to graph.max_nodes and
// resolves the aliases. Anything else is dropped so that unrelated
// variables never reach the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envAliases[key]; ok {
		return mapped
	}

	rest, ok := strings.CutPrefix(key, envPrefix)
	if !ok {
		return ""
	}
	section, field, ok := strings.Cut(rest, "_")
	if !ok || field == "" || !sections[section] {
		return ""
	}
	return section + "." + field
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
