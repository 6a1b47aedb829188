// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the fetcher configuration. Precedence is
// ENV > YAML file > defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg, err := Resolve(path)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve merges defaults, the optional YAML file and the environment
// without validating. Callers that apply CLI overrides validate afterwards.
func Resolve(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	mergeEnv(&cfg)
	return cfg, nil
}

func mergeFile(dst *Config, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, dst)
}

// decodeStrict decodes a single YAML document onto dst. Keys absent from
// the document keep the values already in dst.
func decodeStrict(data []byte, dst *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if isYAMLUnknownFieldError(err) {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func isYAMLUnknownFieldError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "field") && strings.Contains(msg, "not found")
}
