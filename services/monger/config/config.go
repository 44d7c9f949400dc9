// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the monger service configuration from a YAML
// file with environment-variable overrides. The file is optional;
// every field has a usable default for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the HTTP listener configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LLMConfig selects and tunes the model backend.
type LLMConfig struct {
	// Backend is "openai" or "sidecar".
	Backend        string        `yaml:"backend"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	MaxTokens      int           `yaml:"max_tokens"`
	SidecarURL     string        `yaml:"sidecar_url"`
	SidecarTimeout time.Duration `yaml:"sidecar_timeout"`
}

// DataConfig locates the on-disk data files.
type DataConfig struct {
	CharacterPath string `yaml:"character_path"`
	ReferralsPath string `yaml:"referrals_path"`
	// WatchReferrals reloads referral data when the file changes.
	WatchReferrals bool `yaml:"watch_referrals"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
	// Dir enables dated JSON log files in addition to stderr when set.
	Dir string `yaml:"dir"`
}

// Config is the full service configuration.
type Config struct {
	Version string       `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	LLM     LLMConfig    `yaml:"llm"`
	Data    DataConfig   `yaml:"data"`
	Log     LogConfig    `yaml:"log"`
	// Tracing enables the stdout span exporter.
	Tracing bool `yaml:"tracing"`
}

// Default returns the development configuration.
func Default() Config {
	return Config{
		Version: "1.0.0",
		Server:  ServerConfig{Host: "0.0.0.0", Port: 3002},
		LLM: LLMConfig{
			Backend:     "openai",
			Model:       "gpt-4o",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Data: DataConfig{
			CharacterPath: "config/monger.json",
			ReferralsPath: "config/referrals.json",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path (optional) over the defaults, then applies MONGER_*
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv layers MONGER_* environment variables over cfg. Unset and
// unparseable values leave the existing value alone.
func applyEnv(cfg *Config) {
	envString("MONGER_HOST", &cfg.Server.Host)
	envInt("MONGER_PORT", &cfg.Server.Port)
	envString("MONGER_LLM_BACKEND", &cfg.LLM.Backend)
	envString("MONGER_LLM_MODEL", &cfg.LLM.Model)
	envString("MONGER_SIDECAR_URL", &cfg.LLM.SidecarURL)
	envString("MONGER_CHARACTER_PATH", &cfg.Data.CharacterPath)
	envString("MONGER_REFERRALS_PATH", &cfg.Data.ReferralsPath)
	envBool("MONGER_WATCH_REFERRALS", &cfg.Data.WatchReferrals)
	envString("MONGER_LOG_LEVEL", &cfg.Log.Level)
	envString("MONGER_LOG_DIR", &cfg.Log.Dir)
	envBool("MONGER_TRACING", &cfg.Tracing)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
