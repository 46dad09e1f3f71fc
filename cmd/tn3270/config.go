// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/emu3270/tn3270"
)

type sessionConfig struct {
	Host           string
	Port           int
	TerminalType   string
	Codepage       tn3270.Codepage
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		Port:           23,
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

type fileConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	TerminalType   string `toml:"terminal_type"`
	Codepage       int    `toml:"codepage"`
	ConnectTimeout string `toml:"connect_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
}

func loadSessionConfig(path string) (sessionConfig, error) {
	cfg := defaultSessionConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return sessionConfig{}, fmt.Errorf("load session config: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}

	if meta.IsDefined("port") {
		if raw.Port <= 0 || raw.Port > 65535 {
			return sessionConfig{}, fmt.Errorf("port %d out of range", raw.Port)
		}
		cfg.Port = raw.Port
	}

	if meta.IsDefined("terminal_type") {
		cfg.TerminalType = strings.TrimSpace(raw.TerminalType)
	}

	if meta.IsDefined("codepage") {
		cp, ok := tn3270.CodepageByNumber(raw.Codepage)
		if !ok {
			return sessionConfig{}, fmt.Errorf("unsupported codepage %d", raw.Codepage)
		}
		cfg.Codepage = cp
	}

	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return sessionConfig{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}

	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return sessionConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	return cfg, nil
}
