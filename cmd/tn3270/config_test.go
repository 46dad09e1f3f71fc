// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSessionConfig(t *testing.T) {
	path := writeConfig(t, `
host = "mvs.example.com"
port = 2323
terminal_type = "IBM-3278-4-E"
codepage = 37
connect_timeout = "3s"
read_timeout = "1m"
`)

	cfg, err := loadSessionConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "mvs.example.com" || cfg.Port != 2323 {
		t.Errorf("host/port = %q/%d", cfg.Host, cfg.Port)
	}
	if cfg.TerminalType != "IBM-3278-4-E" {
		t.Errorf("terminal type = %q", cfg.TerminalType)
	}
	if cfg.Codepage == nil || cfg.Codepage.ID() != "037" {
		t.Errorf("codepage = %v", cfg.Codepage)
	}
	if cfg.ConnectTimeout != 3*time.Second || cfg.ReadTimeout != time.Minute {
		t.Errorf("timeouts = %v/%v", cfg.ConnectTimeout, cfg.ReadTimeout)
	}
}

func TestLoadSessionConfigDefaults(t *testing.T) {
	path := writeConfig(t, `host = "mvs.example.com"`)

	cfg, err := loadSessionConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := defaultSessionConfig()
	if cfg.Port != want.Port {
		t.Errorf("port = %d, want default %d", cfg.Port, want.Port)
	}
	if cfg.ConnectTimeout != want.ConnectTimeout {
		t.Errorf("connect timeout = %v", cfg.ConnectTimeout)
	}
	if cfg.Codepage != nil {
		t.Errorf("codepage should default to nil, got %v", cfg.Codepage)
	}
}

func TestLoadSessionConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad port", content: `port = 70000`},
		{name: "bad codepage", content: `codepage = 500`},
		{name: "bad duration", content: `connect_timeout = "fast"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := loadSessionConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
