package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Script  string `env:"EMBEDHOST_TEST_SCRIPT"  envDefault:"embed.lua"`
	Verbose bool   `env:"EMBEDHOST_TEST_VERBOSE"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Script != "embed.lua" {
		t.Fatalf("expected default script embed.lua, got %q", cfg.Script)
	}
	if cfg.Verbose {
		t.Fatal("expected verbose to default to false")
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("EMBEDHOST_TEST_SCRIPT", "other.lua")
	t.Setenv("EMBEDHOST_TEST_VERBOSE", "true")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Script != "other.lua" {
		t.Fatalf("expected script override, got %q", cfg.Script)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose override")
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("EMBEDHOST_TEST_VERBOSE", "not-a-bool")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
