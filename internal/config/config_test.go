package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.TCP.ReadBuffer != DefaultReadBuffer {
		t.Errorf("read buffer should be %d instead of %d", DefaultReadBuffer, c.TCP.ReadBuffer)
	}
	if !c.Runtime.WaitForThreads {
		t.Error("threads should be awaited by default")
	}
	if c.Runtime.MaxArrayGrowth != DefaultMaxArrayGrowth || c.Runtime.InlineCache != DefaultInlineCache {
		t.Errorf("unexpected runtime defaults %+v", c.Runtime)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[log]
level = "debug"
format = "json"

[tcp]
read_buffer = 1024

[rng]
seed = 42
`)

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Log.Level != "debug" || c.Log.Format != "json" {
		t.Errorf("unexpected log section %+v", c.Log)
	}
	if c.TCP.ReadBuffer != 1024 {
		t.Errorf("read buffer should be 1024 instead of %d", c.TCP.ReadBuffer)
	}
	if c.RNG.Seed != 42 {
		t.Errorf("seed should be 42 instead of %d", c.RNG.Seed)
	}
	// Untouched sections keep their defaults
	if !c.Runtime.WaitForThreads {
		t.Error("wait_for_threads should keep its default")
	}
	if c.Path == "" {
		t.Error("path should be set")
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		msg     string
	}{
		{"unknown key", "[tcp]\nbuffer = 1\n", "unknown keys"},
		{"bad format", "[log]\nformat = \"xml\"\n", "log.format"},
		{"bad buffer", "[tcp]\nread_buffer = 0\n", "tcp.read_buffer"},
		{"bad growth", "[runtime]\nmax_array_growth = -1\n", "runtime.max_array_growth"},
		{"bad cache", "[runtime]\ninline_cache = 0\n", "runtime.inline_cache"},
		{"bad toml", "[tcp\n", "parse error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected error containing %q, got %v", tc.msg, err)
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[tcp]\nread_buffer = 16\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if c.TCP.ReadBuffer != 16 {
		t.Errorf("config from parent dir should be loaded, read buffer is %d", c.TCP.ReadBuffer)
	}
}
