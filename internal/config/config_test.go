package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SELTEXT_CLIPBOARD_BACKEND", "command")
	t.Setenv("SELTEXT_KEYSTROKE", "wtype")
	t.Setenv("SELTEXT_SETTLE_DELAY", "250")
	t.Setenv("SELTEXT_DB_PATH", "/tmp/test.db")
	t.Setenv("SELTEXT_JOURNAL", "false")
	t.Setenv("SELTEXT_POLL_INTERVAL", "500")
	t.Setenv("SELTEXT_HOTKEY", "super+alt+s")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.Clipboard.Backend != "command" {
		t.Errorf("Backend = %s, want command", cfg.Clipboard.Backend)
	}
	if cfg.Clipboard.Keystroke != "wtype" {
		t.Errorf("Keystroke = %s, want wtype", cfg.Clipboard.Keystroke)
	}
	if cfg.Clipboard.SettleDelay != 250*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 250ms", cfg.Clipboard.SettleDelay)
	}
	if cfg.Journal.Path != "/tmp/test.db" || cfg.Journal.Enabled {
		t.Errorf("Journal = %+v", cfg.Journal)
	}
	if cfg.Watch.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.Watch.PollInterval)
	}
	if cfg.Hotkey.Combo != "super+alt+s" {
		t.Errorf("Combo = %s", cfg.Hotkey.Combo)
	}
}

func TestLoadFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("SELTEXT_CLIPBOARD_BACKEND", "osc52")
	t.Setenv("SELTEXT_POLL_INTERVAL", "10")
	t.Setenv("SELTEXT_JOURNAL", "maybe")

	cfg := Default()
	LoadFromEnv(cfg)
	def := Default()

	if cfg.Clipboard.Backend != def.Clipboard.Backend {
		t.Errorf("Backend = %s, want default", cfg.Clipboard.Backend)
	}
	if cfg.Watch.PollInterval != def.Watch.PollInterval {
		t.Errorf("PollInterval = %v, want default", cfg.Watch.PollInterval)
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled changed by an unparsable value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown keystroke", func(c *Config) { c.Clipboard.Keystroke = "morse" }},
		{"delay too short", func(c *Config) { c.Clipboard.PreCopyDelay = time.Millisecond }},
		{"delay too long", func(c *Config) { c.Clipboard.SettleDelay = 5 * time.Second }},
		{"poll too fast", func(c *Config) { c.Watch.PollInterval = 10 * time.Millisecond }},
		{"poll too slow", func(c *Config) { c.Watch.PollInterval = time.Hour }},
		{"empty hotkey", func(c *Config) { c.Hotkey.Combo = " " }},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `clipboard:
  backend: command
  settle_delay: 300ms
watch:
  poll_interval: 5s
hotkey:
  combo: ctrl+alt+x
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Clipboard.Backend != "command" {
		t.Errorf("Backend = %s, want command", cfg.Clipboard.Backend)
	}
	if cfg.Clipboard.SettleDelay != 300*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 300ms", cfg.Clipboard.SettleDelay)
	}
	if cfg.Clipboard.PreCopyDelay != 50*time.Millisecond {
		t.Errorf("PreCopyDelay = %v, want the default to survive", cfg.Clipboard.PreCopyDelay)
	}
	if cfg.Watch.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.Watch.PollInterval)
	}
	if cfg.Watch.MinPollInterval != 250*time.Millisecond {
		t.Errorf("MinPollInterval = %v, not settable from the file", cfg.Watch.MinPollInterval)
	}
	if cfg.Hotkey.Combo != "ctrl+alt+x" {
		t.Errorf("Combo = %s", cfg.Hotkey.Combo)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("hotkey:\n  combo: ctrl+alt+x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SELTEXT_CONFIG", path)
	t.Setenv("SELTEXT_HOTKEY", "ctrl+shift+v")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Hotkey.Combo != "ctrl+shift+v" {
		t.Errorf("Combo = %s, want the environment value", cfg.Hotkey.Combo)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing explicit file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("clipboard: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("clipboard:\n  keystroke: morse\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Error("Load() of an invalid configuration should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Clipboard.Keystroke = "xdotool"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Clipboard.Keystroke != "xdotool" {
		t.Errorf("Keystroke = %s, want xdotool", loaded.Clipboard.Keystroke)
	}
}

func TestDetectorOptions(t *testing.T) {
	cfg := Default()
	cfg.Clipboard.Backend = "command"

	opts := cfg.DetectorOptions()
	if opts.ClipboardBackend != "command" || opts.SettleDelay != cfg.Clipboard.SettleDelay {
		t.Errorf("DetectorOptions() = %+v", opts)
	}
}
