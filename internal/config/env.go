package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default and file values
func LoadFromEnv(cfg *Config) {
	// Clipboard configuration
	if backend := os.Getenv("SELTEXT_CLIPBOARD_BACKEND"); backend != "" {
		_ = cfg.SetClipboardBackend(backend)
	}

	if method := os.Getenv("SELTEXT_KEYSTROKE"); method != "" {
		_ = cfg.SetKeystroke(method)
	}

	if delay := os.Getenv("SELTEXT_PRE_COPY_DELAY"); delay != "" {
		if ms, err := strconv.Atoi(delay); err == nil && ms > 0 {
			cfg.Clipboard.PreCopyDelay = time.Duration(ms) * time.Millisecond
		}
	}

	if delay := os.Getenv("SELTEXT_SETTLE_DELAY"); delay != "" {
		if ms, err := strconv.Atoi(delay); err == nil && ms > 0 {
			cfg.Clipboard.SettleDelay = time.Duration(ms) * time.Millisecond
		}
	}

	// Journal configuration
	if dbPath := os.Getenv("SELTEXT_DB_PATH"); dbPath != "" {
		cfg.Journal.Path = dbPath
	}

	if enabled := os.Getenv("SELTEXT_JOURNAL"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Journal.Enabled = val
		}
	}

	// Watch configuration
	if pollInterval := os.Getenv("SELTEXT_POLL_INTERVAL"); pollInterval != "" {
		if ms, err := strconv.Atoi(pollInterval); err == nil && ms > 0 {
			_ = cfg.SetPollInterval(time.Duration(ms) * time.Millisecond)
		}
	}

	// Hotkey configuration
	if combo := os.Getenv("SELTEXT_HOTKEY"); combo != "" {
		cfg.Hotkey.Combo = combo
	}

	// Daemon configuration
	if pidFile := os.Getenv("SELTEXT_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("SELTEXT_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}
}
