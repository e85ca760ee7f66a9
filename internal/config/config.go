package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"seltext/pkg/detector"
)

// Config holds all application configuration
type Config struct {
	// Clipboard simulation
	Clipboard ClipboardConfig `yaml:"clipboard"`

	// Extraction journal
	Journal JournalConfig `yaml:"journal"`

	// Polling mode
	Watch WatchConfig `yaml:"watch"`

	// Hotkey mode
	Hotkey HotkeyConfig `yaml:"hotkey"`

	// Background process management
	Daemon DaemonConfig `yaml:"daemon"`
}

// ClipboardConfig selects how the clipboard fallback copies the selection
type ClipboardConfig struct {
	Backend      string        `yaml:"backend"`   // native or command
	Keystroke    string        `yaml:"keystroke"` // auto, xtest, xdotool, wtype or robotgo
	PreCopyDelay time.Duration `yaml:"pre_copy_delay"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
}

// JournalConfig holds database-related configuration
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Empty means ~/.config/seltext/seltext.db
}

// WatchConfig holds polling behavior configuration
type WatchConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval"`
	MinPollInterval time.Duration `yaml:"-"`
	MaxPollInterval time.Duration `yaml:"-"`
}

// HotkeyConfig holds the global shortcut for listen mode
type HotkeyConfig struct {
	Combo string `yaml:"combo"`
}

// DaemonConfig holds the files of the long-running modes
type DaemonConfig struct {
	PIDFile string `yaml:"pid_file"`
	LogFile string `yaml:"log_file"`
}

const (
	minDelay = 10 * time.Millisecond
	maxDelay = 2 * time.Second
)

var (
	backends   = []string{"native", "command"}
	keystrokes = []string{"auto", "xtest", "xdotool", "wtype", "robotgo"}
)

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Clipboard: ClipboardConfig{
			Backend:      "native",
			Keystroke:    "auto",
			PreCopyDelay: 50 * time.Millisecond,
			SettleDelay:  100 * time.Millisecond,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "",
		},
		Watch: WatchConfig{
			PollInterval:    2 * time.Second,
			MinPollInterval: 250 * time.Millisecond,
			MaxPollInterval: 60 * time.Second,
		},
		Hotkey: HotkeyConfig{
			Combo: "ctrl+shift+c",
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/seltext-%d.pid", os.Getuid()),
			LogFile: fmt.Sprintf("/tmp/seltext-%d.log", os.Getuid()),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !oneOf(c.Clipboard.Backend, backends) {
		return fmt.Errorf("clipboard backend must be one of %s, got %q",
			strings.Join(backends, ", "), c.Clipboard.Backend)
	}

	if !oneOf(c.Clipboard.Keystroke, keystrokes) {
		return fmt.Errorf("keystroke method must be one of %s, got %q",
			strings.Join(keystrokes, ", "), c.Clipboard.Keystroke)
	}

	if err := checkDelay("pre-copy delay", c.Clipboard.PreCopyDelay); err != nil {
		return err
	}
	if err := checkDelay("settle delay", c.Clipboard.SettleDelay); err != nil {
		return err
	}

	if c.Watch.PollInterval < c.Watch.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Watch.PollInterval, c.Watch.MinPollInterval)
	}

	if c.Watch.PollInterval > c.Watch.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Watch.PollInterval, c.Watch.MaxPollInterval)
	}

	if strings.TrimSpace(c.Hotkey.Combo) == "" {
		return fmt.Errorf("hotkey combo cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

func checkDelay(name string, d time.Duration) error {
	if d < minDelay || d > maxDelay {
		return fmt.Errorf("%s must be between %v and %v, got %v", name, minDelay, maxDelay, d)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Watch.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Watch.MinPollInterval)
	}
	if interval > c.Watch.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Watch.MaxPollInterval)
	}
	c.Watch.PollInterval = interval
	return nil
}

// SetClipboardBackend sets the clipboard backend with validation
func (c *Config) SetClipboardBackend(backend string) error {
	if !oneOf(backend, backends) {
		return fmt.Errorf("unknown clipboard backend %q", backend)
	}
	c.Clipboard.Backend = backend
	return nil
}

// SetKeystroke sets the copy keystroke method with validation
func (c *Config) SetKeystroke(method string) error {
	if !oneOf(method, keystrokes) {
		return fmt.Errorf("unknown keystroke method %q", method)
	}
	c.Clipboard.Keystroke = method
	return nil
}

// DetectorOptions returns the clipboard settings in the form the platform
// factory takes
func (c *Config) DetectorOptions() detector.Options {
	return detector.Options{
		ClipboardBackend: c.Clipboard.Backend,
		Keystroke:        c.Clipboard.Keystroke,
		PreCopyDelay:     c.Clipboard.PreCopyDelay,
		SettleDelay:      c.Clipboard.SettleDelay,
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Clipboard:
    Backend: %s
    Keystroke: %s
    Pre-copy Delay: %v
    Settle Delay: %v
  Journal:
    Enabled: %v
    Path: %s
  Watch:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
  Hotkey:
    Combo: %s
  Daemon:
    PID File: %s
    Log File: %s`,
		c.Clipboard.Backend,
		c.Clipboard.Keystroke,
		c.Clipboard.PreCopyDelay,
		c.Clipboard.SettleDelay,
		c.Journal.Enabled,
		c.Journal.Path,
		c.Watch.PollInterval,
		c.Watch.MinPollInterval,
		c.Watch.MaxPollInterval,
		c.Hotkey.Combo,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
	)
}
