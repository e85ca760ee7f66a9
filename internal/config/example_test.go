package config_test

import (
	"fmt"
	"time"

	"seltext/internal/config"
)

// Example of creating a default configuration
func ExampleDefault() {
	cfg := config.Default()
	fmt.Println("Clipboard Backend:", cfg.Clipboard.Backend)
	fmt.Println("Settle Delay:", cfg.Clipboard.SettleDelay)
	fmt.Println("Poll Interval:", cfg.Watch.PollInterval)
	fmt.Println("Hotkey:", cfg.Hotkey.Combo)
	// Output:
	// Clipboard Backend: native
	// Settle Delay: 100ms
	// Poll Interval: 2s
	// Hotkey: ctrl+shift+c
}

// Example of setting poll interval with validation
func ExampleConfig_SetPollInterval() {
	cfg := config.Default()

	// Valid interval
	if err := cfg.SetPollInterval(5 * time.Second); err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Println("Poll interval set to:", cfg.Watch.PollInterval)
	}

	// Invalid interval (too low)
	if err := cfg.SetPollInterval(100 * time.Millisecond); err != nil {
		fmt.Println("Error:", err)
	}

	// Output:
	// Poll interval set to: 5s
	// Error: poll interval cannot be less than 250ms
}

// Example of validating configuration
func ExampleConfig_Validate() {
	cfg := config.Default()

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	} else {
		fmt.Println("Configuration is valid")
	}

	cfg.Clipboard.Backend = "osc52"
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	}

	// Output:
	// Configuration is valid
	// Invalid config: clipboard backend must be one of native, command, got "osc52"
}
