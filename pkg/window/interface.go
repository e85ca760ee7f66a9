package window

// WindowInfo represents information about the currently focused window
type WindowInfo struct {
	AppName       string
	WindowTitle   string
	ProcessName   string
	PID           uint32
	DisplayServer string // "x11", "wayland" or "quartz"
}

// Detector is the interface that all focused-window implementations must satisfy
type Detector interface {
	// GetFocusedWindow returns information about the currently focused window
	GetFocusedWindow() (*WindowInfo, error)

	// IsAvailable checks if this detector can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server type
	GetDisplayServer() string

	// Close cleans up any resources used by the detector
	Close() error
}
