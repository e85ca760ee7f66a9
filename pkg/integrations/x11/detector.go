package x11

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"seltext/pkg/window"
)

// Detector implements window.Detector for X11. It talks the X protocol
// directly and falls back to xdotool/xprop when the connection cannot be made
// (for example when the X authority cookie is not readable).
type Detector struct {
	mu         sync.Mutex
	client     *Client
	hasXdotool bool
	hasXprop   bool
}

// NewDetector creates a new X11 detector
func NewDetector() *Detector {
	d := &Detector{}
	d.hasXdotool = d.commandExists("xdotool")
	d.hasXprop = d.commandExists("xprop")
	return d
}

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsAvailable checks if X11 detection is available
func (d *Detector) IsAvailable() bool {
	return os.Getenv("DISPLAY") != ""
}

// GetDisplayServer returns "x11"
func (d *Detector) GetDisplayServer() string {
	return "x11"
}

// GetFocusedWindow returns information about the currently focused window
func (d *Detector) GetFocusedWindow() (*window.WindowInfo, error) {
	info, err := d.getFocusedWindowProtocol()
	if err == nil {
		return info, nil
	}

	if d.hasXdotool {
		log.Printf("x11: protocol lookup failed (%v), using xdotool", err)
		return d.getFocusedWindowXdotool()
	}
	return nil, err
}

func (d *Detector) connection() (*Client, error) {
	if d.client != nil {
		return d.client, nil
	}
	client, err := Dial()
	if err != nil {
		return nil, err
	}
	d.client = client
	return client, nil
}

// getFocusedWindowProtocol reads _NET_ACTIVE_WINDOW and friends over the wire
func (d *Detector) getFocusedWindowProtocol() (*window.WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, err := d.connection()
	if err != nil {
		return nil, err
	}

	win, err := client.ActiveWindow()
	if err != nil {
		// drop the connection so a restarted X server is picked up next time
		client.Close()
		d.client = nil
		return nil, err
	}

	instance, class := client.WindowClass(win)
	pid := client.WindowPID(win)

	processName := ""
	if pid != 0 {
		processName = getProcessName(strconv.FormatUint(uint64(pid), 10))
	}

	return &window.WindowInfo{
		AppName:       pickAppName(class, instance, processName),
		WindowTitle:   client.WindowName(win),
		ProcessName:   processName,
		PID:           pid,
		DisplayServer: "x11",
	}, nil
}

// getFocusedWindowXdotool uses xdotool to get focused window info
func (d *Detector) getFocusedWindowXdotool() (*window.WindowInfo, error) {
	windowIDOutput, err := exec.Command("xdotool", "getactivewindow").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get active x11 window ID: %w", err)
	}

	windowID := strings.TrimSpace(string(windowIDOutput))

	windowNameOutput, err := exec.Command("xdotool", "getwindowname", windowID).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get window name: %w", err)
	}

	class := ""
	if d.hasXprop {
		if classOutput, err := exec.Command("xprop", "-id", windowID, "WM_CLASS").Output(); err == nil {
			class = parseWMClass(string(classOutput))
		}
	}

	// PID lookup may fail for Flatpak/sandboxed apps
	var pid uint32
	processName := ""
	if pidOutput, err := exec.Command("xdotool", "getwindowpid", windowID).Output(); err == nil {
		pidStr := strings.TrimSpace(string(pidOutput))
		if n, err := strconv.ParseUint(pidStr, 10, 32); err == nil {
			pid = uint32(n)
		}
		processName = getProcessName(pidStr)
	}

	return &window.WindowInfo{
		AppName:       pickAppName(class, "", processName),
		WindowTitle:   strings.TrimSpace(string(windowNameOutput)),
		ProcessName:   processName,
		PID:           pid,
		DisplayServer: "x11",
	}, nil
}

// pickAppName prefers the WM_CLASS class, which is stable for Flatpak apps
func pickAppName(class, instance, processName string) string {
	for _, name := range []string{class, instance, processName} {
		if name != "" {
			return name
		}
	}
	return window.Unknown
}

// parseWMClass extracts the class name from xprop's WM_CLASS output
func parseWMClass(output string) string {
	parts := strings.SplitN(output, "=", 2)
	if len(parts) < 2 {
		return ""
	}

	classes := strings.Split(strings.TrimSpace(parts[1]), ",")
	return strings.Trim(classes[len(classes)-1], "\" ")
}

// getProcessName retrieves process name from PID
func getProcessName(pid string) string {
	output, err := exec.Command("ps", "-p", pid, "-o", "comm=").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// Close cleans up resources
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		d.client.Close()
		d.client = nil
	}
	return nil
}
