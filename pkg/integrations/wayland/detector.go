package wayland

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"seltext/pkg/window"
)

// Detector implements window.Detector for Wayland
type Detector struct {
	compositor string
	hasSwaymsg bool
	hasHyprctl bool
	hasGdbus   bool
}

// NewDetector creates a new Wayland detector
func NewDetector() *Detector {
	d := &Detector{}
	d.hasSwaymsg = d.commandExists("swaymsg")
	d.hasHyprctl = d.commandExists("hyprctl")
	d.hasGdbus = d.commandExists("gdbus")
	d.compositor = d.detectCompositor()
	return d
}

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// detectCompositor attempts to detect the Wayland compositor, first from the
// environment and then from the running processes.
func (d *Detector) detectCompositor() string {
	if os.Getenv("SWAYSOCK") != "" {
		return "sway"
	}
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return "hyprland"
	}

	compositors := []struct{ process, name string }{
		{"sway", "sway"},
		{"Hyprland", "hyprland"},
		{"gnome-shell", "gnome"},
		{"kwin_wayland", "kde"},
	}

	for _, c := range compositors {
		if err := exec.Command("pgrep", "-x", c.process).Run(); err == nil {
			return c.name
		}
	}

	return "unknown"
}

// Compositor returns the detected compositor name
func (d *Detector) Compositor() string {
	return d.compositor
}

// IsAvailable checks if Wayland detection is available
func (d *Detector) IsAvailable() bool {
	switch d.compositor {
	case "sway":
		return d.hasSwaymsg
	case "hyprland":
		return d.hasHyprctl
	case "gnome":
		return d.hasGdbus
	case "kde":
		return true
	default:
		return false
	}
}

// GetDisplayServer returns "wayland"
func (d *Detector) GetDisplayServer() string {
	return "wayland"
}

// GetFocusedWindow returns information about the currently focused window
func (d *Detector) GetFocusedWindow() (*window.WindowInfo, error) {
	var (
		info *window.WindowInfo
		err  error
	)

	switch d.compositor {
	case "sway":
		info, err = d.getFocusedWindowSway()
	case "hyprland":
		info, err = d.getFocusedWindowHyprland()
	case "gnome":
		info, err = d.getFocusedWindowGnome()
	case "kde":
		info, err = d.getFocusedWindowKDE()
	default:
		return nil, fmt.Errorf("unsupported wayland compositor: %s", d.compositor)
	}
	if err != nil {
		return nil, err
	}

	info.DisplayServer = "wayland"
	if info.ProcessName == "" && info.PID != 0 {
		info.ProcessName = getProcessName(strconv.FormatUint(uint64(info.PID), 10))
	}
	return info, nil
}

// swayNode is the subset of a sway tree node we care about
type swayNode struct {
	Focused          bool   `json:"focused"`
	Name             string `json:"name"`
	AppID            string `json:"app_id"`
	PID              uint32 `json:"pid"`
	WindowProperties *struct {
		Class string `json:"class"`
	} `json:"window_properties"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

// getFocusedWindowSway gets focused window info from Sway
func (d *Detector) getFocusedWindowSway() (*window.WindowInfo, error) {
	output, err := exec.Command("swaymsg", "-t", "get_tree", "-r").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute swaymsg: %w", err)
	}
	return parseSwayTree(output)
}

// parseSwayTree finds the focused leaf in a sway get_tree document
func parseSwayTree(data []byte) (*window.WindowInfo, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	node := findFocused(&root)
	if node == nil {
		return nil, fmt.Errorf("no focused sway window")
	}

	appName := node.AppID
	if appName == "" && node.WindowProperties != nil {
		appName = node.WindowProperties.Class
	}
	if appName == "" {
		appName = window.Unknown
	}

	return &window.WindowInfo{
		AppName:     appName,
		WindowTitle: node.Name,
		PID:         node.PID,
	}, nil
}

func findFocused(n *swayNode) *swayNode {
	if n.Focused && n.PID != 0 {
		return n
	}
	for i := range n.Nodes {
		if found := findFocused(&n.Nodes[i]); found != nil {
			return found
		}
	}
	for i := range n.FloatingNodes {
		if found := findFocused(&n.FloatingNodes[i]); found != nil {
			return found
		}
	}
	return nil
}

// getFocusedWindowHyprland gets focused window info from Hyprland
func (d *Detector) getFocusedWindowHyprland() (*window.WindowInfo, error) {
	output, err := exec.Command("hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute hyprctl: %w", err)
	}
	return parseHyprlandWindow(output)
}

// parseHyprlandWindow parses `hyprctl activewindow -j`
func parseHyprlandWindow(data []byte) (*window.WindowInfo, error) {
	var active struct {
		Class string `json:"class"`
		Title string `json:"title"`
		PID   int64  `json:"pid"`
	}
	if err := json.Unmarshal(data, &active); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	if active.Class == "" && active.PID <= 0 {
		return nil, fmt.Errorf("no focused hyprland window")
	}

	appName := active.Class
	if appName == "" {
		appName = window.Unknown
	}

	var pid uint32
	if active.PID > 0 {
		pid = uint32(active.PID)
	}

	return &window.WindowInfo{
		AppName:     appName,
		WindowTitle: active.Title,
		PID:         pid,
	}, nil
}

// getFocusedWindowGnome gets focused window info from GNOME Shell via D-Bus
func (d *Detector) getFocusedWindowGnome() (*window.WindowInfo, error) {
	script := `
	try {
		let win = global.get_window_actors().find(w => w.meta_window && w.meta_window.has_focus());
		if (win && win.meta_window) {
			(win.meta_window.get_wm_class() || '') + '|||' + (win.meta_window.get_title() || '');
		} else {
			'|||';
		}
	} catch(e) {
		'|||';
	}
	`

	output, err := exec.Command("gdbus", "call", "--session",
		"--dest", "org.gnome.Shell",
		"--object-path", "/org/gnome/Shell",
		"--method", "org.gnome.Shell.Eval",
		script).Output()

	if err == nil {
		if info := parseGnomeEval(string(output)); info != nil {
			return info, nil
		}
	}

	// Shell.Eval is disabled on recent GNOME; XWayland windows are still visible to xprop
	if d.commandExists("xprop") {
		info, xErr := getFocusedWindowXWayland()
		if xErr == nil {
			return info, nil
		}
		return nil, fmt.Errorf("GNOME window detection failed: gdbus Shell.Eval blocked, xprop failed: %v", xErr)
	}

	return nil, fmt.Errorf("GNOME window detection failed: gdbus Shell.Eval blocked and xprop unavailable")
}

// parseGnomeEval parses gdbus output such as (true, 'firefox|||Title')
func parseGnomeEval(output string) *window.WindowInfo {
	result := strings.TrimSpace(output)
	if !strings.HasPrefix(result, "(true,") {
		return nil
	}

	result = strings.TrimPrefix(result, "(true,")
	result = strings.TrimSuffix(result, ")")
	result = strings.Trim(strings.TrimSpace(result), "'\"")

	parts := strings.SplitN(result, "|||", 2)
	if parts[0] == "" {
		return nil
	}

	info := &window.WindowInfo{AppName: parts[0]}
	if len(parts) == 2 {
		info.WindowTitle = parts[1]
	}
	return info
}

// getFocusedWindowXWayland uses the XWayland bridge
func getFocusedWindowXWayland() (*window.WindowInfo, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("DISPLAY environment variable not set (XWayland not available)")
	}

	rootOutput, err := exec.Command("xprop", "-root", "_NET_ACTIVE_WINDOW").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to get active window from root: %w (output: %s)", err, string(rootOutput))
	}

	// _NET_ACTIVE_WINDOW(WINDOW): window id # 0x80032b
	windowID := ""
	if parts := strings.Split(string(rootOutput), "# "); len(parts) >= 2 {
		windowID = strings.TrimSpace(parts[1])
	}
	if windowID == "" || windowID == "0x0" {
		return nil, fmt.Errorf("no active window found (focused window may be native Wayland)")
	}

	nameOutput, _ := exec.Command("xprop", "-id", windowID, "WM_NAME").Output()
	classOutput, _ := exec.Command("xprop", "-id", windowID, "WM_CLASS").Output()

	appName := parseWMClass(string(classOutput))
	if appName == "" {
		appName = window.Unknown
	}

	return &window.WindowInfo{
		AppName:     appName,
		WindowTitle: parseXPropString(string(nameOutput)),
	}, nil
}

// parseXPropString parses xprop string output like: WM_NAME(STRING) = "title"
func parseXPropString(output string) string {
	parts := strings.SplitN(output, "=", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(parts[1]), "\"")
}

// parseWMClass extracts class from WM_CLASS output
func parseWMClass(output string) string {
	parts := strings.SplitN(output, "=", 2)
	if len(parts) != 2 {
		return ""
	}
	classes := strings.Split(strings.TrimSpace(parts[1]), ",")
	return strings.Trim(classes[len(classes)-1], "\" ")
}

// getFocusedWindowKDE gets focused window info from KDE Plasma
func (d *Detector) getFocusedWindowKDE() (*window.WindowInfo, error) {
	script := `
	var clients = workspace.clientList();
	for (var i = 0; i < clients.length; i++) {
		if (clients[i].active) {
			print(clients[i].resourceClass + "|" + clients[i].caption + "|" + clients[i].pid);
		}
	}
	`

	output, err := exec.Command("qdbus", "org.kde.KWin", "/Scripting", "org.kde.kwin.Scripting.loadScript", script).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to query KDE window: %w", err)
	}

	return parseKDEOutput(string(output)), nil
}

// parseKDEOutput parses the class|caption|pid line printed by the KWin script
func parseKDEOutput(output string) *window.WindowInfo {
	parts := strings.Split(strings.TrimSpace(output), "|")
	info := &window.WindowInfo{AppName: window.Unknown}

	if len(parts) >= 1 && parts[0] != "" {
		info.AppName = parts[0]
	}
	if len(parts) >= 2 {
		info.WindowTitle = parts[1]
	}
	if len(parts) >= 3 {
		if pid, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 32); err == nil {
			info.PID = uint32(pid)
		}
	}
	return info
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
	return nil
}
