package detector

import (
	"testing"

	"github.com/pkg/errors"

	"seltext/pkg/selection"
)

func TestNew(t *testing.T) {
	c, err := New(DefaultOptions())
	if err != nil {
		t.Skipf("no window detector available: %v", err)
	}
	defer c.Close()

	if c.Detector == nil || c.Accessibility == nil || c.Clipboard == nil {
		t.Fatalf("New() returned incomplete components: %+v", c)
	}
	t.Logf("display server: %s, accessibility: %s, clipboard: %s",
		c.Detector.GetDisplayServer(), c.Accessibility.Name(), c.Clipboard.Name())

	info, err := c.Detector.GetFocusedWindow()
	if err != nil {
		t.Logf("GetFocusedWindow() error: %v", err)
	} else {
		t.Logf("Current window: %s - %s", info.AppName, info.WindowTitle)
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		want           string
	}{
		{name: "Wayland session", sessionType: "wayland", waylandDisplay: "wayland-0", want: "wayland"},
		{name: "X11 session", sessionType: "x11", x11Display: ":0", want: "x11"},
		{name: "Unknown session", want: "unknown"},
		{name: "Wayland display set", waylandDisplay: "wayland-1", want: "wayland"},
		{name: "X11 display set", x11Display: ":1", want: "x11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			if got := DetectDisplayServer(); got != tt.want {
				t.Errorf("DetectDisplayServer() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewBackendUnknown(t *testing.T) {
	if _, err := NewBackend("carrier-pigeon"); err == nil {
		t.Error("NewBackend() with an unknown name should fail")
	}
}

func TestUnavailableExtractor(t *testing.T) {
	e := Unavailable("accessibility", errors.New("not trusted"))

	text, err := e.Extract()
	if text != "" || !errors.Is(err, selection.ErrExtractorUnavailable) {
		t.Errorf("Extract() = %q, %v; want empty, ErrExtractorUnavailable", text, err)
	}
	if e.Name() != "accessibility (unavailable)" {
		t.Errorf("Name() = %q", e.Name())
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.ClipboardBackend != "native" || opts.Keystroke != "auto" {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if opts.PreCopyDelay <= 0 || opts.SettleDelay <= opts.PreCopyDelay {
		t.Errorf("unexpected default delays: %+v", opts)
	}
}
