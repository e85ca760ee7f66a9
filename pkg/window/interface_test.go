package window

import (
	"errors"
	"testing"
	"time"
)

type MockDetector struct {
	windowInfo    *WindowInfo
	windowErr     error
	isAvailable   bool
	displayServer string
	closeError    error
}

func (m *MockDetector) GetFocusedWindow() (*WindowInfo, error) {
	return m.windowInfo, m.windowErr
}

func (m *MockDetector) IsAvailable() bool {
	return m.isAvailable
}

func (m *MockDetector) GetDisplayServer() string {
	return m.displayServer
}

func (m *MockDetector) Close() error {
	return m.closeError
}

func TestMockDetector(t *testing.T) {
	var _ Detector = (*MockDetector)(nil)

	mock := &MockDetector{
		windowInfo: &WindowInfo{
			AppName:       "TestApp",
			WindowTitle:   "Test Window",
			ProcessName:   "test",
			DisplayServer: "x11",
		},
		isAvailable:   true,
		displayServer: "x11",
	}

	windowInfo, err := mock.GetFocusedWindow()
	if err != nil {
		t.Errorf("GetFocusedWindow() error: %v", err)
	}
	if windowInfo.AppName != "TestApp" {
		t.Errorf("AppName = %s, want TestApp", windowInfo.AppName)
	}

	if !mock.IsAvailable() {
		t.Error("IsAvailable() = false, want true")
	}

	if mock.GetDisplayServer() != "x11" {
		t.Errorf("GetDisplayServer() = %s, want x11", mock.GetDisplayServer())
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestAppID(t *testing.T) {
	tests := []struct {
		name string
		info *WindowInfo
		want string
	}{
		{
			name: "nil window",
			info: nil,
			want: "",
		},
		{
			name: "app name wins",
			info: &WindowInfo{AppName: "firefox", ProcessName: "firefox-bin"},
			want: "firefox",
		},
		{
			name: "unknown app falls back to process",
			info: &WindowInfo{AppName: Unknown, ProcessName: "code"},
			want: "code",
		},
		{
			name: "blank app falls back to process",
			info: &WindowInfo{AppName: "  ", ProcessName: "kitty"},
			want: "kitty",
		},
		{
			name: "nothing usable",
			info: &WindowInfo{AppName: Unknown, ProcessName: ""},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppID(tt.info); got != tt.want {
				t.Errorf("AppID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolverActiveAppID(t *testing.T) {
	mock := &MockDetector{
		windowInfo: &WindowInfo{
			AppName:       "Firefox",
			WindowTitle:   "Mozilla Firefox",
			ProcessName:   "firefox",
			DisplayServer: "wayland",
		},
		isAvailable: true,
	}

	id, err := NewResolver(mock).ActiveAppID()
	if err != nil {
		t.Fatalf("ActiveAppID() error: %v", err)
	}
	if id != "Firefox" {
		t.Errorf("ActiveAppID() = %q, want Firefox", id)
	}
}

func TestResolverErrors(t *testing.T) {
	tests := []struct {
		name string
		mock *MockDetector
	}{
		{"detector error", &MockDetector{windowErr: errors.New("no X server")}},
		{"unknown window", &MockDetector{windowInfo: &WindowInfo{AppName: Unknown}}},
		{"nil window", &MockDetector{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResolver(tt.mock).ActiveAppID(); err == nil {
				t.Error("ActiveAppID() error = nil, want error")
			}
		})
	}
}

func TestDetectorLifecycle(t *testing.T) {
	mock := &MockDetector{
		windowInfo: &WindowInfo{
			AppName:       "TestApp",
			WindowTitle:   "Test",
			ProcessName:   "test",
			DisplayServer: "x11",
		},
		isAvailable:   true,
		displayServer: "x11",
	}

	if !mock.IsAvailable() {
		t.Fatal("Detector should be available")
	}

	resolver := NewResolver(mock)
	for i := 0; i < 5; i++ {
		if _, err := resolver.ActiveAppID(); err != nil {
			t.Errorf("Iteration %d: ActiveAppID() error: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func ExampleResolver() {
	mock := &MockDetector{
		windowInfo: &WindowInfo{
			AppName:       "Firefox",
			WindowTitle:   "Example Page",
			ProcessName:   "firefox",
			DisplayServer: "x11",
		},
		isAvailable:   true,
		displayServer: "x11",
	}

	if mock.IsAvailable() {
		id, _ := NewResolver(mock).ActiveAppID()
		println("Current app:", id)
	}
}
