package darwin

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <stdlib.h>
#include <ApplicationServices/ApplicationServices.h>

extern char *seltext_copy_cfstring(CFStringRef s);

// Walks the on-screen window list front to back and reports the first
// normal-layer window, the same window the user is typing into.
static int seltext_front_window(char **owner, char **title, int *pid) {
	CFArrayRef list = CGWindowListCopyWindowInfo(
		kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
		kCGNullWindowID);
	if (list == NULL) {
		return 1;
	}

	int rc = 2;
	CFIndex n = CFArrayGetCount(list);
	for (CFIndex i = 0; i < n; i++) {
		CFDictionaryRef w = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);

		int layer = -1;
		CFNumberRef layerRef = (CFNumberRef)CFDictionaryGetValue(w, kCGWindowLayer);
		if (layerRef != NULL) {
			CFNumberGetValue(layerRef, kCFNumberIntType, &layer);
		}
		if (layer != 0) {
			continue;
		}

		CFNumberRef pidRef = (CFNumberRef)CFDictionaryGetValue(w, kCGWindowOwnerPID);
		if (pidRef != NULL) {
			CFNumberGetValue(pidRef, kCFNumberIntType, pid);
		}
		*owner = seltext_copy_cfstring((CFStringRef)CFDictionaryGetValue(w, kCGWindowOwnerName));
		*title = seltext_copy_cfstring((CFStringRef)CFDictionaryGetValue(w, kCGWindowName));
		rc = 0;
		break;
	}

	CFRelease(list);
	return rc;
}
*/
import "C"

import (
	"fmt"

	"seltext/pkg/window"
)

// Detector implements window.Detector with the CoreGraphics window list
type Detector struct{}

// NewDetector creates a new macOS detector
func NewDetector() *Detector {
	return &Detector{}
}

// IsAvailable always returns true on macOS
func (d *Detector) IsAvailable() bool {
	return true
}

// GetDisplayServer returns "quartz"
func (d *Detector) GetDisplayServer() string {
	return "quartz"
}

// GetFocusedWindow returns the frontmost normal window
func (d *Detector) GetFocusedWindow() (*window.WindowInfo, error) {
	var owner, title *C.char
	var pid C.int

	switch rc := C.seltext_front_window(&owner, &title, &pid); rc {
	case 0:
	case 1:
		return nil, fmt.Errorf("CGWindowListCopyWindowInfo returned no list")
	default:
		return nil, fmt.Errorf("no frontmost window")
	}

	appName := goString(owner)
	if appName == "" {
		appName = window.Unknown
	}

	return &window.WindowInfo{
		AppName:       appName,
		WindowTitle:   goString(title),
		ProcessName:   appName,
		PID:           uint32(pid),
		DisplayServer: "quartz",
	}, nil
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}
